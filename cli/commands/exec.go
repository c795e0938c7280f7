package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/G4brym/workers-qb/cli/internal/config"
	"github.com/G4brym/workers-qb/cli/internal/ui"
	"github.com/G4brym/workers-qb/query/ast"
	"github.com/G4brym/workers-qb/runtime/client"
)

var execCmd = &cobra.Command{
	Use:   "exec <descriptor.json>",
	Short: "Compile a descriptor and run it against the configured database",
	Args:  cobra.ExactArgs(1),
	RunE:  runExec,
}

var (
	execProvider string
	execURL      string
)

func init() {
	execCmd.Flags().StringVarP(&execProvider, "provider", "p", "", "database provider (overrides config)")
	execCmd.Flags().StringVar(&execURL, "url", "", "database connection string (overrides config)")

	rootCmd.AddCommand(execCmd)
}

func runExec(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if execProvider != "" {
		cfg.Provider = execProvider
	}
	if execURL != "" {
		cfg.DatabaseURL = execURL
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("no database URL configured; run `qb init` or pass --url")
	}

	data, err := afero.ReadFile(config.AppFs, args[0])
	if err != nil {
		return fmt.Errorf("read descriptor: %w", err)
	}
	node, err := ast.DecodeQuery(data)
	if err != nil {
		return fmt.Errorf("decode descriptor: %w", err)
	}

	c, err := client.Open(cfg.Provider, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	defer c.Disconnect(ctx)

	if err := c.Connect(ctx); err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	res, err := c.Run(ctx, node)
	if err != nil {
		return err
	}

	switch {
	case res.Row != nil:
		printRows([]map[string]any{res.Row})
	case len(res.Rows) > 0:
		printRows(res.Rows)
	default:
		ui.PrintSuccess("OK (%d rows written, %v)", res.Meta.RowsWritten, res.Meta.Duration)
		return nil
	}

	ui.PrintInfo("%d row(s) in %v", res.Meta.RowsRead, res.Meta.Duration)
	return nil
}

func printRows(rows []map[string]any) {
	cols := make([]string, 0, len(rows[0]))
	for col := range rows[0] {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	table := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, len(cols))
		for i, col := range cols {
			cells[i] = fmt.Sprintf("%v", row[col])
		}
		table = append(table, cells)
	}
	ui.PrintTable(cols, table)
}
