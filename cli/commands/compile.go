package commands

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/G4brym/workers-qb/cli/internal/config"
	"github.com/G4brym/workers-qb/cli/internal/ui"
	"github.com/G4brym/workers-qb/cli/internal/watch"
	"github.com/G4brym/workers-qb/query/ast"
	"github.com/G4brym/workers-qb/query/executor"
	"github.com/G4brym/workers-qb/query/sqlgen"
)

var compileCmd = &cobra.Command{
	Use:   "compile <descriptor.json>",
	Short: "Compile a descriptor into a SQL statement",
	Long: `Compile a JSON query descriptor into a parameterized SQL statement,
showing the SQL text, the ordered argument list and the fetch mode.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

var (
	compileProvider string
	compileWatch    bool
	compileExplain  bool
)

func init() {
	compileCmd.Flags().StringVarP(&compileProvider, "provider", "p", "", "also show the statement rebound for this backend (sqlite, postgres, mysql)")
	compileCmd.Flags().BoolVarP(&compileWatch, "watch", "w", false, "recompile whenever the descriptor file changes")
	compileCmd.Flags().BoolVar(&compileExplain, "explain", false, "render the result as annotated markdown")

	rootCmd.AddCommand(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	path := args[0]

	if !compileWatch {
		return compileFile(path)
	}

	watcher, err := watch.New(path, func() error {
		if err := compileFile(path); err != nil {
			ui.PrintError("%v", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := watcher.Start(); err != nil {
		return err
	}
	defer watcher.Stop()

	ui.PrintInfo("Watching %s, press Ctrl+C to stop...", path)
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return nil
}

func compileFile(path string) error {
	data, err := afero.ReadFile(config.AppFs, path)
	if err != nil {
		return fmt.Errorf("read descriptor: %w", err)
	}

	node, err := ast.DecodeQuery(data)
	if err != nil {
		return fmt.Errorf("decode descriptor: %w", err)
	}

	st, err := sqlgen.Compile(node)
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}

	if compileExplain {
		return ui.PrintMarkdown(explainMarkdown(st))
	}

	ui.PrintSQL(st.Query)
	ui.PrintInfo("Args:  %v", st.Args)
	ui.PrintInfo("Fetch: %s", st.Fetch)

	if compileProvider != "" {
		query, rebound := executor.Rebind(compileProvider, st.Query, st.Args)
		fmt.Println()
		ui.PrintInfo("Rebound for %s:", compileProvider)
		ui.PrintSQL(query)
		ui.PrintInfo("Args:  %v", rebound)
	}
	return nil
}

func explainMarkdown(st *sqlgen.Statement) string {
	var sb strings.Builder
	sb.WriteString("# Compiled statement\n\n")
	sb.WriteString("```sql\n")
	sb.WriteString(st.Query)
	sb.WriteString("\n```\n\n")

	sb.WriteString(fmt.Sprintf("**Fetch mode:** `%s`\n\n", st.Fetch))

	if len(st.Args) == 0 {
		sb.WriteString("No bound arguments.\n")
		return sb.String()
	}

	sb.WriteString("| Placeholder | Value |\n|---|---|\n")
	for i, arg := range st.Args {
		sb.WriteString(fmt.Sprintf("| `?%d` | `%v` |\n", i+1, arg))
	}
	return sb.String()
}
