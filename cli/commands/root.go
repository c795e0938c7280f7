// Package commands implements the qb CLI commands.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/G4brym/workers-qb/cli/internal/ui"
	"github.com/G4brym/workers-qb/internal/debug"
)

var debugFlag bool

var rootCmd = &cobra.Command{
	Use:   "qb",
	Short: "Compile and run query descriptors",
	Long: `qb compiles JSON query descriptors into parameterized SQL statements
and can execute them against SQLite, PostgreSQL or MySQL.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug.Init(debugFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
}

// Execute runs the CLI.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		ui.PrintError("%v", err)
		return err
	}
	return nil
}
