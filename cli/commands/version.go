package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/G4brym/workers-qb/cli/internal/update"
	"github.com/G4brym/workers-qb/cli/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE:  runVersion,
}

var versionCheckUpdate bool

func init() {
	versionCmd.Flags().BoolVar(&versionCheckUpdate, "check-update", false, "check whether a newer release is available")

	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := version.Get()
	fmt.Println(info.FullString())

	if versionCheckUpdate {
		if _, err := update.Check(info.Version); err != nil {
			return err
		}
	}
	return nil
}
