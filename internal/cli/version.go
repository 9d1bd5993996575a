package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tutu-network/brew/internal/api"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "brew version %s\n", api.Version)
	},
}
