package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tutu-network/brew/internal/app/drills"
)

func init() {
	rootCmd.AddCommand(drillCmd)
	for _, d := range drills.All() {
		drillCmd.AddCommand(newDrillCmd(d))
	}
}

var drillCmd = &cobra.Command{
	Use:   "drill",
	Short: "Run one of the bundled console exercises",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return fmt.Errorf("unknown drill %q", args[0])
	},
}

func newDrillCmd(d drills.Drill) *cobra.Command {
	return &cobra.Command{
		Use:   d.Name,
		Short: d.Short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return d.Run(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
