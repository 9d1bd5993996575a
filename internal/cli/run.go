package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tutu-network/brew/internal/daemon"
	"github.com/tutu-network/brew/internal/infra/observability"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start an interactive coffee machine session",
	Long: `Start a coffee machine session reading commands from standard input.
The session ends on "exit" or when input runs out. This is also what
running brew without a subcommand does.`,
	Args: cobra.NoArgs,
	RunE: runMachine,
}

func runMachine(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(cfg.Log.Level, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	d, err := daemon.New(cfg, cmd.OutOrStdout(), logger)
	if err != nil {
		return err
	}
	defer d.Close()

	if addr := d.MetricsAddr(); addr != "" {
		logger.Info("metrics enabled", zap.String("url", "http://"+addr+"/metrics"))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := d.Run(ctx, cmd.InOrStdin()); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
