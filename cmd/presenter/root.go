package main

import (
	"context"

	"github.com/benpate/derp"
	"github.com/rs/zerolog/log"
	"github.com/shankyank/presenter/config"
	"github.com/shankyank/presenter/keynote"
	"github.com/shankyank/presenter/presentation"
	"github.com/shankyank/presenter/queue"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {

	var configFlag string
	var logLevelFlag string

	ctx := newCommandContext(&configFlag, &logLevelFlag)

	rootCmd := &cobra.Command{
		Use:           "presenter [base-dir]",
		Short:         "Start presentations named in queued notifications",
		Long:          "Long-polls a message queue for \"start presentation\" notifications and opens each named file in the presentation application. Filenames are resolved against base-dir (default: base_dir from the config file, or the current directory).",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations["skipConfigLoad"] == "true" {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {

			cfg, err := ctx.ensureConfig()

			if err != nil {
				return err
			}

			if err := applyBaseDir(cfg, args); err != nil {
				return err
			}

			starter, err := keynote.New(
				keynote.WithApplication(cfg.Automation.Application),
				keynote.WithOSAScript(cfg.Automation.OSAScript),
			)

			if err != nil {
				return err
			}

			return runTrigger(cmd.Context(), cfg, starter)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(newSendCommand(ctx))
	rootCmd.AddCommand(newListCommand(ctx))
	rootCmd.AddCommand(newConfigCommand())

	return rootCmd
}

// runTrigger consumes "start presentation" notifications until the context is cancelled
func runTrigger(ctx context.Context, cfg *config.Config, starter presentation.Starter) error {

	const location = "main.runTrigger"

	storage, closeStorage, err := openStorage(ctx, cfg)

	if err != nil {
		return derp.Wrap(err, location, "Unable to open queue storage", cfg.Queue.Backend)
	}

	defer closeStorage()

	q := queue.New(
		queue.WithStorage(storage),
		queue.WithConsumers(presentation.NewConsumer(cfg.BaseDir, starter)),
		queue.WithWaitSeconds(cfg.Queue.WaitSeconds),
		queue.WithMaxMessages(cfg.Queue.MaxMessages),
	)

	log.Info().
		Str("backend", cfg.Queue.Backend).
		Str("queue", cfg.Queue.Name).
		Str("baseDir", cfg.BaseDir).
		Msg("Waiting for presentations")

	if err := q.Run(ctx); err != nil {
		return derp.Wrap(err, location, "Presentation trigger stopped")
	}

	log.Info().Msg("Shutting down")
	return nil
}
