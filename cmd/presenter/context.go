package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/benpate/derp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shankyank/presenter/config"
)

// commandContext carries the persistent flags and the loaded configuration
// between the root command and its subcommands.
type commandContext struct {
	configFlag   *string
	logLevelFlag *string
	config       *config.Config
}

func newCommandContext(configFlag *string, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

// ensureConfig loads the configuration once and configures logging from it
func (ctx *commandContext) ensureConfig() (*config.Config, error) {

	const location = "main.ensureConfig"

	if ctx.config != nil {
		return ctx.config, nil
	}

	cfg, resolvedPath, exists, err := config.Load(*ctx.configFlag)

	if err != nil {
		return nil, derp.Wrap(err, location, "Unable to load configuration")
	}

	if *ctx.logLevelFlag != "" {
		cfg.LogLevel = *ctx.logLevelFlag
	}

	if err := configureLogging(cfg.LogLevel); err != nil {
		return nil, derp.Wrap(err, location, "Unable to configure logging")
	}

	log.Debug().
		Str("location", location).
		Str("path", resolvedPath).
		Bool("exists", exists).
		Msg("Configuration loaded")

	ctx.config = cfg
	return cfg, nil
}

// applyBaseDir overrides the configured presentation directory with the
// first positional argument, if one was given.
func applyBaseDir(cfg *config.Config, args []string) error {

	const location = "main.applyBaseDir"

	if len(args) == 0 || args[0] == "" {
		return nil
	}

	baseDir, err := filepath.Abs(args[0])

	if err != nil {
		return derp.Wrap(err, location, "Unable to resolve base directory", args[0])
	}

	cfg.BaseDir = baseDir
	return nil
}

// configureLogging sets the global zerolog level and a human-readable console writer
func configureLogging(level string) error {

	parsed, err := zerolog.ParseLevel(level)

	if err != nil {
		return err
	}

	if parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(parsed)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	return nil
}
