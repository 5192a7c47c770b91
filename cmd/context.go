package cmd

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/masmgr/cobwalk-go/config"
	"github.com/masmgr/cobwalk-go/internal/cob"
	"github.com/masmgr/cobwalk-go/internal/inbox"
	"github.com/masmgr/cobwalk-go/internal/output"
	"github.com/masmgr/cobwalk-go/internal/readmodel"
)

// CommandContext holds common state for command execution.
type CommandContext struct {
	Config  *config.Config
	Log     *zap.Logger
	Aliases cob.AliasStore
	Repos   inbox.StorageRoot

	store *readmodel.Store
}

// NewCommandContext loads configuration and builds the logger.
func NewCommandContext(c *cli.Context) (*CommandContext, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return &CommandContext{
		Config:  cfg,
		Log:     log,
		Aliases: cob.MapAliases(cfg.Aliases),
		Repos:   inbox.StorageRoot(cfg.Storage.Root),
	}, nil
}

// Store opens the read-model cache on first use.
func (ctx *CommandContext) Store() (*readmodel.Store, error) {
	if ctx.store != nil {
		return ctx.store, nil
	}
	if ctx.Config.Storage.Database == "" {
		return nil, fmt.Errorf("no cache database configured (set --db or COBWALK_DB)")
	}
	store, err := readmodel.Open(ctx.Config.Storage.Database, readmodel.Options{
		BusyTimeout: ctx.Config.Storage.BusyTimeout(),
		Logger:      ctx.Log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	ctx.store = store
	return store, nil
}

// Close releases the cache and flushes the logger.
func (ctx *CommandContext) Close() {
	if ctx.store != nil {
		if err := ctx.store.Close(); err != nil {
			ctx.Log.Warn("closing cache", zap.Error(err))
		}
	}
	_ = ctx.Log.Sync()
}

// executeWithContext runs fn with a command context that is closed afterwards.
func executeWithContext(c *cli.Context, fn func(ctx *CommandContext, c *cli.Context) error) error {
	ctx, err := NewCommandContext(c)
	if err != nil {
		return err
	}
	defer ctx.Close()
	return fn(ctx, c)
}

// OutputOptions creates OutputOptions from CLI flags.
func OutputOptions(c *cli.Context) output.OutputOptions {
	return output.OutputOptions{
		Format:     getOutputFormat(c.String("format")),
		Top:        c.Int("top"),
		OutputPath: c.String("output"),
	}
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
		return nil, err
	}
	zapConfig := zap.NewProductionConfig()
	if cfg.Development {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	return zapConfig.Build()
}
