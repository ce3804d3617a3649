package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/galaxygen/pkg/buildinfo"
	"github.com/matzehuels/galaxygen/pkg/cache"
	"github.com/matzehuels/galaxygen/pkg/observability"
	"github.com/matzehuels/galaxygen/pkg/pipeline"
	"github.com/matzehuels/galaxygen/pkg/settings"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "galaxygen"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Settings is loaded before any command runs.
	Settings *settings.Settings

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:   newLogger(w, level),
		Settings: settings.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "galaxygen paints procedural spiral galaxies",
		Long:          `galaxygen synthesizes a spiral galaxy image from a size, an arm count, a star count and a galaxy type, complete with nebulae, dust lanes and a hyperlane network between the stars.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "settings file (default $"+settings.EnvConfig+" or "+settings.DefaultPath+")")

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.surveyCommand())
	root.AddCommand(c.typesCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup applies --verbose, loads .env and the settings file, and attaches
// the logger to the command context.
func (c *CLI) setup(cmd *cobra.Command) error {
	level := LogInfo
	if c.verbose {
		level = LogDebug
		observability.NewLogHooks(c.Logger).Register()
	}
	c.SetLogLevel(level)

	settings.LoadEnv(c.Logger)
	s, err := settings.Load(settings.Path(c.configPath), c.Logger)
	if err != nil {
		return err
	}
	c.Settings = s

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.CacheScope())
	r := pipeline.NewRunner(cc, keyer, c.Logger)
	if ttl := c.Settings.Cache.TTL.Duration; ttl > 0 {
		r.TTL = ttl
	}
	return r, nil
}

// newCache picks the cache backend: none when disabled, Redis when a URL is
// configured, otherwise the file cache.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.Settings.Cache
	if noCache || cfg.Disabled {
		return cache.NewNullCache(), nil
	}
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("using redis cache")
		return rc, nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Debug("no cache directory, caching disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, or the per-user default
// (~/.cache/galaxygen on Linux).
func (c *CLI) cacheDir() (string, error) {
	if c.Settings != nil && c.Settings.Cache.Dir != "" {
		return c.Settings.Cache.Dir, nil
	}
	return cache.DefaultDir()
}
