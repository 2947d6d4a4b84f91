package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/gincla/nightsky/internal/config"
	"github.com/gincla/nightsky/pkg/buildinfo"
	"github.com/gincla/nightsky/pkg/cache"
	"github.com/gincla/nightsky/pkg/filter"
	"github.com/gincla/nightsky/pkg/httputil"
	"github.com/gincla/nightsky/pkg/loader"
	"github.com/gincla/nightsky/pkg/observability"
	"github.com/gincla/nightsky/pkg/render"
	"github.com/gincla/nightsky/pkg/sky"
	"github.com/gincla/nightsky/pkg/viewer"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "nightsky"

	// defaultMaxTicks bounds how long a layout may run before a frame is taken.
	defaultMaxTicks = 1000
)

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

	configPath string
	verbose    bool
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "nightsky draws graphs as a night sky",
		Long:         `nightsky lays out a graph of nodes and links with a force simulation and draws it as white stars joined by faint lines. Stars can be selected to show a tooltip with details.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			registerHooks(c.Logger)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.Path()+")")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.filterCommand())
	root.AddCommand(c.pickCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Component Factories
// =============================================================================

// fetchStack is a loader with the client and cache behind it. close must be
// called when done.
type fetchStack struct {
	loader *loader.Loader
	client *httputil.Client
	cache  cache.Cache
}

func (f *fetchStack) close() error { return f.cache.Close() }

// newLoader builds a loader from the config.
func (c *CLI) newLoader(ctx context.Context, noCache bool) (*fetchStack, error) {
	cc, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	lc := c.cfg.Loader
	client := httputil.NewClient(
		httputil.WithCache(cache.WithPrefix(cc, "sky:"), c.cfg.Cache.TTL),
		httputil.WithRetry(lc.Retries, httputil.DefaultRetryDelay),
		httputil.WithTimeout(lc.Timeout),
		httputil.WithHeader("User-Agent", buildinfo.UserAgent(appName)),
	)
	l := loader.New(
		loader.WithBaseURL(lc.BaseURL),
		loader.WithFetcher(client),
		loader.WithLogger(c.Logger),
	)
	return &fetchStack{loader: l, client: client, cache: cc}, nil
}

func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cfg := c.cfg.Cache
	dir := cfg.Dir
	if dir == "" && cfg.Backend == cache.BackendFile {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.Open(ctx, cache.Config{
		Backend: cfg.Backend,
		Dir:     dir,
		Redis: cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
	})
}

// renderOptions turns the configured colors into renderer options.
func (c *CLI) renderOptions() ([]render.Option, error) {
	rc := c.cfg.Render
	link, err := render.ParseColor(rc.LinkColor)
	if err != nil {
		return nil, fmt.Errorf("render.link_color: %w", err)
	}
	fill, err := render.ParseColor(rc.NodeFill)
	if err != nil {
		return nil, fmt.Errorf("render.node_fill: %w", err)
	}
	stroke, err := render.ParseColor(rc.NodeStroke)
	if err != nil {
		return nil, fmt.Errorf("render.node_stroke: %w", err)
	}
	return []render.Option{
		render.WithLinkColor(link),
		render.WithNodeFill(fill),
		render.WithNodeStroke(stroke),
	}, nil
}

// newViewer creates a viewer drawing onto s with the configured seed,
// colors, threshold and initial filter values.
func (c *CLI) newViewer(s render.Surface, l viewer.GraphLoader, seed uint64) (*viewer.Viewer, error) {
	opts, err := c.renderOptions()
	if err != nil {
		return nil, err
	}
	fc := c.cfg.Filter
	return viewer.New(viewer.Options{
		Surface:       s,
		Loader:        l,
		Logger:        c.Logger,
		Warner:        filter.WarnFunc(func(msg string) { printWarning("%s", msg) }),
		Seed:          seed,
		Threshold:     c.cfg.Selection.Threshold,
		RenderOptions: opts,
		Bounds:        filter.Validate(filter.ParseInt(fc.Min), filter.ParseInt(fc.Max)),
	}), nil
}

// source identifies where a command reads its sky from.
type source struct {
	jsonFile string // name under the loader base URL
	pageURL  string // page URL carrying ?jsonFile=
	file     string // local path
	refresh  bool   // drop the cached copy first
}

func (s *source) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.jsonFile, "json-file", "", "document name under the base URL")
	cmd.Flags().StringVar(&s.pageURL, "url", "", "page URL with a ?jsonFile= parameter")
	cmd.Flags().StringVarP(&s.file, "file", "f", "", "local JSON document")
	cmd.Flags().BoolVar(&s.refresh, "refresh", false, "refetch the document, replacing its cached copy")
	cmd.MarkFlagsMutuallyExclusive("json-file", "url", "file")
	cmd.MarkFlagsOneRequired("json-file", "url", "file")
}

// load fetches the sky named by src.
func (c *CLI) load(ctx context.Context, src source, noCache bool) (*sky.Graph, error) {
	logger := loggerFromContext(ctx)
	sw := startStopwatch(logger)

	fs, err := c.newLoader(ctx, noCache)
	if err != nil {
		return nil, err
	}
	defer fs.close()
	l := fs.loader

	var g *sky.Graph
	switch {
	case src.file != "":
		g, err = l.LoadFile(src.file)
	default:
		name := src.jsonFile
		if src.pageURL != "" {
			if name, err = loader.JSONFileFromURL(src.pageURL); err != nil {
				return nil, err
			}
		}
		if src.refresh {
			if err := fs.client.Invalidate(ctx, l.URL(name)); err != nil {
				logger.Warn("cache invalidation failed", "error", err)
			}
		}
		spinner := newSpinnerWithContext(ctx, "Fetching "+name+"...")
		spinner.Start()
		g, err = l.Load(ctx, name)
		spinner.Stop()
	}
	if err != nil {
		return nil, err
	}
	sw.lap("Loaded sky", "nodes", g.NodeCount(), "links", g.LinkCount())
	return g, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/nightsky/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// registerHooks routes observability events to the debug log.
func registerHooks(logger *log.Logger) {
	h := logHooks{logger: logger}
	observability.SetLoadHooks(h)
	observability.SetInteractionHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}
