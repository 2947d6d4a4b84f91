package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gincla/nightsky/internal/server"
	"github.com/gincla/nightsky/pkg/filter"
	"github.com/gincla/nightsky/pkg/render"
)

const (
	shutdownTimeout = 10 * time.Second
	janitorInterval = time.Minute
)

type serveOpts struct {
	addr    string
	noCache bool
}

func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host interactive sky sessions over HTTP",
		Long: `Start an HTTP server. Each POST /sessions?jsonFile=NAME loads a sky into a
session whose layout keeps ticking in the background. Sessions accept clicks
and filter changes and serve their current frame as PNG or SVG.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.addr != "" {
				c.cfg.Server.Addr = opts.addr
			}
			return c.runServe(cmd.Context(), opts.noCache)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the document cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, noCache bool) error {
	fs, err := c.newLoader(ctx, noCache)
	if err != nil {
		return err
	}
	defer fs.close()
	l := fs.loader

	renderOpts, err := c.renderOptions()
	if err != nil {
		return err
	}
	bg, err := render.ParseColor(c.cfg.Render.Background)
	if err != nil {
		return err
	}

	sc := c.cfg.Server
	srv := server.New(server.Options{
		Loader:        l,
		Logger:        c.Logger,
		Width:         c.cfg.Canvas.Width,
		Height:        c.cfg.Canvas.Height,
		Background:    bg,
		Seed:          c.cfg.Render.Seed,
		Threshold:     c.cfg.Selection.Threshold,
		RenderOptions: renderOpts,
		Bounds:        filter.Validate(filter.ParseInt(c.cfg.Filter.Min), filter.ParseInt(c.cfg.Filter.Max)),
		TickInterval:  sc.TickInterval,
		MaxSessions:   sc.MaxSessions,
		IdleTimeout:   sc.IdleTimeout,
	})
	httpServer := &http.Server{
		Addr:              sc.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c.Logger.Info("HTTP server listening", "addr", sc.Addr, "base_url", l.BaseURL())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return srv.Janitor(gctx, janitorInterval)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := httpServer.Shutdown(shutdownCtx)
		srv.Close()
		c.Logger.Info("HTTP server stopped")
		return err
	})

	printSuccess("Serving skies on %s", StyleLink.Render("http://"+displayAddr(sc.Addr)))
	return g.Wait()
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
