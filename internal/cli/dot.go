package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gincla/nightsky/pkg/render"
	"github.com/gincla/nightsky/pkg/render/nodelink"
	"github.com/gincla/nightsky/pkg/sky"
)

type dotOpts struct {
	src      source
	output   string
	svg      bool
	labels   bool
	maxTicks int
	noCache  bool
}

func (c *CLI) dotCommand() *cobra.Command {
	opts := dotOpts{maxTicks: defaultMaxTicks}

	cmd := &cobra.Command{
		Use:   "dot",
		Short: "Export the settled sky as Graphviz DOT or SVG",
		Long: `Lay out a sky and export it as Graphviz DOT with every star pinned at its
position. With --svg the document is rendered in-process with neato.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDot(cmd.Context(), &opts)
		},
	}

	opts.src.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.svg, "svg", false, "render the DOT to SVG")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "label stars with their ids")
	cmd.Flags().IntVar(&opts.maxTicks, "ticks", opts.maxTicks, "maximum layout ticks")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the document cache")

	return cmd
}

func (c *CLI) runDot(ctx context.Context, opts *dotOpts) error {
	g, err := c.load(ctx, opts.src, opts.noCache)
	if err != nil {
		return err
	}

	rec := render.NewRecorder(float64(c.cfg.Canvas.Width), float64(c.cfg.Canvas.Height))
	v, err := c.newViewer(rec, nil, c.cfg.Render.Seed)
	if err != nil {
		return err
	}
	if err := v.SetGraph(g); err != nil {
		return err
	}
	v.Settle(opts.maxTicks)

	snap := v.Snapshot()
	attrs := make(map[string]render.Attrs, len(snap.Nodes))
	for _, n := range snap.Nodes {
		attrs[n.ID] = render.Attrs{Radius: n.Radius, ArcSize: n.ArcSize}
	}
	dot := nodelink.ToDOT(g, func(n *sky.Node) render.Attrs { return attrs[n.ID] }, nodelink.Options{
		Height:     float64(c.cfg.Canvas.Height),
		Selected:   v.Selected(),
		Labels:     opts.labels,
		Background: c.cfg.Render.Background,
	})

	data := []byte(dot)
	if opts.svg {
		if data, err = nodelink.RenderSVG(ctx, dot); err != nil {
			return err
		}
	}

	if opts.output == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess("Exported sky")
	printFile(opts.output)
	return nil
}
