package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gincla/nightsky/pkg/render"
	"github.com/gincla/nightsky/pkg/render/raster"
	"github.com/gincla/nightsky/pkg/render/svg"
)

const (
	formatPNG = "png"
	formatSVG = "svg"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	src      source
	output   string
	format   string
	clicks   []string // "x,y" pairs applied in order after the layout settles
	maxTicks int
	seed     uint64
	noCache  bool
}

func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{maxTicks: defaultMaxTicks}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Lay out a sky and write one frame",
		Long: `Load a sky, run the force layout until it settles, apply any clicks and
write the resulting frame.

Clicks are given as x,y canvas coordinates. A click within the selection
threshold of a star selects it, enlarges it and prints its tooltip.`,
		Example: `  nightsky render --json-file sky.json -o sky.png
  nightsky render -f sky.json --click 480,300 --format svg -o sky.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("seed") {
				c.cfg.Render.Seed = opts.seed
			}
			return c.runRender(cmd.Context(), &opts)
		},
	}

	opts.src.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default sky.<format>)")
	cmd.Flags().StringVar(&opts.format, "format", "", "output format: png (default), svg; inferred from --output")
	cmd.Flags().StringArrayVar(&opts.clicks, "click", nil, "click at x,y after the layout settles (repeatable)")
	cmd.Flags().IntVar(&opts.maxTicks, "ticks", opts.maxTicks, "maximum layout ticks")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed (overrides config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the document cache")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, opts *renderOpts) error {
	format, err := resolveFormat(opts.format, opts.output)
	if err != nil {
		return err
	}
	clicks, err := parseClicks(opts.clicks)
	if err != nil {
		return err
	}

	g, err := c.load(ctx, opts.src, opts.noCache)
	if err != nil {
		return err
	}

	surface, encode, err := c.newSurface(format)
	if err != nil {
		return err
	}
	v, err := c.newViewer(surface, nil, c.cfg.Render.Seed)
	if err != nil {
		return err
	}
	if err := v.SetGraph(g); err != nil {
		return err
	}

	ticks := v.Settle(opts.maxTicks)
	for _, p := range clicks {
		change := v.Click(p[0], p[1])
		if !change.Selected() {
			printInfo("No node found at %s", formatPoint(p))
			continue
		}
		if t, ok := v.Tooltip(); ok {
			printTooltip(t.Lines())
		}
		ticks += v.Settle(opts.maxTicks)
	}
	// A miss clears the selection without advancing the layout.
	v.Draw(surface)

	output := opts.output
	if output == "" {
		output = "sky." + format
	}
	data, err := encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("Rendered sky")
	printStats(g.NodeCount(), g.LinkCount(), ticks)
	printFile(output)
	return nil
}

// newSurface creates a canvas-sized surface and its encoder.
func (c *CLI) newSurface(format string) (render.Surface, func() ([]byte, error), error) {
	w, h := c.cfg.Canvas.Width, c.cfg.Canvas.Height
	bg, err := render.ParseColor(c.cfg.Render.Background)
	if err != nil {
		return nil, nil, fmt.Errorf("render.background: %w", err)
	}
	switch format {
	case formatSVG:
		s := svg.New(float64(w), float64(h), svg.WithBackground(bg))
		return s, func() ([]byte, error) { return s.Bytes(), nil }, nil
	case formatPNG:
		s := raster.New(w, h, raster.WithBackground(bg))
		return s, s.PNG, nil
	}
	return nil, nil, fmt.Errorf("invalid format: %s (must be 'png' or 'svg')", format)
}

// resolveFormat picks the output format from the flag or the output
// extension, defaulting to PNG.
func resolveFormat(format, output string) (string, error) {
	if format == "" {
		switch {
		case strings.HasSuffix(strings.ToLower(output), ".svg"):
			format = formatSVG
		default:
			format = formatPNG
		}
	}
	switch format {
	case formatPNG, formatSVG:
		return format, nil
	}
	return "", fmt.Errorf("invalid format: %s (must be 'png' or 'svg')", format)
}

// parseClicks parses "x,y" pairs.
func parseClicks(raw []string) ([][2]float64, error) {
	points := make([][2]float64, 0, len(raw))
	for _, r := range raw {
		p, err := parsePoint(r)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}

func parsePoint(s string) ([2]float64, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return [2]float64{}, fmt.Errorf("invalid click %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return [2]float64{}, fmt.Errorf("invalid click %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return [2]float64{}, fmt.Errorf("invalid click %q: %w", s, err)
	}
	return [2]float64{x, y}, nil
}

func formatPoint(p [2]float64) string {
	return strconv.FormatFloat(p[0], 'f', -1, 64) + "," + strconv.FormatFloat(p[1], 'f', -1, 64)
}

// printTooltip prints tooltip lines, the first as a title.
func printTooltip(lines []string) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintln(stdout, StyleTitle.Render(lines[0]))
	for _, l := range lines[1:] {
		printDetail("%s", l)
	}
}
