package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

type pickOpts struct {
	src      source
	output   string
	maxTicks int
	noCache  bool
}

func (c *CLI) pickCommand() *cobra.Command {
	opts := pickOpts{maxTicks: defaultMaxTicks}

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Choose a star from a list and show its tooltip",
		Long: `Load and settle a sky, then list its stars. Choosing a star clicks at its
position, exactly as a pointer click would, and prints the tooltip.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPick(cmd.Context(), &opts)
		},
	}

	opts.src.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "also write the frame with the selection (png or svg)")
	cmd.Flags().IntVar(&opts.maxTicks, "ticks", opts.maxTicks, "maximum layout ticks")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the document cache")

	return cmd
}

func (c *CLI) runPick(ctx context.Context, opts *pickOpts) error {
	g, err := c.load(ctx, opts.src, opts.noCache)
	if err != nil {
		return err
	}

	format, err := resolveFormat("", opts.output)
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
	v.Settle(opts.maxTicks)

	model := NewNodeListModel(v.Snapshot().Nodes)
	final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("picker: %w", err)
	}
	chosen := final.(NodeListModel).Selected
	if chosen == nil {
		printInfo("No star selected")
		return nil
	}

	change := v.Click(chosen.X, chosen.Y)
	if !change.Selected() {
		return fmt.Errorf("star %s could not be selected", chosen.ID)
	}
	if t, ok := v.Tooltip(); ok {
		printTooltip(t.Lines())
	}
	v.Settle(opts.maxTicks)

	if opts.output == "" {
		return nil
	}
	data, err := encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printFile(opts.output)
	return nil
}
