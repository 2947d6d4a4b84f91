package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gincla/nightsky/pkg/filter"
)

func (c *CLI) filterCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "filter MIN MAX",
		Short: "Validate filter bounds",
		Long: `Parse filter values the way the filter inputs do and print the resulting
bounds. A value that does not start with an integer counts as 0. When the
minimum exceeds the maximum, the minimum is reset to 0 with a warning.`,
		Example: `  nightsky filter 3 5
  nightsky filter 5 3   # warns and prints [0, 3]`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			controls := filter.New(filter.Bounds{}, filter.WarnFunc(func(msg string) {
				printWarning("%s", msg)
			}), logger)
			b := controls.Refresh(args[0], args[1])
			printKeyValue("min", strconv.Itoa(b.Min))
			printKeyValue("max", strconv.Itoa(b.Max))
			return nil
		},
	}
}
