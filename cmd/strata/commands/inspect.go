package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/strata/internal/adapters/detector"
	"go.trai.ch/strata/internal/app"
)

func (c *CLI) newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <model-file>",
		Short: "Load a model locally and browse its overview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			depth, _ := cmd.Flags().GetInt("depth")
			outputMode, _ := cmd.Flags().GetString("output-mode")
			ci, _ := cmd.Flags().GetBool("ci")

			// --ci forces the linear listing
			if ci {
				outputMode = string(detector.ModeLinear)
			}

			mode, err := detector.ParseMode(outputMode)
			if err != nil {
				return err
			}

			return c.app.Inspect(cmd.Context(), args[0], app.InspectOptions{
				Depth:  depth,
				Output: mode,
			})
		},
	}
	cmd.Flags().IntP("depth", "d", 0, "Overview depth (defaults to the configured overview depth)")
	cmd.Flags().StringP("output-mode", "o", "auto", "Output mode: auto, tui, or linear")
	cmd.Flags().Bool("ci", false, "Use linear output mode (shorthand for --output-mode=linear)")
	return cmd
}
