package commands

import (
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"
)

func (c *CLI) newCallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "call <tool> [arguments-json | -]",
		Short: "Run a tool on the daemon and print its JSON result",
		Long: "Run a tool on the daemon, starting the daemon when it is not running.\n" +
			"Arguments are a JSON object; pass - to read them from standard input.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var payload []byte
			if len(args) == 2 {
				payload = []byte(args[1])
				if args[1] == "-" {
					in, err := io.ReadAll(cmd.InOrStdin())
					if err != nil {
						return zerr.Wrap(err, "failed to read arguments")
					}
					payload = in
				}
			}
			return c.app.Call(cmd.Context(), args[0], payload)
		},
	}
}

func (c *CLI) newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the available tools",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			c.app.PrintTools()
		},
	}
}
