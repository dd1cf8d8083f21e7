package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/streamweld/consolesink"
)

// newHandshakeCommand builds the handshake subcommand. The supervising
// host invokes the binary with this argument once, reads the single reply
// line from stdout, and only then starts the real session.
func newHandshakeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "handshake",
		Short: "Emit the plugin compatibility reply and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return consolesink.WriteHandshake(os.Stdout)
		},
	}
}
