package main

import (
	"fmt"

	"github.com/cuemby/flowrt/pkg/flow"
	"github.com/cuemby/flowrt/pkg/flowlog"
	"github.com/cuemby/flowrt/pkg/flowmetrics"
	"github.com/cuemby/flowrt/pkg/introspect"
	"github.com/cuemby/flowrt/pkg/nodetype"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve <file.fbp>",
	Short: "Open a graph and serve its shape over HTTP until interrupted",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadGraph(cmd, args[0])
		if err != nil {
			return err
		}

		root := nodetype.NewNode(t, args[0], nil, nil)
		if err := t.Open(root, nil); err != nil {
			return fmt.Errorf("flowrt: open graph: %w", err)
		}
		defer t.Close(root)

		c, ok := flow.ContainerOf(root)
		if !ok {
			return fmt.Errorf("flowrt: %q did not open as a composite container", args[0])
		}
		c.OnOutput = flowlog.OutputPacket
		c.OnDeliveryError = flowlog.DeliveryError
		flowmetrics.Instrument(c)

		addr, _ := cmd.Flags().GetString("addr")
		srv := introspect.New(c)
		flowlog.Logger.Info().Str("addr", addr).Msg("serving graph introspection")
		return srv.Start(addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "Listen address for the introspection HTTP server")
}
