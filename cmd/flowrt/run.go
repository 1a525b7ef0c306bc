package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cuemby/flowrt/pkg/flow"
	"github.com/cuemby/flowrt/pkg/flowlog"
	"github.com/cuemby/flowrt/pkg/flowmetrics"
	"github.com/cuemby/flowrt/pkg/nodetype"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <file.fbp>",
	Short: "Parse, open, and run an FBP graph until interrupted",
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

		if c, ok := flow.ContainerOf(root); ok {
			c.OnOutput = flowlog.OutputPacket
			c.OnDeliveryError = flowlog.DeliveryError
			flowmetrics.Instrument(c)
		}

		flowlog.Info("graph running, press ctrl-c to stop")
		flowmetrics.OpenContainers.Inc()
		defer flowmetrics.OpenContainers.Dec()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		flowlog.Info("shutting down")
		return nil
	},
}
