package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file.fbp>",
	Short: "Parse and build a graph without opening it, reporting errors",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadGraph(cmd, args[0])
		if err != nil {
			return err
		}
		desc := t.Description()
		fmt.Printf("%s: ok (%d in-port(s), %d out-port(s))\n",
			args[0], t.PortsIn().Count(), t.PortsOut().Count())
		if desc.Name != "" {
			fmt.Printf("  type: %s\n", desc.Name)
		}
		return nil
	},
}
