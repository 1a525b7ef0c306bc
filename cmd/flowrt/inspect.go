package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cuemby/flowrt/pkg/typecache"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.fbp>",
	Short: "Print a graph's static type description as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadGraph(cmd, args[0])
		if err != nil {
			return err
		}
		rec := typecache.Describe(t)

		cachePath, _ := cmd.Flags().GetString("cache-dir")
		if cachePath != "" {
			store, err := typecache.Open(cachePath)
			if err != nil {
				return fmt.Errorf("flowrt: open typecache: %w", err)
			}
			defer store.Close()
			if err := store.Put(rec); err != nil {
				return fmt.Errorf("flowrt: cache type: %w", err)
			}
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	},
}

func init() {
	inspectCmd.Flags().String("cache-dir", "", "Optional directory to persist the type description via pkg/typecache")
}
