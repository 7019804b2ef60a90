// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Print the full catalog index",
	Long: `Index fetches the catalog listing (one large logical page), extracts
the numeric id from each resource URL and prints the id-sorted result.
Mostly useful for eyeballing what search would narrow from.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		logger := newLogger()

		engine, err := newEngine(cfg, logger)
		if err != nil {
			return err
		}

		entries, err := engine.IndexAll(cmd.Context())
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		}

		for _, e := range entries {
			fmt.Printf("#%-6d %s\n", e.ID, e.Name)
		}
		fmt.Fprintf(os.Stderr, "%d entries\n", len(entries))
		return nil
	},
}

func init() {
	indexCmd.Flags().Bool("json", false, "output the index as JSON")

	rootCmd.AddCommand(indexCmd)
}
