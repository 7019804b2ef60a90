// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Cylabeth/pokedeck/internal/search"
)

var detailCmd = &cobra.Command{
	Use:   "detail NAME",
	Short: "Show the full detail view for one pokemon",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		logger := newLogger()

		engine, err := newEngine(cfg, logger)
		if err != nil {
			return err
		}

		d, err := engine.Detail(cmd.Context(), args[0])
		if err != nil {
			if errors.Is(err, search.ErrNotFound) {
				return fmt.Errorf("no pokemon named %q", args[0])
			}
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(d)
		}

		printDetail(d)
		return nil
	},
}

func printDetail(d *search.Detail) {
	fmt.Printf("#%d %s", d.ID, d.Name)
	if d.Genus != "" {
		fmt.Printf(" - %s", d.Genus)
	}
	fmt.Println()

	fmt.Printf("Types: %s\n", strings.Join(d.Types, ", "))
	if d.Generation != nil {
		fmt.Printf("Generation: %s\n", d.Generation.Name)
	}
	if len(d.Stats) > 0 {
		fmt.Println("Stats:")
		for _, s := range d.Stats {
			fmt.Printf("  %-20s %d\n", s.Name, s.Value)
		}
	}
	if len(d.Evolutions) > 0 {
		names := make([]string, len(d.Evolutions))
		for i, e := range d.Evolutions {
			names[i] = fmt.Sprintf("#%d %s", e.ID, e.Name)
		}
		fmt.Printf("Evolution line: %s\n", strings.Join(names, ", "))
	}
	if d.FlavorText != "" {
		fmt.Printf("\n%s\n", d.FlavorText)
	}
}

func init() {
	detailCmd.Flags().Bool("json", false, "output the detail view as JSON")

	rootCmd.AddCommand(detailCmd)
}
