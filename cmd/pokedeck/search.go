// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Cylabeth/pokedeck/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the catalog with filters and family expansion",
	Long: `Search narrows the full catalog by generation and type, matches the
query as an id ("25", "#25") or a name substring, expands matches to
their whole evolution family, and hydrates one page of results.

A query can be saved with --out and replayed later with --from.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		logger := newLogger()

		engine, err := newEngine(cfg, logger)
		if err != nil {
			return err
		}

		params, err := searchParamsFromFlags(cmd)
		if err != nil {
			return err
		}

		result, err := engine.Search(cmd.Context(), params)
		if err != nil {
			return err
		}

		if out, _ := cmd.Flags().GetString("out"); out != "" {
			if err := search.WriteQueryFile(out, params, result); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Saved query to %s\n", out)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return search.FormatJSON(result, os.Stdout)
		}
		search.FormatTable(result, os.Stdout)
		return nil
	},
}

// searchParamsFromFlags builds Params from flags, or from a saved query
// file when --from is given (explicit flags still override).
func searchParamsFromFlags(cmd *cobra.Command) (search.Params, error) {
	var params search.Params
	if from, _ := cmd.Flags().GetString("from"); from != "" {
		qf, err := search.ReadQueryFile(from)
		if err != nil {
			return params, err
		}
		params = qf.Query.ToParams()
	}

	if cmd.Flags().Changed("query") {
		params.Q, _ = cmd.Flags().GetString("query")
	}
	if cmd.Flags().Changed("generation") {
		params.Generation, _ = cmd.Flags().GetString("generation")
	}
	if cmd.Flags().Changed("type") {
		params.Type, _ = cmd.Flags().GetString("type")
	}
	if cmd.Flags().Changed("cursor") {
		params.Cursor, _ = cmd.Flags().GetInt("cursor")
	}
	if cmd.Flags().Changed("limit") {
		params.Limit, _ = cmd.Flags().GetInt("limit")
	}
	return params, nil
}

func init() {
	searchCmd.Flags().String("query", "", "name substring or numeric id (optionally #-prefixed)")
	searchCmd.Flags().String("generation", "", "filter by generation name or id")
	searchCmd.Flags().String("type", "", "filter by type name")
	searchCmd.Flags().Int("cursor", 0, "pagination offset into the id-sorted results")
	searchCmd.Flags().Int("limit", search.DefaultLimit, "page size (max 24)")
	searchCmd.Flags().Bool("json", false, "output the page as JSON")
	searchCmd.Flags().String("out", "", "save the query and results to a YAML file")
	searchCmd.Flags().String("from", "", "load query parameters from a saved YAML file")

	rootCmd.AddCommand(searchCmd)
}
