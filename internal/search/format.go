// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// FormatTable writes one result page as a human-readable table to w.
func FormatTable(result *Result, w io.Writer) {
	if len(result.Items) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-6s  %-24s  %-20s  %s\n", "ID", "Name", "Types", "Generation")
	fmt.Fprintln(w, strings.Repeat("-", 72))

	for _, item := range result.Items {
		gen := ""
		if item.Generation != nil {
			gen = item.Generation.Name
		}
		fmt.Fprintf(w, "#%-5d  %-24s  %-20s  %s\n",
			item.ID, item.Name, strings.Join(item.Types, ", "), gen)
	}

	fmt.Fprintf(w, "\n%d of %d results", len(result.Items), result.Total)
	if result.NextCursor != nil {
		fmt.Fprintf(w, " (next cursor: %d)", *result.NextCursor)
	}
	fmt.Fprintln(w)
}

// FormatJSON writes a result page as indented JSON to w.
func FormatJSON(result *Result, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
