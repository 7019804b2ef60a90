// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"
)

// QueryFile is the on-disk representation of a search and its results.
// A query can be saved after a run and replayed later without retyping
// the parameters.
type QueryFile struct {
	Query   QueryParams  `yaml:"query"`
	Results []Card       `yaml:"results"`
	Summary QuerySummary `yaml:"summary"`
}

// QueryParams stores the search parameters in a serializable form.
type QueryParams struct {
	Q          string `yaml:"q,omitempty"`
	Generation string `yaml:"generation,omitempty"`
	Type       string `yaml:"type,omitempty"`
	Cursor     int    `yaml:"cursor,omitempty"`
	Limit      int    `yaml:"limit,omitempty"`
}

// QuerySummary stores result statistics and a timestamp.
type QuerySummary struct {
	Total      int       `yaml:"total"`
	NextCursor *int      `yaml:"next_cursor,omitempty"`
	Timestamp  time.Time `yaml:"timestamp"`
}

// ToParams converts stored QueryParams back into Params.
func (p QueryParams) ToParams() Params {
	return Params{
		Q:          p.Q,
		Generation: p.Generation,
		Type:       p.Type,
		Cursor:     p.Cursor,
		Limit:      p.Limit,
	}
}

// WriteQueryFile saves the query parameters and one result page to a
// YAML file.
func WriteQueryFile(path string, params Params, result *Result) error {
	qf := QueryFile{
		Query: QueryParams{
			Q:          params.Q,
			Generation: params.Generation,
			Type:       params.Type,
			Cursor:     params.Cursor,
			Limit:      params.Limit,
		},
		Results: result.Items,
		Summary: QuerySummary{
			Total:      result.Total,
			NextCursor: result.NextCursor,
			Timestamp:  time.Now().UTC(),
		},
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved query file from disk.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	return &qf, nil
}
