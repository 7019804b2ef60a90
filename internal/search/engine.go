// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search is the aggregation engine: it narrows the full catalog
// by facet and query, expands matches to their evolution families,
// paginates, and hydrates only the visible page.
package search

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Cylabeth/pokedeck/internal/evolution"
	"github.com/Cylabeth/pokedeck/internal/index"
	"github.com/Cylabeth/pokedeck/internal/pokeapi"
	"github.com/Cylabeth/pokedeck/internal/pool"
)

const (
	// DefaultLimit and MaxLimit bound one result page.
	DefaultLimit = 24
	MaxLimit     = 24
	// MaxHydrate bounds one Hydrate batch.
	MaxHydrate = 40
	// MaxExpand bounds one ExpandRelated batch.
	MaxExpand = 24
)

// ErrNotFound marks a lookup for a name the catalog does not know.
// Callers render a different state for this than for transient failures.
var ErrNotFound = errors.New("pokemon not found")

// ErrInvalidInput marks a request that violates the boundary contract
// (empty batch, oversized batch, negative cursor).
var ErrInvalidInput = errors.New("invalid input")

// Params are the search query parameters. Zero values mean "no filter":
// every call recomputes the candidate universe from cached upstream
// data, so concurrent searches with different filters need no
// coordination.
type Params struct {
	// Q is a name substring or a numeric id, optionally prefixed "#".
	Q string
	// Generation filters by generation name ("generation-i") or id ("1").
	Generation string
	// Type filters by type name ("water").
	Type string
	// Cursor is the offset into the id-sorted candidate list.
	Cursor int
	// Limit is the page size, clamped to 1..MaxLimit; 0 means DefaultLimit.
	Limit int
}

// Result is one hydrated search page. NextCursor is nil when no
// candidates remain past this page.
type Result struct {
	Items      []Card `json:"items"`
	NextCursor *int   `json:"nextCursor"`
	Total      int    `json:"total"`
}

// Card is the presentation-ready projection of one catalog entity.
type Card struct {
	ID         int                  `json:"id" yaml:"id"`
	Name       string               `json:"name" yaml:"name"`
	ImageURL   string               `json:"imageUrl" yaml:"image_url"`
	Types      []string             `json:"types" yaml:"types"`
	Generation *index.GenerationRef `json:"generation" yaml:"generation,omitempty"`
}

// Engine orchestrates the indexes, the expander, and the pool behind a
// single stateless query contract.
type Engine struct {
	client   *pokeapi.Client
	index    *index.Builder
	expander *evolution.Expander
	pool     *pool.Pool
	logger   zerolog.Logger
}

// NewEngine creates an Engine. All collaborators are injected so tests
// and multi-tenant setups can run independent instances.
func NewEngine(client *pokeapi.Client, builder *index.Builder, expander *evolution.Expander, p *pool.Pool, logger zerolog.Logger) *Engine {
	return &Engine{
		client:   client,
		index:    builder,
		expander: expander,
		pool:     p,
		logger:   logger.With().Str("component", "search").Logger(),
	}
}

// ParseNumericQuery interprets q as a catalog id: an optional leading
// "#" followed by digits only. "25", "#25" and "025" all mean id 25;
// anything with a non-digit ("12a") is a text query.
func ParseNumericQuery(q string) (int, bool) {
	s := strings.TrimPrefix(strings.TrimSpace(q), "#")
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Search runs the full pipeline: generation filter, query (with family
// expansion), type filter, pagination, page hydration. Filters apply in
// cost order — the generation index is one cached fan-out, the query
// may fan out per match, and the type filter needs its own upstream
// fetch, so it only runs against an already-reduced set.
func (e *Engine) Search(ctx context.Context, p Params) (*Result, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	cursor := p.Cursor
	if cursor < 0 {
		return nil, fmt.Errorf("%w: cursor must be >= 0", ErrInvalidInput)
	}

	candidates, err := e.index.All(ctx)
	if err != nil {
		return nil, err
	}
	generations, err := e.index.GenerationsBySpecies(ctx)
	if err != nil {
		return nil, err
	}

	if gen := strings.ToLower(strings.TrimSpace(p.Generation)); gen != "" {
		candidates = filterByGeneration(candidates, generations, gen)
	}

	if q := strings.ToLower(strings.TrimSpace(p.Q)); q != "" {
		candidates = e.applyQuery(ctx, candidates, q)
	}

	if typeName := strings.ToLower(strings.TrimSpace(p.Type)); typeName != "" && len(candidates) > 0 {
		members, err := e.index.TypeMembers(ctx, typeName)
		if err != nil {
			return nil, err
		}
		candidates = filterByMembership(candidates, members)
	}

	total := len(candidates)
	page := paginate(candidates, cursor, limit)

	names := make([]string, len(page))
	for i, entry := range page {
		names[i] = entry.Name
	}
	items, err := e.hydrate(ctx, names, generations)
	if err != nil {
		return nil, err
	}

	result := &Result{Items: items, Total: total}
	if next := cursor + limit; next < total {
		result.NextCursor = &next
	}
	return result, nil
}

// applyQuery narrows candidates by q. A numeric query selects the exact
// id; a text query selects substring matches. Either way the final set
// is the intersection of the candidates with the matches' expanded
// evolution families, so searching "pikachu" also surfaces pichu and
// raichu. No match means an empty set — there is no fuzzy fallback.
func (e *Engine) applyQuery(ctx context.Context, candidates []index.Entry, q string) []index.Entry {
	var seeds []string
	if id, ok := ParseNumericQuery(q); ok {
		for _, entry := range candidates {
			if entry.ID == id {
				seeds = []string{entry.Name}
				break
			}
		}
	} else {
		for _, entry := range candidates {
			if strings.Contains(entry.Name, q) {
				seeds = append(seeds, entry.Name)
			}
		}
	}
	if len(seeds) == 0 {
		return nil
	}

	family := e.expander.Expand(ctx, seeds)
	names := make(map[string]struct{}, len(family))
	for _, n := range family {
		names[n] = struct{}{}
	}

	var out []index.Entry
	for _, entry := range candidates {
		if _, ok := names[entry.Name]; ok {
			out = append(out, entry)
		}
	}
	return out
}

// filterByGeneration keeps candidates whose generation matches gen,
// given either as the generation name or its numeric id.
func filterByGeneration(candidates []index.Entry, generations map[string]index.GenerationRef, gen string) []index.Entry {
	genID, numeric := ParseNumericQuery(gen)

	var out []index.Entry
	for _, entry := range candidates {
		ref, ok := generations[entry.Name]
		if !ok {
			continue
		}
		if numeric && ref.ID == genID || !numeric && ref.Name == gen {
			out = append(out, entry)
		}
	}
	return out
}

func filterByMembership(candidates []index.Entry, members map[int]struct{}) []index.Entry {
	var out []index.Entry
	for _, entry := range candidates {
		if _, ok := members[entry.ID]; ok {
			out = append(out, entry)
		}
	}
	return out
}

func paginate(candidates []index.Entry, cursor, limit int) []index.Entry {
	if cursor >= len(candidates) {
		return nil
	}
	end := cursor + limit
	if end > len(candidates) {
		end = len(candidates)
	}
	return candidates[cursor:end]
}
