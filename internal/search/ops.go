// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Cylabeth/pokedeck/internal/index"
	"github.com/Cylabeth/pokedeck/internal/pokeapi"
	"github.com/Cylabeth/pokedeck/internal/pool"
)

// IndexAll returns the full catalog index, id-sorted.
func (e *Engine) IndexAll(ctx context.Context) ([]index.Entry, error) {
	return e.index.All(ctx)
}

// GenerationsIndex returns the species-name → generation mapping.
func (e *Engine) GenerationsIndex(ctx context.Context) (map[string]index.GenerationRef, error) {
	return e.index.GenerationsBySpecies(ctx)
}

// Generations returns the generation enumeration.
func (e *Engine) Generations(ctx context.Context) ([]index.GenerationRef, error) {
	return e.index.Generations(ctx)
}

// Types returns the type enumeration.
func (e *Engine) Types(ctx context.Context) ([]string, error) {
	return e.index.Types(ctx)
}

// ExpandRelated resolves up to MaxExpand names to their deduplicated
// evolution families.
func (e *Engine) ExpandRelated(ctx context.Context, names []string) ([]string, error) {
	if err := validateNames(names, MaxExpand); err != nil {
		return nil, err
	}
	return e.expander.Expand(ctx, lowercaseAll(names)), nil
}

// Hydrate fetches full records for up to MaxHydrate names and returns
// the card projections sorted ascending by id. Unlike expansion, a
// failed member is a terminal error: the caller asked for exactly these
// records.
func (e *Engine) Hydrate(ctx context.Context, names []string) ([]Card, error) {
	if err := validateNames(names, MaxHydrate); err != nil {
		return nil, err
	}
	generations, err := e.index.GenerationsBySpecies(ctx)
	if err != nil {
		return nil, err
	}
	return e.hydrate(ctx, lowercaseAll(names), generations)
}

// hydrate fetches each name through the pool and re-sorts by id: the
// pool bounds concurrency but does not preserve completion order.
func (e *Engine) hydrate(ctx context.Context, names []string, generations map[string]index.GenerationRef) ([]Card, error) {
	items := make([]Card, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			card, err := pool.Run(gctx, e.pool, func(ctx context.Context) (Card, error) {
				return e.fetchCard(ctx, name, generations)
			})
			if err != nil {
				return err
			}
			items[i] = card
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

// fetchCard fetches one primary record and projects it. The generation
// lookup is by record name; variants without their own generation entry
// get nil, which the presentation layer renders as unknown.
func (e *Engine) fetchCard(ctx context.Context, name string, generations map[string]index.GenerationRef) (Card, error) {
	var p pokeapi.Pokemon
	err := e.client.FetchJSON(ctx, "/pokemon/"+name,
		pokeapi.FetchOptions{TTL: index.TTLLong}, &p)
	if err != nil {
		return Card{}, fmt.Errorf("hydrating %q: %w", name, err)
	}
	return e.project(p, generations), nil
}

func (e *Engine) project(p pokeapi.Pokemon, generations map[string]index.GenerationRef) Card {
	types := make([]pokeapi.PokemonType, len(p.Types))
	copy(types, p.Types)
	sort.Slice(types, func(i, j int) bool { return types[i].Slot < types[j].Slot })

	typeNames := make([]string, len(types))
	for i, t := range types {
		typeNames[i] = t.Type.Name
	}

	card := Card{
		ID:       p.ID,
		Name:     p.Name,
		ImageURL: p.Sprites.ImageURL(),
		Types:    typeNames,
	}
	if ref, ok := generations[p.Name]; ok {
		card.Generation = &ref
	}
	return card
}

func validateNames(names []string, max int) error {
	if len(names) == 0 {
		return fmt.Errorf("%w: names must not be empty", ErrInvalidInput)
	}
	if len(names) > max {
		return fmt.Errorf("%w: at most %d names per call, got %d", ErrInvalidInput, max, len(names))
	}
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			return fmt.Errorf("%w: empty name", ErrInvalidInput)
		}
	}
	return nil
}

func lowercaseAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = strings.ToLower(strings.TrimSpace(n))
	}
	return out
}
