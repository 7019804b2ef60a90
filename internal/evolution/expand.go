// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package evolution resolves entity names to their full evolution family
// by walking the upstream relationship chain.
package evolution

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Cylabeth/pokedeck/internal/index"
	"github.com/Cylabeth/pokedeck/internal/pokeapi"
	"github.com/Cylabeth/pokedeck/internal/pool"
)

// maxSeeds caps how many distinct names one expansion fans out for.
// A broad substring query can match hundreds of entries; without the cap
// each would cost three upstream fetches.
const maxSeeds = 10

// Expander resolves names to their evolution families through the
// shared pool.
type Expander struct {
	client *pokeapi.Client
	pool   *pool.Pool
	logger zerolog.Logger
}

// NewExpander creates an Expander.
func NewExpander(client *pokeapi.Client, p *pool.Pool, logger zerolog.Logger) *Expander {
	return &Expander{
		client: client,
		pool:   p,
		logger: logger.With().Str("component", "evolution").Logger(),
	}
}

// Expand resolves each seed name to its full evolution family and
// returns the deduplicated union, in discovery order. A name whose
// resolution fails at any step degrades to the singleton family
// [name]; one bad member never fails the batch. Failures are logged,
// not returned.
func (e *Expander) Expand(ctx context.Context, names []string) []string {
	seeds := dedupe(names)
	if len(seeds) > maxSeeds {
		seeds = seeds[:maxSeeds]
	}

	families, report := pool.BestEffortMap(ctx, e.pool, seeds,
		e.family,
		func(name string) []string { return []string{name} },
	)
	for i, err := range report.Errors {
		e.logger.Warn().Str("name", seeds[i]).Err(err).Msg("expansion degraded to singleton")
	}

	var out []string
	seen := make(map[string]struct{})
	for _, family := range families {
		for _, name := range family {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

// family resolves one name: primary record → species record → evolution
// chain → flattened member names.
func (e *Expander) family(ctx context.Context, name string) ([]string, error) {
	// The name may be a display variant whose species key differs
	// (raichu-alola files under raichu).
	var p pokeapi.Pokemon
	err := e.client.FetchJSON(ctx, "/pokemon/"+name,
		pokeapi.FetchOptions{TTL: index.TTLLong}, &p)
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", name, err)
	}

	var species pokeapi.Species
	err = e.client.FetchJSON(ctx, "/pokemon-species/"+p.Species.Name,
		pokeapi.FetchOptions{TTL: index.TTLLong}, &species)
	if err != nil {
		return nil, fmt.Errorf("fetching species %q: %w", p.Species.Name, err)
	}
	if species.EvolutionChain.URL == "" {
		return nil, fmt.Errorf("species %q has no evolution chain", p.Species.Name)
	}

	var chain pokeapi.EvolutionChain
	err = e.client.FetchJSON(ctx, species.EvolutionChain.URL,
		pokeapi.FetchOptions{TTL: index.TTLLong}, &chain)
	if err != nil {
		return nil, fmt.Errorf("fetching evolution chain for %q: %w", p.Species.Name, err)
	}

	return Flatten(chain.Chain), nil
}

// Flatten walks the chain iteratively with an explicit stack, returning
// member names in pre-order discovery order, deduplicated. Iteration
// rather than recursion keeps deep or wide chains safe, and the seen set
// keeps a cyclic chain from looping.
func Flatten(root pokeapi.ChainNode) []string {
	var out []string
	seen := make(map[string]struct{})

	stack := []pokeapi.ChainNode{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, ok := seen[node.Species.Name]; !ok && node.Species.Name != "" {
			seen[node.Species.Name] = struct{}{}
			out = append(out, node.Species.Name)
		}

		// Push children in reverse so the first child is visited next.
		for i := len(node.EvolvesTo) - 1; i >= 0; i-- {
			stack = append(stack, node.EvolvesTo[i])
		}
	}
	return out
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	var out []string
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
