// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Cylabeth/pokedeck/internal/index"
	"github.com/Cylabeth/pokedeck/internal/pokeapi"
	"github.com/Cylabeth/pokedeck/internal/pool"
)

// StatValue is one base stat in the detail view, in upstream order.
type StatValue struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Detail is the full detail view for one entity: the card fields plus
// species text and the hydrated evolution line.
type Detail struct {
	Card
	Stats      []StatValue `json:"stats"`
	Genus      string      `json:"genus"`
	FlavorText string      `json:"flavorText"`
	Evolutions []Card      `json:"evolutions"`
}

// Detail builds the detail view for name. An unknown name returns
// ErrNotFound; transient upstream failures return their own errors so
// the caller can render the two states differently.
func (e *Engine) Detail(ctx context.Context, name string) (*Detail, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidInput)
	}

	p, err := e.fetchPokemon(ctx, name)
	if err != nil {
		return nil, err
	}

	var species pokeapi.Species
	err = e.client.FetchJSON(ctx, "/pokemon-species/"+p.Species.Name,
		pokeapi.FetchOptions{TTL: index.TTLLong}, &species)
	if err != nil {
		return nil, fmt.Errorf("fetching species %q: %w", p.Species.Name, err)
	}

	generations, err := e.index.GenerationsBySpecies(ctx)
	if err != nil {
		return nil, err
	}

	d := &Detail{
		Card:       e.project(p, generations),
		Genus:      englishGenus(species.Genera),
		FlavorText: englishFlavorText(species.FlavorTextEntries),
	}
	for _, s := range p.Stats {
		d.Stats = append(d.Stats, StatValue{Name: s.Stat.Name, Value: s.BaseStat})
	}

	d.Evolutions = e.evolutionLine(ctx, p.Name, generations)
	return d, nil
}

// fetchPokemon fetches the primary record for name, falling back through
// the species default variety when the name only exists as a species
// (wormadam has no /pokemon/wormadam; only its varieties are fetchable).
// A name unknown under both routes is ErrNotFound.
func (e *Engine) fetchPokemon(ctx context.Context, name string) (pokeapi.Pokemon, error) {
	var p pokeapi.Pokemon
	err := e.client.FetchJSON(ctx, "/pokemon/"+name,
		pokeapi.FetchOptions{TTL: index.TTLLong}, &p)
	if err == nil {
		return p, nil
	}
	if !pokeapi.IsNotFound(err) {
		return pokeapi.Pokemon{}, err
	}

	var species pokeapi.Species
	serr := e.client.FetchJSON(ctx, "/pokemon-species/"+name,
		pokeapi.FetchOptions{TTL: index.TTLLong}, &species)
	if serr != nil {
		if pokeapi.IsNotFound(serr) {
			return pokeapi.Pokemon{}, fmt.Errorf("%q: %w", name, ErrNotFound)
		}
		return pokeapi.Pokemon{}, serr
	}

	variety := defaultVariety(species)
	if variety == "" {
		return pokeapi.Pokemon{}, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	err = e.client.FetchJSON(ctx, "/pokemon/"+variety,
		pokeapi.FetchOptions{TTL: index.TTLLong}, &p)
	if err != nil {
		if pokeapi.IsNotFound(err) {
			return pokeapi.Pokemon{}, fmt.Errorf("%q: %w", name, ErrNotFound)
		}
		return pokeapi.Pokemon{}, err
	}
	return p, nil
}

// evolutionLine expands name to its family and hydrates each member
// best-effort: a member that cannot be hydrated is dropped from the
// line (and logged) rather than failing the whole detail view.
func (e *Engine) evolutionLine(ctx context.Context, name string, generations map[string]index.GenerationRef) []Card {
	family := e.expander.Expand(ctx, []string{name})

	cards, report := pool.BestEffortMap(ctx, e.pool, family,
		func(ctx context.Context, member string) (*Card, error) {
			p, err := e.fetchPokemon(ctx, member)
			if err != nil {
				return nil, err
			}
			card := e.project(p, generations)
			return &card, nil
		},
		func(string) *Card { return nil },
	)
	for i, err := range report.Errors {
		e.logger.Warn().Str("member", family[i]).Err(err).Msg("dropping unhydratable evolution member")
	}

	var line []Card
	for _, c := range cards {
		if c != nil {
			line = append(line, *c)
		}
	}
	sort.Slice(line, func(i, j int) bool { return line[i].ID < line[j].ID })
	return line
}

// defaultVariety returns the name of the species' default pokemon form.
func defaultVariety(species pokeapi.Species) string {
	for _, v := range species.Varieties {
		if v.IsDefault {
			return v.Pokemon.Name
		}
	}
	return ""
}

// englishGenus returns the first English genus entry.
func englishGenus(genera []pokeapi.Genus) string {
	for _, g := range genera {
		if g.Language.Name == "en" {
			return g.Genus
		}
	}
	return ""
}

// englishFlavorText returns the first English flavor text with its
// control characters collapsed to single spaces. Upstream embeds form
// feeds and hard newlines from the original game text.
func englishFlavorText(entries []pokeapi.FlavorText) string {
	for _, f := range entries {
		if f.Language.Name == "en" {
			return strings.Join(strings.Fields(f.FlavorText), " ")
		}
	}
	return ""
}
