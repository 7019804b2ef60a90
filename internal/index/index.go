// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index builds the catalog-wide lookup structures the search
// engine narrows against: the full id-sorted index, the species-to-
// generation mapping, and per-type membership sets.
package index

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Cylabeth/pokedeck/internal/pokeapi"
)

const (
	// TTLLong caches the full catalog listing; it changes rarely.
	TTLLong = 12 * time.Hour
	// TTLVeryLong caches near-static reference data (generations, types).
	TTLVeryLong = 24 * time.Hour
)

// generationIDs is the fixed upstream generation range. Upstream adding
// a tenth generation silently excludes it until this constant is bumped;
// probing for 404s was considered and rejected to keep index builds at a
// predictable request count.
var generationIDs = []int{1, 2, 3, 4, 5, 6, 7, 8, 9}

// idSuffixRE extracts the trailing numeric id from a resource URL such
// as "https://pokeapi.co/api/v2/pokemon/25/".
var idSuffixRE = regexp.MustCompile(`/(\d+)/?$`)

// ExtractID returns the numeric id encoded as the URL's path suffix.
// A URL without one is malformed upstream data and a terminal error.
func ExtractID(rawURL string) (int, error) {
	m := idSuffixRE.FindStringSubmatch(rawURL)
	if m == nil {
		return 0, &pokeapi.MalformedDataError{Detail: "cannot extract id from url: " + rawURL}
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, &pokeapi.MalformedDataError{Detail: "cannot extract id from url: " + rawURL}
	}
	return id, nil
}

// Entry is one catalog index row.
type Entry struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// GenerationRef identifies the generation a species belongs to.
type GenerationRef struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Builder constructs the indexes on top of the cache-backed client.
// Every build is recomputed per call; the client's TTL cache is the only
// persistence, so concurrent requests stay coordination-free.
type Builder struct {
	client *pokeapi.Client
	logger zerolog.Logger
}

// NewBuilder creates a Builder.
func NewBuilder(client *pokeapi.Client, logger zerolog.Logger) *Builder {
	return &Builder{
		client: client,
		logger: logger.With().Str("component", "index").Logger(),
	}
}

// All fetches the full catalog listing as one logical page and returns
// it sorted ascending by id. Names are unique and lowercase upstream.
func (b *Builder) All(ctx context.Context) ([]Entry, error) {
	var list pokeapi.ListResponse
	err := b.client.FetchJSON(ctx, "/pokemon?limit=100000&offset=0",
		pokeapi.FetchOptions{TTL: TTLLong}, &list)
	if err != nil {
		return nil, fmt.Errorf("fetching full index: %w", err)
	}

	entries := make([]Entry, 0, len(list.Results))
	for _, r := range list.Results {
		id, err := ExtractID(r.URL)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{ID: id, Name: r.Name})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

// GenerationsBySpecies fetches the fixed generation range in parallel and
// merges the member lists into a species-name → generation mapping.
func (b *Builder) GenerationsBySpecies(ctx context.Context) (map[string]GenerationRef, error) {
	gens, err := b.fetchGenerations(ctx)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]GenerationRef)
	for _, g := range gens {
		ref := GenerationRef{ID: g.ID, Name: g.Name}
		for _, s := range g.PokemonSpecies {
			byName[s.Name] = ref
		}
	}
	return byName, nil
}

// Generations returns the fixed generation enumeration, id-sorted.
func (b *Builder) Generations(ctx context.Context) ([]GenerationRef, error) {
	gens, err := b.fetchGenerations(ctx)
	if err != nil {
		return nil, err
	}
	refs := make([]GenerationRef, len(gens))
	for i, g := range gens {
		refs[i] = GenerationRef{ID: g.ID, Name: g.Name}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].ID < refs[j].ID })
	return refs, nil
}

func (b *Builder) fetchGenerations(ctx context.Context) ([]pokeapi.Generation, error) {
	gens := make([]pokeapi.Generation, len(generationIDs))
	g, ctx := errgroup.WithContext(ctx)
	for i, id := range generationIDs {
		i, id := i, id
		g.Go(func() error {
			err := b.client.FetchJSON(ctx, fmt.Sprintf("/generation/%d", id),
				pokeapi.FetchOptions{TTL: TTLVeryLong}, &gens[i])
			if err != nil {
				return fmt.Errorf("fetching generation %d: %w", id, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return gens, nil
}

// TypeMembers fetches the member list for one type and returns the ids
// as a set for O(1) membership tests. Lazy: only the types a query asks
// for are ever fetched.
func (b *Builder) TypeMembers(ctx context.Context, typeName string) (map[int]struct{}, error) {
	var rec pokeapi.TypeRecord
	err := b.client.FetchJSON(ctx, "/type/"+typeName,
		pokeapi.FetchOptions{TTL: TTLVeryLong}, &rec)
	if err != nil {
		return nil, fmt.Errorf("fetching type %q: %w", typeName, err)
	}

	members := make(map[int]struct{}, len(rec.Pokemon))
	for _, p := range rec.Pokemon {
		id, err := ExtractID(p.Pokemon.URL)
		if err != nil {
			return nil, err
		}
		members[id] = struct{}{}
	}
	b.logger.Debug().Str("type", typeName).Int("members", len(members)).Msg("type membership built")
	return members, nil
}

// Types returns the names in the full type enumeration.
func (b *Builder) Types(ctx context.Context) ([]string, error) {
	var list pokeapi.ListResponse
	err := b.client.FetchJSON(ctx, "/type", pokeapi.FetchOptions{TTL: TTLVeryLong}, &list)
	if err != nil {
		return nil, fmt.Errorf("fetching type list: %w", err)
	}
	names := make([]string, len(list.Results))
	for i, r := range list.Results {
		names[i] = r.Name
	}
	return names, nil
}
