// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pokeapi is a resilient, cache-aware client for the PokéAPI
// REST service. Responses are decoded partially: only the fields the
// aggregation core consumes are modeled.
package pokeapi

// NamedResource is the ubiquitous PokéAPI {name, url} reference pair.
// The url carries the resource id as its numeric path suffix.
type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ListResponse is the shape of paginated listing endpoints such as
// /pokemon?limit=...&offset=... and /type.
type ListResponse struct {
	Count    int             `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  []NamedResource `json:"results"`
}

// Generation is the decoded /generation/{id} record. PokemonSpecies
// lists every species introduced in that generation.
type Generation struct {
	ID             int             `json:"id"`
	Name           string          `json:"name"`
	PokemonSpecies []NamedResource `json:"pokemon_species"`
}

// PokemonType is one slot of a pokemon's type list.
type PokemonType struct {
	Slot int           `json:"slot"`
	Type NamedResource `json:"type"`
}

// PokemonStat is one base stat entry.
type PokemonStat struct {
	BaseStat int           `json:"base_stat"`
	Stat     NamedResource `json:"stat"`
}

// Pokemon is the decoded /pokemon/{nameOrId} record, reduced to the
// fields the card and detail projections need. Species is the key for
// generation lookup and for the species record.
type Pokemon struct {
	ID      int           `json:"id"`
	Name    string        `json:"name"`
	Species NamedResource `json:"species"`
	Types   []PokemonType `json:"types"`
	Stats   []PokemonStat `json:"stats"`
	Sprites Sprites       `json:"sprites"`
}

// FlavorText is one localized flavor text entry.
type FlavorText struct {
	FlavorText string        `json:"flavor_text"`
	Language   NamedResource `json:"language"`
}

// Genus is one localized genus entry ("Mouse Pokémon").
type Genus struct {
	Genus    string        `json:"genus"`
	Language NamedResource `json:"language"`
}

// Variety links a species to one of its concrete pokemon forms. Some
// species (wormadam, for one) have no /pokemon/{speciesName} record at
// all; only their varieties exist, and exactly one is flagged default.
type Variety struct {
	IsDefault bool          `json:"is_default"`
	Pokemon   NamedResource `json:"pokemon"`
}

// Species is the decoded /pokemon-species/{name} record. EvolutionChain
// points at the relationship tree for the whole family.
type Species struct {
	Name              string       `json:"name"`
	EvolutionChain    struct {
		URL string `json:"url"`
	} `json:"evolution_chain"`
	FlavorTextEntries []FlavorText `json:"flavor_text_entries"`
	Genera            []Genus      `json:"genera"`
	Varieties         []Variety    `json:"varieties"`
}

// ChainNode is one node of the evolution tree: the species at this stage
// and the ordered stages it evolves into.
type ChainNode struct {
	Species   NamedResource `json:"species"`
	EvolvesTo []ChainNode   `json:"evolves_to"`
}

// EvolutionChain is the decoded /evolution-chain/{id} record.
type EvolutionChain struct {
	ID    int       `json:"id"`
	Chain ChainNode `json:"chain"`
}

// TypeRecord is the decoded /type/{name} record: the pokemon that carry
// the type, each with its slot.
type TypeRecord struct {
	Pokemon []struct {
		Pokemon NamedResource `json:"pokemon"`
		Slot    int           `json:"slot"`
	} `json:"pokemon"`
}
