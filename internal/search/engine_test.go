// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cylabeth/pokedeck/internal/cache"
	"github.com/Cylabeth/pokedeck/internal/evolution"
	"github.com/Cylabeth/pokedeck/internal/index"
	"github.com/Cylabeth/pokedeck/internal/pokeapi"
	"github.com/Cylabeth/pokedeck/internal/pool"
)

// mon is one fixture catalog entry. Species differs from Name for
// variant forms (wormadam-plant files under species wormadam).
type mon struct {
	ID      int
	Name    string
	Species string
	Gen     int
	Types   []string
	ChainID int
}

var fixtureMons = []mon{
	{1, "bulbasaur", "bulbasaur", 1, []string{"grass", "poison"}, 1},
	{2, "ivysaur", "ivysaur", 1, []string{"grass", "poison"}, 1},
	{3, "venusaur", "venusaur", 1, []string{"grass", "poison"}, 1},
	{7, "squirtle", "squirtle", 1, []string{"water"}, 3},
	{8, "wartortle", "wartortle", 1, []string{"water"}, 3},
	{9, "blastoise", "blastoise", 1, []string{"water"}, 3},
	{25, "pikachu", "pikachu", 1, []string{"electric"}, 10},
	{26, "raichu", "raichu", 1, []string{"electric"}, 10},
	{172, "pichu", "pichu", 2, []string{"electric"}, 10},
	{152, "chikorita", "chikorita", 2, []string{"grass"}, 50},
	{412, "burmy", "burmy", 4, []string{"bug"}, 60},
	{413, "wormadam-plant", "wormadam", 4, []string{"bug", "grass"}, 60},
}

func chainNode(name string, children ...pokeapi.ChainNode) pokeapi.ChainNode {
	return pokeapi.ChainNode{
		Species:   pokeapi.NamedResource{Name: name, URL: "https://pokeapi.co/api/v2/pokemon-species/0/"},
		EvolvesTo: children,
	}
}

var fixtureChains = map[int]pokeapi.ChainNode{
	1:  chainNode("bulbasaur", chainNode("ivysaur", chainNode("venusaur"))),
	3:  chainNode("squirtle", chainNode("wartortle", chainNode("blastoise"))),
	10: chainNode("pichu", chainNode("pikachu", chainNode("raichu"))),
	50: chainNode("chikorita"),
	60: chainNode("burmy", chainNode("wormadam")),
}

var generationNames = map[int]string{
	1: "generation-i", 2: "generation-ii", 3: "generation-iii",
	4: "generation-iv", 5: "generation-v", 6: "generation-vi",
	7: "generation-vii", 8: "generation-viii", 9: "generation-ix",
}

// fixtureHandler serves a miniature PokéAPI backed by fixtureMons.
func fixtureHandler(t *testing.T) http.Handler {
	byName := make(map[string]mon)
	bySpecies := make(map[string]mon) // species name → default variety
	for _, m := range fixtureMons {
		byName[m.Name] = m
		if _, ok := bySpecies[m.Species]; !ok {
			bySpecies[m.Species] = m
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimSuffix(r.URL.Path, "/")
		switch {
		case path == "/pokemon":
			results := make([]map[string]string, 0, len(fixtureMons))
			for _, m := range fixtureMons {
				results = append(results, map[string]string{
					"name": m.Name,
					"url":  fmt.Sprintf("https://pokeapi.co/api/v2/pokemon/%d/", m.ID),
				})
			}
			writeJSON(t, w, map[string]any{"count": len(results), "results": results})

		case strings.HasPrefix(path, "/pokemon-species/"):
			name := strings.TrimPrefix(path, "/pokemon-species/")
			def, ok := bySpecies[name]
			if !ok {
				http.NotFound(w, r)
				return
			}
			writeJSON(t, w, map[string]any{
				"name":            name,
				"evolution_chain": map[string]string{"url": fmt.Sprintf("http://%s/evolution-chain/%d/", r.Host, def.ChainID)},
				"genera": []map[string]any{
					{"genus": "Fixture Pokémon", "language": map[string]string{"name": "en"}},
				},
				"flavor_text_entries": []map[string]any{
					{"flavor_text": "A strange seed\nwas\fplanted.", "language": map[string]string{"name": "en"}},
				},
				"varieties": []map[string]any{
					{"is_default": true, "pokemon": map[string]string{"name": def.Name}},
				},
			})

		case strings.HasPrefix(path, "/pokemon/"):
			name := strings.TrimPrefix(path, "/pokemon/")
			m, ok := byName[name]
			if !ok {
				http.NotFound(w, r)
				return
			}
			types := make([]map[string]any, len(m.Types))
			for i, tn := range m.Types {
				types[i] = map[string]any{"slot": i + 1, "type": map[string]string{"name": tn}}
			}
			writeJSON(t, w, map[string]any{
				"id":      m.ID,
				"name":    m.Name,
				"species": map[string]string{"name": m.Species, "url": fmt.Sprintf("https://pokeapi.co/api/v2/pokemon-species/%d/", m.ID)},
				"types":   types,
				"stats": []map[string]any{
					{"base_stat": 45, "stat": map[string]string{"name": "hp"}},
					{"base_stat": 49, "stat": map[string]string{"name": "attack"}},
				},
				"sprites": map[string]any{
					"front_default": fmt.Sprintf("classic-%d.png", m.ID),
					"other": map[string]any{
						"official-artwork": map[string]any{"front_default": fmt.Sprintf("art-%d.png", m.ID)},
					},
				},
			})

		case strings.HasPrefix(path, "/evolution-chain/"):
			var id int
			_, err := fmt.Sscanf(path, "/evolution-chain/%d", &id)
			require.NoError(t, err)
			chain, ok := fixtureChains[id]
			require.True(t, ok, "unexpected chain id %d", id)
			writeJSON(t, w, pokeapi.EvolutionChain{ID: id, Chain: chain})

		case strings.HasPrefix(path, "/generation/"):
			var id int
			_, err := fmt.Sscanf(path, "/generation/%d", &id)
			require.NoError(t, err)
			species := []map[string]string{}
			for _, m := range fixtureMons {
				if m.Gen == id && m.Name == bySpecies[m.Species].Name {
					species = append(species, map[string]string{
						"name": m.Species,
						"url":  fmt.Sprintf("https://pokeapi.co/api/v2/pokemon-species/%d/", m.ID),
					})
				}
			}
			writeJSON(t, w, map[string]any{"id": id, "name": generationNames[id], "pokemon_species": species})

		case path == "/type":
			writeJSON(t, w, map[string]any{"count": 3, "results": []map[string]string{
				{"name": "grass", "url": "https://pokeapi.co/api/v2/type/12/"},
				{"name": "water", "url": "https://pokeapi.co/api/v2/type/11/"},
				{"name": "electric", "url": "https://pokeapi.co/api/v2/type/13/"},
			}})

		case strings.HasPrefix(path, "/type/"):
			typeName := strings.TrimPrefix(path, "/type/")
			members := []map[string]any{}
			for _, m := range fixtureMons {
				for _, tn := range m.Types {
					if tn == typeName {
						members = append(members, map[string]any{
							"pokemon": map[string]string{"name": m.Name, "url": fmt.Sprintf("https://pokeapi.co/api/v2/pokemon/%d/", m.ID)},
							"slot":    1,
						})
					}
				}
			}
			writeJSON(t, w, map[string]any{"pokemon": members})

		default:
			t.Errorf("unexpected fixture path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	})
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	ts := httptest.NewServer(fixtureHandler(t))
	t.Cleanup(ts.Close)

	store := cache.NewTTL[string, []byte]()
	client := pokeapi.NewClient(pokeapi.Config{BaseURL: ts.URL}, store, zerolog.Nop())
	p, err := pool.New(5)
	require.NoError(t, err)
	builder := index.NewBuilder(client, zerolog.Nop())
	expander := evolution.NewExpander(client, p, zerolog.Nop())
	return NewEngine(client, builder, expander, p, zerolog.Nop())
}

func itemIDs(items []Card) []int {
	ids := make([]int, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}

func TestParseNumericQuery(t *testing.T) {
	tests := []struct {
		q    string
		want int
		ok   bool
	}{
		{"25", 25, true},
		{"#25", 25, true},
		{"025", 25, true},
		{" 25 ", 25, true},
		{"abc", 0, false},
		{"12a", 0, false},
		{"", 0, false},
		{"#", 0, false},
		{"0", 0, false},
		{"-5", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.q, func(t *testing.T) {
			got, ok := ParseNumericQuery(tt.q)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestSearch_UnfilteredBrowsing(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Search(context.Background(), Params{Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, len(fixtureMons), res.Total)
	assert.Equal(t, []int{1, 2, 3, 7, 8}, itemIDs(res.Items))
	require.NotNil(t, res.NextCursor)
	assert.Equal(t, 5, *res.NextCursor)
}

func TestSearch_PaginationWalkVisitsEverything(t *testing.T) {
	e := newTestEngine(t)
	const limit = 3

	var all []int
	pages := 0
	cursor := 0
	for {
		res, err := e.Search(context.Background(), Params{Cursor: cursor, Limit: limit})
		require.NoError(t, err)
		pages++
		all = append(all, itemIDs(res.Items)...)
		if res.NextCursor == nil {
			break
		}
		cursor = *res.NextCursor
	}

	wantPages := (len(fixtureMons) + limit - 1) / limit
	assert.Equal(t, wantPages, pages)

	var wantIDs []int
	for _, m := range fixtureMons {
		wantIDs = append(wantIDs, m.ID)
	}
	// fixtureMons is already id-sorted; the walk must visit each entry
	// exactly once, in order.
	assert.Equal(t, wantIDs, all)
}

func TestSearch_NumericQueryExpandsFamily(t *testing.T) {
	e := newTestEngine(t)

	for _, q := range []string{"25", "#25", "025"} {
		t.Run(q, func(t *testing.T) {
			res, err := e.Search(context.Background(), Params{Q: q})
			require.NoError(t, err)
			assert.Equal(t, 3, res.Total)
			assert.Equal(t, []int{25, 26, 172}, itemIDs(res.Items), "family of id 25, id-sorted")
			assert.Nil(t, res.NextCursor)
		})
	}
}

func TestSearch_TextQueryExpandsAllMatches(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Search(context.Background(), Params{Q: "chu"})
	require.NoError(t, err)
	assert.Equal(t, []int{25, 26, 172}, itemIDs(res.Items))
}

func TestSearch_TextQueryCaseInsensitive(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Search(context.Background(), Params{Q: "PiKaChU"})
	require.NoError(t, err)
	assert.Contains(t, itemIDs(res.Items), 25)
}

func TestSearch_NoMatchReturnsEmpty(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Search(context.Background(), Params{Q: "zzzznonexistent"})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Nil(t, res.NextCursor)
	assert.Equal(t, 0, res.Total)
}

func TestSearch_NumericQueryOutsideCandidatesIsEmpty(t *testing.T) {
	e := newTestEngine(t)

	// id 25 exists but is generation-i; the generation-ii filter removes
	// it before the query step, so the exact-id lookup finds nothing.
	res, err := e.Search(context.Background(), Params{Q: "25", Generation: "generation-ii"})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Total)
	assert.Empty(t, res.Items)
}

func TestSearch_GenerationFilter(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Search(context.Background(), Params{Generation: "generation-ii"})
	require.NoError(t, err)
	assert.Equal(t, []int{152, 172}, itemIDs(res.Items))

	// Numeric form selects the same generation.
	res2, err := e.Search(context.Background(), Params{Generation: "2"})
	require.NoError(t, err)
	assert.Equal(t, itemIDs(res.Items), itemIDs(res2.Items))
}

func TestSearch_TypeFilter(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Search(context.Background(), Params{Type: "water"})
	require.NoError(t, err)
	assert.Equal(t, []int{7, 8, 9}, itemIDs(res.Items))
	assert.Equal(t, 3, res.Total)
	for _, item := range res.Items {
		assert.Contains(t, item.Types, "water")
	}
}

func TestSearch_CombinedFilters(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Search(context.Background(), Params{Q: "chu", Generation: "generation-ii"})
	require.NoError(t, err)
	assert.Equal(t, []int{172}, itemIDs(res.Items), "pichu is the only generation-ii chu")
}

func TestSearch_NegativeCursorRejected(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Search(context.Background(), Params{Cursor: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSearch_CursorBeyondEnd(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Search(context.Background(), Params{Cursor: 1000})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Nil(t, res.NextCursor)
	assert.Equal(t, len(fixtureMons), res.Total)
}

func TestSearch_ItemProjection(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Search(context.Background(), Params{Q: "#25"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Items)

	var pikachu *Card
	for i := range res.Items {
		if res.Items[i].ID == 25 {
			pikachu = &res.Items[i]
		}
	}
	require.NotNil(t, pikachu)
	assert.Equal(t, "pikachu", pikachu.Name)
	assert.Equal(t, "art-25.png", pikachu.ImageURL, "official artwork preferred")
	assert.Equal(t, []string{"electric"}, pikachu.Types)
	require.NotNil(t, pikachu.Generation)
	assert.Equal(t, "generation-i", pikachu.Generation.Name)
}

func TestHydrate_SortsByID(t *testing.T) {
	e := newTestEngine(t)

	items, err := e.Hydrate(context.Background(), []string{"venusaur", "bulbasaur", "ivysaur"})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, itemIDs(items))
}

func TestHydrate_Validation(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Hydrate(ctx, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	big := make([]string, MaxHydrate+1)
	for i := range big {
		big[i] = "bulbasaur"
	}
	_, err = e.Hydrate(ctx, big)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = e.Hydrate(ctx, []string{"  "})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestHydrate_UnknownNameIsTerminal(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Hydrate(context.Background(), []string{"bulbasaur", "missingno"})
	require.Error(t, err)
	assert.True(t, pokeapi.IsNotFound(err))
}

func TestExpandRelated_Validation(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	_, err := e.ExpandRelated(ctx, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	big := make([]string, MaxExpand+1)
	for i := range big {
		big[i] = "pikachu"
	}
	_, err = e.ExpandRelated(ctx, big)
	assert.ErrorIs(t, err, ErrInvalidInput)

	got, err := e.ExpandRelated(ctx, []string{"Pikachu"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"pichu", "pikachu", "raichu"}, got)
}

func TestDetail_FullView(t *testing.T) {
	e := newTestEngine(t)

	d, err := e.Detail(context.Background(), "pikachu")
	require.NoError(t, err)
	assert.Equal(t, 25, d.ID)
	assert.Equal(t, "pikachu", d.Name)
	assert.Equal(t, "Fixture Pokémon", d.Genus)
	assert.Equal(t, "A strange seed was planted.", d.FlavorText, "control characters collapsed")
	assert.Equal(t, []StatValue{{Name: "hp", Value: 45}, {Name: "attack", Value: 49}}, d.Stats)
	assert.Equal(t, []int{25, 26, 172}, itemIDs(d.Evolutions), "evolution line id-sorted")
}

func TestDetail_UnknownNameIsNotFound(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Detail(context.Background(), "missingno")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDetail_SpeciesOnlyNameResolvesDefaultVariety(t *testing.T) {
	e := newTestEngine(t)

	// "wormadam" has no /pokemon/wormadam record; only its varieties
	// exist, and wormadam-plant is the default.
	d, err := e.Detail(context.Background(), "wormadam")
	require.NoError(t, err)
	assert.Equal(t, 413, d.ID)
	assert.Equal(t, "wormadam-plant", d.Name)
	assert.Equal(t, []int{412, 413}, itemIDs(d.Evolutions), "burmy then wormadam-plant")
}

func TestGenerationsAndTypes(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	gens, err := e.Generations(ctx)
	require.NoError(t, err)
	require.Len(t, gens, 9)
	assert.Equal(t, "generation-i", gens[0].Name)

	types, err := e.Types(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"grass", "water", "electric"}, types)

	byName, err := e.GenerationsIndex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, byName["pikachu"].ID)
	assert.Equal(t, 2, byName["pichu"].ID)
}
