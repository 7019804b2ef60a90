// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pokeapi

// Sprites models the subset of the sprite object the projections use.
// The full upstream object is enormous; only the fallback chain sources
// are decoded.
type Sprites struct {
	FrontDefault string `json:"front_default"`
	Other        struct {
		Home struct {
			FrontDefault string `json:"front_default"`
		} `json:"home"`
		OfficialArtwork struct {
			FrontDefault string `json:"front_default"`
		} `json:"official-artwork"`
	} `json:"other"`
}

// ImageURL picks the best available sprite URL. Priority: official
// artwork (highest quality), then home artwork, then the classic front
// sprite. Returns "" when none exists so the caller can render a
// placeholder instead of a broken image.
func (s Sprites) ImageURL() string {
	if u := s.Other.OfficialArtwork.FrontDefault; u != "" {
		return u
	}
	if u := s.Other.Home.FrontDefault; u != "" {
		return u
	}
	return s.FrontDefault
}
