// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownContentType is returned when a content type name cannot be parsed.
var ErrUnknownContentType = errors.New("unknown content type")

// ContentType identifies one of the catalog partitions.
type ContentType int

const (
	// Movies holds feature films.
	Movies ContentType = iota
	// Documentaries holds documentary films.
	Documentaries
	// Series holds episodic shows.
	Series
)

// String returns the canonical lowercase name of the content type.
func (c ContentType) String() string {
	switch c {
	case Movies:
		return "movies"
	case Documentaries:
		return "documentaries"
	case Series:
		return "series"
	default:
		return "unknown"
	}
}

// Valid reports whether c is one of the known content types.
func (c ContentType) Valid() bool {
	return c >= Movies && c <= Series
}

// ParseContentType parses a content type name. Legacy catalog names
// (peliculas, documentales) are accepted as aliases.
func ParseContentType(s string) (ContentType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movies", "movie", "peliculas":
		return Movies, nil
	case "documentaries", "documentary", "documentales":
		return Documentaries, nil
	case "series", "serie", "shows":
		return Series, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownContentType, s)
	}
}

// AllContentTypes returns every content type in canonical order.
func AllContentTypes() []ContentType {
	return []ContentType{Movies, Documentaries, Series}
}

// MarshalText implements encoding.TextMarshaler.
func (c ContentType) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownContentType, int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *ContentType) UnmarshalText(text []byte) error {
	parsed, err := ParseContentType(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Item is a single catalog entry. The shared attributes drive scoring;
// exactly one of Movie, Documentary or Series is set according to Type.
type Item struct {
	ID         string             `json:"id"`
	Type       ContentType        `json:"type"`
	Title      string             `json:"title"`
	Tags       map[string]float64 `json:"tags"`
	Keywords   []string           `json:"keywords"`
	Year       int                `json:"year,omitempty"`
	Production string             `json:"production,omitempty"`
	SequelIDs  []string           `json:"sequel_ids,omitempty"`

	Movie       *MovieDetails       `json:"movie,omitempty"`
	Documentary *DocumentaryDetails `json:"documentary,omitempty"`
	Series      *SeriesDetails      `json:"series,omitempty"`
}

// MovieDetails holds movie-specific attributes.
type MovieDetails struct {
	Director        string   `json:"director,omitempty"`
	Cast            []string `json:"cast,omitempty"`
	DurationMinutes int      `json:"duration,omitempty"`
}

// DocumentaryDetails holds documentary-specific attributes.
// ReleaseDate is kept in DD-MM-YYYY form when it could be parsed.
type DocumentaryDetails struct {
	Director        string `json:"director,omitempty"`
	ReleaseDate     string `json:"date,omitempty"`
	DurationMinutes int    `json:"duration,omitempty"`
}

// SeriesDetails holds series-specific attributes.
type SeriesDetails struct {
	Genre   string         `json:"genre,omitempty"`
	Seasons map[int]Season `json:"seasons,omitempty"`
}

// Season groups the episodes released together.
type Season struct {
	Year       int             `json:"year,omitempty"`
	Production string          `json:"production,omitempty"`
	Episodes   map[int]Episode `json:"episodes,omitempty"`
}

// Episode is a single installment of a season.
type Episode struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"duration,omitempty"`
}

// GetID returns the item identifier. Getters are safe on a nil *Item.
func (i *Item) GetID() string {
	if i == nil {
		return ""
	}
	return i.ID
}

// GetTags returns the tag intensities.
func (i *Item) GetTags() map[string]float64 {
	if i == nil {
		return nil
	}
	return i.Tags
}

// GetKeywords returns the item keywords.
func (i *Item) GetKeywords() []string {
	if i == nil {
		return nil
	}
	return i.Keywords
}

// GetSequelIDs returns the ids of the direct sequels.
func (i *Item) GetSequelIDs() []string {
	if i == nil {
		return nil
	}
	return i.SequelIDs
}

// GetDirector returns the director or "" when the kind has none.
func (i *Item) GetDirector() string {
	switch {
	case i == nil:
		return ""
	case i.Movie != nil:
		return i.Movie.Director
	case i.Documentary != nil:
		return i.Documentary.Director
	default:
		return ""
	}
}

// TotalEpisodes returns the number of episodes across all seasons.
func (s *SeriesDetails) TotalEpisodes() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, season := range s.Seasons {
		n += len(season.Episodes)
	}
	return n
}

// TotalDurationMinutes returns the summed episode runtime.
func (s *SeriesDetails) TotalDurationMinutes() int {
	if s == nil {
		return 0
	}
	total := 0
	for _, season := range s.Seasons {
		for _, ep := range season.Episodes {
			total += ep.DurationMinutes
		}
	}
	return total
}

// SeasonNumbers returns the season numbers in ascending order.
func (s *SeriesDetails) SeasonNumbers() []int {
	if s == nil {
		return nil
	}
	nums := make([]int, 0, len(s.Seasons))
	for n := range s.Seasons {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}

// SortItems orders items by id in place.
func SortItems(items []*Item) {
	sort.SliceStable(items, func(a, b int) bool {
		return items[a].ID < items[b].ID
	})
}
