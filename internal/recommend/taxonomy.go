// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package recommend

import "github.com/tomtom215/cinegraph/internal/catalog"

// TagSet is an immutable set of tag names.
type TagSet map[string]struct{}

// Has reports whether tag belongs to the set.
func (s TagSet) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

func newTagSet(tags ...string) TagSet {
	s := make(TagSet, len(tags))
	for _, t := range tags {
		s[t] = struct{}{}
	}
	return s
}

// TagCategory is the importance class of a tag within a content type.
type TagCategory int

const (
	CategoryOther TagCategory = iota
	CategoryLow
	CategoryMedium
	CategoryHigh
)

// String returns the category name.
func (c TagCategory) String() string {
	switch c {
	case CategoryHigh:
		return "high"
	case CategoryMedium:
		return "medium"
	case CategoryLow:
		return "low"
	default:
		return "other"
	}
}

type taxonomy struct {
	high, medium, low TagSet
}

// Tag names are catalog data and must match the stored records exactly.
var taxonomies = map[catalog.ContentType]taxonomy{
	catalog.Movies: {
		high:   newTagSet("Dinosaurios", "Fantasía de Mundo", "Cyberpunk", "Arqueología", "Juventud", "Superhéroes"),
		medium: newTagSet("Tecnología", "Distopía", "Histórica", "Mar", "Magia", "Sobrenatural"),
		low:    newTagSet("Acción", "Aventura", "Comedia", "Drama", "Familia"),
	},
	catalog.Documentaries: {
		high:   newTagSet("Ciencia", "Historia", "Medio-Ambiente", "Crimen-Real", "Biografía", "Política"),
		medium: newTagSet("Música", "Arte", "Exploración", "Guerra", "Deporte", "Tecnología"),
		low:    newTagSet("Entrevista", "Narración-en-off", "Investigación", "Social", "Viajes"),
	},
	catalog.Series: {
		high:   newTagSet("Fantasia-Oscura", "Ciencia-Ficción", "Thriller-Psicológico", "Misterio", "Western", "Histórica"),
		medium: newTagSet("Policial", "Comedia-Negra", "Juvenil", "Superhéroes", "Romance", "Acción-Militar"),
		low:    newTagSet("Sitcom", "Procedimental", "Telenovela", "Animación", "Épica"),
	},
}

// Taxonomy returns the high, medium and low tag sets for ct. Unknown
// content types get empty sets.
func Taxonomy(ct catalog.ContentType) (high, medium, low TagSet) {
	t, ok := taxonomies[ct]
	if !ok {
		return TagSet{}, TagSet{}, TagSet{}
	}
	return t.high, t.medium, t.low
}

// Categorize returns the category of tag under ct.
func Categorize(ct catalog.ContentType, tag string) TagCategory {
	high, medium, low := Taxonomy(ct)
	switch {
	case high.Has(tag):
		return CategoryHigh
	case medium.Has(tag):
		return CategoryMedium
	case low.Has(tag):
		return CategoryLow
	default:
		return CategoryOther
	}
}
