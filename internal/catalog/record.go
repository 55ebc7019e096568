// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinegraph/internal/validation"
)

// ErrInvalidRecord is returned when a raw record cannot be turned into an Item.
var ErrInvalidRecord = errors.New("invalid catalog record")

// DateLayout is the display layout for documentary release dates.
const DateLayout = "02-01-2006"

// Record is the flat wire representation of a catalog item, shared by the
// store, the seed documents and the HTTP API. Kind-specific fields are
// ignored for kinds that do not use them.
type Record struct {
	ID         string             `json:"id" yaml:"id" validate:"nonblank,max=256"`
	Title      string             `json:"title" yaml:"title" validate:"nonblank"`
	Tags       map[string]float64 `json:"tags" yaml:"tags" validate:"intensity"`
	Keywords   []string           `json:"keywords" yaml:"keywords" validate:"omitempty,dive,nonblank"`
	Year       int                `json:"year,omitempty" yaml:"year,omitempty" validate:"gte=0,lte=3000"`
	Production string             `json:"production,omitempty" yaml:"production,omitempty"`
	SequelIDs  []string           `json:"sequel_ids,omitempty" yaml:"sequel_ids,omitempty" validate:"omitempty,dive,nonblank"`

	// Movie and documentary fields.
	Director string   `json:"director,omitempty" yaml:"director,omitempty"`
	Cast     []string `json:"cast,omitempty" yaml:"cast,omitempty"`
	Duration int      `json:"duration,omitempty" yaml:"duration,omitempty" validate:"gte=0"`
	Date     string   `json:"date,omitempty" yaml:"date,omitempty"`

	// Series fields. Season keys are season numbers rendered as strings.
	Genre   string                  `json:"genre,omitempty" yaml:"genre,omitempty"`
	Seasons map[string]SeasonRecord `json:"seasons,omitempty" yaml:"seasons,omitempty" validate:"omitempty,dive"`
}

// SeasonRecord is the wire form of a season.
type SeasonRecord struct {
	Year       int                      `json:"year,omitempty" yaml:"year,omitempty"`
	Production string                   `json:"production,omitempty" yaml:"production,omitempty"`
	Episodes   map[string]EpisodeRecord `json:"episodes,omitempty" yaml:"episodes,omitempty" validate:"omitempty,dive"`
}

// EpisodeRecord is the wire form of an episode.
type EpisodeRecord struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Duration int    `json:"duration,omitempty" yaml:"duration,omitempty" validate:"gte=0"`
}

// Validate checks the record with the shared validator.
func (r *Record) Validate() error {
	if verr := validation.ValidateStruct(r); verr != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRecord, verr.Error())
	}
	return nil
}

// ToItem converts the record into an Item of the given content type.
func (r *Record) ToItem(ct ContentType) (*Item, error) {
	if !ct.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownContentType, int(ct))
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	item := &Item{
		ID:         r.ID,
		Type:       ct,
		Title:      r.Title,
		Tags:       copyTags(r.Tags),
		Keywords:   append([]string(nil), r.Keywords...),
		Year:       r.Year,
		Production: r.Production,
		SequelIDs:  append([]string(nil), r.SequelIDs...),
	}

	switch ct {
	case Movies:
		item.Movie = &MovieDetails{
			Director:        r.Director,
			Cast:            append([]string(nil), r.Cast...),
			DurationMinutes: r.Duration,
		}
	case Documentaries:
		item.Documentary = &DocumentaryDetails{
			Director:        r.Director,
			ReleaseDate:     NormalizeDate(r.Date),
			DurationMinutes: r.Duration,
		}
	case Series:
		seasons, err := decodeSeasons(r.Seasons)
		if err != nil {
			return nil, err
		}
		item.Series = &SeriesDetails{Genre: r.Genre, Seasons: seasons}
	}

	return item, nil
}

// ToRecord flattens the item back into its wire form.
func (i *Item) ToRecord() *Record {
	r := &Record{
		ID:         i.ID,
		Title:      i.Title,
		Tags:       copyTags(i.Tags),
		Keywords:   append([]string(nil), i.Keywords...),
		Year:       i.Year,
		Production: i.Production,
		SequelIDs:  append([]string(nil), i.SequelIDs...),
	}

	switch {
	case i.Movie != nil:
		r.Director = i.Movie.Director
		r.Cast = append([]string(nil), i.Movie.Cast...)
		r.Duration = i.Movie.DurationMinutes
	case i.Documentary != nil:
		r.Director = i.Documentary.Director
		r.Date = i.Documentary.ReleaseDate
		r.Duration = i.Documentary.DurationMinutes
	case i.Series != nil:
		r.Genre = i.Series.Genre
		if len(i.Series.Seasons) > 0 {
			r.Seasons = make(map[string]SeasonRecord, len(i.Series.Seasons))
			for n, season := range i.Series.Seasons {
				sr := SeasonRecord{Year: season.Year, Production: season.Production}
				if len(season.Episodes) > 0 {
					sr.Episodes = make(map[string]EpisodeRecord, len(season.Episodes))
					for en, ep := range season.Episodes {
						sr.Episodes[strconv.Itoa(en)] = EpisodeRecord{ID: ep.ID, Name: ep.Name, Duration: ep.DurationMinutes}
					}
				}
				r.Seasons[strconv.Itoa(n)] = sr
			}
		}
	}

	return r
}

// DecodeRecord parses a JSON record and converts it into an Item.
// All failures wrap ErrInvalidRecord.
func DecodeRecord(ct ContentType, raw []byte) (*Item, error) {
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return rec.ToItem(ct)
}

// EncodeRecord serializes the item's wire form as JSON.
func EncodeRecord(item *Item) ([]byte, error) {
	data, err := json.Marshal(item.ToRecord())
	if err != nil {
		return nil, fmt.Errorf("failed to encode record %q: %w", item.ID, err)
	}
	return data, nil
}

// NormalizeDate renders ISO dates as DD-MM-YYYY. Values that do not parse
// are returned unchanged.
func NormalizeDate(s string) string {
	if s == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateLayout)
		}
	}
	return s
}

func decodeSeasons(in map[string]SeasonRecord) (map[int]Season, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(map[int]Season, len(in))
	for key, sr := range in {
		n, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("%w: season key %q is not a number", ErrInvalidRecord, key)
		}
		season := Season{Year: sr.Year, Production: sr.Production}
		if len(sr.Episodes) > 0 {
			season.Episodes = make(map[int]Episode, len(sr.Episodes))
			for ekey, er := range sr.Episodes {
				en, err := strconv.Atoi(ekey)
				if err != nil {
					return nil, fmt.Errorf("%w: episode key %q in season %d is not a number", ErrInvalidRecord, ekey, n)
				}
				season.Episodes[en] = Episode{ID: er.ID, Name: er.Name, DurationMinutes: er.Duration}
			}
		}
		out[n] = season
	}
	return out, nil
}

func copyTags(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
