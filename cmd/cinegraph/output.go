// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-json"

	"github.com/tomtom215/cinegraph/internal/catalog"
	"github.com/tomtom215/cinegraph/internal/recommend"
	"github.com/tomtom215/cinegraph/internal/store"
)

// Exit codes.
const (
	ExitOK         = 0
	ExitError      = 1
	ExitInvalid    = 2
	ExitNotFound   = 3
	ExitSequelLoop = 4
)

// errNotFound marks a missing item or start title.
var errNotFound = errors.New("not found")

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00AFFF"))
	idStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAF00"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5F5F"))
)

// ErrorResponse is the JSON shape of a failed command.
type ErrorResponse struct {
	Error string   `json:"error"`
	Cycle []string `json:"cycle,omitempty"`
}

func outputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func exitCode(err error) int {
	var cycle *recommend.SequelCycleError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &cycle):
		return ExitSequelLoop
	case errors.Is(err, errNotFound), errors.Is(err, store.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, catalog.ErrInvalidRecord),
		errors.Is(err, store.ErrInvalidItem),
		errors.Is(err, catalog.ErrUnknownContentType),
		errors.Is(err, store.ErrUnknownFormat),
		errors.Is(err, store.ErrMalformedDocument):
		return ExitInvalid
	default:
		return ExitError
	}
}

func printError(w io.Writer, human bool, err error) {
	resp := ErrorResponse{Error: err.Error()}
	var cycle *recommend.SequelCycleError
	if errors.As(err, &cycle) {
		resp.Cycle = cycle.Path
	}
	if human {
		fmt.Fprintln(w, errorStyle.Render("error:"), resp.Error)
		return
	}
	_ = outputJSON(w, resp)
}

func itemLine(item *catalog.Item) string {
	line := idStyle.Render(item.ID) + "  " + item.Title
	if item.Year > 0 {
		line += dimStyle.Render(fmt.Sprintf(" (%d)", item.Year))
	}
	return line
}

func sortedTags(tags map[string]float64) string {
	names := make([]string, 0, len(tags))
	for name := range tags {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s:%g", name, tags[name])
	}
	return strings.Join(parts, " ")
}

func printItemsHuman(w io.Writer, heading string, items []*catalog.Item) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%s (%d)", heading, len(items))))
	for _, item := range items {
		fmt.Fprintln(w, "  "+itemLine(item))
	}
}

func printItemHuman(w io.Writer, item *catalog.Item) {
	fmt.Fprintln(w, headerStyle.Render(item.Title))
	fmt.Fprintf(w, "  %s %s\n", dimStyle.Render("id:      "), idStyle.Render(item.ID))
	fmt.Fprintf(w, "  %s %s\n", dimStyle.Render("type:    "), item.Type)
	if item.Year > 0 {
		fmt.Fprintf(w, "  %s %d\n", dimStyle.Render("year:    "), item.Year)
	}
	if len(item.Tags) > 0 {
		fmt.Fprintf(w, "  %s %s\n", dimStyle.Render("tags:    "), sortedTags(item.Tags))
	}
	if len(item.Keywords) > 0 {
		fmt.Fprintf(w, "  %s %s\n", dimStyle.Render("keywords:"), strings.Join(item.Keywords, ", "))
	}
	if len(item.SequelIDs) > 0 {
		fmt.Fprintf(w, "  %s %s\n", dimStyle.Render("sequels: "), strings.Join(item.SequelIDs, ", "))
	}
}

func printQueryHuman(w io.Writer, res *recommend.QueryResult) {
	heading := fmt.Sprintf("%s %s", res.Query, res.ContentType)
	if res.StartID != "" {
		heading += " from " + res.StartID
	}
	fmt.Fprintln(w, headerStyle.Render(heading))
	if len(res.Items) == 0 {
		fmt.Fprintln(w, dimStyle.Render("  no results"))
		return
	}
	for i, it := range res.Items {
		item, ok := it.(*catalog.Item)
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%3d. %s\n", i+1, itemLine(item))
	}
}

func printImportHuman(w io.Writer, res *store.ImportResult) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("imported %d records", res.Total())))
	for _, ct := range catalog.AllContentTypes() {
		name := ct.String()
		if res.Imported[name] == 0 && res.Skipped[name] == 0 {
			continue
		}
		fmt.Fprintf(w, "  %-14s %d imported, %d skipped\n", name, res.Imported[name], res.Skipped[name])
	}
	if len(res.UnknownTypes) > 0 {
		fmt.Fprintln(w, dimStyle.Render("  ignored sections: "+strings.Join(res.UnknownTypes, ", ")))
	}
}
