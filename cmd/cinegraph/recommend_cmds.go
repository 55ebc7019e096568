// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/cinegraph/internal/catalog"
	"github.com/tomtom215/cinegraph/internal/recommend"
)

// queryOutput is the JSON shape of a graph query.
type queryOutput struct {
	Query        string            `json:"query"`
	ContentType  string            `json:"content_type"`
	StartID      string            `json:"start_id,omitempty"`
	IDs          []string          `json:"ids"`
	Items        []*catalog.Record `json:"items"`
	GraphVersion uint64            `json:"graph_version"`
}

func newQueryOutput(res *recommend.QueryResult) queryOutput {
	out := queryOutput{
		Query:        res.Query,
		ContentType:  res.ContentType.String(),
		StartID:      res.StartID,
		IDs:          res.IDs,
		Items:        make([]*catalog.Record, 0, len(res.Items)),
		GraphVersion: res.GraphVersion,
	}
	if out.IDs == nil {
		out.IDs = []string{}
	}
	for _, it := range res.Items {
		if item, ok := it.(*catalog.Item); ok {
			out.Items = append(out.Items, item.ToRecord())
		}
	}
	return out
}

func writeQuery(cmd *cobra.Command, opts *options, res *recommend.QueryResult) error {
	if !res.Found {
		return fmt.Errorf("%s %q: %w", res.ContentType, res.StartID, errNotFound)
	}
	if opts.human {
		printQueryHuman(cmd.OutOrStdout(), res)
		return nil
	}
	return outputJSON(cmd.OutOrStdout(), newQueryOutput(res))
}

// newQueryCmd builds the autoplay and similar commands, which differ only
// in the engine method they call.
func newQueryCmd(opts *options, name, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <type> <id>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ct, err := catalog.ParseContentType(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd.Context(), opts, func(s *session) error {
				run := s.engine.Autoplay
				if name == "similar" {
					run = s.engine.Similar
				}
				res, err := run(cmd.Context(), ct, args[1])
				if err != nil {
					return err
				}
				return writeQuery(cmd, opts, res)
			})
		},
	}
}

func newSequelsCmd(opts *options) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "sequels <type> [id]",
		Short: "Viewing order that respects sequel links",
		Long: `Print a viewing order in which every title comes before its sequels.
With an id only that title and the titles reachable from it are ordered.

Sequel loops are tolerated by default: the first title of a loop wins.
--strict (or RECOMMEND_STRICT_SEQUELS) reports the loop and exits with
status 4 instead.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ct, err := catalog.ParseContentType(args[0])
			if err != nil {
				return err
			}
			start := ""
			if len(args) == 2 {
				start = args[1]
			}
			return withSession(cmd.Context(), opts, func(s *session) error {
				res, err := s.engine.SequelOrder(cmd.Context(), ct, start, strict)
				if err != nil {
					return err
				}
				return writeQuery(cmd, opts, res)
			})
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on sequel loops")
	return cmd
}
