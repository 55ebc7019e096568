// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomtom215/cinegraph/internal/catalog"
	"github.com/tomtom215/cinegraph/internal/models"
	"github.com/tomtom215/cinegraph/internal/store"
)

func newImportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Merge a JSON or YAML catalog document into the store",
		Long: `Import merges every content type section of the document into the store;
items whose id already exists are replaced. Unknown sections are reported
and ignored. The format follows the file extension (.json, .yaml, .yml).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), opts, func(s *session) error {
				res, err := s.store.ImportFile(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if opts.human {
					printImportHuman(cmd.OutOrStdout(), res)
					return nil
				}
				return outputJSON(cmd.OutOrStdout(), res)
			})
		},
	}
}

func newExportCmd(opts *options) *cobra.Command {
	var format, outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole catalog as one document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := store.ParseFormat(format)
			if err != nil {
				return err
			}
			return withSession(cmd.Context(), opts, func(s *session) error {
				var w io.Writer = cmd.OutOrStdout()
				if outPath != "" {
					file, err := os.Create(outPath)
					if err != nil {
						return err
					}
					defer file.Close()
					w = file
				}
				return s.store.Export(cmd.Context(), w, f)
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "document format: json|yaml")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write to this file instead of stdout")
	return cmd
}

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list <type>",
		Short: "List every item of a content type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ct, err := catalog.ParseContentType(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd.Context(), opts, func(s *session) error {
				items, err := s.store.List(cmd.Context(), ct)
				if err != nil {
					return err
				}
				if opts.human {
					printItemsHuman(cmd.OutOrStdout(), ct.String(), items)
					return nil
				}
				return outputJSON(cmd.OutOrStdout(), models.NewItemList(ct.String(), items))
			})
		},
	}
}

func newGetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "get <type> <id>",
		Short: "Show one item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ct, err := catalog.ParseContentType(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd.Context(), opts, func(s *session) error {
				item, err := s.store.Get(cmd.Context(), ct, args[1])
				if err != nil {
					return err
				}
				if opts.human {
					printItemHuman(cmd.OutOrStdout(), item)
					return nil
				}
				return outputJSON(cmd.OutOrStdout(), item.ToRecord())
			})
		},
	}
}

func newSearchCmd(opts *options) *cobra.Command {
	var (
		q     catalog.Query
		types []string
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Find items by id, title, tags or keywords",
		Example: `  cinegraph search --title jurassic
  cinegraph search --tags Dinosaurios,Aventura --types movies`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range types {
				ct, err := catalog.ParseContentType(name)
				if err != nil {
					return err
				}
				q.Types = append(q.Types, ct)
			}
			return withSession(cmd.Context(), opts, func(s *session) error {
				items, err := s.store.Search(cmd.Context(), &q)
				if err != nil {
					return err
				}
				if opts.human {
					printItemsHuman(cmd.OutOrStdout(), "matches", items)
					return nil
				}
				return outputJSON(cmd.OutOrStdout(), models.NewSearchResult(items))
			})
		},
	}
	cmd.Flags().StringVar(&q.ID, "id", "", "substring of the item id")
	cmd.Flags().StringVar(&q.Title, "title", "", "substring of the title")
	cmd.Flags().StringSliceVar(&q.Tags, "tags", nil, "any of these tags")
	cmd.Flags().StringSliceVar(&q.Keywords, "keywords", nil, "any of these keywords")
	cmd.Flags().StringSliceVar(&types, "types", nil, "restrict to these content types")
	return cmd
}

func newVersionCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.human {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "cinegraph", version)
				return err
			}
			return outputJSON(cmd.OutOrStdout(), map[string]string{"version": version})
		},
	}
}
