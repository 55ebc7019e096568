// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

// Command cinegraph queries and maintains a Cinegraph catalog from the
// terminal. Output is JSON unless --human is given.
//
//	cinegraph --catalog catalog.yaml autoplay movies jp1
//	cinegraph import catalog.yaml
//	cinegraph sequels series --strict
//	cinegraph token ops@example.com --ttl 1h
//
// Without --catalog the store configured by STORE_PATH is opened, which
// must not be held by a running server at the same time.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// options are the persistent flags shared by every command.
type options struct {
	human   bool
	catalog string
	verbose bool
}

func main() {
	root, opts := newRootCmd()
	if err := root.Execute(); err != nil {
		printError(root.ErrOrStderr(), opts.human, err)
		os.Exit(exitCode(err))
	}
}

func newRootCmd() (*cobra.Command, *options) {
	opts := &options{}

	root := &cobra.Command{
		Use:   "cinegraph",
		Short: "Media recommendation and viewing order engine",
		Long: `cinegraph builds similarity, marathon and sequel graphs over a catalog of
movies, documentaries and series, and answers autoplay, similar-title and
viewing-order queries against them.

Configuration comes from the same sources as the server: built-in defaults,
CONFIG_PATH, .env and the environment.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&opts.human, "human", false, "use human-readable output instead of JSON")
	root.PersistentFlags().StringVar(&opts.catalog, "catalog", "", "load this JSON or YAML catalog into a throwaway in-memory store")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level to stderr")

	root.AddCommand(
		newImportCmd(opts),
		newExportCmd(opts),
		newListCmd(opts),
		newGetCmd(opts),
		newSearchCmd(opts),
		newQueryCmd(opts, "autoplay", "Titles to play next, following the similarity graph"),
		newQueryCmd(opts, "similar", "Titles worth a marathon after this one"),
		newSequelsCmd(opts),
		newTokenCmd(opts),
		newVersionCmd(opts),
	)
	return root, opts
}
