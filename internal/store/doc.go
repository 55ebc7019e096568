// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

/*
Package store persists the media catalog in BadgerDB.

Each content type is an independent partition. Items are stored as their
flat JSON wire record under "item:<type>:<id>", so iteration over a
partition yields items ordered by id. A per-type version counter under
"version:<type>" is incremented in the same transaction as every write,
which lets the recommendation engine memoize graphs by (type, version)
without ever observing a half-applied change.

Store implements recommend.CatalogSource. After each committed write it
announces the change through an optional Publisher, normally the
events.Bus.

Bulk data moves through Import and Export, which read and write documents
keyed by content type name:

	{
	  "movies": [{"id": "jp1", "title": "Jurassic Park", ...}],
	  "series": [...]
	}

Both JSON and YAML documents are accepted. Records that fail validation
are skipped and counted in the ImportResult instead of aborting the load.
*/
package store
