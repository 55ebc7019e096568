// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

/*
Package models defines the HTTP data transfer objects.

Every endpoint answers with an APIResponse envelope. Successful responses
carry one of the body types of this package in Data; failures carry an
APIError with a stable code. Catalog items travel as catalog.Record, the
same flat shape used by import documents, so clients can feed an export
straight back into the import endpoint.
*/
package models
