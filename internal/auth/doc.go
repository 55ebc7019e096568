// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

/*
Package auth guards the catalog write endpoints with HS256 bearer tokens.

Reads are public. When a JWT secret is configured, PUT and DELETE on items
and the import endpoint require an Authorization header of the form
"Bearer <token>", where the token is signed with the shared secret and,
if an issuer is configured, carries that issuer. Tokens are minted by the
operator with "cinegraph token".

	manager, err := auth.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.JWTIssuer, 24*time.Hour)
	...
	r.With(auth.RequireBearer(manager, onUnauthorized)).Put("/items/{id}", h.PutItem)
*/
package auth
