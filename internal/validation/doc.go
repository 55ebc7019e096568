// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

/*
Package validation provides struct validation using go-playground/validator v10.

A single validator instance is shared process-wide (GetValidator) so struct
metadata is cached once. Field names in messages follow the json tags of the
validated struct.

# Custom Tags

	contenttype  string is one of movies, documentaries, series
	intensity    map[string]float64 whose values all lie in [0, 1]
	nonblank     string that is not empty after trimming spaces

# Usage

	type ItemRecord struct {
	    ID   string             `json:"id" validate:"nonblank,max=128"`
	    Tags map[string]float64 `json:"tags" validate:"intensity"`
	}

	if verr := validation.ValidateStruct(&rec); verr != nil {
	    apiErr := verr.ToAPIError()
	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, verr)
	    return
	}

Errors are returned as *RequestValidationError, which converts to the API
error envelope with code VALIDATION_ERROR.
*/
package validation
