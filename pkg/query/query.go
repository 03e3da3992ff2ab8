// Copyright (c) 2026 Verdano Commerce. All rights reserved.
// Author: eng@verdano.dev

// Package query contains small parsing helpers for delimited string values,
// as they appear in query strings and environment variables.
package query

import "strings"

// StringSlice splits a comma-separated value into a slice, trimming
// whitespace around each element and dropping empties.
//
// An empty input yields nil, so callers can range over the result directly.
func StringSlice(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
