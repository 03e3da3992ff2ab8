// Copyright (c) 2026 Verdano Commerce. All rights reserved.
// Author: eng@verdano.dev

// Package pagination defines page-based navigation for list endpoints: query
// parameter parsing with clamping, SQL offset derivation, and the metadata
// block list responses carry.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultLimit is the page size when the client does not specify one.
	DefaultLimit = 20
	// MaxLimit caps the page size a client may request.
	MaxLimit = 100
	// DefaultPage is the first page. Pages are 1-indexed.
	DefaultPage = 1
)

// Params is a parsed, clamped page request.
type Params struct {
	Page  int
	Limit int
}

// Offset converts the page number into a SQL OFFSET.
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Meta describes the page a list response covers.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewMeta builds response metadata, deriving TotalPages from total and limit.
func NewMeta(page, limit, total int) Meta {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Meta{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

// FromRequest reads "page" and "limit" from the query string.
//
// Missing, malformed, negative, or oversized values are clamped to the
// package defaults rather than rejected; a list endpoint should never 400
// over pagination.
func FromRequest(r *http.Request) Params {
	page := intParam(r, "page", DefaultPage)
	if page < 1 {
		page = DefaultPage
	}

	limit := intParam(r, "limit", DefaultLimit)
	if limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}

	return Params{Page: page, Limit: limit}
}

func intParam(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
