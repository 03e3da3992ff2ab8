// Copyright (c) 2026 Verdano Commerce. All rights reserved.
// Author: eng@verdano.dev

// Package pointer removes the boilerplate around optional values expressed
// as pointers, such as the nil-means-unchanged fields in partial-update
// payloads.
package pointer

// To returns a pointer to v. Handy for literals: pointer.To("seller").
func To[T any](v T) *T {
	return &v
}

// Val dereferences p, yielding the zero value when p is nil.
func Val[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// Fallback dereferences p, yielding fallback when p is nil.
func Fallback[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
