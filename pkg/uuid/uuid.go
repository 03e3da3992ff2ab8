// Copyright (c) 2026 Verdano Commerce. All rights reserved.
// Author: eng@verdano.dev

/*
Package uuid generates the time-ordered identifiers used as primary keys
across the Verdano platform.

It wraps google/uuid to always produce Version 7 values: millisecond-ordered,
so B-tree indexes in PostgreSQL append rather than fragment, and storable in
a standard 'uuid' column.
*/
package uuid

import "github.com/google/uuid"

// New returns a fresh UUIDv7 string.
//
// Entropy exhaustion is the only failure mode and is unrecoverable, so it
// panics rather than returning an error every ID allocation would ignore.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}
	return id.String()
}
