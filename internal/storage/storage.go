// Package storage persists survey votes into an append-only tabular store.
package storage

import "context"

// UsernameNone is recorded when the voter has no public handle.
const UsernameNone = "-"

// VoteRecord is one persisted rating. Records are append-only; nothing
// updates or deletes them after the fact.
type VoteRecord struct {
	Timestamp   string
	Rating      int
	UserID      string
	DisplayName string
	Username    string
}

// VoteStore appends vote rows and reads them back for ledger bootstrap.
type VoteStore interface {
	Append(ctx context.Context, rec VoteRecord) error
	List(ctx context.Context) ([]VoteRecord, error)
}
