package survey

import (
	"sync"

	"github.com/SAIZENtm1/tgbot/internal/storage"
)

// VoteLedger tracks which users already submitted a rating. The spreadsheet
// is the source of truth; the ledger is rebuilt from it at startup and only
// grows during the process lifetime.
type VoteLedger struct {
	mu    sync.Mutex
	voted map[string]struct{}
}

// NewVoteLedger builds an empty ledger.
func NewVoteLedger() *VoteLedger {
	return &VoteLedger{voted: make(map[string]struct{})}
}

// Load populates the ledger from persisted vote records.
func (l *VoteLedger) Load(records []storage.VoteRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, rec := range records {
		if rec.UserID == "" {
			continue
		}
		l.voted[rec.UserID] = struct{}{}
	}
}

// HasVoted reports whether the user already has a recorded vote.
func (l *VoteLedger) HasVoted(userID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.voted[userID]
	return ok
}

// MarkVoted records that the user voted.
func (l *VoteLedger) MarkVoted(userID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.voted[userID] = struct{}{}
}

// TryClaim atomically marks the user as voted and reports whether the claim
// was fresh. It is the check-and-set used on the callback path so two
// concurrent callbacks from one user cannot both pass the not-voted check.
func (l *VoteLedger) TryClaim(userID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.voted[userID]; ok {
		return false
	}
	l.voted[userID] = struct{}{}
	return true
}

// Release drops a claim after a failed persist so the ledger never shows a
// vote that was not durably recorded.
func (l *VoteLedger) Release(userID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.voted, userID)
}

// Len returns the number of known voters.
func (l *VoteLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.voted)
}
