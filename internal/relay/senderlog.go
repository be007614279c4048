package relay

import (
	"context"
	"time"

	"github.com/praxisio/contactrelay/pkg/kvstore"
)

const senderLogPrefix = "contact_sender:"

// SenderLog records the address behind each successfully relayed
// submission for downstream abuse analysis. Entries expire after the
// configured retention; recording is best-effort and never blocks a
// response.
type SenderLog struct {
	store kvstore.Store
	ttl   time.Duration
}

// NewSenderLog creates a sender log retaining entries for ttl.
func NewSenderLog(store kvstore.Store, ttl time.Duration) *SenderLog {
	return &SenderLog{store: store, ttl: ttl}
}

// Record stores the sender address with the current timestamp.
func (l *SenderLog) Record(ctx context.Context, email string) error {
	return l.store.Put(ctx, senderLogPrefix+email, time.Now().UTC().Format(time.RFC3339), l.ttl)
}
