package mailer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/outreach-engine/internal/domain"
	"github.com/ignite/outreach-engine/internal/workflow"
)

// SentRecord is one captured dispatch.
type SentRecord struct {
	Draft      domain.DraftEmail
	ApprovedBy string
	MessageID  string
	At         time.Time
}

// MemoryTransport records sends instead of delivering them. It backs
// tests and the dry-run server mode.
type MemoryTransport struct {
	mu        sync.Mutex
	sent      []SentRecord
	followUps map[string]string // idempotency key -> scheduled id
	FailWith  error             // when set, SendApprovedEmail returns this
}

// NewMemoryTransport returns an empty recording transport.
func NewMemoryTransport() *MemoryTransport {
	return &MemoryTransport{followUps: map[string]string{}}
}

func (t *MemoryTransport) SendApprovedEmail(ctx context.Context, draft *domain.DraftEmail, approval *domain.UserApproval) (*workflow.DispatchResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.FailWith != nil {
		return nil, t.FailWith
	}
	rec := SentRecord{
		Draft:     *draft,
		MessageID: fmt.Sprintf("mem-%s", uuid.NewString()),
		At:        time.Now().UTC(),
	}
	if approval != nil {
		rec.ApprovedBy = approval.ApprovedBy
	}
	t.sent = append(t.sent, rec)
	return &workflow.DispatchResult{MessageID: rec.MessageID, SentAt: rec.At}, nil
}

func (t *MemoryTransport) ScheduleFollowUp(ctx context.Context, draft *domain.DraftEmail, approval *domain.UserApproval, delay time.Duration, idempotencyKey string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.followUps[idempotencyKey]; ok {
		return id, nil
	}
	id := "mem-followup-" + uuid.NewString()
	t.followUps[idempotencyKey] = id
	return id, nil
}

// Sent returns a copy of everything dispatched so far.
func (t *MemoryTransport) Sent() []SentRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]SentRecord, len(t.sent))
	copy(out, t.sent)
	return out
}
