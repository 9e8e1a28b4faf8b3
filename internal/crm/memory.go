package crm

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/ignite/outreach-engine/internal/domain"
)

// MemoryAdapter is an in-process CRM for tests and local runs.
type MemoryAdapter struct {
	mu      sync.RWMutex
	byID    map[string]domain.Contact
	byEmail map[string]string // lowercased email -> id
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		byID:    map[string]domain.Contact{},
		byEmail: map[string]string{},
	}
}

func (m *MemoryAdapter) GetContactByEmail(ctx context.Context, email string) (*domain.Contact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	c := m.byID[id]
	return &c, nil
}

func (m *MemoryAdapter) GetContactByID(ctx context.Context, id string) (*domain.Contact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.byID[id]; ok {
		return &c, nil
	}
	return nil, nil
}

// ListContacts pages in email order so repeated calls walk a stable
// sequence even though the backing maps are unordered.
func (m *MemoryAdapter) ListContacts(ctx context.Context, organization string, limit, offset int) ([]domain.Contact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Contact
	for _, c := range m.byID {
		if organization == "" || strings.EqualFold(c.Organization, organization) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })

	if offset > 0 {
		if offset >= len(out) {
			return nil, nil
		}
		out = out[offset:]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryAdapter) CreateContactIfNotExists(ctx context.Context, contact *domain.Contact) (*CreateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(contact.Email)
	if id, ok := m.byEmail[key]; ok {
		existing := m.byID[id]
		return &CreateResult{Contact: &existing, IsNew: false}, nil
	}

	c := *contact
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	m.byID[c.ID] = c
	m.byEmail[key] = c.ID
	return &CreateResult{Contact: &c, IsNew: true}, nil
}
