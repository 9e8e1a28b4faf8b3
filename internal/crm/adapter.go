// Package crm integrates with the partner CRM. The adapter surface is
// deliberately narrow: contacts are looked up or created, never updated
// or deleted, so the CRM stays the source of truth for contact data.
package crm

import (
	"context"

	"github.com/ignite/outreach-engine/internal/domain"
)

// CreateResult reports a create-if-absent outcome. IsNew is false when
// the contact already existed and the existing record is returned
// untouched.
type CreateResult struct {
	Contact *domain.Contact
	IsNew   bool
}

// Adapter is the CRM integration surface.
type Adapter interface {
	GetContactByEmail(ctx context.Context, email string) (*domain.Contact, error)
	GetContactByID(ctx context.Context, id string) (*domain.Contact, error)
	// ListContacts pages through contacts, optionally filtered to one
	// organization. limit <= 0 means no cap; offset skips that many rows.
	ListContacts(ctx context.Context, organization string, limit, offset int) ([]domain.Contact, error)
	CreateContactIfNotExists(ctx context.Context, contact *domain.Contact) (*CreateResult, error)
}
