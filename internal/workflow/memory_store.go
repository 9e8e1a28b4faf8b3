package workflow

import (
	"context"
	"sync"
	"time"

	"github.com/ignite/outreach-engine/internal/domain"
)

// MemoryStore is a mutex-guarded in-memory Store. It backs tests and
// local runs; lifecycle is owned by whoever constructs it, never a
// package-level singleton.
type MemoryStore struct {
	mu         sync.RWMutex
	workflows  map[string]domain.WorkflowState
	drafts     map[string]domain.DraftEmail
	approvals  map[string]domain.UserApproval
	orgs       map[string]domain.OrganizationProfile
	campaigns  map[string]domain.OutreachCampaign
	idemKeys   map[string]domain.IdempotencyKey
	orderWF    []string
	orderDraft []string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		workflows: map[string]domain.WorkflowState{},
		drafts:    map[string]domain.DraftEmail{},
		approvals: map[string]domain.UserApproval{},
		orgs:      map[string]domain.OrganizationProfile{},
		campaigns: map[string]domain.OutreachCampaign{},
		idemKeys:  map[string]domain.IdempotencyKey{},
	}
}

func (s *MemoryStore) SaveWorkflowState(ctx context.Context, state *domain.WorkflowState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.workflows[state.ID]; !exists {
		s.orderWF = append(s.orderWF, state.ID)
	}
	s.workflows[state.ID] = *state
	return nil
}

func (s *MemoryStore) GetWorkflowState(ctx context.Context, id string) (*domain.WorkflowState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.workflows[id]; ok {
		return &st, nil
	}
	return nil, nil
}

func (s *MemoryStore) ListWorkflowStatesByCampaign(ctx context.Context, campaignID string) ([]domain.WorkflowState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.WorkflowState
	for _, id := range s.orderWF {
		if st := s.workflows[id]; st.CampaignID == campaignID {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s *MemoryStore) UpdateWorkflowStage(ctx context.Context, id string, stage domain.WorkflowStage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.workflows[id]
	if !ok {
		return &NotFoundError{Resource: "workflow", ID: id}
	}
	st.Stage = stage
	st.UpdatedAt = time.Now().UTC()
	s.workflows[id] = st
	return nil
}

func (s *MemoryStore) SaveDraftEmail(ctx context.Context, draft *domain.DraftEmail) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.drafts[draft.ID]; !exists {
		s.orderDraft = append(s.orderDraft, draft.ID)
	}
	s.drafts[draft.ID] = *draft
	return nil
}

func (s *MemoryStore) GetDraftEmail(ctx context.Context, id string) (*domain.DraftEmail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.drafts[id]; ok {
		return &d, nil
	}
	return nil, nil
}

func (s *MemoryStore) ListDraftEmailsByCampaign(ctx context.Context, campaignID string) ([]domain.DraftEmail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.DraftEmail
	for _, id := range s.orderDraft {
		if d := s.drafts[id]; d.CampaignID == campaignID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *MemoryStore) SaveUserApproval(ctx context.Context, approval *domain.UserApproval) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.approvals[approval.ID] = *approval
	return nil
}

func (s *MemoryStore) GetUserApproval(ctx context.Context, id string) (*domain.UserApproval, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.approvals[id]; ok {
		return &a, nil
	}
	return nil, nil
}

func (s *MemoryStore) HasApproval(ctx context.Context, resourceType domain.ApprovalResourceType, resourceID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.approvals {
		if a.ResourceType == resourceType && a.ResourceID == resourceID {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) SaveOrgProfile(ctx context.Context, org *domain.OrganizationProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orgs[org.ID] = *org
	return nil
}

func (s *MemoryStore) GetOrgProfile(ctx context.Context, id string) (*domain.OrganizationProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if o, ok := s.orgs[id]; ok {
		return &o, nil
	}
	return nil, nil
}

func (s *MemoryStore) SaveCampaign(ctx context.Context, campaign *domain.OutreachCampaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.campaigns[campaign.ID] = *campaign
	return nil
}

func (s *MemoryStore) GetCampaign(ctx context.Context, id string) (*domain.OutreachCampaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.campaigns[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (s *MemoryStore) RecordIdempotencyKey(ctx context.Context, key *domain.IdempotencyKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idemKeys[key.Key] = *key
	return nil
}

func (s *MemoryStore) GetIdempotencyKey(ctx context.Context, key string) (*domain.IdempotencyKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if k, ok := s.idemKeys[key]; ok {
		return &k, nil
	}
	return nil, nil
}
