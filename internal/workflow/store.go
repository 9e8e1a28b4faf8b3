package workflow

import (
	"context"

	"github.com/ignite/outreach-engine/internal/domain"
)

// Store is the persistence collaborator for the outreach workflow. Reads
// return (nil, nil) for absent entities, never an error; writes return an
// error only on backend failure. Implementations must give at least
// read-after-write consistency so the idempotency check-then-record
// sequence is sound.
type Store interface {
	SaveWorkflowState(ctx context.Context, state *domain.WorkflowState) error
	GetWorkflowState(ctx context.Context, id string) (*domain.WorkflowState, error)
	ListWorkflowStatesByCampaign(ctx context.Context, campaignID string) ([]domain.WorkflowState, error)
	UpdateWorkflowStage(ctx context.Context, id string, stage domain.WorkflowStage) error

	SaveDraftEmail(ctx context.Context, draft *domain.DraftEmail) error
	GetDraftEmail(ctx context.Context, id string) (*domain.DraftEmail, error)
	ListDraftEmailsByCampaign(ctx context.Context, campaignID string) ([]domain.DraftEmail, error)

	SaveUserApproval(ctx context.Context, approval *domain.UserApproval) error
	GetUserApproval(ctx context.Context, id string) (*domain.UserApproval, error)
	HasApproval(ctx context.Context, resourceType domain.ApprovalResourceType, resourceID string) (bool, error)

	SaveOrgProfile(ctx context.Context, org *domain.OrganizationProfile) error
	GetOrgProfile(ctx context.Context, id string) (*domain.OrganizationProfile, error)

	SaveCampaign(ctx context.Context, campaign *domain.OutreachCampaign) error
	GetCampaign(ctx context.Context, id string) (*domain.OutreachCampaign, error)

	RecordIdempotencyKey(ctx context.Context, key *domain.IdempotencyKey) error
	GetIdempotencyKey(ctx context.Context, key string) (*domain.IdempotencyKey, error)
}
