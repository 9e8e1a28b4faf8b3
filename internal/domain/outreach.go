package domain

import (
	"net/mail"
	"strings"
	"time"
)

// CampaignStage enumerates the lifecycle states of an outreach campaign.
type CampaignStage string

const (
	CampaignDraft      CampaignStage = "draft"
	CampaignApproved   CampaignStage = "approved"
	CampaignInProgress CampaignStage = "in_progress"
	CampaignCompleted  CampaignStage = "completed"
	CampaignPaused     CampaignStage = "paused"
)

// OutreachCampaign groups a set of engagements under one brief/goal.
type OutreachCampaign struct {
	ID          string        `json:"id" db:"id"`
	Name        string        `json:"name" db:"name"`
	Description string        `json:"description" db:"description"`
	Stage       CampaignStage `json:"stage" db:"stage"`
	TargetOrgs  []string      `json:"target_orgs" db:"target_orgs"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}

// WorkflowStage is a named point in the outreach state machine.
type WorkflowStage string

const (
	StageInitialResearch WorkflowStage = "initial_research"
	StageDraftGeneration WorkflowStage = "draft_generation"
	StageUserReview      WorkflowStage = "user_review"
	StageApprovalPending WorkflowStage = "approval_pending"
	StageSending         WorkflowStage = "sending"
	StageFollowUp        WorkflowStage = "follow_up"
	StageCompleted       WorkflowStage = "completed"
	StageFailed          WorkflowStage = "failed"
)

// WorkflowState is the single authoritative record of where one
// (campaign, organization) engagement sits in its lifecycle. Every stage
// transition is persisted before the operation that caused it returns.
type WorkflowState struct {
	ID             string         `json:"id" db:"id"`
	CampaignID     string         `json:"campaign_id" db:"campaign_id"`
	OrganizationID string         `json:"organization_id" db:"organization_id"`
	Stage          WorkflowStage  `json:"stage" db:"stage"`
	Data           map[string]any `json:"data" db:"data"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
}

// DraftStatus enumerates draft email states. Transitions are forward-only
// (draft -> approved -> sent); failed is terminal per-draft but the
// workflow may retry the send with the same draft.
type DraftStatus string

const (
	DraftPending  DraftStatus = "draft"
	DraftApproved DraftStatus = "approved"
	DraftSent     DraftStatus = "sent"
	DraftFailed   DraftStatus = "failed"
)

// DraftEmail is a generated outreach email awaiting human approval.
type DraftEmail struct {
	ID             string      `json:"id" db:"id"`
	CampaignID     string      `json:"campaign_id" db:"campaign_id"`
	OrganizationID string      `json:"organization_id" db:"organization_id"`
	Status         DraftStatus `json:"status" db:"status"`
	Subject        string      `json:"subject" db:"subject"`
	Body           string      `json:"body" db:"body"`
	RecipientEmail string      `json:"recipient_email" db:"recipient_email"`
	ApprovedBy     string      `json:"approved_by,omitempty" db:"approved_by"`
	ApprovedAt     *time.Time  `json:"approved_at,omitempty" db:"approved_at"`
	SentAt         *time.Time  `json:"sent_at,omitempty" db:"sent_at"`
	MessageID      string      `json:"message_id,omitempty" db:"message_id"`
	FailureReason  string      `json:"failure_reason,omitempty" db:"failure_reason"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at" db:"updated_at"`
}

// Validate checks the draft's own shape before it may be persisted.
func (d *DraftEmail) Validate() []string {
	var errs []string
	if strings.TrimSpace(d.ID) == "" {
		errs = append(errs, "draft id is required")
	}
	if strings.TrimSpace(d.Subject) == "" {
		errs = append(errs, "draft subject is required")
	}
	if strings.TrimSpace(d.Body) == "" {
		errs = append(errs, "draft body is required")
	}
	if _, err := mail.ParseAddress(d.RecipientEmail); err != nil {
		errs = append(errs, "recipient email is not a valid address: "+d.RecipientEmail)
	}
	return errs
}

// ApprovalResourceType identifies what a UserApproval approves.
type ApprovalResourceType string

const (
	ApproveEmail         ApprovalResourceType = "email"
	ApproveCampaign      ApprovalResourceType = "campaign"
	ApproveOutreachBatch ApprovalResourceType = "outreach_batch"
)

// UserApproval is an immutable record of a human sign-off. A draft email is
// "approved" only if an approval exists with ResourceType=email and
// ResourceID equal to the email id, whose ApprovedAt is not in the future
// and whose ExpiresAt (if set) has not passed.
type UserApproval struct {
	ID           string               `json:"id" db:"id"`
	ResourceType ApprovalResourceType `json:"resource_type" db:"resource_type"`
	ResourceID   string               `json:"resource_id" db:"resource_id"`
	ApprovedBy   string               `json:"approved_by" db:"approved_by"`
	Note         string               `json:"note" db:"note"`
	ApprovedAt   time.Time            `json:"approved_at" db:"approved_at"`
	ExpiresAt    *time.Time           `json:"expires_at,omitempty" db:"expires_at"`
}

// Validate checks required fields and the resource-type enum.
func (a *UserApproval) Validate() []string {
	var errs []string
	if strings.TrimSpace(a.ID) == "" {
		errs = append(errs, "approval id is required")
	}
	if strings.TrimSpace(a.ResourceID) == "" {
		errs = append(errs, "approval resource id is required")
	}
	if strings.TrimSpace(a.ApprovedBy) == "" {
		errs = append(errs, "approver identity is required")
	}
	switch a.ResourceType {
	case ApproveEmail, ApproveCampaign, ApproveOutreachBatch:
	default:
		errs = append(errs, "approval resource type must be one of email, campaign, outreach_batch")
	}
	if a.ApprovedAt.IsZero() {
		errs = append(errs, "approval timestamp is required")
	}
	return errs
}

// IdempotencyKey guards an outbound side effect against duplicate
// execution. A non-nil CompletedAt means the operation already ran; the
// stored Result is returned instead of repeating the side effect.
type IdempotencyKey struct {
	Key         string     `json:"key" db:"key"`
	Operation   string     `json:"operation" db:"operation"`
	ResourceID  string     `json:"resource_id" db:"resource_id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	Result      string     `json:"result,omitempty" db:"result"`
}

// Completed reports whether the guarded operation already ran to completion.
func (k *IdempotencyKey) Completed() bool {
	return k != nil && k.CompletedAt != nil
}

// SendIdempotencyKey returns the deterministic key guarding the send of
// one draft email.
func SendIdempotencyKey(emailID string) string {
	return "email-send-" + emailID
}

// FollowUpIdempotencyKey returns the deterministic key guarding the
// follow-up schedule request for one draft email.
func FollowUpIdempotencyKey(emailID string) string {
	return "email-followup-" + emailID
}
