// Package workflow drives a single outreach engagement through its
// lifecycle: initiation, draft generation, human review, approval-gated
// idempotent send, and optional follow-up. Every stage transition is
// persisted before the operation that caused it returns; the store is the
// only authoritative record of where an engagement stands.
package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/outreach-engine/internal/domain"
	"github.com/ignite/outreach-engine/internal/pkg/distlock"
	"github.com/ignite/outreach-engine/internal/pkg/logger"
)

// Generator is the AI/template draft-generation collaborator. Its output
// is untrusted until the engine validates it.
type Generator interface {
	GenerateEmail(ctx context.Context, org *domain.OrganizationProfile, campaign *domain.OutreachCampaign) (*domain.AIGeneratedEmail, error)
}

// DispatchResult is what the mail transport reports for a completed send.
type DispatchResult struct {
	MessageID string
	SentAt    time.Time
}

// Transport is the outbound mail collaborator.
type Transport interface {
	SendApprovedEmail(ctx context.Context, draft *domain.DraftEmail, approval *domain.UserApproval) (*DispatchResult, error)
	ScheduleFollowUp(ctx context.Context, draft *domain.DraftEmail, approval *domain.UserApproval, delay time.Duration, idempotencyKey string) (string, error)
}

// LockFactory builds a distributed lock for a key. Optional hardening for
// the send path; nil means no locking.
type LockFactory func(key string) distlock.DistLock

// SendResult is the structured outcome of a send attempt. Approval
// rejections and replays are results, not errors, so a UI can always
// render why without a catch-all.
type SendResult struct {
	Success     bool   `json:"success"`
	AlreadySent bool   `json:"already_sent"`
	MessageID   string `json:"message_id,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// Engine is the outreach workflow state machine. One engagement is
// processed by one caller at a time; the engine holds no internal locks
// beyond the optional send-path distributed lock.
type Engine struct {
	store     Store
	generator Generator
	transport Transport
	locks     LockFactory
	now       func() time.Time
}

// NewEngine wires the engine to its collaborators. locks may be nil.
func NewEngine(store Store, generator Generator, transport Transport, locks LockFactory) *Engine {
	return &Engine{
		store:     store,
		generator: generator,
		transport: transport,
		locks:     locks,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the engine clock. Tests only.
func (e *Engine) SetClock(now func() time.Time) { e.now = now }

// InitiateOutreach validates the organization and creates a workflow
// state at initial_research, persisted before returning. Risk score is
// advisory and is deliberately not consulted here.
func (e *Engine) InitiateOutreach(ctx context.Context, campaignID string, org *domain.OrganizationProfile) (*domain.WorkflowState, error) {
	if org == nil {
		return nil, &ValidationError{Op: "initiateOutreach", Fields: []string{"organization is required"}}
	}
	if errs := org.Validate(); len(errs) > 0 {
		return nil, &ValidationError{Op: "initiateOutreach", Fields: errs}
	}

	if err := e.store.SaveOrgProfile(ctx, org); err != nil {
		return nil, &CollaboratorError{Collaborator: "store", Err: err}
	}

	now := e.now()
	state := &domain.WorkflowState{
		ID:             uuid.NewString(),
		CampaignID:     campaignID,
		OrganizationID: org.ID,
		Stage:          domain.StageInitialResearch,
		Data:           map[string]any{"organization_name": org.Name},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := e.store.SaveWorkflowState(ctx, state); err != nil {
		return nil, &CollaboratorError{Collaborator: "store", Err: err}
	}

	logger.Info("workflow: outreach initiated",
		"workflow_id", state.ID, "campaign_id", campaignID, "organization_id", org.ID)
	return state, nil
}

// GenerateEmailDraft calls the generation collaborator for the workflow's
// organization and persists a DraftEmail at status=draft. The workflow
// moves to draft_generation while the collaborator runs and lands on
// user_review once the draft is persisted. A contract violation in the
// generated output fails with a field-level ValidationError and no draft
// exists.
func (e *Engine) GenerateEmailDraft(ctx context.Context, workflowID string, campaign *domain.OutreachCampaign) (*domain.DraftEmail, error) {
	state, err := e.store.GetWorkflowState(ctx, workflowID)
	if err != nil {
		return nil, &CollaboratorError{Collaborator: "store", Err: err}
	}
	if state == nil {
		return nil, &NotFoundError{Resource: "workflow", ID: workflowID}
	}

	org, err := e.store.GetOrgProfile(ctx, state.OrganizationID)
	if err != nil {
		return nil, &CollaboratorError{Collaborator: "store", Err: err}
	}
	if org == nil {
		return nil, &NotFoundError{Resource: "organization", ID: state.OrganizationID}
	}

	// Unexpected stage is a warning, not a gate: a reviewer regenerating
	// a draft after rejection is a supported path.
	if state.Stage != domain.StageInitialResearch && state.Stage != domain.StageDraftGeneration &&
		state.Stage != domain.StageUserReview {
		logger.Warn("workflow: generating draft from unexpected stage",
			"workflow_id", workflowID, "stage", string(state.Stage))
	}

	if err := e.store.UpdateWorkflowStage(ctx, workflowID, domain.StageDraftGeneration); err != nil {
		return nil, &CollaboratorError{Collaborator: "store", Err: err}
	}

	generated, err := e.generator.GenerateEmail(ctx, org, campaign)
	if err != nil {
		return nil, &CollaboratorError{Collaborator: "generation", Err: err}
	}
	if generated == nil {
		return nil, &ValidationError{Op: "generateEmailDraft", Fields: []string{"generation returned no data"}}
	}
	if errs := generated.Validate(); len(errs) > 0 {
		return nil, &ValidationError{Op: "generateEmailDraft", Fields: errs}
	}

	now := e.now()
	draft := &domain.DraftEmail{
		ID:             uuid.NewString(),
		CampaignID:     state.CampaignID,
		OrganizationID: org.ID,
		Status:         domain.DraftPending,
		Subject:        generated.Subject,
		Body:           generated.Body,
		RecipientEmail: org.ContactEmail,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if errs := draft.Validate(); len(errs) > 0 {
		return nil, &ValidationError{Op: "generateEmailDraft", Fields: errs}
	}

	if err := e.store.SaveDraftEmail(ctx, draft); err != nil {
		return nil, &CollaboratorError{Collaborator: "store", Err: err}
	}
	if err := e.store.UpdateWorkflowStage(ctx, workflowID, domain.StageUserReview); err != nil {
		return nil, &CollaboratorError{Collaborator: "store", Err: err}
	}

	logger.Info("workflow: draft generated",
		"workflow_id", workflowID, "draft_id", draft.ID, "recipient", draft.RecipientEmail)
	return draft, nil
}

// RecordApproval validates and persists a human approval, moving an
// approved draft's workflow to approval_pending. It does not check the
// approval against any email; that happens at send time.
func (e *Engine) RecordApproval(ctx context.Context, approval *domain.UserApproval) error {
	if approval == nil {
		return &ValidationError{Op: "recordApproval", Fields: []string{"approval is required"}}
	}
	if errs := approval.Validate(); len(errs) > 0 {
		return &ValidationError{Op: "recordApproval", Fields: errs}
	}
	if err := e.store.SaveUserApproval(ctx, approval); err != nil {
		return &CollaboratorError{Collaborator: "store", Err: err}
	}
	if approval.ResourceType == domain.ApproveEmail {
		if draft, derr := e.store.GetDraftEmail(ctx, approval.ResourceID); derr == nil && draft != nil {
			e.advanceStageForDraft(ctx, draft, domain.StageApprovalPending)
		}
	}
	logger.Info("workflow: approval recorded",
		"approval_id", approval.ID, "resource_type", string(approval.ResourceType),
		"resource_id", approval.ResourceID, "approver", approval.ApprovedBy)
	return nil
}

// SendEmailWithApproval dispatches an approved draft exactly once.
// Replays return success with AlreadySent set; approval rejections return
// a failure result (not an error) and the draft remains unsent; transport
// failures propagate without marking the idempotency key complete, so a
// retry is safe.
func (e *Engine) SendEmailWithApproval(ctx context.Context, emailID string, approval *domain.UserApproval) (*SendResult, error) {
	draft, err := e.store.GetDraftEmail(ctx, emailID)
	if err != nil {
		return nil, &CollaboratorError{Collaborator: "store", Err: err}
	}
	if draft == nil {
		return nil, &NotFoundError{Resource: "draft email", ID: emailID}
	}

	if draft.Status == domain.DraftSent {
		return &SendResult{Success: true, AlreadySent: true, MessageID: draft.MessageID,
			Reason: "email already sent"}, nil
	}

	if aerr := e.checkApproval(ctx, draft, approval); aerr != nil {
		// Security-relevant rejection: logged distinctly, surfaced as a
		// structured failure so the UI can render the reason.
		logger.Warn("workflow: approval rejected",
			"draft_id", draft.ID, "reason", string(aerr.Reason), "detail", aerr.Message)
		return &SendResult{Success: false, Reason: aerr.Error()}, nil
	}

	idemKey := domain.SendIdempotencyKey(draft.ID)

	if e.locks != nil {
		lock := e.locks(idemKey)
		acquired, lockErr := lock.Acquire(ctx)
		if lockErr != nil {
			return nil, &CollaboratorError{Collaborator: "lock", Err: lockErr}
		}
		if !acquired {
			return &SendResult{Success: false, Reason: "send already in progress for this email"}, nil
		}
		defer lock.Release(ctx)
	}

	existing, err := e.store.GetIdempotencyKey(ctx, idemKey)
	if err != nil {
		return nil, &CollaboratorError{Collaborator: "store", Err: err}
	}
	if existing.Completed() {
		logger.Info("workflow: send replay short-circuited by idempotency key", "draft_id", draft.ID)
		return &SendResult{Success: true, AlreadySent: true, MessageID: existing.Result,
			Reason: "email already sent"}, nil
	}

	e.advanceStageForDraft(ctx, draft, domain.StageSending)

	dispatched, err := e.transport.SendApprovedEmail(ctx, draft, approval)
	if err != nil {
		// Not idempotent-complete: the retry path stays open.
		draft.Status = domain.DraftFailed
		draft.FailureReason = err.Error()
		draft.UpdatedAt = e.now()
		if saveErr := e.store.SaveDraftEmail(ctx, draft); saveErr != nil {
			logger.Error("workflow: failed to record send failure", "draft_id", draft.ID, "error", saveErr.Error())
		}
		e.advanceStageForDraft(ctx, draft, domain.StageFailed)
		return nil, &CollaboratorError{Collaborator: "mail transport", Err: err}
	}

	now := e.now()
	completed := &domain.IdempotencyKey{
		Key:         idemKey,
		Operation:   "email-send",
		ResourceID:  draft.ID,
		CreatedAt:   now,
		CompletedAt: &now,
		Result:      dispatched.MessageID,
	}
	if err := e.store.RecordIdempotencyKey(ctx, completed); err != nil {
		return nil, &CollaboratorError{Collaborator: "store", Err: err}
	}

	draft.Status = domain.DraftSent
	draft.MessageID = dispatched.MessageID
	sentAt := dispatched.SentAt
	if sentAt.IsZero() {
		sentAt = now
	}
	draft.SentAt = &sentAt
	draft.ApprovedBy = approval.ApprovedBy
	approvedAt := approval.ApprovedAt
	draft.ApprovedAt = &approvedAt
	draft.UpdatedAt = now
	if err := e.store.SaveDraftEmail(ctx, draft); err != nil {
		return nil, &CollaboratorError{Collaborator: "store", Err: err}
	}
	e.advanceStageForDraft(ctx, draft, domain.StageCompleted)

	logger.Info("workflow: email sent",
		"draft_id", draft.ID, "message_id", dispatched.MessageID, "recipient", draft.RecipientEmail)
	return &SendResult{Success: true, MessageID: dispatched.MessageID}, nil
}

// ScheduleFollowUp records a request to send a follow-up later. Actual
// timed dispatch belongs to an external scheduler; the engine's role ends
// at recording the idempotency key and returning the scheduled id.
func (e *Engine) ScheduleFollowUp(ctx context.Context, emailID string, approval *domain.UserApproval, delay time.Duration) (string, error) {
	draft, err := e.store.GetDraftEmail(ctx, emailID)
	if err != nil {
		return "", &CollaboratorError{Collaborator: "store", Err: err}
	}
	if draft == nil {
		return "", &NotFoundError{Resource: "draft email", ID: emailID}
	}
	if draft.Status != domain.DraftSent {
		return "", &ValidationError{Op: "scheduleFollowUp", Fields: []string{"follow-up requires an already-sent email"}}
	}

	idemKey := domain.FollowUpIdempotencyKey(draft.ID)
	existing, err := e.store.GetIdempotencyKey(ctx, idemKey)
	if err != nil {
		return "", &CollaboratorError{Collaborator: "store", Err: err}
	}
	if existing.Completed() {
		return existing.Result, nil
	}

	scheduledID, err := e.transport.ScheduleFollowUp(ctx, draft, approval, delay, idemKey)
	if err != nil {
		return "", &CollaboratorError{Collaborator: "mail transport", Err: err}
	}

	now := e.now()
	if err := e.store.RecordIdempotencyKey(ctx, &domain.IdempotencyKey{
		Key:         idemKey,
		Operation:   "email-followup",
		ResourceID:  draft.ID,
		CreatedAt:   now,
		CompletedAt: &now,
		Result:      scheduledID,
	}); err != nil {
		return "", &CollaboratorError{Collaborator: "store", Err: err}
	}
	e.advanceStageForDraft(ctx, draft, domain.StageFollowUp)

	logger.Info("workflow: follow-up scheduled", "draft_id", draft.ID, "scheduled_id", scheduledID)
	return scheduledID, nil
}

// AdvisoryRiskAssessment builds presentation-only risk data for an
// organization. AdvisoryOnly is hardcoded true; nothing in the engine
// consults this to gate behavior. Returns (nil, nil) when the
// organization is unknown.
func (e *Engine) AdvisoryRiskAssessment(ctx context.Context, orgID string) (*domain.RiskAssessment, error) {
	org, err := e.store.GetOrgProfile(ctx, orgID)
	if err != nil {
		return nil, &CollaboratorError{Collaborator: "store", Err: err}
	}
	if org == nil {
		return nil, nil
	}

	score := 0
	if org.RiskScore != nil {
		score = *org.RiskScore
	}
	level := "low"
	switch {
	case score >= 75:
		level = "critical"
	case score >= 50:
		level = "high"
	case score >= 25:
		level = "medium"
	}

	return &domain.RiskAssessment{
		OrganizationID:     org.ID,
		OrganizationName:   org.Name,
		RiskScore:          score,
		RiskLevel:          level,
		ControversySummary: org.ControversySummary,
		AdvisoryOnly:       true,
		AssessedAt:         e.now(),
	}, nil
}

// checkApproval verifies the supplied approval against this draft and
// against the stored approval record. Returns nil when the approval is
// valid.
func (e *Engine) checkApproval(ctx context.Context, draft *domain.DraftEmail, approval *domain.UserApproval) *ApprovalError {
	if approval == nil || approval.ID == "" {
		return &ApprovalError{Reason: ApprovalMissing, Message: "no approval supplied"}
	}
	if errs := approval.Validate(); len(errs) > 0 {
		return &ApprovalError{Reason: ApprovalMalformed, Message: fmt.Sprintf("approval is malformed: %v", errs)}
	}
	if approval.ResourceType != domain.ApproveEmail {
		return &ApprovalError{Reason: ApprovalMismatch,
			Message: fmt.Sprintf("approval is for resource type %q, not an email", approval.ResourceType)}
	}
	if approval.ResourceID != draft.ID {
		return &ApprovalError{Reason: ApprovalMismatch,
			Message: fmt.Sprintf("approval is for resource %s, not email %s", approval.ResourceID, draft.ID)}
	}

	stored, err := e.store.GetUserApproval(ctx, approval.ID)
	if err != nil {
		return &ApprovalError{Reason: ApprovalMissing, Message: "could not verify approval: " + err.Error()}
	}
	if stored == nil {
		return &ApprovalError{Reason: ApprovalMissing, Message: "approval is not on record"}
	}
	if stored.ResourceType != domain.ApproveEmail || stored.ResourceID != draft.ID {
		return &ApprovalError{Reason: ApprovalMismatch, Message: "stored approval does not reference this email"}
	}

	now := e.now()
	if stored.ApprovedAt.After(now) {
		return &ApprovalError{Reason: ApprovalNotYetValid,
			Message: fmt.Sprintf("approval is dated in the future (%s)", stored.ApprovedAt.Format(time.RFC3339))}
	}
	if stored.ExpiresAt != nil && stored.ExpiresAt.Before(now) {
		return &ApprovalError{Reason: ApprovalExpired,
			Message: fmt.Sprintf("approval expired at %s", stored.ExpiresAt.Format(time.RFC3339))}
	}
	return nil
}

// advanceStageForDraft moves the engagement owning this draft to the
// given stage. Absence of a workflow record is tolerated; the draft's own
// status already tells the truth about the send.
func (e *Engine) advanceStageForDraft(ctx context.Context, draft *domain.DraftEmail, stage domain.WorkflowStage) {
	states, err := e.store.ListWorkflowStatesByCampaign(ctx, draft.CampaignID)
	if err != nil {
		logger.Warn("workflow: could not load states to advance stage", "error", err.Error())
		return
	}
	for _, st := range states {
		if st.OrganizationID == draft.OrganizationID {
			if err := e.store.UpdateWorkflowStage(ctx, st.ID, stage); err != nil {
				logger.Warn("workflow: stage update failed", "workflow_id", st.ID, "error", err.Error())
			}
			return
		}
	}
}

// MarshalData encodes a workflow data bag for persistence layers that
// store it as JSON.
func MarshalData(data map[string]any) []byte {
	if data == nil {
		data = map[string]any{}
	}
	b, _ := json.Marshal(data)
	return b
}
