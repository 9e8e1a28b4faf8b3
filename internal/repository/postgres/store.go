// Package postgres persists outreach workflow records in PostgreSQL. It
// implements workflow.Store; reads return (nil, nil) for absent rows so
// callers distinguish "not found" from infrastructure failure.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/ignite/outreach-engine/internal/domain"
)

// Store handles CRUD for the outreach tables.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ===== Workflow states =====

func (s *Store) SaveWorkflowState(ctx context.Context, state *domain.WorkflowState) error {
	dataJSON, err := json.Marshal(state.Data)
	if err != nil {
		return fmt.Errorf("postgres: marshal workflow data: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO outreach_workflows (id, campaign_id, organization_id, stage, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET stage=EXCLUDED.stage, data=EXCLUDED.data, updated_at=EXCLUDED.updated_at`,
		state.ID, state.CampaignID, state.OrganizationID, state.Stage, dataJSON, state.CreatedAt, state.UpdatedAt)
	return err
}

func (s *Store) GetWorkflowState(ctx context.Context, id string) (*domain.WorkflowState, error) {
	var st domain.WorkflowState
	var dataJSON []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT id, campaign_id, organization_id, stage, data, created_at, updated_at
		FROM outreach_workflows WHERE id = $1`, id,
	).Scan(&st.ID, &st.CampaignID, &st.OrganizationID, &st.Stage, &dataJSON, &st.CreatedAt, &st.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	json.Unmarshal(dataJSON, &st.Data)
	return &st, nil
}

func (s *Store) ListWorkflowStatesByCampaign(ctx context.Context, campaignID string) ([]domain.WorkflowState, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, campaign_id, organization_id, stage, data, created_at, updated_at
		FROM outreach_workflows WHERE campaign_id = $1 ORDER BY created_at`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var states []domain.WorkflowState
	for rows.Next() {
		var st domain.WorkflowState
		var dataJSON []byte
		if err := rows.Scan(&st.ID, &st.CampaignID, &st.OrganizationID, &st.Stage, &dataJSON, &st.CreatedAt, &st.UpdatedAt); err != nil {
			continue
		}
		json.Unmarshal(dataJSON, &st.Data)
		states = append(states, st)
	}
	return states, rows.Err()
}

func (s *Store) UpdateWorkflowStage(ctx context.Context, id string, stage domain.WorkflowStage) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE outreach_workflows SET stage=$1, updated_at=NOW() WHERE id = $2`, stage, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("postgres: workflow %s not found", id)
	}
	return nil
}

// ===== Draft emails =====

func (s *Store) SaveDraftEmail(ctx context.Context, d *domain.DraftEmail) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO draft_emails (id, campaign_id, organization_id, status, subject, body, recipient_email,
			approved_by, approved_at, sent_at, message_id, failure_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET status=EXCLUDED.status, subject=EXCLUDED.subject, body=EXCLUDED.body,
			approved_by=EXCLUDED.approved_by, approved_at=EXCLUDED.approved_at, sent_at=EXCLUDED.sent_at,
			message_id=EXCLUDED.message_id, failure_reason=EXCLUDED.failure_reason, updated_at=EXCLUDED.updated_at`,
		d.ID, d.CampaignID, d.OrganizationID, d.Status, d.Subject, d.Body, d.RecipientEmail,
		d.ApprovedBy, d.ApprovedAt, d.SentAt, d.MessageID, d.FailureReason, d.CreatedAt, d.UpdatedAt)
	return err
}

func (s *Store) GetDraftEmail(ctx context.Context, id string) (*domain.DraftEmail, error) {
	var d domain.DraftEmail
	err := s.db.QueryRowContext(ctx,
		`SELECT id, campaign_id, organization_id, status, subject, body, recipient_email,
			COALESCE(approved_by,''), approved_at, sent_at, COALESCE(message_id,''), COALESCE(failure_reason,''),
			created_at, updated_at
		FROM draft_emails WHERE id = $1`, id,
	).Scan(&d.ID, &d.CampaignID, &d.OrganizationID, &d.Status, &d.Subject, &d.Body, &d.RecipientEmail,
		&d.ApprovedBy, &d.ApprovedAt, &d.SentAt, &d.MessageID, &d.FailureReason, &d.CreatedAt, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Store) ListDraftEmailsByCampaign(ctx context.Context, campaignID string) ([]domain.DraftEmail, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, campaign_id, organization_id, status, subject, body, recipient_email,
			COALESCE(approved_by,''), approved_at, sent_at, COALESCE(message_id,''), COALESCE(failure_reason,''),
			created_at, updated_at
		FROM draft_emails WHERE campaign_id = $1 ORDER BY created_at`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drafts []domain.DraftEmail
	for rows.Next() {
		var d domain.DraftEmail
		if err := rows.Scan(&d.ID, &d.CampaignID, &d.OrganizationID, &d.Status, &d.Subject, &d.Body, &d.RecipientEmail,
			&d.ApprovedBy, &d.ApprovedAt, &d.SentAt, &d.MessageID, &d.FailureReason, &d.CreatedAt, &d.UpdatedAt); err != nil {
			continue
		}
		drafts = append(drafts, d)
	}
	return drafts, rows.Err()
}

// ===== Approvals =====

func (s *Store) SaveUserApproval(ctx context.Context, a *domain.UserApproval) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_approvals (id, resource_type, resource_id, approved_by, note, approved_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET resource_type=EXCLUDED.resource_type, resource_id=EXCLUDED.resource_id,
			approved_by=EXCLUDED.approved_by, note=EXCLUDED.note, approved_at=EXCLUDED.approved_at,
			expires_at=EXCLUDED.expires_at`,
		a.ID, a.ResourceType, a.ResourceID, a.ApprovedBy, a.Note, a.ApprovedAt, a.ExpiresAt)
	return err
}

func (s *Store) GetUserApproval(ctx context.Context, id string) (*domain.UserApproval, error) {
	var a domain.UserApproval
	err := s.db.QueryRowContext(ctx,
		`SELECT id, resource_type, resource_id, approved_by, COALESCE(note,''), approved_at, expires_at
		FROM user_approvals WHERE id = $1`, id,
	).Scan(&a.ID, &a.ResourceType, &a.ResourceID, &a.ApprovedBy, &a.Note, &a.ApprovedAt, &a.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) HasApproval(ctx context.Context, resourceType domain.ApprovalResourceType, resourceID string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_approvals
		WHERE resource_type = $1 AND resource_id = $2
		AND approved_at <= NOW() AND (expires_at IS NULL OR expires_at > NOW())`,
		resourceType, resourceID).Scan(&count)
	return count > 0, err
}

// ===== Organizations =====

func (s *Store) SaveOrgProfile(ctx context.Context, o *domain.OrganizationProfile) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO organization_profiles (id, name, contact_email, domain, geography, focus_areas,
			fit_rationale, partner_status, risk_score, controversy_summary, crm_link_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name, contact_email=EXCLUDED.contact_email,
			domain=EXCLUDED.domain, geography=EXCLUDED.geography, focus_areas=EXCLUDED.focus_areas,
			fit_rationale=EXCLUDED.fit_rationale, partner_status=EXCLUDED.partner_status,
			risk_score=EXCLUDED.risk_score, controversy_summary=EXCLUDED.controversy_summary,
			crm_link_id=EXCLUDED.crm_link_id, updated_at=NOW()`,
		o.ID, o.Name, o.ContactEmail, o.Domain, o.Geography, pq.Array(o.FocusAreas),
		o.FitRationale, o.PartnerStatus, o.RiskScore, o.ControversySummary, o.CRMLinkID)
	return err
}

func (s *Store) GetOrgProfile(ctx context.Context, id string) (*domain.OrganizationProfile, error) {
	var o domain.OrganizationProfile
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, contact_email, COALESCE(domain,''), COALESCE(geography,''), focus_areas,
			COALESCE(fit_rationale,''), COALESCE(partner_status,'potential'), risk_score,
			COALESCE(controversy_summary,''), COALESCE(crm_link_id,''), created_at, updated_at
		FROM organization_profiles WHERE id = $1`, id,
	).Scan(&o.ID, &o.Name, &o.ContactEmail, &o.Domain, &o.Geography, pq.Array(&o.FocusAreas),
		&o.FitRationale, &o.PartnerStatus, &o.RiskScore, &o.ControversySummary, &o.CRMLinkID,
		&o.CreatedAt, &o.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ===== Campaigns =====

func (s *Store) SaveCampaign(ctx context.Context, c *domain.OutreachCampaign) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO outreach_campaigns (id, name, description, stage, target_orgs, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name, description=EXCLUDED.description,
			stage=EXCLUDED.stage, target_orgs=EXCLUDED.target_orgs, updated_at=EXCLUDED.updated_at`,
		c.ID, c.Name, c.Description, c.Stage, pq.Array(c.TargetOrgs), c.CreatedAt, c.UpdatedAt)
	return err
}

func (s *Store) GetCampaign(ctx context.Context, id string) (*domain.OutreachCampaign, error) {
	var c domain.OutreachCampaign
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, COALESCE(description,''), stage, target_orgs, created_at, updated_at
		FROM outreach_campaigns WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.Stage, pq.Array(&c.TargetOrgs), &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ===== Idempotency keys =====

func (s *Store) RecordIdempotencyKey(ctx context.Context, k *domain.IdempotencyKey) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO idempotency_keys (key, operation, resource_id, created_at, completed_at, result)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (key) DO UPDATE SET completed_at=EXCLUDED.completed_at, result=EXCLUDED.result`,
		k.Key, k.Operation, k.ResourceID, k.CreatedAt, k.CompletedAt, k.Result)
	return err
}

func (s *Store) GetIdempotencyKey(ctx context.Context, key string) (*domain.IdempotencyKey, error) {
	var k domain.IdempotencyKey
	err := s.db.QueryRowContext(ctx,
		`SELECT key, operation, resource_id, created_at, completed_at, COALESCE(result,'')
		FROM idempotency_keys WHERE key = $1`, key,
	).Scan(&k.Key, &k.Operation, &k.ResourceID, &k.CreatedAt, &k.CompletedAt, &k.Result)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &k, nil
}
