package postgres

import "context"

// EnsureSchema creates the outreach tables if they do not exist. Called
// once at startup; all statements are idempotent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS outreach_campaigns (
			id VARCHAR(100) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT,
			stage VARCHAR(50) DEFAULT 'draft',
			target_orgs TEXT[] DEFAULT '{}',
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS organization_profiles (
			id VARCHAR(100) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			contact_email VARCHAR(255) NOT NULL,
			domain VARCHAR(255),
			geography VARCHAR(255),
			focus_areas TEXT[] DEFAULT '{}',
			fit_rationale TEXT,
			partner_status VARCHAR(50) DEFAULT 'potential',
			risk_score INT,
			controversy_summary TEXT,
			crm_link_id VARCHAR(100),
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS outreach_workflows (
			id VARCHAR(100) PRIMARY KEY,
			campaign_id VARCHAR(100) NOT NULL,
			organization_id VARCHAR(100) NOT NULL,
			stage VARCHAR(50) NOT NULL,
			data JSONB DEFAULT '{}',
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS draft_emails (
			id VARCHAR(100) PRIMARY KEY,
			campaign_id VARCHAR(100) NOT NULL,
			organization_id VARCHAR(100) NOT NULL,
			status VARCHAR(50) NOT NULL DEFAULT 'draft',
			subject TEXT NOT NULL,
			body TEXT NOT NULL,
			recipient_email VARCHAR(255) NOT NULL,
			approved_by VARCHAR(255),
			approved_at TIMESTAMPTZ,
			sent_at TIMESTAMPTZ,
			message_id VARCHAR(255),
			failure_reason TEXT,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS user_approvals (
			id VARCHAR(100) PRIMARY KEY,
			resource_type VARCHAR(50) NOT NULL,
			resource_id VARCHAR(100) NOT NULL,
			approved_by VARCHAR(255) NOT NULL,
			note TEXT,
			approved_at TIMESTAMPTZ NOT NULL,
			expires_at TIMESTAMPTZ
		);

		CREATE TABLE IF NOT EXISTS idempotency_keys (
			key VARCHAR(255) PRIMARY KEY,
			operation VARCHAR(100) NOT NULL,
			resource_id VARCHAR(100) NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			completed_at TIMESTAMPTZ,
			result TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_workflows_campaign ON outreach_workflows(campaign_id);
		CREATE INDEX IF NOT EXISTS idx_drafts_campaign ON draft_emails(campaign_id);
		CREATE INDEX IF NOT EXISTS idx_approvals_resource ON user_approvals(resource_type, resource_id);
	`)
	return err
}
