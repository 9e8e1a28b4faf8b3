package domain

import (
	"strings"
	"time"
)

// PartnerStatus tracks where an organization sits in the partnership funnel.
type PartnerStatus string

const (
	PartnerPotential PartnerStatus = "potential"
	PartnerEngaged   PartnerStatus = "engaged"
	PartnerActive    PartnerStatus = "partner"
	PartnerInactive  PartnerStatus = "inactive"
)

// OrganizationProfile is one entry of the candidate registry. The registry
// is static reference data loaded at process start; search never mutates
// entries, it returns copies stamped SelectedForOutreach=false.
type OrganizationProfile struct {
	ID                  string        `json:"id" yaml:"id" db:"id"`
	Name                string        `json:"name" yaml:"name" db:"name"`
	ContactEmail        string        `json:"contact_email" yaml:"contact_email" db:"contact_email"`
	Domain              string        `json:"domain" yaml:"domain" db:"domain"`
	Geography           string        `json:"geography" yaml:"geography" db:"geography"`
	FocusAreas          []string      `json:"focus_areas" yaml:"focus_areas" db:"focus_areas"`
	FitRationale        string        `json:"fit_rationale" yaml:"fit_rationale" db:"fit_rationale"`
	PartnerStatus       PartnerStatus `json:"partner_status" yaml:"partner_status" db:"partner_status"`
	RiskScore           *int          `json:"risk_score,omitempty" yaml:"risk_score,omitempty" db:"risk_score"`
	ControversySummary  string        `json:"controversy_summary,omitempty" yaml:"controversy_summary,omitempty" db:"controversy_summary"`
	CRMLinkID           string        `json:"crm_link_id,omitempty" yaml:"crm_link_id,omitempty" db:"crm_link_id"`
	SelectedForOutreach bool          `json:"selected_for_outreach" yaml:"selected_for_outreach"`
	CreatedAt           time.Time     `json:"created_at" yaml:"created_at" db:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at" yaml:"updated_at" db:"updated_at"`
}

// Validate checks the fields the workflow engine requires before an
// engagement may be initiated against this organization.
func (o *OrganizationProfile) Validate() []string {
	var errs []string
	if strings.TrimSpace(o.ID) == "" {
		errs = append(errs, "organization id is required")
	}
	if strings.TrimSpace(o.Name) == "" {
		errs = append(errs, "organization name is required")
	}
	if strings.TrimSpace(o.ContactEmail) == "" {
		errs = append(errs, "organization contact email is required")
	}
	return errs
}

// RiskAssessment is presentation data for the reviewer. AdvisoryOnly is
// always true: no automated decision may consult this value.
type RiskAssessment struct {
	OrganizationID     string    `json:"organization_id"`
	OrganizationName   string    `json:"organization_name"`
	RiskScore          int       `json:"risk_score"`
	RiskLevel          string    `json:"risk_level"`
	ControversySummary string    `json:"controversy_summary,omitempty"`
	AdvisoryOnly       bool      `json:"advisory_only"`
	AssessedAt         time.Time `json:"assessed_at"`
}
