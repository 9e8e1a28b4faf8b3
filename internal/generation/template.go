package generation

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/osteele/liquid"

	"github.com/ignite/outreach-engine/internal/domain"
)

// Default outreach templates. Operators can override both at construction.
const (
	defaultSubjectTemplate = `Exploring a partnership with {{ org_name }}`

	defaultBodyTemplate = `Dear {{ org_name }} team,

I'm reaching out on behalf of {{ campaign_name | default: "our partnerships team" }}. Your work{% if focus_areas != "" %} on {{ focus_areas }}{% endif %}{% if geography != "" %} in {{ geography }}{% endif %} closely aligns with what we are trying to achieve{% if campaign_description != "" %}: {{ campaign_description }}{% endif %}.

We would welcome a short conversation to explore whether a collaboration makes sense. Would someone on your team have 20 minutes in the coming weeks?

Warm regards,
The Partnerships Team`
)

// TemplateGenerator renders outreach drafts from Liquid templates. It is
// the fallback when no model backend is configured and needs no network.
type TemplateGenerator struct {
	engine   *liquid.Engine
	subject  string
	body     string
	mu       sync.Mutex
	compiled map[string]*liquid.Template
}

// NewTemplateGenerator builds a generator with the given templates; empty
// strings select the defaults.
func NewTemplateGenerator(subjectTmpl, bodyTmpl string) *TemplateGenerator {
	if subjectTmpl == "" {
		subjectTmpl = defaultSubjectTemplate
	}
	if bodyTmpl == "" {
		bodyTmpl = defaultBodyTemplate
	}
	engine := liquid.NewEngine()
	engine.RegisterFilter("default", func(value interface{}, defaultVal string) interface{} {
		if value == nil {
			return defaultVal
		}
		if s := fmt.Sprintf("%v", value); s == "" || s == "<nil>" {
			return defaultVal
		}
		return value
	})
	return &TemplateGenerator{
		engine:   engine,
		subject:  subjectTmpl,
		body:     bodyTmpl,
		compiled: map[string]*liquid.Template{},
	}
}

// GenerateEmail renders the subject and body templates with organization
// and campaign bindings. Confidence is fixed low so reviewers know the
// draft is boilerplate.
func (g *TemplateGenerator) GenerateEmail(ctx context.Context, org *domain.OrganizationProfile, campaign *domain.OutreachCampaign) (*domain.AIGeneratedEmail, error) {
	if org == nil {
		return nil, fmt.Errorf("generation: organization is required")
	}

	bindings := map[string]interface{}{
		"org_name":    org.Name,
		"geography":   org.Geography,
		"focus_areas": strings.Join(org.FocusAreas, ", "),
	}
	bindings["campaign_name"] = ""
	bindings["campaign_description"] = ""
	if campaign != nil {
		bindings["campaign_name"] = campaign.Name
		bindings["campaign_description"] = campaign.Description
	}

	subject, err := g.render(g.subject, bindings)
	if err != nil {
		return nil, fmt.Errorf("generation: render subject: %w", err)
	}
	body, err := g.render(g.body, bindings)
	if err != nil {
		return nil, fmt.Errorf("generation: render body: %w", err)
	}

	return &domain.AIGeneratedEmail{
		Subject:              strings.TrimSpace(subject),
		Body:                 strings.TrimSpace(body),
		Tone:                 domain.ToneProfessional,
		TargetOrgName:        org.Name,
		PersonalizationNotes: []string{"rendered from template, not model-generated"},
		Confidence:           0.4,
	}, nil
}

func (g *TemplateGenerator) render(src string, bindings map[string]interface{}) (string, error) {
	g.mu.Lock()
	tmpl, ok := g.compiled[src]
	if !ok {
		var err error
		tmpl, err = g.engine.ParseString(src)
		if err != nil {
			g.mu.Unlock()
			return "", err
		}
		g.compiled[src] = tmpl
	}
	g.mu.Unlock()

	out, err := tmpl.Render(bindings)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
