package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/outreach-engine/internal/brief"
	"github.com/ignite/outreach-engine/internal/crm"
	"github.com/ignite/outreach-engine/internal/domain"
	"github.com/ignite/outreach-engine/internal/generation"
	"github.com/ignite/outreach-engine/internal/mailer"
	"github.com/ignite/outreach-engine/internal/matching"
	"github.com/ignite/outreach-engine/internal/registry"
	"github.com/ignite/outreach-engine/internal/workflow"
)

func newTestServer(t *testing.T) (*httptest.Server, *workflow.MemoryStore, *mailer.MemoryTransport) {
	t.Helper()

	lex := brief.DefaultLexicon()
	analyzer := brief.NewAnalyzer(lex, nil)
	reg := registry.Seed()
	matcher := matching.NewMatcher(reg, lex, analyzer)
	searcher := matching.NewSearcher(matcher, nil, 0)

	store := workflow.NewMemoryStore()
	transport := mailer.NewMemoryTransport()
	engine := workflow.NewEngine(store, generation.NewTemplateGenerator("", ""), transport, nil)

	h := NewHandlers(analyzer, searcher, engine, store, reg, crm.NewMemoryAdapter())
	srv := httptest.NewServer(SetupRoutes(h))
	t.Cleanup(srv.Close)
	return srv, store, transport
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	return resp
}

func decodeInto(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func TestHealthCheck(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAnalyzeBriefEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/brief/analyze", map[string]string{
		"text": "We need partners for coral restoration in the Caribbean. Urgent deadline next month.",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var analysis brief.Analysis
	decodeInto(t, resp, &analysis)
	assert.NotEmpty(t, analysis.Intent.PrimaryGoal)
}

func TestSearchEndpointRanksCaribbeanCoralOrg(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/organizations/search", map[string]any{
		"brief": "We are seeking partners for coral restoration and reef monitoring in the Caribbean.",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body searchResponse
	decodeInto(t, resp, &body)
	require.NotEmpty(t, body.Organizations)
	assert.Equal(t, "org-coral-reach", body.Organizations[0].ID)
	assert.False(t, body.Organizations[0].SelectedForOutreach)
}

func TestSearchEndpointEmptyBrief(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/organizations/search", map[string]any{"brief": ""})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body searchResponse
	decodeInto(t, resp, &body)
	assert.Empty(t, body.Organizations)
}

func TestGetOrganizationNotFound(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/organizations/org-nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// TestOutreachEndToEnd drives the whole workflow over HTTP: campaign,
// initiation, draft, approval, send, replay, follow-up.
func TestOutreachEndToEnd(t *testing.T) {
	srv, _, transport := newTestServer(t)

	// Create campaign.
	resp := postJSON(t, srv.URL+"/api/campaigns/", map[string]any{
		"name":        "Reef push",
		"description": "coral restoration partnerships",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var campaign domain.OutreachCampaign
	decodeInto(t, resp, &campaign)

	// Initiate outreach against a registry organization.
	resp = postJSON(t, srv.URL+"/api/outreach/initiate", map[string]string{
		"campaign_id":     campaign.ID,
		"organization_id": "org-coral-reach",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var state domain.WorkflowState
	decodeInto(t, resp, &state)
	assert.Equal(t, domain.StageInitialResearch, state.Stage)

	// Generate the draft.
	resp = postJSON(t, srv.URL+"/api/outreach/"+state.ID+"/draft", map[string]any{})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var draft domain.DraftEmail
	decodeInto(t, resp, &draft)
	assert.Equal(t, domain.DraftPending, draft.Status)

	// Send without approval: structured failure, nothing dispatched.
	resp = postJSON(t, srv.URL+"/api/emails/"+draft.ID+"/send", map[string]string{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var denied workflow.SendResult
	decodeInto(t, resp, &denied)
	assert.False(t, denied.Success)
	assert.Empty(t, transport.Sent())

	// Record an approval for the draft.
	resp = postJSON(t, srv.URL+"/api/approvals", map[string]any{
		"resource_type": "email",
		"resource_id":   draft.ID,
		"approved_by":   "reviewer@ngo.org",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var approval domain.UserApproval
	decodeInto(t, resp, &approval)

	// Send with the approval.
	resp = postJSON(t, srv.URL+"/api/emails/"+draft.ID+"/send", map[string]string{"approval_id": approval.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sent workflow.SendResult
	decodeInto(t, resp, &sent)
	assert.True(t, sent.Success)
	require.Len(t, transport.Sent(), 1)

	// Replay is idempotent.
	resp = postJSON(t, srv.URL+"/api/emails/"+draft.ID+"/send", map[string]string{"approval_id": approval.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var replay workflow.SendResult
	decodeInto(t, resp, &replay)
	assert.True(t, replay.AlreadySent)
	assert.Len(t, transport.Sent(), 1)

	// Follow-up.
	resp = postJSON(t, srv.URL+"/api/emails/"+draft.ID+"/followup", map[string]any{
		"approval_id": approval.ID,
		"delay_hours": 48,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fu map[string]string
	decodeInto(t, resp, &fu)
	assert.NotEmpty(t, fu["scheduled_id"])
}

func TestRiskEndpointIsAdvisory(t *testing.T) {
	srv, store, _ := newTestServer(t)

	risk := 90
	require.NoError(t, store.SaveOrgProfile(context.Background(), &domain.OrganizationProfile{
		ID: "org-risky", Name: "Risky Org", ContactEmail: "x@risky.org", RiskScore: &risk,
	}))

	resp, err := http.Get(srv.URL + "/api/organizations/org-risky/risk")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var ra domain.RiskAssessment
	decodeInto(t, resp, &ra)
	assert.True(t, ra.AdvisoryOnly)
	assert.Equal(t, "critical", ra.RiskLevel)
}

func TestCRMContactRoutes(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/crm/contacts", domain.Contact{
		Email: "maria@coralreach.org", Name: "Maria Santos",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Duplicate create returns the existing record with 200.
	resp = postJSON(t, srv.URL+"/api/crm/contacts", domain.Contact{
		Email: "maria@coralreach.org", Name: "Someone Else",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result crm.CreateResult
	decodeInto(t, resp, &result)
	assert.False(t, result.IsNew)
	assert.Equal(t, "Maria Santos", result.Contact.Name)

	getResp, err := http.Get(srv.URL + "/api/crm/contacts?email=maria@coralreach.org")
	require.NoError(t, err)
	defer getResp.Body.Close()
	assert.Equal(t, http.StatusOK, getResp.StatusCode)
}

func TestCRMContactListPaging(t *testing.T) {
	srv, _, _ := newTestServer(t)

	for _, email := range []string{"a@ngo.org", "b@ngo.org", "c@ngo.org"} {
		resp := postJSON(t, srv.URL+"/api/crm/contacts", domain.Contact{Email: email})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp, err := http.Get(srv.URL + "/api/crm/contacts?limit=2&offset=1")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page []domain.Contact
	decodeInto(t, resp, &page)
	require.Len(t, page, 2)
	assert.Equal(t, "b@ngo.org", page[0].Email)
	assert.Equal(t, "c@ngo.org", page[1].Email)
}
