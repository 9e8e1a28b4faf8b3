package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ignite/outreach-engine/internal/brief"
	"github.com/ignite/outreach-engine/internal/crm"
	"github.com/ignite/outreach-engine/internal/domain"
	"github.com/ignite/outreach-engine/internal/matching"
	"github.com/ignite/outreach-engine/internal/pkg/httputil"
	"github.com/ignite/outreach-engine/internal/registry"
	"github.com/ignite/outreach-engine/internal/workflow"
)

// Handlers bundles the HTTP handlers with their collaborators.
type Handlers struct {
	analyzer *brief.Analyzer
	searcher *matching.Searcher
	engine   *workflow.Engine
	store    workflow.Store
	registry *registry.Registry
	crm      crm.Adapter
}

// NewHandlers wires the handler set. crm may be nil; contact routes then
// return 503.
func NewHandlers(analyzer *brief.Analyzer, searcher *matching.Searcher, engine *workflow.Engine, store workflow.Store, reg *registry.Registry, crmAdapter crm.Adapter) *Handlers {
	return &Handlers{
		analyzer: analyzer,
		searcher: searcher,
		engine:   engine,
		store:    store,
		registry: reg,
		crm:      crmAdapter,
	}
}

// HealthCheck reports liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]string{"status": "ok", "service": "outreach-engine"})
}

// ===== Brief analysis =====

type analyzeBriefRequest struct {
	Text string `json:"text"`
}

// AnalyzeBrief runs the full text-analysis pipeline over a raw brief.
func (h *Handlers) AnalyzeBrief(w http.ResponseWriter, r *http.Request) {
	var req analyzeBriefRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	analysis := h.analyzer.Analyze(r.Context(), req.Text)
	httputil.OK(w, analysis)
}

// ===== Organization search =====

type searchRequest struct {
	Brief      string `json:"brief"`
	TopK       int    `json:"top_k,omitempty"`
	FloorScore int    `json:"floor_score,omitempty"`
}

type searchResponse struct {
	Analysis      *brief.Analysis               `json:"analysis"`
	Organizations []matching.ScoredOrganization `json:"organizations"`
}

// SearchOrganizations analyzes the brief and ranks registry candidates.
func (h *Handlers) SearchOrganizations(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	analysis, orgs := h.searcher.SearchNGOs(r.Context(), req.Brief, matching.Options{
		TopK:       req.TopK,
		FloorScore: req.FloorScore,
	})
	httputil.OK(w, searchResponse{Analysis: analysis, Organizations: orgs})
}

// ListOrganizations returns the full candidate registry.
func (h *Handlers) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, h.registry.All())
}

// GetOrganization returns one registry entry.
func (h *Handlers) GetOrganization(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	org := h.registry.Get(id)
	if org == nil {
		httputil.NotFound(w, "organization not found")
		return
	}
	httputil.OK(w, org)
}

// GetRiskAssessment returns advisory risk data for an organization the
// workflow already knows about.
func (h *Handlers) GetRiskAssessment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ra, err := h.engine.AdvisoryRiskAssessment(r.Context(), id)
	if err != nil {
		h.writeWorkflowError(w, err)
		return
	}
	if ra == nil {
		httputil.NotFound(w, "organization not found")
		return
	}
	httputil.OK(w, ra)
}

// ===== Campaigns =====

type createCampaignRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	TargetOrgs  []string `json:"target_orgs"`
}

func (h *Handlers) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req createCampaignRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		httputil.BadRequest(w, "campaign name is required")
		return
	}
	now := time.Now().UTC()
	campaign := &domain.OutreachCampaign{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Stage:       domain.CampaignDraft,
		TargetOrgs:  req.TargetOrgs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.store.SaveCampaign(r.Context(), campaign); err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.Created(w, campaign)
}

func (h *Handlers) GetCampaign(w http.ResponseWriter, r *http.Request) {
	campaign, err := h.store.GetCampaign(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if campaign == nil {
		httputil.NotFound(w, "campaign not found")
		return
	}
	httputil.OK(w, campaign)
}

func (h *Handlers) ListCampaignWorkflows(w http.ResponseWriter, r *http.Request) {
	states, err := h.store.ListWorkflowStatesByCampaign(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, states)
}

func (h *Handlers) ListCampaignDrafts(w http.ResponseWriter, r *http.Request) {
	drafts, err := h.store.ListDraftEmailsByCampaign(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, drafts)
}

// ===== Outreach workflow =====

type initiateRequest struct {
	CampaignID     string `json:"campaign_id"`
	OrganizationID string `json:"organization_id"`
}

// InitiateOutreach starts an engagement against one registry organization.
func (h *Handlers) InitiateOutreach(w http.ResponseWriter, r *http.Request) {
	var req initiateRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	org := h.registry.Get(req.OrganizationID)
	if org == nil {
		httputil.NotFound(w, "organization not found in registry")
		return
	}
	state, err := h.engine.InitiateOutreach(r.Context(), req.CampaignID, org)
	if err != nil {
		h.writeWorkflowError(w, err)
		return
	}
	httputil.Created(w, state)
}

// GenerateDraft produces the outreach email for a workflow.
func (h *Handlers) GenerateDraft(w http.ResponseWriter, r *http.Request) {
	workflowID := chi.URLParam(r, "id")

	state, err := h.store.GetWorkflowState(r.Context(), workflowID)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if state == nil {
		httputil.NotFound(w, "workflow not found")
		return
	}
	campaign, err := h.store.GetCampaign(r.Context(), state.CampaignID)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}

	draft, err := h.engine.GenerateEmailDraft(r.Context(), workflowID, campaign)
	if err != nil {
		h.writeWorkflowError(w, err)
		return
	}
	httputil.Created(w, draft)
}

// ===== Approvals and sending =====

type recordApprovalRequest struct {
	ResourceType string `json:"resource_type"`
	ResourceID   string `json:"resource_id"`
	ApprovedBy   string `json:"approved_by"`
	Note         string `json:"note"`
	ExpiresIn    int    `json:"expires_in_hours,omitempty"`
}

// RecordApproval records a human sign-off for later verification at send
// time.
func (h *Handlers) RecordApproval(w http.ResponseWriter, r *http.Request) {
	var req recordApprovalRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	approval := &domain.UserApproval{
		ID:           uuid.NewString(),
		ResourceType: domain.ApprovalResourceType(req.ResourceType),
		ResourceID:   req.ResourceID,
		ApprovedBy:   req.ApprovedBy,
		Note:         req.Note,
		ApprovedAt:   time.Now().UTC(),
	}
	if req.ExpiresIn > 0 {
		exp := approval.ApprovedAt.Add(time.Duration(req.ExpiresIn) * time.Hour)
		approval.ExpiresAt = &exp
	}
	if err := h.engine.RecordApproval(r.Context(), approval); err != nil {
		h.writeWorkflowError(w, err)
		return
	}
	httputil.Created(w, approval)
}

type sendRequest struct {
	ApprovalID string `json:"approval_id"`
}

// SendEmail dispatches an approved draft. Approval rejections come back
// as 200 with success=false and a reason, mirroring the engine contract.
func (h *Handlers) SendEmail(w http.ResponseWriter, r *http.Request) {
	emailID := chi.URLParam(r, "id")
	var req sendRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	var approval *domain.UserApproval
	if req.ApprovalID != "" {
		var err error
		approval, err = h.store.GetUserApproval(r.Context(), req.ApprovalID)
		if err != nil {
			httputil.InternalError(w, err)
			return
		}
	}

	result, err := h.engine.SendEmailWithApproval(r.Context(), emailID, approval)
	if err != nil {
		h.writeWorkflowError(w, err)
		return
	}
	httputil.OK(w, result)
}

type followUpRequest struct {
	ApprovalID string `json:"approval_id"`
	DelayHours int    `json:"delay_hours"`
}

// ScheduleFollowUp queues a follow-up for an already-sent email.
func (h *Handlers) ScheduleFollowUp(w http.ResponseWriter, r *http.Request) {
	emailID := chi.URLParam(r, "id")
	var req followUpRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	if req.DelayHours <= 0 {
		req.DelayHours = 72
	}

	var approval *domain.UserApproval
	if req.ApprovalID != "" {
		var err error
		approval, err = h.store.GetUserApproval(r.Context(), req.ApprovalID)
		if err != nil {
			httputil.InternalError(w, err)
			return
		}
	}

	scheduledID, err := h.engine.ScheduleFollowUp(r.Context(), emailID, approval, time.Duration(req.DelayHours)*time.Hour)
	if err != nil {
		h.writeWorkflowError(w, err)
		return
	}
	httputil.OK(w, map[string]string{"scheduled_id": scheduledID})
}

// GetDraft returns one draft email.
func (h *Handlers) GetDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := h.store.GetDraftEmail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if draft == nil {
		httputil.NotFound(w, "draft email not found")
		return
	}
	httputil.OK(w, draft)
}

// ===== CRM =====

const (
	defaultContactPage = 50
	maxContactPage     = 200
)

// GetContacts looks one contact up when an email parameter is given,
// otherwise returns a page of contacts honoring organization, limit and
// offset parameters.
func (h *Handlers) GetContacts(w http.ResponseWriter, r *http.Request) {
	if h.crm == nil {
		httputil.Error(w, http.StatusServiceUnavailable, "CRM integration is not configured")
		return
	}
	q := r.URL.Query()

	if email := q.Get("email"); email != "" {
		contact, err := h.crm.GetContactByEmail(r.Context(), email)
		if err != nil {
			httputil.InternalError(w, err)
			return
		}
		if contact == nil {
			httputil.NotFound(w, "contact not found")
			return
		}
		httputil.OK(w, contact)
		return
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	if limit <= 0 || limit > maxContactPage {
		limit = defaultContactPage
	}
	if offset < 0 {
		offset = 0
	}
	contacts, err := h.crm.ListContacts(r.Context(), q.Get("organization"), limit, offset)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if contacts == nil {
		contacts = []domain.Contact{}
	}
	httputil.OK(w, contacts)
}

func (h *Handlers) CreateContact(w http.ResponseWriter, r *http.Request) {
	if h.crm == nil {
		httputil.Error(w, http.StatusServiceUnavailable, "CRM integration is not configured")
		return
	}
	var contact domain.Contact
	if !httputil.Decode(w, r, &contact) {
		return
	}
	result, err := h.crm.CreateContactIfNotExists(r.Context(), &contact)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if result.IsNew {
		httputil.Created(w, result)
		return
	}
	httputil.OK(w, result)
}

// writeWorkflowError maps the workflow error taxonomy onto HTTP status
// codes.
func (h *Handlers) writeWorkflowError(w http.ResponseWriter, err error) {
	var verr *workflow.ValidationError
	if errors.As(err, &verr) {
		httputil.JSON(w, http.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"fields": verr.Fields,
		})
		return
	}
	var nf *workflow.NotFoundError
	if errors.As(err, &nf) {
		httputil.NotFound(w, nf.Error())
		return
	}
	var cerr *workflow.CollaboratorError
	if errors.As(err, &cerr) {
		httputil.Error(w, http.StatusBadGateway, cerr.Error())
		return
	}
	httputil.InternalError(w, err)
}
