package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ignite/outreach-engine/internal/domain"
	"github.com/ignite/outreach-engine/internal/pkg/httpretry"
	"github.com/ignite/outreach-engine/internal/pkg/logger"
)

// HTTPClient talks to a REST CRM API with retrying transport.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *httpretry.RetryClient
}

// NewHTTPClient builds a CRM client. doer may be nil; a default retrying
// HTTP client is used.
func NewHTTPClient(baseURL, apiKey string, doer httpretry.HTTPDoer) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  httpretry.NewRetryClient(doer, 3),
	}
}

func (c *HTTPClient) GetContactByEmail(ctx context.Context, email string) (*domain.Contact, error) {
	var contacts []domain.Contact
	path := "/contacts?email=" + url.QueryEscape(email)
	if err := c.get(ctx, path, &contacts); err != nil {
		return nil, err
	}
	if len(contacts) == 0 {
		return nil, nil
	}
	return &contacts[0], nil
}

func (c *HTTPClient) GetContactByID(ctx context.Context, id string) (*domain.Contact, error) {
	var contact domain.Contact
	err := c.get(ctx, "/contacts/"+url.PathEscape(id), &contact)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &contact, nil
}

func (c *HTTPClient) ListContacts(ctx context.Context, organization string, limit, offset int) ([]domain.Contact, error) {
	q := url.Values{}
	if organization != "" {
		q.Set("organization", organization)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	path := "/contacts"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var contacts []domain.Contact
	if err := c.get(ctx, path, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

// CreateContactIfNotExists looks the contact up by email first and only
// creates when absent. Existing contacts are returned as-is; this client
// has no update path at all.
func (c *HTTPClient) CreateContactIfNotExists(ctx context.Context, contact *domain.Contact) (*CreateResult, error) {
	if contact == nil || strings.TrimSpace(contact.Email) == "" {
		return nil, fmt.Errorf("crm: contact email is required")
	}

	existing, err := c.GetContactByEmail(ctx, contact.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &CreateResult{Contact: existing, IsNew: false}, nil
	}

	body, err := json.Marshal(contact)
	if err != nil {
		return nil, fmt.Errorf("crm: marshal contact: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/contacts", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("crm: create contact: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("crm: create contact returned status %d", resp.StatusCode)
	}

	var created domain.Contact
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("crm: decode created contact: %w", err)
	}

	logger.Info("crm: contact created", "contact", created.Email, "organization", created.Organization)
	return &CreateResult{Contact: &created, IsNew: true}, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("crm: request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("crm: %s returned status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *HTTPClient) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

var errNotFound = fmt.Errorf("crm: not found")

func isNotFound(err error) bool { return err == errNotFound }
