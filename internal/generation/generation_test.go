package generation

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/outreach-engine/internal/domain"
)

type fakeInvoker struct {
	responseText string
	err          error
	lastInput    *bedrockruntime.InvokeModelInput
}

func (f *fakeInvoker) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.lastInput = params
	if f.err != nil {
		return nil, f.err
	}
	body, _ := json.Marshal(map[string]any{
		"content":     []map[string]any{{"type": "text", "text": f.responseText}},
		"stop_reason": "end_turn",
		"usage":       map[string]int{"input_tokens": 200, "output_tokens": 150},
	})
	return &bedrockruntime.InvokeModelOutput{Body: body}, nil
}

func sampleOrg() *domain.OrganizationProfile {
	return &domain.OrganizationProfile{
		ID:           "org-coral-reach",
		Name:         "Coral Reach Initiative",
		ContactEmail: "partnerships@coralreach.org",
		Geography:    "Caribbean",
		FocusAreas:   []string{"coral restoration", "marine conservation"},
	}
}

func TestBedrockGeneratorParsesModelJSON(t *testing.T) {
	invoker := &fakeInvoker{responseText: `Here is the draft:
` + "```json" + `
{"subject": "Reef partnership", "body": "Hello team", "tone": "friendly", "target_org_name": "Coral Reach Initiative", "confidence": 0.9}
` + "```"}
	gen := NewBedrockGenerator(invoker, "")

	email, err := gen.GenerateEmail(context.Background(), sampleOrg(), &domain.OutreachCampaign{Name: "Reef push"})
	require.NoError(t, err)
	assert.Equal(t, "Reef partnership", email.Subject)
	assert.Equal(t, domain.ToneFriendly, email.Tone)
	assert.Empty(t, email.Validate())

	require.NotNil(t, invoker.lastInput)
	assert.Equal(t, defaultModelID, *invoker.lastInput.ModelId)
	assert.Contains(t, string(invoker.lastInput.Body), "Coral Reach Initiative")
}

func TestBedrockGeneratorFillsOrgNameWhenModelOmitsIt(t *testing.T) {
	invoker := &fakeInvoker{responseText: `{"subject": "s", "body": "b", "tone": "professional", "confidence": 0.5}`}
	gen := NewBedrockGenerator(invoker, "custom-model")

	email, err := gen.GenerateEmail(context.Background(), sampleOrg(), nil)
	require.NoError(t, err)
	assert.Equal(t, "Coral Reach Initiative", email.TargetOrgName)
}

func TestBedrockGeneratorRejectsNonJSONOutput(t *testing.T) {
	invoker := &fakeInvoker{responseText: "I cannot produce that email."}
	gen := NewBedrockGenerator(invoker, "")

	_, err := gen.GenerateEmail(context.Background(), sampleOrg(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected JSON")
}

func TestBedrockGeneratorPropagatesInvokeError(t *testing.T) {
	invoker := &fakeInvoker{err: errors.New("throttled")}
	gen := NewBedrockGenerator(invoker, "")

	_, err := gen.GenerateEmail(context.Background(), sampleOrg(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestTemplateGeneratorProducesValidDraft(t *testing.T) {
	gen := NewTemplateGenerator("", "")

	email, err := gen.GenerateEmail(context.Background(), sampleOrg(), &domain.OutreachCampaign{
		Name:        "Reef push",
		Description: "expand coral restoration partnerships in the Caribbean",
	})
	require.NoError(t, err)
	assert.Empty(t, email.Validate())
	assert.Contains(t, email.Subject, "Coral Reach Initiative")
	assert.Contains(t, email.Body, "coral restoration, marine conservation")
	assert.Contains(t, email.Body, "Caribbean")
	assert.Equal(t, domain.ToneProfessional, email.Tone)
	assert.Less(t, email.Confidence, 0.5, "template drafts advertise low confidence")
}

func TestTemplateGeneratorHandlesSparseOrg(t *testing.T) {
	gen := NewTemplateGenerator("", "")

	email, err := gen.GenerateEmail(context.Background(), &domain.OrganizationProfile{
		ID: "org-min", Name: "Minimal Org", ContactEmail: "hello@minimal.org",
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, email.Validate())
	assert.NotContains(t, email.Body, "{{")
}
