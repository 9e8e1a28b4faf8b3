// Package generation produces outreach email drafts. The primary
// generator calls AWS Bedrock (Claude); a liquid-template generator
// serves as the offline fallback. Both return the same untrusted
// AIGeneratedEmail contract that the workflow validates before any draft
// is persisted.
package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/ignite/outreach-engine/internal/domain"
	"github.com/ignite/outreach-engine/internal/pkg/logger"
)

const defaultModelID = "anthropic.claude-3-sonnet-20240229-v1:0"

// ModelInvoker is the slice of the Bedrock runtime client the generator
// uses.
type ModelInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// anthropicRequest is the Claude messages payload for InvokeModel.
type anthropicRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	MaxTokens        int                `json:"max_tokens"`
	System           string             `json:"system,omitempty"`
	Messages         []anthropicMessage `json:"messages"`
	Temperature      float64            `json:"temperature,omitempty"`
}

type anthropicMessage struct {
	Role    string                  `json:"role"`
	Content []anthropicContentBlock `json:"content"`
}

type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// BedrockGenerator generates personalized outreach emails with Claude on
// AWS Bedrock.
type BedrockGenerator struct {
	client  ModelInvoker
	modelID string
}

// NewBedrockGenerator wires a generator to a Bedrock runtime client.
// modelID may be empty; a Claude Sonnet default is used.
func NewBedrockGenerator(client ModelInvoker, modelID string) *BedrockGenerator {
	if modelID == "" {
		modelID = defaultModelID
	}
	return &BedrockGenerator{client: client, modelID: modelID}
}

const generationSystemPrompt = `You are an outreach writer for an NGO partnerships team. You draft short, respectful first-contact emails to environmental and social nonprofit organizations.

## Response format
Respond with ONLY a JSON object, no prose around it:
{
  "subject": "...",
  "body": "...",
  "tone": "professional" | "friendly" | "formal" | "casual",
  "target_org_name": "...",
  "personalization_notes": ["..."],
  "confidence": 0.0-1.0
}

## Guidelines
1. Keep the body under 200 words
2. Reference the organization's actual focus areas
3. Make one concrete ask, not several
4. Never fabricate facts about the recipient organization`

// GenerateEmail asks the model for a draft aimed at org on behalf of
// campaign. The returned email is unvalidated; callers own the contract
// check.
func (g *BedrockGenerator) GenerateEmail(ctx context.Context, org *domain.OrganizationProfile, campaign *domain.OutreachCampaign) (*domain.AIGeneratedEmail, error) {
	if org == nil {
		return nil, fmt.Errorf("generation: organization is required")
	}

	req := anthropicRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        1500,
		System:           generationSystemPrompt,
		Temperature:      0.7,
		Messages: []anthropicMessage{
			{
				Role: "user",
				Content: []anthropicContentBlock{
					{Type: "text", Text: buildGenerationPrompt(org, campaign)},
				},
			},
		},
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("generation: marshal request: %w", err)
	}

	output, err := g.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(g.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return nil, fmt.Errorf("generation: bedrock invoke: %w", err)
	}

	var resp anthropicResponse
	if err := json.Unmarshal(output.Body, &resp); err != nil {
		return nil, fmt.Errorf("generation: parse bedrock response: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	email, err := parseGeneratedEmail(text.String())
	if err != nil {
		return nil, err
	}
	if email.TargetOrgName == "" {
		email.TargetOrgName = org.Name
	}

	logger.Info("generation: draft produced",
		"model", g.modelID, "organization_id", org.ID,
		"input_tokens", resp.Usage.InputTokens, "output_tokens", resp.Usage.OutputTokens)
	return email, nil
}

func buildGenerationPrompt(org *domain.OrganizationProfile, campaign *domain.OutreachCampaign) string {
	var b strings.Builder
	b.WriteString("Draft a first-contact outreach email.\n\n## Target organization\n")
	fmt.Fprintf(&b, "- Name: %s\n", org.Name)
	if org.Geography != "" {
		fmt.Fprintf(&b, "- Geography: %s\n", org.Geography)
	}
	if len(org.FocusAreas) > 0 {
		fmt.Fprintf(&b, "- Focus areas: %s\n", strings.Join(org.FocusAreas, ", "))
	}
	if org.FitRationale != "" {
		fmt.Fprintf(&b, "- Why we matched them: %s\n", org.FitRationale)
	}
	if campaign != nil {
		b.WriteString("\n## Our campaign\n")
		fmt.Fprintf(&b, "- Name: %s\n", campaign.Name)
		if campaign.Description != "" {
			fmt.Fprintf(&b, "- Brief: %s\n", campaign.Description)
		}
	}
	return b.String()
}

// parseGeneratedEmail extracts the JSON object from model output,
// tolerating markdown code fences around it.
func parseGeneratedEmail(text string) (*domain.AIGeneratedEmail, error) {
	trimmed := strings.TrimSpace(text)
	if start := strings.Index(trimmed, "{"); start >= 0 {
		if end := strings.LastIndex(trimmed, "}"); end > start {
			trimmed = trimmed[start : end+1]
		}
	}
	var email domain.AIGeneratedEmail
	if err := json.Unmarshal([]byte(trimmed), &email); err != nil {
		return nil, fmt.Errorf("generation: model output is not the expected JSON: %w", err)
	}
	return &email, nil
}
