package domain

import (
	"fmt"
	"strings"
)

// EmailTone enumerates the tones the generation collaborator may produce.
type EmailTone string

const (
	ToneProfessional EmailTone = "professional"
	ToneFriendly     EmailTone = "friendly"
	ToneFormal       EmailTone = "formal"
	ToneCasual       EmailTone = "casual"
)

// AIGeneratedEmail is the untrusted output of the generation collaborator.
// The workflow validates it against this contract before any DraftEmail is
// created; a contract violation means no draft exists at all.
type AIGeneratedEmail struct {
	Subject              string    `json:"subject"`
	Body                 string    `json:"body"`
	Tone                 EmailTone `json:"tone"`
	TargetOrgName        string    `json:"target_org_name"`
	PersonalizationNotes []string  `json:"personalization_notes"`
	Confidence           float64   `json:"confidence"`
	ValidationErrors     []string  `json:"validation_errors"`
}

// Validate checks the generation contract: required fields present, tone in
// the enum, confidence in [0,1]. Returns the field-level error list.
func (e *AIGeneratedEmail) Validate() []string {
	var errs []string
	if strings.TrimSpace(e.Subject) == "" {
		errs = append(errs, "generated subject is empty")
	}
	if strings.TrimSpace(e.Body) == "" {
		errs = append(errs, "generated body is empty")
	}
	if strings.TrimSpace(e.TargetOrgName) == "" {
		errs = append(errs, "generated target org name is empty")
	}
	switch e.Tone {
	case ToneProfessional, ToneFriendly, ToneFormal, ToneCasual:
	default:
		errs = append(errs, fmt.Sprintf("generated tone %q is not one of professional, friendly, formal, casual", e.Tone))
	}
	if e.Confidence < 0 || e.Confidence > 1 {
		errs = append(errs, fmt.Sprintf("generated confidence %.3f is outside [0,1]", e.Confidence))
	}
	return errs
}
