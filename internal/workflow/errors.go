package workflow

import (
	"fmt"
	"strings"
)

// ValidationError reports malformed input to a core operation, including
// AI-output schema violations. Fields carries the field-level error list
// so a UI can render exactly what was wrong.
type ValidationError struct {
	Op     string
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: validation failed: %s", e.Op, strings.Join(e.Fields, "; "))
}

// NotFoundError reports a referenced workflow/email/org/approval that does
// not exist. Callers branch on it rather than treating it as unexpected.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ApprovalReason distinguishes why an approval was rejected. The reasons
// matter for audit logs even though callers usually branch on the family.
type ApprovalReason string

const (
	ApprovalMissing     ApprovalReason = "missing"
	ApprovalMalformed   ApprovalReason = "malformed"
	ApprovalMismatch    ApprovalReason = "mismatch"
	ApprovalExpired     ApprovalReason = "expired"
	ApprovalNotYetValid ApprovalReason = "not_yet_valid"
)

// ApprovalError reports a security-relevant approval rejection: missing,
// mismatched, expired or not-yet-valid approvals.
type ApprovalError struct {
	Reason  ApprovalReason
	Message string
}

func (e *ApprovalError) Error() string {
	return fmt.Sprintf("approval rejected (%s): %s", e.Reason, e.Message)
}

// CollaboratorError wraps a persistence/mail/generation backend failure.
// The engine never retries these internally; retry policy belongs to the
// caller or the collaborator itself.
type CollaboratorError struct {
	Collaborator string
	Err          error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s collaborator failed: %v", e.Collaborator, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}
