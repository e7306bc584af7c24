package service

import (
	"fmt"

	"docvault/internal/domain"
	"docvault/internal/domain/models"
)

// UploadValidator enforces the per-role upload constraints before any bytes
// are persisted. Checks run in a fixed order - visibility, then content
// type, then size - so a given bad request always fails the same way.
type UploadValidator struct {
	policy *AccessPolicy
}

// NewUploadValidator creates an upload validator.
func NewUploadValidator(policy *AccessPolicy) *UploadValidator {
	return &UploadValidator{policy: policy}
}

// Validate checks the declared visibility, content type and byte length
// against the actor's role capabilities. The size limit is inclusive: a file
// of exactly the limit passes, one byte over is rejected.
func (v *UploadValidator) Validate(actor *models.User, visibility models.Visibility, contentType string, size int64) error {
	if !v.policy.CanUpload(actor, visibility) {
		return fmt.Errorf("role %s, visibility %s: %w", actor.Role, visibility, domain.ErrVisibilityNotAllowed)
	}
	if !actor.Role.AllowsContentType(contentType) {
		return fmt.Errorf("role %s, type %q: %w", actor.Role, contentType, domain.ErrTypeNotAllowed)
	}
	if size > actor.Role.MaxUploadBytes() {
		return fmt.Errorf("%d bytes exceeds the %d byte limit for role %s: %w",
			size, actor.Role.MaxUploadBytes(), actor.Role, domain.ErrTooLarge)
	}
	return nil
}
