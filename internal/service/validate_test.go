package service

import (
	"errors"
	"testing"

	"docvault/internal/domain"
	"docvault/internal/domain/models"
)

func TestUploadValidator_Validate(t *testing.T) {
	validator := NewUploadValidator(NewAccessPolicy())

	tests := []struct {
		name        string
		role        models.Role
		visibility  models.Visibility
		contentType string
		size        int64
		wantErr     error
	}{
		{
			name:        "user uploads private pdf within limit",
			role:        models.RoleUser,
			visibility:  models.VisibilityPrivate,
			contentType: models.MIMEPDF,
			size:        5 * models.BytesInMiB,
			wantErr:     nil,
		},
		{
			name:        "user cannot publish",
			role:        models.RoleUser,
			visibility:  models.VisibilityPublic,
			contentType: models.MIMEPDF,
			size:        1,
			wantErr:     domain.ErrVisibilityNotAllowed,
		},
		{
			name:        "user cannot upload docx",
			role:        models.RoleUser,
			visibility:  models.VisibilityPrivate,
			contentType: models.MIMEDOCX,
			size:        1,
			wantErr:     domain.ErrTypeNotAllowed,
		},
		{
			name:        "user size limit is inclusive",
			role:        models.RoleUser,
			visibility:  models.VisibilityPrivate,
			contentType: models.MIMEPDF,
			size:        10 * models.BytesInMiB,
			wantErr:     nil,
		},
		{
			name:        "one byte over the user limit",
			role:        models.RoleUser,
			visibility:  models.VisibilityPrivate,
			contentType: models.MIMEPDF,
			size:        10*models.BytesInMiB + 1,
			wantErr:     domain.ErrTooLarge,
		},
		{
			name:        "manager uploads public docx",
			role:        models.RoleManager,
			visibility:  models.VisibilityPublic,
			contentType: models.MIMEDOCX,
			size:        50 * models.BytesInMiB,
			wantErr:     nil,
		},
		{
			name:        "manager over limit",
			role:        models.RoleManager,
			visibility:  models.VisibilityPrivate,
			contentType: models.MIMEPDF,
			size:        50*models.BytesInMiB + 1,
			wantErr:     domain.ErrTooLarge,
		},
		{
			name:        "admin at limit",
			role:        models.RoleAdmin,
			visibility:  models.VisibilityPublic,
			contentType: models.MIMEDOC,
			size:        100 * models.BytesInMiB,
			wantErr:     nil,
		},
		{
			name:        "admin cannot beat type rules",
			role:        models.RoleAdmin,
			visibility:  models.VisibilityPrivate,
			contentType: "image/png",
			size:        1,
			wantErr:     domain.ErrTypeNotAllowed,
		},
		{
			name:        "visibility checked before type",
			role:        models.RoleUser,
			visibility:  models.VisibilityPublic,
			contentType: "image/png",
			size:        200 * models.BytesInMiB,
			wantErr:     domain.ErrVisibilityNotAllowed,
		},
		{
			name:        "type checked before size",
			role:        models.RoleUser,
			visibility:  models.VisibilityPrivate,
			contentType: "image/png",
			size:        200 * models.BytesInMiB,
			wantErr:     domain.ErrTypeNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actor := testUser(1, tt.role, deptPtr(1))
			err := validator.Validate(actor, tt.visibility, tt.contentType, tt.size)

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
