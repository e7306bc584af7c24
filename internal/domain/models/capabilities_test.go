package models

import "testing"

func TestRoleCapabilities(t *testing.T) {
	tests := []struct {
		role     Role
		maxBytes int64
		allowed  []string
		refused  []string
	}{
		{
			role:     RoleUser,
			maxBytes: 10 * BytesInMiB,
			allowed:  []string{MIMEPDF},
			refused:  []string{MIMEDOC, MIMEDOCX, "image/png", ""},
		},
		{
			role:     RoleManager,
			maxBytes: 50 * BytesInMiB,
			allowed:  []string{MIMEPDF, MIMEDOC, MIMEDOCX},
			refused:  []string{"text/plain", ""},
		},
		{
			role:     RoleAdmin,
			maxBytes: 100 * BytesInMiB,
			allowed:  []string{MIMEPDF, MIMEDOC, MIMEDOCX},
			refused:  []string{"application/zip", ""},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if got := tt.role.MaxUploadBytes(); got != tt.maxBytes {
				t.Errorf("MaxUploadBytes() = %d, want %d", got, tt.maxBytes)
			}
			for _, ct := range tt.allowed {
				if !tt.role.AllowsContentType(ct) {
					t.Errorf("AllowsContentType(%q) = false, want true", ct)
				}
			}
			for _, ct := range tt.refused {
				if tt.role.AllowsContentType(ct) {
					t.Errorf("AllowsContentType(%q) = true, want false", ct)
				}
			}
		})
	}
}

func TestRoleVisibilities(t *testing.T) {
	if !RoleUser.AllowsVisibility(VisibilityPrivate) {
		t.Error("USER must be able to upload PRIVATE")
	}
	for _, v := range []Visibility{VisibilityDepartment, VisibilityPublic} {
		if RoleUser.AllowsVisibility(v) {
			t.Errorf("USER must not upload %s", v)
		}
	}
	for _, role := range []Role{RoleManager, RoleAdmin} {
		for _, v := range []Visibility{VisibilityPrivate, VisibilityDepartment, VisibilityPublic} {
			if !role.AllowsVisibility(v) {
				t.Errorf("%s must upload %s", role, v)
			}
		}
	}
}

func TestUnknownRoleHasNoCapabilities(t *testing.T) {
	bogus := Role("SUPERUSER")
	if bogus.Valid() {
		t.Error("unknown role reported valid")
	}
	if bogus.MaxUploadBytes() != 0 {
		t.Errorf("MaxUploadBytes() = %d, want 0", bogus.MaxUploadBytes())
	}
	if bogus.AllowsContentType(MIMEPDF) {
		t.Error("unknown role may not upload anything")
	}
	if bogus.AllowsVisibility(VisibilityPrivate) {
		t.Error("unknown role may not assign any visibility")
	}
}

func TestSameDepartment(t *testing.T) {
	d1, d2 := int64(1), int64(2)

	tests := []struct {
		name string
		a, b *User
		want bool
	}{
		{name: "same department", a: &User{DepartmentID: &d1}, b: &User{DepartmentID: &d1}, want: true},
		{name: "different departments", a: &User{DepartmentID: &d1}, b: &User{DepartmentID: &d2}, want: false},
		{name: "one side unset", a: &User{DepartmentID: &d1}, b: &User{}, want: false},
		{name: "both unset", a: &User{}, b: &User{}, want: false},
		{name: "nil other", a: &User{DepartmentID: &d1}, b: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.SameDepartment(tt.b); got != tt.want {
				t.Errorf("SameDepartment() = %v, want %v", got, tt.want)
			}
		})
	}
}
