package models

// BytesInMiB converts the per-role MiB limits to bytes.
const BytesInMiB = 1 << 20

// roleCapabilities is the fixed role capability table:
//
//	USER     10 MiB   PDF                 PRIVATE
//	MANAGER  50 MiB   PDF, DOC, DOCX      PRIVATE, DEPARTMENT, PUBLIC
//	ADMIN    100 MiB  PDF, DOC, DOCX      PRIVATE, DEPARTMENT, PUBLIC
//
// It is deliberately not runtime-configurable.
var roleCapabilities = map[Role]struct {
	maxUploadBytes int64
	contentTypes   map[string]bool
	visibilities   map[Visibility]bool
}{
	RoleUser: {
		maxUploadBytes: 10 * BytesInMiB,
		contentTypes:   map[string]bool{MIMEPDF: true},
		visibilities:   map[Visibility]bool{VisibilityPrivate: true},
	},
	RoleManager: {
		maxUploadBytes: 50 * BytesInMiB,
		contentTypes:   map[string]bool{MIMEPDF: true, MIMEDOC: true, MIMEDOCX: true},
		visibilities: map[Visibility]bool{
			VisibilityPrivate:    true,
			VisibilityDepartment: true,
			VisibilityPublic:     true,
		},
	},
	RoleAdmin: {
		maxUploadBytes: 100 * BytesInMiB,
		contentTypes:   map[string]bool{MIMEPDF: true, MIMEDOC: true, MIMEDOCX: true},
		visibilities: map[Visibility]bool{
			VisibilityPrivate:    true,
			VisibilityDepartment: true,
			VisibilityPublic:     true,
		},
	},
}

// MaxUploadBytes returns the inclusive upload size limit for the role.
// Unknown roles get no allowance.
func (r Role) MaxUploadBytes() int64 {
	return roleCapabilities[r].maxUploadBytes
}

// AllowsContentType reports whether the role may upload the given MIME type.
func (r Role) AllowsContentType(contentType string) bool {
	return roleCapabilities[r].contentTypes[contentType]
}

// AllowsVisibility reports whether the role may assign the given visibility
// on upload.
func (r Role) AllowsVisibility(v Visibility) bool {
	return roleCapabilities[r].visibilities[v]
}
