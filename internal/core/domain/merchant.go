package domain

import "time"

// ApiKey is an opaque credential used by the external authentication
// collaborator. The core only ever sees the derived merchant-id string;
// this type exists so the hash/permission shape is documented in one
// place.
type ApiKey struct {
	ID          string
	MerchantID  string
	HashedKey   string // "sha256:<hex>"
	Permissions []string
	Active      bool
	CreatedAt   time.Time
	LastUsedAt  *time.Time
}

// HasPermission reports whether the key grants the given permission.
func (k *ApiKey) HasPermission(perm string) bool {
	for _, p := range k.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}
