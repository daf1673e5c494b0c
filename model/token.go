// file: model/token.go

package model

import "time"

// RefreshToken is the persisted record a refresh JWT points at through its jti.
// A non-nil DeletedAt marks the record revoked.
type RefreshToken struct {
	ID        int        `json:"id"`
	UserID    int        `json:"user_id"`
	ExpiresAt time.Time  `json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// IsExpired reports whether the record's lifetime has ended at now.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

func (t *RefreshToken) IsRevoked() bool {
	return t.DeletedAt != nil
}
