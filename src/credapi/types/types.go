package types

import "time"

// CredentialCheck is the persisted summary of one evaluation run. Only
// counts and the pass flag are stored; the account identifier is kept as
// an xxhash64 hex digest, never verbatim.
type CredentialCheck struct {
	ID                  uint64 `gorm:"primaryKey"`
	AccountHash         string `gorm:"size:16;index;not null"`
	AccountAgeDays      int    `gorm:"not null"`
	ServerCount         int    `gorm:"not null"`
	ServersWithRoles    int    `gorm:"not null"`
	VerifiedConnections int    `gorm:"not null"`
	OverallPassed       bool   `gorm:"index;not null"`
	CreatedAt           time.Time
}
