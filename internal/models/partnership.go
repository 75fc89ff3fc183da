package models

import (
	"strings"
	"time"
)

// PartnershipStatus represents the lifecycle state of a partnership
type PartnershipStatus string

const (
	PartnershipStatusActive   PartnershipStatus = "active"
	PartnershipStatusInactive PartnershipStatus = "inactive"
)

// DefaultRelationshipType is stored when a partner joins without naming one.
const DefaultRelationshipType = "dating"

// Partnership links two users whose shared transactions belong together.
// User1 created the invitation and User2 accepted it. Dissolving a
// partnership keeps the row as history.
type Partnership struct {
	Base
	User1ID          string            `gorm:"type:uuid;not null;index" json:"user1_id"`
	User2ID          string            `gorm:"type:uuid;not null;index" json:"user2_id"`
	Status           PartnershipStatus `gorm:"size:10;not null;default:active" json:"status"`
	RelationshipType string            `gorm:"size:20;not null;default:dating" json:"relationship_type"`
	LoveAnniversary  *time.Time        `gorm:"type:date" json:"love_anniversary,omitempty"`
	ActivatedAt      *time.Time        `json:"activated_at,omitempty"`
	DissolvedAt      *time.Time        `json:"dissolved_at,omitempty"`

	// Relationships
	User1 *User `gorm:"foreignKey:User1ID" json:"-"`
	User2 *User `gorm:"foreignKey:User2ID" json:"-"`
}

// Includes reports whether userID is one of the two partners.
func (p *Partnership) Includes(userID string) bool {
	return p.User1ID == userID || p.User2ID == userID
}

// PartnerOf returns the other member of the partnership, or "" when userID
// is not a member.
func (p *Partnership) PartnerOf(userID string) string {
	switch userID {
	case p.User1ID:
		return p.User2ID
	case p.User2ID:
		return p.User1ID
	default:
		return ""
	}
}

// IsActive reports whether shared transactions can be recorded against p.
func (p *Partnership) IsActive() bool {
	return p.Status == PartnershipStatusActive
}

// PartnershipInvitation is a short-lived code a user hands to their partner.
// Codes are stored upper case and matched case-insensitively.
type PartnershipInvitation struct {
	Base
	InviterID      string    `gorm:"type:uuid;not null;index" json:"inviter_id"`
	InvitationCode string    `gorm:"size:6;not null;uniqueIndex" json:"invitation_code"`
	ExpiresAt      time.Time `gorm:"not null" json:"expires_at"`
}

// Expired reports whether the invitation can no longer be redeemed at now.
func (i *PartnershipInvitation) Expired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}

// NormalizeInvitationCode trims and upper-cases a user-typed code.
func NormalizeInvitationCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
