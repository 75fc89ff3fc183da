package services

import (
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "moneylovers/internal/errors"
	"moneylovers/internal/logger"
	"moneylovers/internal/models"
	"moneylovers/internal/recurrence"
)

const (
	invitationCodeLength = 6
	invitationTTL        = 48 * time.Hour
	maxCodeAttempts      = 5
)

// invitationAlphabet leaves out O, I and 0, which are easy to misread.
const invitationAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ123456789"

// partnershipService handles partner invitations and the partnership itself.
type partnershipService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewPartnershipService creates a new PartnershipServicer.
func NewPartnershipService(db *gorm.DB) PartnershipServicer {
	return &partnershipService{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func generateInvitationCode() (string, error) {
	size := big.NewInt(int64(len(invitationAlphabet)))
	code := make([]byte, invitationCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", err
		}
		code[i] = invitationAlphabet[n.Int64()]
	}
	return string(code), nil
}

// ActivePartnership returns the active partnership userID belongs to.
func (s *partnershipService) ActivePartnership(db *gorm.DB, userID string) (*models.Partnership, error) {
	var p models.Partnership
	err := db.Where("(user1_id = ? OR user2_id = ?) AND status = ?", userID, userID, models.PartnershipStatusActive).
		Order("activated_at DESC").
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPartnershipNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &p, nil
}

func (s *partnershipService) newView(db *gorm.DB, p *models.Partnership, userID string) (*PartnershipView, error) {
	var partner models.User
	if err := db.Where("id = ?", p.PartnerOf(userID)).First(&partner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WithMessage(apperrors.ErrPartnershipNotFound, "Partner account not found")
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &PartnershipView{
		Partnership: *p,
		Partner: PartnerSummary{
			ID:          partner.ID,
			DisplayName: partner.DisplayName,
			Email:       partner.Email,
		},
	}, nil
}

// GetStatus reports whether the user has a partner. Having none is not an
// error.
func (s *partnershipService) GetStatus(userID string) (*PartnerStatus, error) {
	p, err := s.ActivePartnership(s.db, userID)
	if errors.Is(err, apperrors.ErrPartnershipNotFound) {
		return &PartnerStatus{}, nil
	}
	if err != nil {
		return nil, err
	}

	view, err := s.newView(s.db, p, userID)
	if errors.Is(err, apperrors.ErrPartnershipNotFound) {
		return &PartnerStatus{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &PartnerStatus{HasPartner: true, Partnership: view}, nil
}

// CreateInvitation replaces any earlier invitation of the user with a new
// code that stays valid for 48 hours.
func (s *partnershipService) CreateInvitation(userID string) (*models.PartnershipInvitation, error) {
	if _, err := s.ActivePartnership(s.db, userID); err == nil {
		return nil, apperrors.ErrPartnershipExists
	} else if !errors.Is(err, apperrors.ErrPartnershipNotFound) {
		return nil, err
	}

	now := s.now()
	invitation := &models.PartnershipInvitation{
		InviterID: userID,
		ExpiresAt: now.Add(invitationTTL),
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("inviter_id = ? OR expires_at <= ?", userID, now).
			Delete(&models.PartnershipInvitation{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		for attempt := 0; attempt < maxCodeAttempts; attempt++ {
			code, err := generateInvitationCode()
			if err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			var taken int64
			if err := tx.Unscoped().Model(&models.PartnershipInvitation{}).
				Where("invitation_code = ?", code).Count(&taken).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			if taken == 0 {
				invitation.InvitationCode = code
				break
			}
		}
		if invitation.InvitationCode == "" {
			return apperrors.WithMessage(apperrors.ErrInternalServer, "could not allocate an invitation code")
		}

		if err := tx.Create(invitation).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("partnership invitation created", "user_id", userID, "expires_at", invitation.ExpiresAt)
	return invitation, nil
}

// JoinPartnership redeems an invitation code and activates a partnership
// between its creator and userID. Both users' open invitations are dropped.
func (s *partnershipService) JoinPartnership(userID, code string, loveAnniversary *time.Time, relationshipType string) (*PartnershipView, error) {
	code = models.NormalizeInvitationCode(code)
	if code == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invitation_code is required")
	}
	if relationshipType == "" {
		relationshipType = models.DefaultRelationshipType
	}
	if loveAnniversary != nil {
		d := recurrence.Day(*loveAnniversary)
		loveAnniversary = &d
	}

	var view *PartnershipView
	err := s.db.Transaction(func(tx *gorm.DB) error {
		now := s.now()

		var invitation models.PartnershipInvitation
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("invitation_code = ?", code).
			First(&invitation).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrInvalidInvitation
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if invitation.Expired(now) {
			return apperrors.ErrInvalidInvitation
		}
		if invitation.InviterID == userID {
			return apperrors.ErrOwnInvitation
		}

		for _, id := range []string{userID, invitation.InviterID} {
			if _, err := s.ActivePartnership(tx, id); err == nil {
				if id == userID {
					return apperrors.ErrPartnershipExists
				}
				return apperrors.WithMessage(apperrors.ErrPartnershipExists, "The inviting user already has a partner")
			} else if !errors.Is(err, apperrors.ErrPartnershipNotFound) {
				return err
			}
		}

		p := &models.Partnership{
			User1ID:          invitation.InviterID,
			User2ID:          userID,
			Status:           models.PartnershipStatusActive,
			RelationshipType: relationshipType,
			LoveAnniversary:  loveAnniversary,
			ActivatedAt:      &now,
		}
		if err := tx.Create(p).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Unscoped().Where("inviter_id IN ?", []string{userID, invitation.InviterID}).
			Delete(&models.PartnershipInvitation{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		view, err = s.newView(tx, p, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("partnership activated",
		"partnership_id", view.ID,
		"user1_id", view.User1ID,
		"user2_id", view.User2ID,
	)
	return view, nil
}

// UpdatePartnership edits the descriptive fields of the active partnership.
// Nil fields are left unchanged.
func (s *partnershipService) UpdatePartnership(userID string, loveAnniversary *time.Time, relationshipType *string) (*PartnershipView, error) {
	p, err := s.ActivePartnership(s.db, userID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if loveAnniversary != nil {
		updates["love_anniversary"] = recurrence.Day(*loveAnniversary)
	}
	if relationshipType != nil {
		if *relationshipType == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "relationship_type must not be empty")
		}
		updates["relationship_type"] = *relationshipType
	}
	if len(updates) > 0 {
		if err := s.db.Model(&models.Partnership{}).Where("id = ?", p.ID).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.db.First(p, "id = ?", p.ID).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return s.newView(s.db, p, userID)
}

// DissolvePartnership marks the active partnership inactive. The row and the
// shared transactions linked to it are kept.
func (s *partnershipService) DissolvePartnership(userID string) (*models.Partnership, error) {
	p, err := s.ActivePartnership(s.db, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	res := s.db.Model(&models.Partnership{}).
		Where("id = ? AND status = ?", p.ID, models.PartnershipStatusActive).
		Updates(map[string]interface{}{
			"status":       models.PartnershipStatusInactive,
			"dissolved_at": now,
		})
	if res.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.ErrPartnershipNotFound
	}
	p.Status = models.PartnershipStatusInactive
	p.DissolvedAt = &now

	logger.Get().Infow("partnership dissolved", "partnership_id", p.ID, "user_id", userID)
	return p, nil
}

// requireSharedPartnership returns the partnership a shared transaction of
// userID belongs to, looked up through db.
func requireSharedPartnership(ps PartnershipServicer, db *gorm.DB, userID string) (*models.Partnership, error) {
	if ps == nil {
		return nil, apperrors.ErrPartnershipRequired
	}
	p, err := ps.ActivePartnership(db, userID)
	if errors.Is(err, apperrors.ErrPartnershipNotFound) {
		return nil, apperrors.ErrPartnershipRequired
	}
	return p, err
}
