package services

import (
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"moneylovers/internal/models"
	"moneylovers/internal/testutil"
)

var partnershipNow = time.Date(2024, 5, 25, 9, 30, 0, 0, time.UTC)

func newTestPartnershipService(db *gorm.DB) *partnershipService {
	return &partnershipService{db: db, now: func() time.Time { return partnershipNow }}
}

func TestGenerateInvitationCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := generateInvitationCode()
		testutil.AssertNoError(t, err)
		if len(code) != invitationCodeLength {
			t.Fatalf("expected %d characters, got %q", invitationCodeLength, code)
		}
		if strings.ContainsAny(code, "OI0") {
			t.Errorf("code %q contains an ambiguous character", code)
		}
		if code != strings.ToUpper(code) {
			t.Errorf("code %q must be upper case", code)
		}
		seen[code] = true
	}
	if len(seen) < 45 {
		t.Errorf("expected mostly distinct codes, got %d of 50", len(seen))
	}
}

func TestGetStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := newTestPartnershipService(db)
	alice := testutil.CreateTestUser(t, db)
	bob := testutil.CreateTestUser(t, db)
	loner := testutil.CreateTestUser(t, db)
	p := testutil.CreateTestPartnership(t, db, alice.ID, bob.ID)

	t.Run("no_partner", func(t *testing.T) {
		status, err := svc.GetStatus(loner.ID)
		testutil.AssertNoError(t, err)
		if status.HasPartner || status.Partnership != nil {
			t.Errorf("expected no partner, got %+v", status)
		}
	})

	t.Run("seen_from_both_sides", func(t *testing.T) {
		for _, tc := range []struct {
			user, partner *models.User
		}{{alice, bob}, {bob, alice}} {
			status, err := svc.GetStatus(tc.user.ID)
			testutil.AssertNoError(t, err)
			if !status.HasPartner || status.Partnership == nil {
				t.Fatalf("expected a partner for %s", tc.user.Email)
			}
			if status.Partnership.ID != p.ID {
				t.Errorf("expected partnership %s, got %s", p.ID, status.Partnership.ID)
			}
			if status.Partnership.Partner.ID != tc.partner.ID || status.Partnership.Partner.Email != tc.partner.Email {
				t.Errorf("expected partner %s, got %+v", tc.partner.Email, status.Partnership.Partner)
			}
		}
	})
}

func TestCreateInvitation(t *testing.T) {
	t.Run("replaces_earlier_code", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestPartnershipService(db)
		user := testutil.CreateTestUser(t, db)

		first, err := svc.CreateInvitation(user.ID)
		testutil.AssertNoError(t, err)
		if !first.ExpiresAt.Equal(partnershipNow.Add(48 * time.Hour)) {
			t.Errorf("expected expiry 48h from now, got %s", first.ExpiresAt)
		}

		second, err := svc.CreateInvitation(user.ID)
		testutil.AssertNoError(t, err)

		var codes []models.PartnershipInvitation
		db.Unscoped().Where("inviter_id = ?", user.ID).Find(&codes)
		if len(codes) != 1 || codes[0].InvitationCode != second.InvitationCode {
			t.Errorf("expected only the latest code to remain, got %+v", codes)
		}
	})

	t.Run("purges_expired_codes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestPartnershipService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		testutil.CreateTestInvitation(t, db, other.ID, "OLDCDE", partnershipNow.Add(-time.Hour))

		_, err := svc.CreateInvitation(user.ID)
		testutil.AssertNoError(t, err)

		var n int64
		db.Unscoped().Model(&models.PartnershipInvitation{}).Where("inviter_id = ?", other.ID).Count(&n)
		if n != 0 {
			t.Errorf("expected expired invitation to be purged, got %d", n)
		}
	})

	t.Run("already_partnered", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestPartnershipService(db)
		user := testutil.CreateTestUser(t, db)
		partner := testutil.CreateTestUser(t, db)
		testutil.CreateTestPartnership(t, db, user.ID, partner.ID)

		_, err := svc.CreateInvitation(partner.ID)
		testutil.AssertAppError(t, err, "PARTNERSHIP_EXISTS")
	})
}

func TestJoinPartnership(t *testing.T) {
	t.Run("activates_partnership", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestPartnershipService(db)
		inviter := testutil.CreateTestUser(t, db)
		joiner := testutil.CreateTestUser(t, db)
		testutil.CreateTestInvitation(t, db, inviter.ID, "K7P2QX", partnershipNow.Add(time.Hour))
		testutil.CreateTestInvitation(t, db, joiner.ID, "ZZ9ZZ9", partnershipNow.Add(time.Hour))

		anniversary := time.Date(2021, 2, 14, 18, 0, 0, 0, time.UTC)
		view, err := svc.JoinPartnership(joiner.ID, " k7p2qx ", &anniversary, "")
		testutil.AssertNoError(t, err)

		if view.User1ID != inviter.ID || view.User2ID != joiner.ID {
			t.Errorf("expected inviter as user1 and joiner as user2, got %s/%s", view.User1ID, view.User2ID)
		}
		if view.Status != models.PartnershipStatusActive || view.ActivatedAt == nil {
			t.Errorf("expected an active partnership, got %+v", view.Partnership)
		}
		if view.RelationshipType != models.DefaultRelationshipType {
			t.Errorf("expected default relationship type, got %q", view.RelationshipType)
		}
		if view.LoveAnniversary == nil {
			t.Fatal("expected love anniversary")
		}
		testutil.AssertDate(t, *view.LoveAnniversary, testutil.Date(2021, 2, 14))
		if view.Partner.ID != inviter.ID {
			t.Errorf("expected partner %s, got %s", inviter.ID, view.Partner.ID)
		}

		var n int64
		db.Unscoped().Model(&models.PartnershipInvitation{}).Count(&n)
		if n != 0 {
			t.Errorf("expected both users' invitations to be removed, got %d", n)
		}
	})

	t.Run("expired_code", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestPartnershipService(db)
		inviter := testutil.CreateTestUser(t, db)
		joiner := testutil.CreateTestUser(t, db)
		testutil.CreateTestInvitation(t, db, inviter.ID, "K7P2QX", partnershipNow)

		_, err := svc.JoinPartnership(joiner.ID, "K7P2QX", nil, "")
		testutil.AssertAppError(t, err, "INVALID_INVITATION")
	})

	t.Run("unknown_code", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestPartnershipService(db)
		joiner := testutil.CreateTestUser(t, db)

		_, err := svc.JoinPartnership(joiner.ID, "NOPE12", nil, "")
		testutil.AssertAppError(t, err, "INVALID_INVITATION")
	})

	t.Run("empty_code", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestPartnershipService(db)
		joiner := testutil.CreateTestUser(t, db)

		_, err := svc.JoinPartnership(joiner.ID, "  ", nil, "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("own_code", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestPartnershipService(db)
		inviter := testutil.CreateTestUser(t, db)
		testutil.CreateTestInvitation(t, db, inviter.ID, "K7P2QX", partnershipNow.Add(time.Hour))

		_, err := svc.JoinPartnership(inviter.ID, "K7P2QX", nil, "")
		testutil.AssertAppError(t, err, "OWN_INVITATION")
	})

	t.Run("joiner_already_partnered", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestPartnershipService(db)
		inviter := testutil.CreateTestUser(t, db)
		joiner := testutil.CreateTestUser(t, db)
		current := testutil.CreateTestUser(t, db)
		testutil.CreateTestPartnership(t, db, current.ID, joiner.ID)
		testutil.CreateTestInvitation(t, db, inviter.ID, "K7P2QX", partnershipNow.Add(time.Hour))

		_, err := svc.JoinPartnership(joiner.ID, "K7P2QX", nil, "")
		testutil.AssertAppError(t, err, "PARTNERSHIP_EXISTS")
	})

	t.Run("inviter_partnered_meanwhile", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestPartnershipService(db)
		inviter := testutil.CreateTestUser(t, db)
		joiner := testutil.CreateTestUser(t, db)
		current := testutil.CreateTestUser(t, db)
		testutil.CreateTestInvitation(t, db, inviter.ID, "K7P2QX", partnershipNow.Add(time.Hour))
		testutil.CreateTestPartnership(t, db, inviter.ID, current.ID)

		_, err := svc.JoinPartnership(joiner.ID, "K7P2QX", nil, "")
		testutil.AssertAppError(t, err, "PARTNERSHIP_EXISTS")

		var n int64
		db.Model(&models.Partnership{}).Count(&n)
		if n != 1 {
			t.Errorf("expected no new partnership, got %d rows", n)
		}
	})
}

func TestUpdatePartnership(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := newTestPartnershipService(db)
	alice := testutil.CreateTestUser(t, db)
	bob := testutil.CreateTestUser(t, db)
	loner := testutil.CreateTestUser(t, db)
	p := testutil.CreateTestPartnership(t, db, alice.ID, bob.ID)

	t.Run("either_partner_edits", func(t *testing.T) {
		married := "married"
		anniversary := testutil.Date(2020, 6, 1)
		view, err := svc.UpdatePartnership(bob.ID, &anniversary, &married)
		testutil.AssertNoError(t, err)

		if view.RelationshipType != "married" || view.LoveAnniversary == nil {
			t.Errorf("unexpected partnership after update: %+v", view.Partnership)
		}
		var stored models.Partnership
		testutil.AssertNoError(t, db.First(&stored, "id = ?", p.ID).Error)
		if stored.RelationshipType != "married" || stored.User1ID != alice.ID || stored.User2ID != bob.ID {
			t.Errorf("unexpected stored partnership: %+v", stored)
		}
	})

	t.Run("empty_relationship_type", func(t *testing.T) {
		empty := ""
		_, err := svc.UpdatePartnership(alice.ID, nil, &empty)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("no_partnership", func(t *testing.T) {
		_, err := svc.UpdatePartnership(loner.ID, nil, nil)
		testutil.AssertAppError(t, err, "PARTNERSHIP_NOT_FOUND")
	})
}

func TestDissolvePartnership(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := newTestPartnershipService(db)
	alice := testutil.CreateTestUser(t, db)
	bob := testutil.CreateTestUser(t, db)
	p := testutil.CreateTestPartnership(t, db, alice.ID, bob.ID)

	dissolved, err := svc.DissolvePartnership(bob.ID)
	testutil.AssertNoError(t, err)
	if dissolved.ID != p.ID || dissolved.Status != models.PartnershipStatusInactive {
		t.Errorf("unexpected dissolved partnership: %+v", dissolved)
	}

	// The row is kept as history
	var stored models.Partnership
	testutil.AssertNoError(t, db.First(&stored, "id = ?", p.ID).Error)
	if stored.Status != models.PartnershipStatusInactive || stored.DissolvedAt == nil {
		t.Errorf("expected an inactive stored partnership, got %+v", stored)
	}

	status, err := svc.GetStatus(alice.ID)
	testutil.AssertNoError(t, err)
	if status.HasPartner {
		t.Error("expected no partner after dissolving")
	}

	_, err = svc.DissolvePartnership(alice.ID)
	testutil.AssertAppError(t, err, "PARTNERSHIP_NOT_FOUND")

	// Both users can pair again
	_, err = svc.CreateInvitation(alice.ID)
	testutil.AssertNoError(t, err)
}
