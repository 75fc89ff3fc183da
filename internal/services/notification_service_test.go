package services

import (
	"testing"
	"time"

	"gorm.io/datatypes"

	"moneylovers/internal/models"
	"moneylovers/internal/pagination"
	"moneylovers/internal/testutil"
)

func TestNotify(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewNotificationService(db)
	user := testutil.CreateTestUser(t, db)

	n := &models.Notification{
		UserID:  user.ID,
		Type:    models.NotificationTypeRecurringExecuted,
		Title:   "Recorded",
		Message: "done",
		Data:    datatypes.JSON(`{"rule_id":"abc"}`),
	}
	testutil.AssertNoError(t, svc.Notify(db, n))

	if n.ID == "" {
		t.Fatal("expected notification ID")
	}
	if n.Priority != models.NotificationPriorityNormal {
		t.Errorf("expected default priority normal, got %s", n.Priority)
	}
}

func TestGetUserNotifications(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewNotificationService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	testutil.CreateTestNotification(t, db, user.ID, models.NotificationTypeRecurringExecuted)
	testutil.CreateTestNotification(t, db, user.ID, models.NotificationTypeBudgetExceeded)
	testutil.CreateTestNotification(t, db, other.ID, models.NotificationTypeBudgetExceeded)

	linked := &models.Notification{
		UserID:   user.ID,
		Type:     models.NotificationTypeRecurringCompleted,
		Title:    "Completed",
		Message:  "done",
		Priority: models.NotificationPriorityHigh,
		Data:     datatypes.JSON(`{"rule_id":"rule-42"}`),
	}
	testutil.AssertNoError(t, svc.Notify(db, linked))

	past := time.Now().UTC().Add(-time.Hour)
	expired := &models.Notification{
		UserID:    user.ID,
		Type:      models.NotificationTypeBudgetWarning,
		Title:     "Old",
		Message:   "gone",
		ExpiresAt: &past,
	}
	testutil.AssertNoError(t, svc.Notify(db, expired))

	t.Run("hides_expired", func(t *testing.T) {
		result, err := svc.GetUserNotifications(user.ID, pagination.PageRequest{}, NotificationFilter{})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 3 {
			t.Errorf("expected 3 notifications, got %d", result.TotalItems)
		}
	})

	t.Run("type_filter", func(t *testing.T) {
		nType := models.NotificationTypeBudgetExceeded
		result, err := svc.GetUserNotifications(user.ID, pagination.PageRequest{}, NotificationFilter{Type: &nType})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 1 {
			t.Errorf("expected 1 notification, got %d", result.TotalItems)
		}
	})

	t.Run("priority_filter", func(t *testing.T) {
		priority := models.NotificationPriorityHigh
		result, err := svc.GetUserNotifications(user.ID, pagination.PageRequest{}, NotificationFilter{Priority: &priority})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 1 || result.Data[0].ID != linked.ID {
			t.Errorf("expected only the high priority notification, got %d", result.TotalItems)
		}
	})

	t.Run("rule_filter", func(t *testing.T) {
		ruleID := "rule-42"
		result, err := svc.GetUserNotifications(user.ID, pagination.PageRequest{}, NotificationFilter{RuleID: &ruleID})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 1 || result.Data[0].ID != linked.ID {
			t.Errorf("expected only the notification for rule-42, got %d", result.TotalItems)
		}
	})
}

func TestGetNotificationCounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewNotificationService(db)
	user := testutil.CreateTestUser(t, db)

	testutil.CreateTestNotification(t, db, user.ID, models.NotificationTypeRecurringExecuted)
	testutil.CreateTestNotification(t, db, user.ID, models.NotificationTypeRecurringExecuted)
	read := testutil.CreateTestNotification(t, db, user.ID, models.NotificationTypeBudgetExceeded)
	_, err := svc.MarkAsRead(user.ID, read.ID)
	testutil.AssertNoError(t, err)

	counts, err := svc.GetNotificationCounts(user.ID)
	testutil.AssertNoError(t, err)

	if counts.Total != 2 {
		t.Errorf("expected 2 unread, got %d", counts.Total)
	}
	if counts.ByType[models.NotificationTypeRecurringExecuted] != 2 {
		t.Errorf("expected 2 unread executions, got %d", counts.ByType[models.NotificationTypeRecurringExecuted])
	}
	if c, ok := counts.ByType[models.NotificationTypeBudgetExceeded]; !ok || c != 0 {
		t.Errorf("expected a zero entry for budget_exceeded, got %d (present=%v)", c, ok)
	}
}

func TestMarkAsRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewNotificationService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	n := testutil.CreateTestNotification(t, db, user.ID, models.NotificationTypeRecurringExecuted)

	t.Run("other_user", func(t *testing.T) {
		_, err := svc.MarkAsRead(other.ID, n.ID)
		testutil.AssertAppError(t, err, "NOTIFICATION_NOT_FOUND")
	})

	t.Run("owner", func(t *testing.T) {
		got, err := svc.MarkAsRead(user.ID, n.ID)
		testutil.AssertNoError(t, err)

		if !got.IsRead || got.ReadAt == nil {
			t.Errorf("expected notification to be read: %+v", got)
		}
	})
}

func TestMarkAllAsRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewNotificationService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	testutil.CreateTestNotification(t, db, user.ID, models.NotificationTypeRecurringExecuted)
	testutil.CreateTestNotification(t, db, user.ID, models.NotificationTypeRecurringCompleted)
	testutil.CreateTestNotification(t, db, other.ID, models.NotificationTypeRecurringExecuted)

	updated, err := svc.MarkAllAsRead(user.ID)
	testutil.AssertNoError(t, err)
	if updated != 2 {
		t.Errorf("expected 2 updated, got %d", updated)
	}

	counts, err := svc.GetNotificationCounts(other.ID)
	testutil.AssertNoError(t, err)
	if counts.Total != 1 {
		t.Errorf("other user's notifications must stay unread, got %d", counts.Total)
	}
}

func TestDeleteNotification(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewNotificationService(db)
	user := testutil.CreateTestUser(t, db)
	n := testutil.CreateTestNotification(t, db, user.ID, models.NotificationTypeBudgetWarning)

	testutil.AssertNoError(t, svc.DeleteNotification(user.ID, n.ID))

	_, err := svc.GetNotificationByID(user.ID, n.ID)
	testutil.AssertAppError(t, err, "NOTIFICATION_NOT_FOUND")
}
