package integration

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"moneylovers/internal/models"
)

func TestPartnershipFlow_PairShareDissolve(t *testing.T) {
	app := setupApp(t)
	aliceToken, aliceID := app.createUser(t, "alice@test.com")
	bobToken, bobID := app.createUser(t, "bob@test.com")
	categoryID := app.createCategory(t, aliceToken, "Dining", "expense")

	// Step 1: Nobody is paired yet and shared spending is refused
	rec := app.request("GET", "/api/v1/partnerships/status", "", aliceToken)
	if rec.Code != http.StatusOK || parseJSON(t, rec)["has_partner"] != false {
		t.Fatalf("expected no partner, got %d: %s", rec.Code, rec.Body.String())
	}
	sharedDinner := fmt.Sprintf(`{
		"category_id":%q,
		"transaction_type":"expense",
		"sharing_type":"shared",
		"amount":"64.00",
		"description":"Dinner",
		"transaction_date":"2024-05-24"
	}`, categoryID)
	rec = app.request("POST", "/api/v1/transactions", sharedDinner, aliceToken)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "PARTNERSHIP_REQUIRED") {
		t.Fatalf("expected 400 PARTNERSHIP_REQUIRED, got %d: %s", rec.Code, rec.Body.String())
	}

	// Step 2: Alice invites, Bob joins with a lower-case code
	rec = app.request("POST", "/api/v1/partnerships/invite", "", aliceToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating invitation, got %d: %s", rec.Code, rec.Body.String())
	}
	invite := parseJSON(t, rec)
	code := invite["invitation_code"].(string)
	if len(code) != 6 {
		t.Errorf("expected a 6 character code, got %q", code)
	}
	expires, err := time.Parse(time.RFC3339, invite["expires_at"].(string))
	if err != nil || expires.Before(time.Now().Add(47*time.Hour)) {
		t.Errorf("expected the code to stay valid for 48 hours, got %v", invite["expires_at"])
	}

	rec = app.request("POST", "/api/v1/partnerships/join", fmt.Sprintf(`{"invitation_code":"%s"}`, code), aliceToken)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 joining own invitation, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = app.request("POST", "/api/v1/partnerships/join",
		fmt.Sprintf(`{"invitation_code":%q,"love_anniversary":"2021-02-14"}`, strings.ToLower(code)), bobToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 joining, got %d: %s", rec.Code, rec.Body.String())
	}
	partnership := parseJSON(t, rec)["partnership"].(map[string]interface{})
	partnershipID := partnership["id"].(string)
	if partnership["user1_id"] != aliceID || partnership["user2_id"] != bobID {
		t.Errorf("expected alice as inviter and bob as joiner, got %v", partnership)
	}

	// The code is single use
	carolToken, _ := app.createUser(t, "carol@test.com")
	rec = app.request("POST", "/api/v1/partnerships/join", fmt.Sprintf(`{"invitation_code":%q}`, code), carolToken)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 reusing a code, got %d: %s", rec.Code, rec.Body.String())
	}

	// Step 3: Both sides see each other
	rec = app.request("GET", "/api/v1/partnerships/status", "", aliceToken)
	status := parseJSON(t, rec)
	if status["has_partner"] != true {
		t.Fatalf("expected alice to have a partner, got %v", status)
	}
	partner := status["partnership"].(map[string]interface{})["partner"].(map[string]interface{})
	if partner["email"] != "bob@test.com" {
		t.Errorf("expected bob as alice's partner, got %v", partner)
	}

	// Step 4: Shared spending now links the partnership
	rec = app.request("POST", "/api/v1/transactions", sharedDinner, aliceToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating shared transaction, got %d: %s", rec.Code, rec.Body.String())
	}
	txn := parseJSON(t, rec)["transaction"].(map[string]interface{})
	if txn["partnership_id"] != partnershipID {
		t.Errorf("expected partnership %s, got %v", partnershipID, txn["partnership_id"])
	}

	// Step 5: A shared recurring transaction follows the same rule
	rec = app.request("POST", "/api/v1/recurring-transactions", fmt.Sprintf(`{
		"category_id":%q,
		"transaction_type":"expense",
		"sharing_type":"shared",
		"amount":"40.00",
		"frequency":"weekly",
		"next_execution_date":"2024-05-25"
	}`, categoryID), aliceToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating shared rule, got %d: %s", rec.Code, rec.Body.String())
	}
	ruleID := parseJSON(t, rec)["recurring_transaction"].(map[string]interface{})["id"].(string)

	// Step 6: Bob ends the partnership; history is kept
	rec = app.request("DELETE", "/api/v1/partnerships", "", bobToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 dissolving, got %d: %s", rec.Code, rec.Body.String())
	}
	var stored models.Partnership
	if err := app.DB.First(&stored, "id = ?", partnershipID).Error; err != nil {
		t.Fatalf("failed to load partnership: %v", err)
	}
	if stored.Status != models.PartnershipStatusInactive {
		t.Errorf("expected inactive partnership, got %s", stored.Status)
	}

	// Step 7: Shared spending is refused again, and the due shared rule is
	// skipped by the scheduler without being deactivated
	rec = app.request("POST", "/api/v1/transactions", sharedDinner, aliceToken)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 after dissolving, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = app.cron("POST", "/api/v1/internal/recurring/run")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 running scheduler, got %d: %s", rec.Code, rec.Body.String())
	}
	run := parseJSON(t, rec)
	if run["executed"].(float64) != 0 || run["skipped"].(float64) != 1 {
		t.Errorf("expected the shared rule to be skipped, got %v", run)
	}
	rec = app.request("GET", "/api/v1/recurring-transactions/"+ruleID, "", aliceToken)
	if parseJSON(t, rec)["recurring_transaction"].(map[string]interface{})["is_active"] != true {
		t.Errorf("expected the shared rule to stay active, got %s", rec.Body.String())
	}

	// Step 8: Switching the rule to personal lets it run
	rec = app.request("PUT", "/api/v1/recurring-transactions/"+ruleID, `{"sharing_type":"personal"}`, aliceToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 switching to personal, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = app.cron("POST", "/api/v1/internal/recurring/run")
	if parseJSON(t, rec)["executed"].(float64) != 1 {
		t.Errorf("expected the personal rule to run, got %s", rec.Body.String())
	}

	// The partnership trail records the join and the dissolution
	rec = app.request("GET", "/api/v1/audit-logs?resource_type=partnership&resource_id="+partnershipID, "", bobToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 listing audit logs, got %d: %s", rec.Code, rec.Body.String())
	}
	if parseJSON(t, rec)["total_items"] != float64(2) {
		t.Errorf("expected join and dissolve entries for bob, got %s", rec.Body.String())
	}
}
