package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SokThavireak/sushi-store/models"

	"gorm.io/gorm"
)

func dailyStockURL(id uint, suffix string) string {
	if suffix == "" {
		return fmt.Sprintf("/api/manager/daily-stock/%d", id)
	}
	return fmt.Sprintf("/api/manager/daily-stock/%d/%s", id, suffix)
}

func TestSubmitDailyCount(t *testing.T) {
	db := freshDB()
	router := setupDailyStockRouter(db, time.Now)

	east := seedLocation(db, "Daily East")
	_, smToken := seedTestUser(db, "dailysm@test.com", models.RoleStoreManager, &east.ID)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/manager/daily-stock", map[string]interface{}{
		"report_date": "2026-09-01",
		"items": []map[string]interface{}{
			{"item_name": "Rice", "quantity": 12.5, "unit": "kg"},
			{"item_name": "Salmon", "quantity": 4, "unit": "kg"},
		},
	}, smToken))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	if resp["location"] != "Daily East" {
		t.Errorf("expected Daily East, got %v", resp["location"])
	}
	if resp["report_date"] != "2026-09-01" {
		t.Errorf("expected report date, got %v", resp["report_date"])
	}

	var log models.DailyInventoryLog
	db.Preload("Items").First(&log)
	if len(log.Items) != 2 {
		t.Errorf("expected 2 items, got %d", len(log.Items))
	}
}

func TestSubmitDailyCountDuplicateDateConflict(t *testing.T) {
	db := freshDB()
	router := setupDailyStockRouter(db, time.Now)

	east := seedLocation(db, "Dup East")
	sm, smToken := seedTestUser(db, "dupsm@test.com", models.RoleStoreManager, &east.ID)
	seedDailyLog(db, sm.ID, "Dup East", "2026-09-01", time.Now())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/manager/daily-stock", map[string]interface{}{
		"report_date": "2026-09-01",
		"items": []map[string]interface{}{
			{"item_name": "Rice", "quantity": 1, "unit": "kg"},
		},
	}, smToken))

	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	db.Model(&models.DailyInventoryLog{}).Count(&count)
	if count != 1 {
		t.Errorf("expected the original log only, got %d", count)
	}
}

func TestEditDailyCountWithinWindow(t *testing.T) {
	db := freshDB()
	router := setupDailyStockRouter(db, time.Now)

	east := seedLocation(db, "Edit East")
	sm, smToken := seedTestUser(db, "editsm@test.com", models.RoleStoreManager, &east.ID)
	log := seedDailyLog(db, sm.ID, "Edit East", "2026-09-01", time.Now().Add(-4*time.Minute))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", dailyStockURL(log.ID, ""), map[string]interface{}{
		"items": []map[string]interface{}{
			{"item_name": "Rice", "quantity": 11, "unit": "kg"},
			{"item_name": "Nori", "quantity": 2, "unit": "pack"},
		},
	}, smToken))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var items []models.DailyInventoryItem
	db.Where("log_id = ?", log.ID).Find(&items)
	if len(items) != 2 {
		t.Errorf("expected lines replaced with 2 items, got %d", len(items))
	}
}

func TestEditDailyCountAfterWindowForbidden(t *testing.T) {
	db := freshDB()
	router := setupDailyStockRouter(db, time.Now)

	east := seedLocation(db, "Late East")
	sm, smToken := seedTestUser(db, "latesm@test.com", models.RoleStoreManager, &east.ID)
	log := seedDailyLog(db, sm.ID, "Late East", "2026-09-01", time.Now().Add(-6*time.Minute))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", dailyStockURL(log.ID, ""), map[string]interface{}{
		"items": []map[string]interface{}{
			{"item_name": "Rice", "quantity": 11, "unit": "kg"},
		},
	}, smToken))

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestEditDailyCountAfterUnlock(t *testing.T) {
	db := freshDB()
	router := setupDailyStockRouter(db, time.Now)

	east := seedLocation(db, "Unlock East")
	sm, smToken := seedTestUser(db, "unlocksm@test.com", models.RoleStoreManager, &east.ID)
	_, adminToken := seedTestUser(db, "unlockadmin@test.com", models.RoleAdmin, nil)
	log := seedDailyLog(db, sm.ID, "Unlock East", "2026-09-01", time.Now().Add(-2*time.Hour))

	// Frozen for the submitter.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", dailyStockURL(log.ID, ""), map[string]interface{}{
		"items": []map[string]interface{}{{"item_name": "Rice", "quantity": 1, "unit": "kg"}},
	}, smToken))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403 before unlock, got %d: %s", w.Code, w.Body.String())
	}

	// Manager unlocks it.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", dailyStockURL(log.ID, "lock"), nil, adminToken))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 for unlock, got %d: %s", w.Code, w.Body.String())
	}

	// Now the submitter can edit again.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", dailyStockURL(log.ID, ""), map[string]interface{}{
		"items": []map[string]interface{}{{"item_name": "Rice", "quantity": 2, "unit": "kg"}},
	}, smToken))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 after unlock, got %d: %s", w.Code, w.Body.String())
	}
}

func TestToggleLockStoreManagerForbidden(t *testing.T) {
	db := freshDB()
	router := setupDailyStockRouter(db, time.Now)

	east := seedLocation(db, "Toggle East")
	sm, smToken := seedTestUser(db, "togglesm@test.com", models.RoleStoreManager, &east.ID)
	log := seedDailyLog(db, sm.ID, "Toggle East", "2026-09-01", time.Now())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", dailyStockURL(log.ID, "lock"), nil, smToken))

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestManagerEditsAnytime(t *testing.T) {
	db := freshDB()
	router := setupDailyStockRouter(db, time.Now)

	east := seedLocation(db, "Mgr East")
	sm, _ := seedTestUser(db, "mgrsm@test.com", models.RoleStoreManager, &east.ID)
	_, managerToken := seedTestUser(db, "mgr@test.com", models.RoleManager, nil)
	log := seedDailyLog(db, sm.ID, "Mgr East", "2026-09-01", time.Now().Add(-48*time.Hour))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", dailyStockURL(log.ID, ""), map[string]interface{}{
		"items": []map[string]interface{}{{"item_name": "Rice", "quantity": 3, "unit": "kg"}},
	}, managerToken))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 for manager, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDeleteDailyCountWithinWindow(t *testing.T) {
	db := freshDB()
	router := setupDailyStockRouter(db, time.Now)

	east := seedLocation(db, "Del East")
	sm, smToken := seedTestUser(db, "delsm@test.com", models.RoleStoreManager, &east.ID)
	log := seedDailyLog(db, sm.ID, "Del East", "2026-09-01", time.Now())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("DELETE", dailyStockURL(log.ID, ""), nil, smToken))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var logs, items int64
	db.Model(&models.DailyInventoryLog{}).Count(&logs)
	db.Model(&models.DailyInventoryItem{}).Count(&items)
	if logs != 0 || items != 0 {
		t.Errorf("expected log and items deleted, got %d logs, %d items", logs, items)
	}
}

func TestHistoryScopedAndDateFiltered(t *testing.T) {
	db := freshDB()
	router := setupDailyStockRouter(db, time.Now)

	east := seedLocation(db, "Hist East")
	seedLocation(db, "Hist West")
	sm, smToken := seedTestUser(db, "histsm@test.com", models.RoleStoreManager, &east.ID)
	_, adminToken := seedTestUser(db, "histadmin@test.com", models.RoleAdmin, nil)

	seedDailyLog(db, sm.ID, "Hist East", "2026-08-30", time.Now())
	seedDailyLog(db, sm.ID, "Hist East", "2026-08-31", time.Now())
	seedDailyLog(db, sm.ID, "Hist West", "2026-08-31", time.Now())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/manager/daily-stock/history", nil, smToken))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if list := parseResponseArray(w); len(list) != 2 {
		t.Errorf("expected 2 logs for store manager, got %d", len(list))
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/manager/daily-stock/history?date=2026-08-31", nil, adminToken))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if list := parseResponseArray(w); len(list) != 2 {
		t.Errorf("expected 2 logs on 2026-08-31 for admin, got %d", len(list))
	}
}

func TestViewOtherLocationForbidden(t *testing.T) {
	db := freshDB()
	router := setupDailyStockRouter(db, time.Now)

	east := seedLocation(db, "View East")
	west := seedLocation(db, "View West")
	_, smToken := seedTestUser(db, "viewsm@test.com", models.RoleStoreManager, &east.ID)
	other, _ := seedTestUser(db, "viewother@test.com", models.RoleStoreManager, &west.ID)
	log := seedDailyLog(db, other.ID, "View West", "2026-09-01", time.Now())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", dailyStockURL(log.ID, ""), nil, smToken))

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestToggleLockResponseMatchesStoredFlag(t *testing.T) {
	db := freshDB()
	router := setupDailyStockRouter(db, time.Now)

	east := seedLocation(db, "Toggle East")
	sm, _ := seedTestUser(db, "togglesm@test.com", models.RoleStoreManager, &east.ID)
	_, adminToken := seedTestUser(db, "toggleadmin@test.com", models.RoleAdmin, nil)
	log := seedDailyLog(db, sm.ID, "Toggle East", "2026-09-01", time.Now())

	// Toggle twice: unlocked, then locked again. The response flag must match
	// what the row holds after each flip.
	for _, want := range []bool{true, false} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authRequest("POST", dailyStockURL(log.ID, "lock"), nil, adminToken))
		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		resp := parseResponse(w)
		if resp["is_unlocked"] != want {
			t.Errorf("expected response is_unlocked=%v, got %v", want, resp["is_unlocked"])
		}

		var stored models.DailyInventoryLog
		db.First(&stored, log.ID)
		if stored.IsUnlocked != want {
			t.Errorf("expected stored is_unlocked=%v, got %v", want, stored.IsUnlocked)
		}
	}
}

func TestDuplicateDailyLogInsertIsDuplicatedKey(t *testing.T) {
	db := freshDB()

	east := seedLocation(db, "DupKey East")
	sm, _ := seedTestUser(db, "dupkey@test.com", models.RoleStoreManager, &east.ID)
	seedDailyLog(db, sm.ID, "DupKey East", "2026-09-01", time.Now())

	// Submit treats only this error as the same-day conflict; anything else
	// surfaces as a server error.
	err := db.Create(&models.DailyInventoryLog{
		LocationName: "DupKey East",
		UserID:       sm.ID,
		ReportDate:   "2026-09-01",
	}).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected duplicated-key error, got %v", err)
	}
}
