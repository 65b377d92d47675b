package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SokThavireak/sushi-store/models"
)

func cartItemURL(id uint) string {
	return fmt.Sprintf("/api/cart/%d", id)
}

func TestGetCartJoinsProductsAndSubtotal(t *testing.T) {
	db := freshDB()
	router := setupCartRouter(db)

	user, token := seedTestUser(db, "cart1@test.com", models.RoleUser, nil)
	salmon := seedProduct(db, "Cart Salmon", 4.00)
	tuna := seedProduct(db, "Cart Tuna", 5.00)
	db.Model(&tuna).Updates(map[string]interface{}{
		"discount_type":  models.DiscountFixed,
		"discount_value": 1.00,
	})
	seedCartItem(db, user.ID, salmon.ID, 2)
	seedCartItem(db, user.ID, tuna.ID, 1)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/cart", nil, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	items := resp["items"].([]interface{})
	if len(items) != 2 {
		t.Fatalf("expected 2 cart lines, got %d", len(items))
	}
	// 2 x 4.00 + 1 x (5.00 - 1.00) = 12.00
	if resp["subtotal"] != 12.00 {
		t.Errorf("expected subtotal 12.00, got %v", resp["subtotal"])
	}
}

func TestGetCartSuperuserIsEmpty(t *testing.T) {
	db := freshDB()
	router := setupCartRouter(db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/cart", nil, superuserToken()))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if items := resp["items"].([]interface{}); len(items) != 0 {
		t.Errorf("expected empty cart for superuser, got %d lines", len(items))
	}
}

func TestAddToCartSuperuserForbidden(t *testing.T) {
	db := freshDB()
	router := setupCartRouter(db)

	prod := seedProduct(db, "Forbidden Roll", 3.00)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/cart", map[string]interface{}{
		"product_id": prod.ID,
	}, superuserToken()))

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAddToCartIncrementsExistingRow(t *testing.T) {
	db := freshDB()
	router := setupCartRouter(db)

	user, token := seedTestUser(db, "cart2@test.com", models.RoleUser, nil)
	prod := seedProduct(db, "Cart Eel", 6.00)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authRequest("POST", "/api/cart", map[string]interface{}{
			"product_id": prod.ID,
		}, token))
		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
		}
	}

	var rows []models.CartItem
	db.Where("user_id = ?", user.ID).Find(&rows)
	if len(rows) != 1 {
		t.Fatalf("expected a single cart row, got %d", len(rows))
	}
	if rows[0].Quantity != 2 {
		t.Errorf("expected quantity 2, got %d", rows[0].Quantity)
	}
}

func TestAddToCartUnknownProduct(t *testing.T) {
	db := freshDB()
	router := setupCartRouter(db)

	_, token := seedTestUser(db, "cart3@test.com", models.RoleUser, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/cart", map[string]interface{}{
		"product_id": 99999,
	}, token))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUpdateCartItemDecrementToZeroDeletes(t *testing.T) {
	db := freshDB()
	router := setupCartRouter(db)

	user, token := seedTestUser(db, "cart4@test.com", models.RoleUser, nil)
	prod := seedProduct(db, "Cart Uni", 8.00)
	item := seedCartItem(db, user.ID, prod.ID, 1)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PATCH", cartItemURL(item.ID), map[string]interface{}{
		"action": "decrement",
	}, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	db.Model(&models.CartItem{}).Where("id = ?", item.ID).Count(&count)
	if count != 0 {
		t.Errorf("expected row deleted when decrementing quantity 1")
	}
}

func TestUpdateCartItemIncrement(t *testing.T) {
	db := freshDB()
	router := setupCartRouter(db)

	user, token := seedTestUser(db, "cart5@test.com", models.RoleUser, nil)
	prod := seedProduct(db, "Cart Tamago", 2.50)
	item := seedCartItem(db, user.ID, prod.ID, 1)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PATCH", cartItemURL(item.ID), map[string]interface{}{
		"action": "increment",
	}, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var row models.CartItem
	db.First(&row, item.ID)
	if row.Quantity != 2 {
		t.Errorf("expected quantity 2, got %d", row.Quantity)
	}
}

func TestUpdateCartItemOtherUsersRow(t *testing.T) {
	db := freshDB()
	router := setupCartRouter(db)

	owner, _ := seedTestUser(db, "cart6@test.com", models.RoleUser, nil)
	_, token := seedTestUser(db, "cart7@test.com", models.RoleUser, nil)
	prod := seedProduct(db, "Cart Ikura", 9.00)
	item := seedCartItem(db, owner.ID, prod.ID, 1)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PATCH", cartItemURL(item.ID), map[string]interface{}{
		"action": "increment",
	}, token))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestClearCart(t *testing.T) {
	db := freshDB()
	router := setupCartRouter(db)

	user, token := seedTestUser(db, "cart8@test.com", models.RoleUser, nil)
	prod := seedProduct(db, "Cart Maki", 3.50)
	other := seedProduct(db, "Cart Temaki", 4.50)
	seedCartItem(db, user.ID, prod.ID, 2)
	seedCartItem(db, user.ID, other.ID, 1)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("DELETE", "/api/cart", nil, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 0 {
		t.Errorf("expected cart empty, got %d rows", count)
	}
}
