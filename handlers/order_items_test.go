package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SokThavireak/sushi-store/models"
)

func orderItemURL(itemID uint) string {
	return fmt.Sprintf("/api/admin/orders/items/%d", itemID)
}

// seedOrderWithItems builds an order from explicit (price, quantity) lines
// with a consistent total.
func seedOrderWithItems(location string, userID uint, lines [][2]float64) (models.Order, []models.OrderItem) {
	order := models.Order{
		UserID:         userID,
		PaymentMethod:  "Cash",
		PickupLocation: location,
		Status:         models.OrderStatusPending,
	}
	var total float64
	testDB.Create(&order)

	items := make([]models.OrderItem, 0, len(lines))
	for i, line := range lines {
		price, qty := line[0], int(line[1])
		product := seedProduct(testDB, fmt.Sprintf("Line Product %d-%d", order.ID, i), price)
		item := models.OrderItem{
			OrderID:   order.ID,
			ProductID: product.ID,
			Quantity:  qty,
			Price:     price,
		}
		testDB.Create(&item)
		items = append(items, item)
		total += price * float64(qty)
	}
	testDB.Model(&order).Update("total_price", total)
	order.TotalPrice = total
	return order, items
}

func TestUpdateItemQuantityIncreasesTotal(t *testing.T) {
	db := freshDB()
	router := setupOrderRouter(db)

	customer, _ := seedTestUser(db, "lines1@test.com", models.RoleUser, nil)
	_, adminToken := seedTestUser(db, "linesadmin1@test.com", models.RoleAdmin, nil)
	seedLocation(db, "Lines Branch")

	// 2 x 4.00 + 1 x 5.00 = 13.00
	order, items := seedOrderWithItems("Lines Branch", customer.ID, [][2]float64{{4.00, 2}, {5.00, 1}})

	// Bump the 5.00 line from 1 to 3: total shifts by +10.00.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", orderItemURL(items[1].ID), map[string]interface{}{
		"quantity": 3,
	}, adminToken))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var updated models.Order
	testDB.First(&updated, order.ID)
	if updated.TotalPrice != 23.00 {
		t.Errorf("expected total 23.00, got %v", updated.TotalPrice)
	}

	var line models.OrderItem
	testDB.First(&line, items[1].ID)
	if line.Quantity != 3 {
		t.Errorf("expected quantity 3, got %d", line.Quantity)
	}
}

func TestDeleteItemDecreasesTotal(t *testing.T) {
	db := freshDB()
	router := setupOrderRouter(db)

	customer, _ := seedTestUser(db, "lines2@test.com", models.RoleUser, nil)
	_, adminToken := seedTestUser(db, "linesadmin2@test.com", models.RoleAdmin, nil)
	seedLocation(db, "Lines2 Branch")

	// 2 x 4.00 + 3 x 5.00 = 23.00; removing the 4.00 line leaves 15.00.
	order, items := seedOrderWithItems("Lines2 Branch", customer.ID, [][2]float64{{4.00, 2}, {5.00, 3}})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("DELETE", orderItemURL(items[0].ID), nil, adminToken))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var updated models.Order
	testDB.First(&updated, order.ID)
	if updated.TotalPrice != 15.00 {
		t.Errorf("expected total 15.00, got %v", updated.TotalPrice)
	}

	var count int64
	testDB.Model(&models.OrderItem{}).Where("id = ?", items[0].ID).Count(&count)
	if count != 0 {
		t.Errorf("expected line removed, still present")
	}
}

func TestUpdateItemQuantityZeroDeletesLine(t *testing.T) {
	db := freshDB()
	router := setupOrderRouter(db)

	customer, _ := seedTestUser(db, "lines3@test.com", models.RoleUser, nil)
	_, adminToken := seedTestUser(db, "linesadmin3@test.com", models.RoleAdmin, nil)
	seedLocation(db, "Lines3 Branch")

	order, items := seedOrderWithItems("Lines3 Branch", customer.ID, [][2]float64{{4.00, 2}, {5.00, 1}})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", orderItemURL(items[0].ID), map[string]interface{}{
		"quantity": 0,
	}, adminToken))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	testDB.Model(&models.OrderItem{}).Where("id = ?", items[0].ID).Count(&count)
	if count != 0 {
		t.Errorf("expected line removed on zero quantity")
	}

	var updated models.Order
	testDB.First(&updated, order.ID)
	if updated.TotalPrice != 5.00 {
		t.Errorf("expected total 5.00, got %v", updated.TotalPrice)
	}
}

func TestUpdateItemQuantityKeepsInvariant(t *testing.T) {
	db := freshDB()
	router := setupOrderRouter(db)

	customer, _ := seedTestUser(db, "lines4@test.com", models.RoleUser, nil)
	_, adminToken := seedTestUser(db, "linesadmin4@test.com", models.RoleAdmin, nil)
	seedLocation(db, "Lines4 Branch")

	order, items := seedOrderWithItems("Lines4 Branch", customer.ID, [][2]float64{{2.50, 4}, {3.00, 2}})

	// Apply a couple of mutations, then verify total == sum(price*quantity).
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", orderItemURL(items[0].ID), map[string]interface{}{"quantity": 1}, adminToken))
	if w.Code != http.StatusOK {
		t.Fatalf("first mutation failed: %d: %s", w.Code, w.Body.String())
	}
	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", orderItemURL(items[1].ID), map[string]interface{}{"quantity": 5}, adminToken))
	if w.Code != http.StatusOK {
		t.Fatalf("second mutation failed: %d: %s", w.Code, w.Body.String())
	}

	var updated models.Order
	testDB.Preload("Items").First(&updated, order.ID)

	var sum float64
	for _, item := range updated.Items {
		sum += item.Price * float64(item.Quantity)
	}
	if updated.TotalPrice != sum {
		t.Errorf("total %v does not match line sum %v", updated.TotalPrice, sum)
	}
	if updated.TotalPrice != 17.50 {
		t.Errorf("expected total 17.50, got %v", updated.TotalPrice)
	}
}

func TestUpdateMissingItemIsNoop(t *testing.T) {
	db := freshDB()
	router := setupOrderRouter(db)

	_, adminToken := seedTestUser(db, "linesadmin5@test.com", models.RoleAdmin, nil)
	seedLocation(db, "Lines5 Branch")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", orderItemURL(99999), map[string]interface{}{
		"quantity": 2,
	}, adminToken))

	// The line may have been removed by another screen; nothing to do.
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDeleteItemOtherLocationForbidden(t *testing.T) {
	db := freshDB()
	router := setupOrderRouter(db)

	east := seedLocation(db, "Lines East")
	seedLocation(db, "Lines West")
	customer, _ := seedTestUser(db, "lines6@test.com", models.RoleUser, nil)
	_, smToken := seedTestUser(db, "linessm@test.com", models.RoleStoreManager, &east.ID)

	order, items := seedOrderWithItems("Lines West", customer.ID, [][2]float64{{4.00, 1}})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("DELETE", orderItemURL(items[0].ID), nil, smToken))

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d: %s", w.Code, w.Body.String())
	}

	var updated models.Order
	testDB.First(&updated, order.ID)
	if updated.TotalPrice != 4.00 {
		t.Errorf("expected total untouched at 4.00, got %v", updated.TotalPrice)
	}
}

func TestUpdateItemQuantityRepeatIsIdempotent(t *testing.T) {
	db := freshDB()
	router := setupOrderRouter(db)

	customer, _ := seedTestUser(db, "idem@test.com", models.RoleUser, nil)
	_, adminToken := seedTestUser(db, "idemadmin@test.com", models.RoleAdmin, nil)
	seedLocation(db, "Idem Branch")

	order, items := seedOrderWithItems("Idem Branch", customer.ID, [][2]float64{{5.00, 2}})

	// Setting the same quantity twice must land on the same total as once.
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authRequest("PUT", orderItemURL(items[0].ID), map[string]interface{}{
			"quantity": 4,
		}, adminToken))
		if w.Code != http.StatusOK {
			t.Fatalf("call %d: expected status 200, got %d: %s", i+1, w.Code, w.Body.String())
		}
	}

	var updated models.Order
	testDB.First(&updated, order.ID)
	if updated.TotalPrice != 20.00 {
		t.Errorf("expected total 20.00 after repeated update, got %v", updated.TotalPrice)
	}
}
