package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/SokThavireak/sushi-store/models"
	"github.com/SokThavireak/sushi-store/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type OrderHandler struct {
	DB *gorm.DB
}

// CreateOrder converts the caller's cart into an order in a single
// transaction: the order header and frozen-price items are written and the
// cart is emptied, or nothing happens at all. The response carries a redirect
// hint: staff accounts go back to the staff menu, QR payments go to the
// payment page, everyone else to their order history.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	p, _ := GetPrincipal(c)
	userID, err := p.AccountID()
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Superusers cannot place orders"})
		return
	}

	var req struct {
		PaymentMethod    string `json:"payment_method" binding:"required"`
		PickupLocationID uint   `json:"pickup_location_id" binding:"required"`
		TableNumber      string `json:"table_number"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	locationName, err := locationNameByUint(h.DB, req.PickupLocationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Pickup location not found"})
		return
	}

	tx := h.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}

	// The cart snapshot lives inside the transaction so a row added mid-flight
	// is either part of the order or survives the clear at the end.
	var cartItems []models.CartItem
	if err := tx.Preload("Product").Where("user_id = ?", userID).Find(&cartItems).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read cart"})
		return
	}
	if len(cartItems) == 0 {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}

	var total float64
	for _, item := range cartItems {
		total += item.Product.EffectivePrice() * float64(item.Quantity)
	}

	order := models.Order{
		UserID:         userID,
		TotalPrice:     total,
		PaymentMethod:  req.PaymentMethod,
		PickupLocation: locationName,
		Status:         models.OrderStatusPending,
		TableNumber:    req.TableNumber,
	}

	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	for _, item := range cartItems {
		orderItem := models.OrderItem{
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Product.EffectivePrice(),
		}
		if err := tx.Create(&orderItem).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order items"})
			return
		}
	}

	if err := tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit order"})
		return
	}

	// Only the staff role skips payment confirmation; everyone else paying by
	// QR goes through it, managers and cashiers included.
	redirect := "orders"
	if p.Role == models.RoleStaff {
		redirect = "staff_menu"
	} else if strings.EqualFold(req.PaymentMethod, "QR") {
		redirect = "payment"
	}

	utils.SendOrderConfirmation(p.Email, "", order.ID, order.TotalPrice, order.PickupLocation)

	c.JSON(http.StatusCreated, gin.H{
		"order_id":    order.ID,
		"total_price": order.TotalPrice,
		"status":      order.Status,
		"redirect":    redirect,
	})
}

func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	p, _ := GetPrincipal(c)
	userID, err := p.AccountID()
	if err != nil {
		c.JSON(http.StatusOK, []models.Order{})
		return
	}

	var orders []models.Order
	if err := h.DB.Preload("Items.Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// RequestCancel asks to cancel a Pending order. The status guard lives in the
// WHERE clause: an order that is not Pending, not found, or not owned by the
// caller is left untouched and the request still succeeds, so the endpoint
// never leaks which of those was the case.
func (h *OrderHandler) RequestCancel(c *gin.Context) {
	h.requestTransition(c, models.OrderStatusPending, models.OrderStatusCancelRequested)
}

// RequestRefund asks to refund a Completed order. Same silent guard as
// RequestCancel.
func (h *OrderHandler) RequestRefund(c *gin.Context) {
	h.requestTransition(c, models.OrderStatusCompleted, models.OrderStatusRefundRequested)
}

func (h *OrderHandler) requestTransition(c *gin.Context, from, to models.OrderStatus) {
	p, _ := GetPrincipal(c)
	userID, err := p.AccountID()
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Superusers have no orders"})
		return
	}

	id := c.Param("id")
	if err := h.DB.Model(&models.Order{}).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, from).
		Update("status", to).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request submitted"})
}

// GetPayment returns the order summary shown on the QR payment page. Only the
// order's owner can see it.
func (h *OrderHandler) GetPayment(c *gin.Context) {
	p, _ := GetPrincipal(c)
	userID, err := p.AccountID()
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Superusers have no orders"})
		return
	}

	var order models.Order
	if err := h.DB.Preload("Items.Product").
		Where("id = ? AND user_id = ?", c.Param("id"), userID).
		First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, order)
}

// ConfirmPayment marks a paid order as Processing.
func (h *OrderHandler) ConfirmPayment(c *gin.Context) {
	p, _ := GetPrincipal(c)
	userID, err := p.AccountID()
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Superusers have no orders"})
		return
	}

	result := h.DB.Model(&models.Order{}).
		Where("id = ? AND user_id = ? AND status = ?", c.Param("id"), userID, models.OrderStatusPending).
		Update("status", models.OrderStatusProcessing)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm payment"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found or already paid"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment confirmed"})
}

// GetOrders lists orders for the management screens, filtered by the caller's
// effective location scope. Orders awaiting manager action sort before
// everything else, newest first within each group.
func (h *OrderHandler) GetOrders(c *gin.Context) {
	p, _ := GetPrincipal(c)

	scope, err := ResolveScope(h.DB, p, c.Query("location"))
	if err != nil {
		respondScopeError(c, err)
		return
	}

	q := scope.Apply(h.DB.Preload("Items.Product").Preload("User"), "pickup_location")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var orders []models.Order
	if err := q.Order("CASE WHEN status LIKE '%Requested%' THEN 0 ELSE 1 END, created_at DESC").
		Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	p, _ := GetPrincipal(c)

	scope, err := ResolveScope(h.DB, p, "")
	if err != nil {
		respondScopeError(c, err)
		return
	}

	var order models.Order
	if err := h.DB.Preload("Items.Product").Preload("User").
		First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if !scope.Covers(order.PickupLocation) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Order belongs to another location"})
		return
	}

	c.JSON(http.StatusOK, order)
}

var orderStatuses = map[models.OrderStatus]bool{
	models.OrderStatusPending:         true,
	models.OrderStatusProcessing:      true,
	models.OrderStatusCompleted:       true,
	models.OrderStatusCancelRequested: true,
	models.OrderStatusRefundRequested: true,
	models.OrderStatusCancelled:       true,
	models.OrderStatusRefunded:        true,
}

// UpdateOrderStatus is the staff escape hatch: any known status can be set
// directly, bypassing the request/approve flow.
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	p, _ := GetPrincipal(c)

	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}
	if !orderStatuses[req.Status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown order status"})
		return
	}

	scope, err := ResolveScope(h.DB, p, "")
	if err != nil {
		respondScopeError(c, err)
		return
	}

	var order models.Order
	if err := h.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if !scope.Covers(order.PickupLocation) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Order belongs to another location"})
		return
	}

	if err := h.DB.Model(&order).Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}

	var owner models.User
	if h.DB.First(&owner, order.UserID).Error == nil {
		utils.SendOrderStatusUpdate(owner.Email, owner.Name, order.ID, string(req.Status))
	}

	c.JSON(http.StatusOK, gin.H{"message": "Status updated", "status": req.Status})
}

// ResolveRequest closes a customer cancel or refund request. The action must
// match the order's pending request: cancel actions apply only to orders in
// Cancel Requested, refund actions only to Refund Requested.
func (h *OrderHandler) ResolveRequest(c *gin.Context) {
	p, _ := GetPrincipal(c)

	var req struct {
		Action string `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	resolved, ok := models.ResolveRequestAction(req.Action)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown action"})
		return
	}

	required := models.OrderStatusCancelRequested
	if req.Action == models.ActionApproveRefund || req.Action == models.ActionRejectRefund {
		required = models.OrderStatusRefundRequested
	}

	scope, err := ResolveScope(h.DB, p, "")
	if err != nil {
		respondScopeError(c, err)
		return
	}

	var order models.Order
	if err := h.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if !scope.Covers(order.PickupLocation) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Order belongs to another location"})
		return
	}
	if order.Status != required {
		c.JSON(http.StatusConflict, gin.H{"error": "Order has no matching pending request"})
		return
	}

	if err := h.DB.Model(&order).Update("status", resolved).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve request"})
		return
	}

	var owner models.User
	if h.DB.First(&owner, order.UserID).Error == nil {
		utils.SendOrderStatusUpdate(owner.Email, owner.Name, order.ID, string(resolved))
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request resolved", "status": resolved})
}

// UpdateOrder edits header fields only; items go through the item endpoints.
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	p, _ := GetPrincipal(c)

	var req struct {
		PaymentMethod    string `json:"payment_method"`
		TableNumber      string `json:"table_number"`
		PickupLocationID *uint  `json:"pickup_location_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	scope, err := ResolveScope(h.DB, p, "")
	if err != nil {
		respondScopeError(c, err)
		return
	}

	var order models.Order
	if err := h.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if !scope.Covers(order.PickupLocation) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Order belongs to another location"})
		return
	}

	updates := map[string]interface{}{}
	if req.PaymentMethod != "" {
		updates["payment_method"] = req.PaymentMethod
	}
	if req.TableNumber != "" {
		updates["table_number"] = req.TableNumber
	}
	if req.PickupLocationID != nil {
		name, err := locationNameByUint(h.DB, *req.PickupLocationID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Pickup location not found"})
			return
		}
		updates["pickup_location"] = name
	}
	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Nothing to update"})
		return
	}

	if err := h.DB.Model(&order).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order updated"})
}

// DeleteOrder removes an order and its items.
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	p, _ := GetPrincipal(c)

	scope, err := ResolveScope(h.DB, p, "")
	if err != nil {
		respondScopeError(c, err)
		return
	}

	var order models.Order
	if err := h.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if !scope.Covers(order.PickupLocation) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Order belongs to another location"})
		return
	}

	tx := h.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete order items"})
		return
	}
	if err := tx.Delete(&order).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete order"})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
}

// respondScopeError maps scope-resolution failures to HTTP responses.
func respondScopeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNoAssignedLocation):
		c.JSON(http.StatusForbidden, gin.H{"error": "Account has no assigned location"})
	case errors.Is(err, ErrLocationNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Location not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve location scope"})
	}
}
