package handlers

import (
	"net/http"

	"github.com/SokThavireak/sushi-store/models"
	"github.com/SokThavireak/sushi-store/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderItemHandler mutates individual order lines after the fact while
// keeping the parent order's total_price equal to the sum of its lines.
// Every mutation runs in a transaction that locks the line row, so two
// concurrent edits of the same line serialize instead of double-applying
// a price delta.
type OrderItemHandler struct {
	DB *gorm.DB
}

// UpdateQuantity changes a line's quantity and shifts the order total by the
// frozen unit price times the quantity delta. A quantity below one removes
// the line instead. A missing line is a no-op: the row may have been deleted
// by another staff screen moments earlier.
func (h *OrderItemHandler) UpdateQuantity(c *gin.Context) {
	p, _ := GetPrincipal(c)

	// Pointer so that an explicit zero (meaning "remove the line") still
	// passes the required check.
	var req struct {
		Quantity *int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}
	quantity := *req.Quantity

	scope, err := ResolveScope(h.DB, p, "")
	if err != nil {
		respondScopeError(c, err)
		return
	}

	tx := h.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}

	var item models.OrderItem
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&item, c.Param("itemId")).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusOK, gin.H{"message": "Item no longer exists"})
		return
	}

	var order models.Order
	if err := tx.First(&order, item.OrderID).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load order"})
		return
	}
	if !scope.Covers(order.PickupLocation) {
		tx.Rollback()
		c.JSON(http.StatusForbidden, gin.H{"error": "Order belongs to another location"})
		return
	}

	if quantity < 1 {
		priceDiff := -item.Price * float64(item.Quantity)
		if err := tx.Delete(&item).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove item"})
			return
		}
		if err := applyTotalDelta(tx, item.OrderID, priceDiff); err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order total"})
			return
		}
		if err := tx.Commit().Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item removed"})
		return
	}

	priceDiff := item.Price * float64(quantity-item.Quantity)
	if err := tx.Model(&item).Update("quantity", quantity).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update quantity"})
		return
	}
	if err := applyTotalDelta(tx, item.OrderID, priceDiff); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order total"})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Quantity updated"})
}

// DeleteItem removes a line and subtracts its contribution from the order
// total. Missing lines are a no-op, same as UpdateQuantity.
func (h *OrderItemHandler) DeleteItem(c *gin.Context) {
	p, _ := GetPrincipal(c)

	scope, err := ResolveScope(h.DB, p, "")
	if err != nil {
		respondScopeError(c, err)
		return
	}

	tx := h.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}

	var item models.OrderItem
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&item, c.Param("itemId")).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusOK, gin.H{"message": "Item no longer exists"})
		return
	}

	var order models.Order
	if err := tx.First(&order, item.OrderID).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load order"})
		return
	}
	if !scope.Covers(order.PickupLocation) {
		tx.Rollback()
		c.JSON(http.StatusForbidden, gin.H{"error": "Order belongs to another location"})
		return
	}

	priceDiff := -item.Price * float64(item.Quantity)
	if err := tx.Delete(&item).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove item"})
		return
	}
	if err := applyTotalDelta(tx, item.OrderID, priceDiff); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order total"})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item removed"})
}

// applyTotalDelta shifts an order's total in place. The delta form keeps the
// invariant without re-reading every line, and stays correct under the row
// lock held by the caller's transaction.
func applyTotalDelta(tx *gorm.DB, orderID uint, delta float64) error {
	return tx.Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("total_price", gorm.Expr("total_price + ?", delta)).Error
}
