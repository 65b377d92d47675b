package handlers

import (
	"net/http"

	"github.com/SokThavireak/sushi-store/models"
	"github.com/SokThavireak/sushi-store/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CartHandler struct {
	DB *gorm.DB
}

// cartLine is one cart row joined with the live product, priced with the
// product's current discount applied.
type cartLine struct {
	CartID    uint    `json:"cart_id"`
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	ImageURL  string  `json:"image_url"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"line_total"`
}

// GetCart returns the caller's cart joined with live product prices. An
// environment superuser always gets an empty cart rather than an error.
func (h *CartHandler) GetCart(c *gin.Context) {
	p, _ := GetPrincipal(c)
	userID, err := p.AccountID()
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"items": []cartLine{}, "subtotal": 0.0})
		return
	}

	var cartItems []models.CartItem
	if err := h.DB.Preload("Product").Where("user_id = ?", userID).Order("id ASC").Find(&cartItems).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}

	lines := make([]cartLine, 0, len(cartItems))
	var subtotal float64
	for _, item := range cartItems {
		price := item.Product.EffectivePrice()
		lineTotal := price * float64(item.Quantity)
		subtotal += lineTotal
		lines = append(lines, cartLine{
			CartID:    item.ID,
			ProductID: item.ProductID,
			Name:      item.Product.Name,
			Price:     price,
			ImageURL:  item.Product.ImageURL,
			Quantity:  item.Quantity,
			LineTotal: lineTotal,
		})
	}

	c.JSON(http.StatusOK, gin.H{"items": lines, "subtotal": subtotal})
}

func (h *CartHandler) AddToCart(c *gin.Context) {
	p, _ := GetPrincipal(c)
	userID, err := p.AccountID()
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Superusers cannot use the shopping cart"})
		return
	}

	var req struct {
		ProductID uint `json:"product_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var product models.Product
	if err := h.DB.First(&product, req.ProductID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var cartItem models.CartItem
	err = h.DB.Where("user_id = ? AND product_id = ?", userID, req.ProductID).First(&cartItem).Error

	if err == nil {
		cartItem.Quantity++
		h.DB.Save(&cartItem)
	} else {
		cartItem = models.CartItem{
			UserID:    userID,
			ProductID: req.ProductID,
			Quantity:  1,
		}
		h.DB.Create(&cartItem)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item added"})
}

// UpdateCartItem increments or decrements a cart row. Decrementing a quantity
// of 1 removes the row entirely.
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	p, _ := GetPrincipal(c)
	userID, err := p.AccountID()
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Superusers cannot use the shopping cart"})
		return
	}

	id := c.Param("id")
	var req struct {
		Action string `json:"action" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var cartItem models.CartItem
	if err := h.DB.Where("id = ? AND user_id = ?", id, userID).First(&cartItem).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		return
	}

	switch req.Action {
	case "increment":
		cartItem.Quantity++
		h.DB.Save(&cartItem)
	case "decrement":
		if cartItem.Quantity > 1 {
			cartItem.Quantity--
			h.DB.Save(&cartItem)
		} else {
			h.DB.Delete(&cartItem)
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Action must be 'increment' or 'decrement'"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Updated"})
}

func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	p, _ := GetPrincipal(c)
	userID, err := p.AccountID()
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Superusers cannot use the shopping cart"})
		return
	}

	id := c.Param("id")
	if err := h.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&models.CartItem{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove item from cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	p, _ := GetPrincipal(c)
	userID, err := p.AccountID()
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Superusers cannot use the shopping cart"})
		return
	}

	if err := h.DB.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
