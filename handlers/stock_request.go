package handlers

import (
	"net/http"
	"strconv"

	"github.com/SokThavireak/sushi-store/models"
	"github.com/SokThavireak/sushi-store/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type StockRequestHandler struct {
	DB *gorm.DB
}

type stockRequestLine struct {
	ItemName string  `json:"item_name" binding:"required"`
	Category string  `json:"category"`
	Quantity float64 `json:"quantity" binding:"required,gt=0"`
}

// CreateStockRequest files a restock order: header plus lines in one
// transaction. Location-bound roles always file for their assigned store, no
// matter what the request body says; head-office roles may pick a store and
// otherwise default to the first one.
func (h *StockRequestHandler) CreateStockRequest(c *gin.Context) {
	p, _ := GetPrincipal(c)
	userID, err := p.AccountID()
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Superusers cannot file stock requests"})
		return
	}

	var req struct {
		LocationID uint               `json:"location_id"`
		Items      []stockRequestLine `json:"items" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	requested := ""
	if req.LocationID != 0 {
		requested = strconv.FormatUint(uint64(req.LocationID), 10)
	}
	scope, err := ResolveScopeRequired(h.DB, p, requested)
	if err != nil {
		respondScopeError(c, err)
		return
	}

	tx := h.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}

	request := models.StockRequest{
		UserID:       userID,
		LocationName: scope.LocationName,
		Status:       models.StockRequestPending,
	}
	if err := tx.Create(&request).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create stock request"})
		return
	}

	for _, line := range req.Items {
		item := models.StockRequestItem{
			StockRequestID: request.ID,
			ItemName:       line.ItemName,
			Category:       line.Category,
			Quantity:       line.Quantity,
		}
		if err := tx.Create(&item).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create stock request items"})
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create stock request"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":        request.ID,
		"reference": request.Reference,
		"location":  request.LocationName,
		"status":    request.Status,
	})
}

// GetStockRequests lists requests visible under the caller's location scope,
// newest first.
func (h *StockRequestHandler) GetStockRequests(c *gin.Context) {
	p, _ := GetPrincipal(c)

	scope, err := ResolveScope(h.DB, p, c.Query("location"))
	if err != nil {
		respondScopeError(c, err)
		return
	}

	q := scope.Apply(h.DB.Preload("Items").Preload("User"), "location_name")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var requests []models.StockRequest
	if err := q.Order("created_at DESC").Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stock requests"})
		return
	}

	c.JSON(http.StatusOK, requests)
}

func (h *StockRequestHandler) GetStockRequest(c *gin.Context) {
	p, _ := GetPrincipal(c)

	scope, err := ResolveScope(h.DB, p, "")
	if err != nil {
		respondScopeError(c, err)
		return
	}

	var request models.StockRequest
	if err := h.DB.Preload("Items").Preload("User").
		First(&request, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stock request not found"})
		return
	}
	if !scope.Covers(request.LocationName) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Stock request belongs to another location"})
		return
	}

	c.JSON(http.StatusOK, request)
}

// ResolveStockRequest confirms or rejects a pending request. Resolved
// requests are final; resolving twice is a conflict.
func (h *StockRequestHandler) ResolveStockRequest(c *gin.Context) {
	var req struct {
		Action string `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	status, ok := models.ResolveStockRequestStatus(req.Action)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Action must be 'confirm' or 'reject'"})
		return
	}

	var request models.StockRequest
	if err := h.DB.First(&request, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stock request not found"})
		return
	}
	if request.Status != models.StockRequestPending {
		c.JSON(http.StatusConflict, gin.H{"error": "Stock request is already resolved"})
		return
	}

	if err := h.DB.Model(&request).Update("status", status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve stock request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Stock request resolved", "status": status})
}
