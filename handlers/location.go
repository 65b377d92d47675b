package handlers

import (
	"net/http"

	"github.com/SokThavireak/sushi-store/models"
	"github.com/SokThavireak/sushi-store/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type LocationHandler struct {
	DB *gorm.DB
}

// GetLocations is public: the storefront uses it for the pickup selector.
// Pass status=Open to hide closed stores.
func (h *LocationHandler) GetLocations(c *gin.Context) {
	q := h.DB.Order("id ASC")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var locations []models.Location
	if err := q.Find(&locations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch locations"})
		return
	}

	c.JSON(http.StatusOK, locations)
}

func (h *LocationHandler) GetLocation(c *gin.Context) {
	var location models.Location
	if err := h.DB.First(&location, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Location not found"})
		return
	}

	c.JSON(http.StatusOK, location)
}

type locationRequest struct {
	Name         string `json:"name" binding:"required"`
	Address      string `json:"address"`
	GoogleMapURL string `json:"google_map_url"`
	Status       string `json:"status"`
	HoursMonFri  string `json:"hours_mon_fri"`
	HoursSatSun  string `json:"hours_sat_sun"`
}

func (h *LocationHandler) CreateLocation(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	status := req.Status
	if status == "" {
		status = models.LocationStatusOpen
	}
	if status != models.LocationStatusOpen && status != models.LocationStatusClosed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be Open or Closed"})
		return
	}

	location := models.Location{
		Name:         req.Name,
		Address:      req.Address,
		GoogleMapURL: req.GoogleMapURL,
		Status:       status,
		HoursMonFri:  req.HoursMonFri,
		HoursSatSun:  req.HoursSatSun,
	}

	if err := h.DB.Create(&location).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Location with this name already exists"})
		return
	}

	c.JSON(http.StatusCreated, location)
}

// UpdateLocation edits a store. Renaming rewrites the location name on
// orders, stock requests and daily logs in the same transaction, because
// those tables reference the location by name.
func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var location models.Location
	if err := h.DB.First(&location, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Location not found"})
		return
	}

	if req.Status != "" && req.Status != models.LocationStatusOpen && req.Status != models.LocationStatusClosed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be Open or Closed"})
		return
	}

	oldName := location.Name

	tx := h.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}

	updates := map[string]interface{}{
		"name":           req.Name,
		"address":        req.Address,
		"google_map_url": req.GoogleMapURL,
		"hours_mon_fri":  req.HoursMonFri,
		"hours_sat_sun":  req.HoursSatSun,
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}

	if err := tx.Model(&location).Updates(updates).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"error": "Location with this name already exists"})
		return
	}

	if req.Name != oldName {
		if err := tx.Model(&models.Order{}).Where("pickup_location = ?", oldName).
			Update("pickup_location", req.Name).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update orders"})
			return
		}
		if err := tx.Model(&models.StockRequest{}).Where("location_name = ?", oldName).
			Update("location_name", req.Name).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update stock requests"})
			return
		}
		if err := tx.Model(&models.DailyInventoryLog{}).Where("location_name = ?", oldName).
			Update("location_name", req.Name).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update daily logs"})
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update location"})
		return
	}

	c.JSON(http.StatusOK, location)
}

// DeleteLocation soft-deletes a store. Stores with staff still assigned
// cannot be removed; reassign them first.
func (h *LocationHandler) DeleteLocation(c *gin.Context) {
	var location models.Location
	if err := h.DB.First(&location, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Location not found"})
		return
	}

	var assigned int64
	h.DB.Model(&models.User{}).Where("assigned_location_id = ?", location.ID).Count(&assigned)
	if assigned > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Location still has assigned staff"})
		return
	}

	if err := h.DB.Delete(&location).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete location"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Location deleted"})
}
