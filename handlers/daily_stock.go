package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/SokThavireak/sushi-store/models"
	"github.com/SokThavireak/sushi-store/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DailyStockHandler manages end-of-day ingredient counts. Submissions freeze
// after a short window; only the submitter can edit within it, and only a
// manager unlock reopens a frozen log.
type DailyStockHandler struct {
	DB *gorm.DB

	// now is swappable for tests exercising the edit window.
	now func() time.Time
}

func NewDailyStockHandler(db *gorm.DB) *DailyStockHandler {
	return &DailyStockHandler{DB: db, now: time.Now}
}

type dailyCountLine struct {
	ItemName string  `json:"item_name" binding:"required"`
	Category string  `json:"category"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// Submit records a day's count for one store. One log per store per date;
// submitting twice for the same day is a conflict, not an overwrite.
func (h *DailyStockHandler) Submit(c *gin.Context) {
	p, _ := GetPrincipal(c)
	userID, err := p.AccountID()
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Superusers cannot submit daily counts"})
		return
	}

	var req struct {
		LocationID uint             `json:"location_id"`
		ReportDate string           `json:"report_date"`
		Items      []dailyCountLine `json:"items" binding:"required,min=1,dive"`
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

	reportDate := req.ReportDate
	if reportDate == "" {
		reportDate = h.now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", reportDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Report date must be YYYY-MM-DD"})
		return
	}

	var existing int64
	h.DB.Model(&models.DailyInventoryLog{}).
		Where("location_name = ? AND report_date = ?", scope.LocationName, reportDate).
		Count(&existing)
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "A count for this location and date already exists"})
		return
	}

	tx := h.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}

	log := models.DailyInventoryLog{
		LocationName: scope.LocationName,
		UserID:       userID,
		ReportDate:   reportDate,
	}
	if err := tx.Create(&log).Error; err != nil {
		tx.Rollback()
		// The unique index catches a concurrent submit the pre-check missed.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "A count for this location and date already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save count"})
		return
	}

	for _, line := range req.Items {
		item := models.DailyInventoryItem{
			LogID:    log.ID,
			ItemName: line.ItemName,
			Category: line.Category,
			Quantity: line.Quantity,
			Unit:     line.Unit,
		}
		if err := tx.Create(&item).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save count items"})
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save count"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":          log.ID,
		"location":    log.LocationName,
		"report_date": log.ReportDate,
	})
}

// History lists submitted counts under the caller's scope, optionally
// narrowed to one date.
func (h *DailyStockHandler) History(c *gin.Context) {
	p, _ := GetPrincipal(c)

	scope, err := ResolveScope(h.DB, p, c.Query("location"))
	if err != nil {
		respondScopeError(c, err)
		return
	}

	q := scope.Apply(h.DB.Preload("Items").Preload("User"), "location_name")
	if date := c.Query("date"); date != "" {
		q = q.Where("report_date = ?", date)
	}

	var logs []models.DailyInventoryLog
	if err := q.Order("report_date DESC, id DESC").Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
		return
	}

	c.JSON(http.StatusOK, logs)
}

func (h *DailyStockHandler) View(c *gin.Context) {
	p, _ := GetPrincipal(c)

	scope, err := ResolveScope(h.DB, p, "")
	if err != nil {
		respondScopeError(c, err)
		return
	}

	var log models.DailyInventoryLog
	if err := h.DB.Preload("Items").Preload("User").
		First(&log, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Count not found"})
		return
	}
	if !scope.Covers(log.LocationName) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Count belongs to another location"})
		return
	}

	c.JSON(http.StatusOK, log)
}

// Edit replaces a count's line items. Allowed only while the log is editable
// for this principal: the submitter within the edit window, anyone while the
// log is unlocked, or a manager at any time.
func (h *DailyStockHandler) Edit(c *gin.Context) {
	p, _ := GetPrincipal(c)

	var req struct {
		Items []dailyCountLine `json:"items" binding:"required,min=1,dive"`
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

	var log models.DailyInventoryLog
	if err := h.DB.First(&log, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Count not found"})
		return
	}
	if !scope.Covers(log.LocationName) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Count belongs to another location"})
		return
	}
	if !log.CanEdit(p, h.clock()) {
		c.JSON(http.StatusForbidden, gin.H{"error": "The edit window for this count has closed"})
		return
	}

	tx := h.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	if err := tx.Where("log_id = ?", log.ID).Delete(&models.DailyInventoryItem{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update count"})
		return
	}
	for _, line := range req.Items {
		item := models.DailyInventoryItem{
			LogID:    log.ID,
			ItemName: line.ItemName,
			Category: line.Category,
			Quantity: line.Quantity,
			Unit:     line.Unit,
		}
		if err := tx.Create(&item).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update count"})
			return
		}
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update count"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Count updated"})
}

// Delete removes a count, guarded the same way Edit is.
func (h *DailyStockHandler) Delete(c *gin.Context) {
	p, _ := GetPrincipal(c)

	scope, err := ResolveScope(h.DB, p, "")
	if err != nil {
		respondScopeError(c, err)
		return
	}

	var log models.DailyInventoryLog
	if err := h.DB.First(&log, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Count not found"})
		return
	}
	if !scope.Covers(log.LocationName) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Count belongs to another location"})
		return
	}
	if !log.CanEdit(p, h.clock()) {
		c.JSON(http.StatusForbidden, gin.H{"error": "The edit window for this count has closed"})
		return
	}

	tx := h.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	if err := tx.Where("log_id = ?", log.ID).Delete(&models.DailyInventoryItem{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete count"})
		return
	}
	if err := tx.Delete(&log).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete count"})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete count"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Count deleted"})
}

// ToggleLock flips the explicit unlock flag, reopening or refreezing a count
// regardless of the edit window. Route guards restrict this to managers.
func (h *DailyStockHandler) ToggleLock(c *gin.Context) {
	var log models.DailyInventoryLog
	if err := h.DB.First(&log, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Count not found"})
		return
	}

	unlocked := !log.IsUnlocked
	if err := h.DB.Model(&log).Update("is_unlocked", unlocked).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle lock"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Lock toggled", "is_unlocked": unlocked})
}

func (h *DailyStockHandler) clock() time.Time {
	if h.now != nil {
		return h.now()
	}
	return time.Now()
}
