package handlers

import (
	"net/http"
	"strconv"

	"github.com/SokThavireak/sushi-store/firebase"
	"github.com/SokThavireak/sushi-store/models"
	"github.com/SokThavireak/sushi-store/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// StockItemHandler manages the master ingredient list that daily counts and
// restock forms are built from.
type StockItemHandler struct {
	DB      *gorm.DB
	Storage firebase.StorageClient
}

func (h *StockItemHandler) GetStockItems(c *gin.Context) {
	q := h.DB.Order("category ASC, name ASC")
	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}

	var items []models.StockItem
	if err := q.Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stock items"})
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *StockItemHandler) CreateStockItem(c *gin.Context) {
	name := c.PostForm("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	item := models.StockItem{
		Name:     name,
		Category: c.PostForm("category"),
		Unit:     c.PostForm("unit"),
	}

	if q := c.PostForm("quantity"); q != "" {
		quantity, err := strconv.ParseFloat(q, 64)
		if err != nil || quantity < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be a non-negative number"})
			return
		}
		item.Quantity = quantity
	}

	if url, handled := h.uploadImage(c); handled {
		return
	} else if url != "" {
		item.ImageURL = url
	}

	if err := h.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create stock item"})
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *StockItemHandler) UpdateStockItem(c *gin.Context) {
	var item models.StockItem
	if err := h.DB.First(&item, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stock item not found"})
		return
	}

	updates := map[string]interface{}{}
	if name := c.PostForm("name"); name != "" {
		updates["name"] = name
	}
	if category := c.PostForm("category"); category != "" {
		updates["category"] = category
	}
	if unit := c.PostForm("unit"); unit != "" {
		updates["unit"] = unit
	}
	if q := c.PostForm("quantity"); q != "" {
		quantity, err := strconv.ParseFloat(q, 64)
		if err != nil || quantity < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be a non-negative number"})
			return
		}
		updates["quantity"] = quantity
	}

	if url, handled := h.uploadImage(c); handled {
		return
	} else if url != "" {
		updates["image_url"] = url
	}

	if len(updates) > 0 {
		if err := h.DB.Model(&item).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update stock item"})
			return
		}
	}

	c.JSON(http.StatusOK, item)
}

func (h *StockItemHandler) DeleteStockItem(c *gin.Context) {
	var item models.StockItem
	if err := h.DB.First(&item, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stock item not found"})
		return
	}

	if err := h.DB.Delete(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete stock item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Stock item deleted"})
}

func (h *StockItemHandler) uploadImage(c *gin.Context) (string, bool) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return "", false
	}

	if err := utils.ValidateFileUpload(fileHeader); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", true
	}

	if h.Storage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Image storage is not configured"})
		return "", true
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return "", true
	}
	defer file.Close()

	url, err := h.Storage.UploadImage("ingredients", file, fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
		return "", true
	}

	return url, false
}
