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

type ProductHandler struct {
	DB      *gorm.DB
	Storage firebase.StorageClient
}

// GetProducts is the public menu: every product, grouped by category then
// name so the storefront can render sections without re-sorting.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	q := h.DB.Order("category ASC, name ASC")
	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}
	if c.Query("best_sellers") == "true" {
		q = q.Where("is_best_seller = ?", true)
	}

	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, products)
}

// GetOffers lists only products with an active discount.
func (h *ProductHandler) GetOffers(c *gin.Context) {
	var products []models.Product
	if err := h.DB.Where("discount_type <> ? AND discount_value > 0", models.DiscountNone).
		Order("category ASC, name ASC").
		Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch offers"})
		return
	}

	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	var product models.Product
	if err := h.DB.First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// CreateProduct accepts multipart form data so the image can ride along with
// the fields. Naming a category that does not exist yet creates it.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	name := c.PostForm("name")
	category := c.PostForm("category")
	priceStr := c.PostForm("price")

	if name == "" || priceStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and price are required"})
		return
	}

	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil || price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price must be a non-negative number"})
		return
	}

	product := models.Product{
		Name:         name,
		Category:     category,
		Price:        price,
		IsBestSeller: c.PostForm("is_best_seller") == "true",
		DiscountType: models.DiscountNone,
	}

	if dt := c.PostForm("discount_type"); dt != "" {
		if dt != models.DiscountNone && dt != models.DiscountPercent && dt != models.DiscountFixed {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Discount type must be none, percent or fixed"})
			return
		}
		product.DiscountType = dt
	}
	if dv := c.PostForm("discount_value"); dv != "" {
		value, err := strconv.ParseFloat(dv, 64)
		if err != nil || value < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Discount value must be a non-negative number"})
			return
		}
		product.DiscountValue = value
	}

	if url, handled := h.uploadImage(c); handled {
		return
	} else if url != "" {
		product.ImageURL = url
	}

	if err := h.DB.Create(&product).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Product with this name already exists"})
		return
	}

	h.ensureCategory(category)

	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var product models.Product
	if err := h.DB.First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	updates := map[string]interface{}{}
	if name := c.PostForm("name"); name != "" {
		updates["name"] = name
	}
	if category := c.PostForm("category"); category != "" {
		updates["category"] = category
		h.ensureCategory(category)
	}
	if priceStr := c.PostForm("price"); priceStr != "" {
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Price must be a non-negative number"})
			return
		}
		updates["price"] = price
	}
	if bs := c.PostForm("is_best_seller"); bs != "" {
		updates["is_best_seller"] = bs == "true"
	}
	if dt := c.PostForm("discount_type"); dt != "" {
		if dt != models.DiscountNone && dt != models.DiscountPercent && dt != models.DiscountFixed {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Discount type must be none, percent or fixed"})
			return
		}
		updates["discount_type"] = dt
	}
	if dv := c.PostForm("discount_value"); dv != "" {
		value, err := strconv.ParseFloat(dv, 64)
		if err != nil || value < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Discount value must be a non-negative number"})
			return
		}
		updates["discount_value"] = value
	}

	if url, handled := h.uploadImage(c); handled {
		return
	} else if url != "" {
		updates["image_url"] = url
	}

	if len(updates) > 0 {
		if err := h.DB.Model(&product).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a product. Cart rows pointing at it are purged first
// so no cart keeps a dangling reference; order items keep their frozen copy.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	var product models.Product
	if err := h.DB.First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	tx := h.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	if err := tx.Where("product_id = ?", product.ID).Delete(&models.CartItem{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}
	if err := tx.Delete(&product).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// uploadImage pushes an attached "image" file to storage and returns its URL.
// The second return value is true when a response has already been written
// (validation or upload failure); callers must stop then.
func (h *ProductHandler) uploadImage(c *gin.Context) (string, bool) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return "", false // no file attached
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

	url, err := h.Storage.UploadImage("products", file, fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
		return "", true
	}

	return url, false
}

// ensureCategory creates the category row if it is new. Failures are ignored:
// the unique index makes a concurrent create harmless.
func (h *ProductHandler) ensureCategory(name string) {
	if name == "" {
		return
	}
	var category models.Category
	if err := h.DB.Where("name = ?", name).First(&category).Error; err != nil {
		h.DB.Create(&models.Category{Name: name})
	}
}
