package handlers

import (
	"net/http"
	"strconv"

	"github.com/SokThavireak/sushi-store/models"
	"github.com/SokThavireak/sushi-store/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserHandler struct {
	DB *gorm.DB
}

var validRoles = map[string]bool{
	models.RoleAdmin:        true,
	models.RoleManager:      true,
	models.RoleStoreManager: true,
	models.RoleStaff:        true,
	models.RoleCashier:      true,
	models.RoleUser:         true,
}

func (h *UserHandler) GetUsers(c *gin.Context) {
	q := h.DB.Preload("AssignedLocation").Order("id ASC")
	if role := c.Query("role"); role != "" {
		q = q.Where("role = ?", role)
	}

	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, users)
}

// UpdateUser changes a user's role and location assignment. Store roles must
// carry a location; other roles have theirs cleared.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req struct {
		Name               string `json:"name"`
		Role               string `json:"role"`
		AssignedLocationID *uint  `json:"assigned_location_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var user models.User
	if err := h.DB.First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}

	role := user.Role
	if req.Role != "" {
		if !validRoles[req.Role] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role"})
			return
		}
		role = req.Role
		updates["role"] = role
	}

	if models.RoleNeedsLocation(role) {
		locationID := req.AssignedLocationID
		if locationID == nil {
			locationID = user.AssignedLocationID
		}
		if locationID == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "This role requires an assigned location"})
			return
		}
		var location models.Location
		if err := h.DB.First(&location, *locationID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Assigned location not found"})
			return
		}
		updates["assigned_location_id"] = *locationID
	} else {
		updates["assigned_location_id"] = nil
	}

	if err := h.DB.Model(&user).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User updated"})
}

// DeleteUser removes an account. Admins cannot delete themselves through
// this endpoint.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	p, _ := GetPrincipal(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}
	if !p.Superuser && p.UserID == uint(id) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot delete your own account here"})
		return
	}

	var user models.User
	if err := h.DB.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	tx := h.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	if err := tx.Where("user_id = ?", user.ID).Delete(&models.CartItem{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}
	if err := tx.Delete(&user).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// CreateStaff provisions a staff account with a role and, where the role
// demands one, a store assignment.
func (h *UserHandler) CreateStaff(c *gin.Context) {
	var req struct {
		Email              string `json:"email" binding:"required,email"`
		Password           string `json:"password" binding:"required,min=8"`
		Name               string `json:"name"`
		Role               string `json:"role" binding:"required"`
		AssignedLocationID *uint  `json:"assigned_location_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if !validRoles[req.Role] || req.Role == models.RoleUser {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown staff role"})
		return
	}

	if models.RoleNeedsLocation(req.Role) {
		if req.AssignedLocationID == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "This role requires an assigned location"})
			return
		}
		var location models.Location
		if err := h.DB.First(&location, *req.AssignedLocationID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Assigned location not found"})
			return
		}
	} else {
		req.AssignedLocationID = nil
	}

	var existing models.User
	if err := h.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Email:              req.Email,
		Password:           string(hashed),
		Name:               req.Name,
		Role:               req.Role,
		AssignedLocationID: req.AssignedLocationID,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":                   user.ID,
		"email":                user.Email,
		"role":                 user.Role,
		"assigned_location_id": user.AssignedLocationID,
	})
}
