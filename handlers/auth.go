package handlers

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/SokThavireak/sushi-store/models"
	"github.com/SokThavireak/sushi-store/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthHandler struct {
	DB *gorm.DB
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		Name     string `json:"name"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var existingUser models.User
	if err := h.DB.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Email:    req.Email,
		Password: string(hashedPassword),
		Name:     req.Name,
		Role:     models.RoleUser,
	}

	if err := h.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	token, err := utils.GenerateToken(models.Principal{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	// Send welcome email (non-blocking)
	utils.SendWelcomeEmail(user.Email, user.Name)

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
		},
	})
}

// superuserPrincipal checks the credentials against the ADMIN_EMAIL /
// ADMIN_PASSWORD environment lists. Matching entries become environment
// superusers: admin-role principals with no row in the users table.
func superuserPrincipal(email, password string) (models.Principal, bool) {
	emails := splitEnvList(os.Getenv("ADMIN_EMAIL"))
	passwords := splitEnvList(os.Getenv("ADMIN_PASSWORD"))

	for i, adminEmail := range emails {
		if adminEmail == email && i < len(passwords) && passwords[i] == password {
			return models.Principal{
				Email:     email,
				Role:      models.RoleAdmin,
				Superuser: true,
				Label:     fmt.Sprintf("env-admin-%d", i),
			}, true
		}
	}
	return models.Principal{}, false
}

func splitEnvList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	// Environment superusers are checked before the database so the system is
	// administrable even with an empty users table.
	if p, ok := superuserPrincipal(req.Email, req.Password); ok {
		token, err := utils.GenerateToken(p)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"token": token,
			"user": gin.H{
				"email":     p.Email,
				"role":      p.Role,
				"superuser": true,
			},
		})
		return
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := utils.GenerateToken(models.Principal{
		UserID:             user.ID,
		Email:              user.Email,
		Role:               user.Role,
		AssignedLocationID: user.AssignedLocationID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":                   user.ID,
			"email":                user.Email,
			"name":                 user.Name,
			"role":                 user.Role,
			"assigned_location_id": user.AssignedLocationID,
		},
	})
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	p, _ := GetPrincipal(c)

	if p.Superuser {
		c.JSON(http.StatusOK, gin.H{
			"email":     p.Email,
			"role":      p.Role,
			"superuser": true,
			"label":     p.Label,
		})
		return
	}

	var user models.User
	if err := h.DB.Preload("AssignedLocation").First(&user, p.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	p, _ := GetPrincipal(c)
	userID, err := p.AccountID()
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Superuser accounts cannot be edited"})
		return
	}

	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	updates := map[string]interface{}{"email": req.Email}
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		updates["password"] = string(hashed)
	}

	if err := h.DB.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
}

// DeleteAccount removes the caller's own account. Cart rows are purged first;
// orders are kept for history.
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	p, _ := GetPrincipal(c)
	userID, err := p.AccountID()
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Superuser accounts cannot be deleted"})
		return
	}

	if err := h.DB.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete account"})
		return
	}

	if err := h.DB.Delete(&models.User{}, userID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}
