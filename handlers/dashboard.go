package handlers

import (
	"net/http"
	"time"

	"github.com/SokThavireak/sushi-store/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	DB *gorm.DB
}

type statusCount struct {
	Status models.OrderStatus `json:"status"`
	Count  int64              `json:"count"`
}

type dailySales struct {
	Date    string  `json:"date"`
	Orders  int64   `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// GetDashboard aggregates the management overview: order counts, completed
// revenue, a 7-day sales series and the status breakdown. Everything respects
// the caller's location scope.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	p, _ := GetPrincipal(c)

	scope, err := ResolveScope(h.DB, p, c.Query("location"))
	if err != nil {
		respondScopeError(c, err)
		return
	}

	orders := func() *gorm.DB {
		return scope.Apply(h.DB.Model(&models.Order{}), "pickup_location")
	}

	var totalOrders int64
	orders().Count(&totalOrders)

	var pendingRequests int64
	orders().Where("status IN ?", []models.OrderStatus{
		models.OrderStatusCancelRequested,
		models.OrderStatusRefundRequested,
	}).Count(&pendingRequests)

	var revenue float64
	orders().Where("status = ?", models.OrderStatusCompleted).
		Select("COALESCE(SUM(total_price), 0)").Scan(&revenue)

	var breakdown []statusCount
	orders().Select("status, COUNT(*) as count").
		Group("status").Scan(&breakdown)

	since := time.Now().AddDate(0, 0, -6).Format("2006-01-02")
	var series []dailySales
	orders().Where("status = ? AND DATE(created_at) >= ?", models.OrderStatusCompleted, since).
		Select("DATE(created_at) as date, COUNT(*) as orders, COALESCE(SUM(total_price), 0) as revenue").
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&series)

	var totalProducts int64
	h.DB.Model(&models.Product{}).Count(&totalProducts)

	var pendingStock int64
	scope.Apply(h.DB.Model(&models.StockRequest{}), "location_name").
		Where("status = ?", models.StockRequestPending).Count(&pendingStock)

	c.JSON(http.StatusOK, gin.H{
		"total_orders":           totalOrders,
		"pending_requests":       pendingRequests,
		"completed_revenue":      revenue,
		"status_breakdown":       breakdown,
		"sales_last_7_days":      series,
		"total_products":         totalProducts,
		"pending_stock_requests": pendingStock,
	})
}

// GetReports returns per-date sales figures for completed orders, optionally
// bounded by from/to dates (YYYY-MM-DD).
func (h *DashboardHandler) GetReports(c *gin.Context) {
	p, _ := GetPrincipal(c)

	scope, err := ResolveScope(h.DB, p, c.Query("location"))
	if err != nil {
		respondScopeError(c, err)
		return
	}

	q := scope.Apply(h.DB.Model(&models.Order{}), "pickup_location").
		Where("status = ?", models.OrderStatusCompleted)
	if from := c.Query("from"); from != "" {
		q = q.Where("DATE(created_at) >= ?", from)
	}
	if to := c.Query("to"); to != "" {
		q = q.Where("DATE(created_at) <= ?", to)
	}

	var rows []dailySales
	if err := q.Select("DATE(created_at) as date, COUNT(*) as orders, COALESCE(SUM(total_price), 0) as revenue").
		Group("DATE(created_at)").
		Order("date DESC").
		Scan(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		return
	}

	c.JSON(http.StatusOK, rows)
}
