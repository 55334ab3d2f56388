package services

import (
	"context"
	"time"

	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PopularItemsLimit caps the topping popularity ranking
const PopularItemsLimit = 10

// ReportService aggregates the admin dashboard figures
type ReportService interface {
	GetOrderStats(ctx context.Context) (*models.OrderStats, error)
	GetPopularItems(ctx context.Context) ([]models.PopularItem, error)
}

type reportService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewReportService(db *gorm.DB) ReportService {
	return &reportService{db: db, now: time.Now}
}

// GetOrderStats counts every order, the open ones, and sums today's paid
// totals. "Today" starts at UTC midnight.
func (s *reportService) GetOrderStats(ctx context.Context) (*models.OrderStats, error) {
	db := s.db.WithContext(ctx)
	stats := &models.OrderStats{TodayRevenue: models.NewMoney(decimal.Zero)}

	if err := db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, classify("count orders", "Order", nil, err)
	}
	if err := db.Model(&models.Order{}).Where("status IN ?", models.PendingStatuses()).Count(&stats.PendingOrders).Error; err != nil {
		return nil, classify("count pending orders", "Order", nil, err)
	}

	now := s.now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	var totals []models.Money
	err := db.Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ?", start, start.AddDate(0, 0, 1)).
		Where("payment_status = ?", models.PaymentCompleted).
		Pluck("total_amount", &totals).Error
	if err != nil {
		return nil, classify("sum revenue", "Order", nil, err)
	}
	for _, t := range totals {
		stats.TodayRevenue = stats.TodayRevenue.Add(t)
	}
	return stats, nil
}

// GetPopularItems ranks toppings by how many order items selected them
func (s *reportService) GetPopularItems(ctx context.Context) ([]models.PopularItem, error) {
	items := []models.PopularItem{}
	err := s.db.WithContext(ctx).
		Table("order_item_toppings").
		Select("toppings.name AS name, COUNT(*) AS order_count").
		Joins("JOIN toppings ON toppings.id = order_item_toppings.topping_id").
		Group("toppings.name").
		Order("order_count DESC").
		Limit(PopularItemsLimit).
		Scan(&items).Error
	if err != nil {
		return nil, classify("popular items", models.KindTopping.Label(), nil, err)
	}
	return items, nil
}
