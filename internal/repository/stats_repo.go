package repository

import (
	"context"

	"cleanmarket/internal/domain"

	"gorm.io/gorm"
)

// StatsRepository computes the admin dashboard rollups. Every method is
// an independent query against current state; the counts are not taken
// inside one transaction on purpose.
type StatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

type labelCount struct {
	Label string `gorm:"column:label"`
	Count int64  `gorm:"column:count"`
}

func (r *StatsRepository) CountUsersByRole(ctx context.Context) (map[string]int64, error) {
	var rows []labelCount
	tx := r.db.WithContext(ctx).
		Raw("SELECT role AS label, COUNT(1) AS count FROM users GROUP BY role").
		Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Label] = row.Count
	}
	return out, nil
}

func (r *StatsRepository) CountBookingsByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []labelCount
	tx := r.db.WithContext(ctx).
		Raw("SELECT status AS label, COUNT(1) AS count FROM bookings GROUP BY status").
		Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Label] = row.Count
	}
	return out, nil
}

func (r *StatsRepository) CountCleanersByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []labelCount
	tx := r.db.WithContext(ctx).
		Raw("SELECT status AS label, COUNT(1) AS count FROM users WHERE role = ? GROUP BY status",
			string(domain.RoleCleaner)).
		Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Label] = row.Count
	}
	return out, nil
}

// RevenueCompleted sums total_price over completed bookings.
func (r *StatsRepository) RevenueCompleted(ctx context.Context) (float64, error) {
	var total float64
	tx := r.db.WithContext(ctx).
		Raw("SELECT COALESCE(SUM(total_price), 0) FROM bookings WHERE status = ?",
			string(domain.BookingCompleted)).
		Scan(&total)
	return total, tx.Error
}

type ServiceRevenue struct {
	ServiceID   int64   `gorm:"column:service_id" json:"service_id"`
	ServiceName string  `gorm:"column:service_name" json:"service_name"`
	Revenue     float64 `gorm:"column:revenue" json:"revenue"`
}

func (r *StatsRepository) RevenueByService(ctx context.Context) ([]ServiceRevenue, error) {
	var rows []ServiceRevenue
	tx := r.db.WithContext(ctx).
		Raw(`
SELECT s.id AS service_id, s.name AS service_name, COALESCE(SUM(b.total_price), 0) AS revenue
FROM services s
LEFT JOIN bookings b ON b.service_id = s.id AND b.status = ?
GROUP BY s.id, s.name
ORDER BY s.id`, string(domain.BookingCompleted)).
		Scan(&rows)
	return rows, tx.Error
}
