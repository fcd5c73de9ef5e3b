package repository

import (
	"context"
	"time"

	"cleanmarket/internal/domain"

	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	CustomerID   int64     `gorm:"column:customer_id;index"`
	CleanerID    *int64    `gorm:"column:cleaner_id;index"`
	ServiceID    int64     `gorm:"column:service_id"`
	AreaSizeID   int64     `gorm:"column:area_size_id"`
	TimeSlotID   int64     `gorm:"column:time_slot_id"`
	BookingDate  time.Time `gorm:"column:booking_date"`
	Address      string    `gorm:"column:address"`
	ContactName  string    `gorm:"column:contact_name"`
	ContactPhone string    `gorm:"column:contact_phone"`
	Notes        *string   `gorm:"column:notes;type:text"`
	TotalPrice   float64   `gorm:"column:total_price"`
	Status       string    `gorm:"column:status;index"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	var notes string
	if m.Notes != nil {
		notes = *m.Notes
	}

	return &domain.Booking{
		ID:           m.ID,
		CustomerID:   m.CustomerID,
		CleanerID:    m.CleanerID,
		ServiceID:    m.ServiceID,
		AreaSizeID:   m.AreaSizeID,
		TimeSlotID:   m.TimeSlotID,
		BookingDate:  m.BookingDate,
		Address:      m.Address,
		ContactName:  m.ContactName,
		ContactPhone: m.ContactPhone,
		Notes:        notes,
		TotalPrice:   m.TotalPrice,
		Status:       domain.BookingStatus(m.Status),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	var notes *string
	if b.Notes != "" {
		v := b.Notes
		notes = &v
	}

	return bookingModel{
		ID:           b.ID,
		CustomerID:   b.CustomerID,
		CleanerID:    b.CleanerID,
		ServiceID:    b.ServiceID,
		AreaSizeID:   b.AreaSizeID,
		TimeSlotID:   b.TimeSlotID,
		BookingDate:  b.BookingDate,
		Address:      b.Address,
		ContactName:  b.ContactName,
		ContactPhone: b.ContactPhone,
		Notes:        notes,
		TotalPrice:   b.TotalPrice,
		Status:       string(b.Status),
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

// BookingDetails is a booking row joined with the display names the
// listing endpoints return.
type BookingDetails struct {
	ID            int64     `gorm:"column:id" json:"id"`
	Status        string    `gorm:"column:status" json:"status"`
	BookingDate   time.Time `gorm:"column:booking_date" json:"booking_date"`
	Address       string    `gorm:"column:address" json:"address"`
	ContactName   string    `gorm:"column:contact_name" json:"contact_name"`
	ContactPhone  string    `gorm:"column:contact_phone" json:"contact_phone"`
	Notes         string    `gorm:"column:notes" json:"notes,omitempty"`
	TotalPrice    float64   `gorm:"column:total_price" json:"total_price"`
	CustomerID    int64     `gorm:"column:customer_id" json:"customer_id"`
	CustomerName  string    `gorm:"column:customer_name" json:"customer_name"`
	CleanerID     *int64    `gorm:"column:cleaner_id" json:"cleaner_id,omitempty"`
	CleanerName   *string   `gorm:"column:cleaner_name" json:"cleaner_name,omitempty"`
	ServiceID     int64     `gorm:"column:service_id" json:"service_id"`
	ServiceName   string    `gorm:"column:service_name" json:"service_name"`
	AreaSizeID    int64     `gorm:"column:area_size_id" json:"area_size_id"`
	AreaSizeName  string    `gorm:"column:area_size_name" json:"area_size_name"`
	TimeSlotID    int64     `gorm:"column:time_slot_id" json:"time_slot_id"`
	TimeSlotRange string    `gorm:"column:time_slot_range" json:"time_slot_range"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at" json:"updated_at"`
}

const detailsSelect = `
SELECT b.id, b.status, b.booking_date, b.address, b.contact_name, b.contact_phone,
       COALESCE(b.notes, '') AS notes, b.total_price,
       b.customer_id, cu.name AS customer_name,
       b.cleaner_id, cl.name AS cleaner_name,
       b.service_id, s.name AS service_name,
       b.area_size_id, a.name AS area_size_name,
       b.time_slot_id, t.time_range AS time_slot_range,
       b.created_at, b.updated_at
FROM bookings b
JOIN users cu ON cu.id = b.customer_id
LEFT JOIN users cl ON cl.id = b.cleaner_id
JOIN services s ON s.id = b.service_id
JOIN area_sizes a ON a.id = b.area_size_id
JOIN time_slots t ON t.id = b.time_slot_id
`

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

func (r *BookingRepository) GetDetails(ctx context.Context, id int64) (*BookingDetails, error) {
	var d BookingDetails
	tx := r.db.WithContext(ctx).Raw(detailsSelect+"WHERE b.id = ?", id).Scan(&d)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &d, nil
}

func (r *BookingRepository) GetDetailsForCustomer(ctx context.Context, id, customerID int64) (*BookingDetails, error) {
	var d BookingDetails
	tx := r.db.WithContext(ctx).
		Raw(detailsSelect+"WHERE b.id = ? AND b.customer_id = ?", id, customerID).
		Scan(&d)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &d, nil
}

func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID int64, status string) ([]BookingDetails, error) {
	q := detailsSelect + "WHERE b.customer_id = ?"
	args := []any{customerID}
	if status != "" {
		q += " AND b.status = ?"
		args = append(args, status)
	}
	q += " ORDER BY b.created_at DESC"

	var rows []BookingDetails
	tx := r.db.WithContext(ctx).Raw(q, args...).Scan(&rows)
	return rows, tx.Error
}

func (r *BookingRepository) ListByCleaner(ctx context.Context, cleanerID int64, status string) ([]BookingDetails, error) {
	q := detailsSelect + "WHERE b.cleaner_id = ?"
	args := []any{cleanerID}
	if status != "" {
		q += " AND b.status = ?"
		args = append(args, status)
	}
	q += " ORDER BY b.booking_date ASC"

	var rows []BookingDetails
	tx := r.db.WithContext(ctx).Raw(q, args...).Scan(&rows)
	return rows, tx.Error
}

// ListAvailable returns pending, unclaimed bookings, earliest date first.
func (r *BookingRepository) ListAvailable(ctx context.Context) ([]BookingDetails, error) {
	q := detailsSelect + "WHERE b.status = ? AND b.cleaner_id IS NULL ORDER BY b.booking_date ASC"

	var rows []BookingDetails
	tx := r.db.WithContext(ctx).Raw(q, string(domain.BookingPending)).Scan(&rows)
	return rows, tx.Error
}

func (r *BookingRepository) ListAll(ctx context.Context, status string) ([]BookingDetails, error) {
	q := detailsSelect
	args := []any{}
	if status != "" {
		q += "WHERE b.status = ?"
		args = append(args, status)
	}
	q += " ORDER BY b.created_at DESC"

	var rows []BookingDetails
	tx := r.db.WithContext(ctx).Raw(q, args...).Scan(&rows)
	return rows, tx.Error
}

// Claim assigns the booking to the cleaner with a single conditional
// update. RowsAffected is 0 when the booking was already claimed or is
// not pending, which is how concurrent claimers lose.
func (r *BookingRepository) Claim(ctx context.Context, bookingID, cleanerID int64) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ? AND status = ? AND cleaner_id IS NULL", bookingID, string(domain.BookingPending)).
		Updates(map[string]any{
			"cleaner_id": cleanerID,
			"status":     string(domain.BookingConfirmed),
			"updated_at": time.Now(),
		})
	return tx.RowsAffected, tx.Error
}

// UpdateStatusForCleaner advances status only while the row still holds
// the expected current status and belongs to the acting cleaner.
func (r *BookingRepository) UpdateStatusForCleaner(ctx context.Context, bookingID, cleanerID int64, from, to domain.BookingStatus) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ? AND cleaner_id = ? AND status = ?", bookingID, cleanerID, string(from)).
		Updates(map[string]any{
			"status":     string(to),
			"updated_at": time.Now(),
		})
	return tx.RowsAffected, tx.Error
}

// CancelPendingForCustomer cancels the customer's own booking, but only
// while it is still pending.
func (r *BookingRepository) CancelPendingForCustomer(ctx context.Context, bookingID, customerID int64) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ? AND customer_id = ? AND status = ?", bookingID, customerID, string(domain.BookingPending)).
		Updates(map[string]any{
			"status":     string(domain.BookingCancelled),
			"updated_at": time.Now(),
		})
	return tx.RowsAffected, tx.Error
}

// ForceStatus sets the status unconditionally. Admin escape hatch; the
// cleaner transition table does not apply here.
func (r *BookingRepository) ForceStatus(ctx context.Context, bookingID int64, status domain.BookingStatus) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ?", bookingID).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": time.Now(),
		})
	return tx.RowsAffected, tx.Error
}

// BookingStats is a per-caller dashboard rollup. Each field comes from
// its own query; the spec does not ask for cross-count consistency.
type BookingStats struct {
	Total      int64   `json:"total"`
	Pending    int64   `json:"pending"`
	Confirmed  int64   `json:"confirmed"`
	InProgress int64   `json:"in_progress"`
	Completed  int64   `json:"completed"`
	Cancelled  int64   `json:"cancelled"`
	TotalValue float64 `json:"total_value"`
}

type statusCount struct {
	Status string `gorm:"column:status"`
	Count  int64  `gorm:"column:count"`
}

func (r *BookingRepository) statsWhere(ctx context.Context, column string, id int64) (*BookingStats, error) {
	var counts []statusCount
	tx := r.db.WithContext(ctx).
		Raw("SELECT status, COUNT(1) AS count FROM bookings WHERE "+column+" = ? GROUP BY status", id).
		Scan(&counts)
	if tx.Error != nil {
		return nil, tx.Error
	}

	stats := &BookingStats{}
	for _, c := range counts {
		stats.Total += c.Count
		switch domain.BookingStatus(c.Status) {
		case domain.BookingPending:
			stats.Pending = c.Count
		case domain.BookingConfirmed:
			stats.Confirmed = c.Count
		case domain.BookingInProgress:
			stats.InProgress = c.Count
		case domain.BookingCompleted:
			stats.Completed = c.Count
		case domain.BookingCancelled:
			stats.Cancelled = c.Count
		}
	}

	var total float64
	tx = r.db.WithContext(ctx).
		Raw("SELECT COALESCE(SUM(total_price), 0) FROM bookings WHERE "+column+" = ? AND status = ?",
			id, string(domain.BookingCompleted)).
		Scan(&total)
	if tx.Error != nil {
		return nil, tx.Error
	}
	stats.TotalValue = total

	return stats, nil
}

func (r *BookingRepository) CustomerStats(ctx context.Context, customerID int64) (*BookingStats, error) {
	return r.statsWhere(ctx, "customer_id", customerID)
}

func (r *BookingRepository) CleanerStats(ctx context.Context, cleanerID int64) (*BookingStats, error) {
	return r.statsWhere(ctx, "cleaner_id", cleanerID)
}
