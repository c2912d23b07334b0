package payments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ghbuys/marketplace-backend/pkg/db/models"
	"github.com/ghbuys/marketplace-backend/pkg/enums"
	"github.com/ghbuys/marketplace-backend/pkg/pagination"
)

// Repository defines persistence operations for payments.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	FindByReference(ctx context.Context, reference string) (*models.Payment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*PaymentList, error)
	FindStalePendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Payment, error)
	SuccessfulTotals(ctx context.Context) (count int64, amountPesewas int64, err error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

// ListFilters describe the supported filter knobs for payment history.
type ListFilters struct {
	OrderID *uuid.UUID
	Status  *enums.PaymentStatus
	Method  *enums.PaymentMethod
	Email   string
}

// PaymentList is one page of payments plus the cursor for the next page.
type PaymentList struct {
	Payments   []models.Payment
	NextCursor string
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a payments repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *repository) FindByReference(ctx context.Context, reference string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters ListFilters) (*PaymentList, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)
	if limitWithBuffer <= pageSize {
		limitWithBuffer = pageSize + 1
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).Model(&models.Payment{})
	if filters.OrderID != nil {
		qb = qb.Where("order_id = ?", *filters.OrderID)
	}
	if filters.Status != nil {
		qb = qb.Where("status = ?", *filters.Status)
	}
	if filters.Method != nil {
		qb = qb.Where("method = ?", *filters.Method)
	}
	if filters.Email != "" {
		qb = qb.Where("email = ?", filters.Email)
	}
	if cursor != nil {
		qb = qb.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Payment
	err = qb.Order("created_at DESC, id DESC").
		Limit(limitWithBuffer).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	list := &PaymentList{Payments: rows}
	if len(rows) > pageSize {
		list.Payments = rows[:pageSize]
		last := list.Payments[pageSize-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return list, nil
}

// FindStalePendingBefore returns pending payments created before the cutoff,
// oldest first, so the reconcile sweep can confirm them against the gateway.
func (r *repository) FindStalePendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Payment, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []models.Payment
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", enums.PaymentStatusPending, cutoff).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SuccessfulTotals returns the number of successful payments and the sum of
// their amounts in pesewas.
func (r *repository) SuccessfulTotals(ctx context.Context) (int64, int64, error) {
	var row struct {
		Total  int64
		Amount int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Select("COUNT(*) AS total, COALESCE(SUM(amount_pesewas), 0) AS amount").
		Where("status = ?", enums.PaymentStatusSuccessful).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Total, row.Amount, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
