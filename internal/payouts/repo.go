package payouts

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ghbuys/marketplace-backend/pkg/db/models"
	"github.com/ghbuys/marketplace-backend/pkg/enums"
	"github.com/ghbuys/marketplace-backend/pkg/pagination"
)

// Repository defines persistence operations for vendor payouts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateIfAbsent(ctx context.Context, payout *models.VendorPayout) (bool, error)
	FindByReference(ctx context.Context, reference string) (*models.VendorPayout, error)
	FindQueued(ctx context.Context, limit int) ([]models.VendorPayout, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*PayoutList, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

// ListFilters describe the supported filter knobs for payout listings.
type ListFilters struct {
	VendorID *uuid.UUID
	Status   *enums.PayoutStatus
}

// PayoutList is one page of payouts plus the cursor for the next page.
type PayoutList struct {
	Payouts    []models.VendorPayout
	NextCursor string
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a payouts repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// CreateIfAbsent inserts the payout unless its reference already exists.
// Returns false when the row was already there, which is how replayed webhook
// deliveries are absorbed.
func (r *repository) CreateIfAbsent(ctx context.Context, payout *models.VendorPayout) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "reference"}},
			DoNothing: true,
		}).
		Create(payout)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) FindByReference(ctx context.Context, reference string) (*models.VendorPayout, error) {
	var payout models.VendorPayout
	if err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&payout).Error; err != nil {
		return nil, err
	}
	return &payout, nil
}

func (r *repository) FindQueued(ctx context.Context, limit int) ([]models.VendorPayout, error) {
	var rows []models.VendorPayout
	err := r.db.WithContext(ctx).
		Where("status = ?", enums.PayoutStatusQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters ListFilters) (*PayoutList, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)
	if limitWithBuffer <= pageSize {
		limitWithBuffer = pageSize + 1
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).Model(&models.VendorPayout{})
	if filters.VendorID != nil {
		qb = qb.Where("vendor_id = ?", *filters.VendorID)
	}
	if filters.Status != nil {
		qb = qb.Where("status = ?", *filters.Status)
	}
	if cursor != nil {
		qb = qb.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.VendorPayout
	err = qb.Order("created_at DESC, id DESC").
		Limit(limitWithBuffer).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	list := &PayoutList{Payouts: rows}
	if len(rows) > pageSize {
		list.Payouts = rows[:pageSize]
		last := list.Payouts[pageSize-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return list, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&models.VendorPayout{}).
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
