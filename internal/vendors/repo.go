package vendors

import (
	"context"
	"time"

	"github.com/ghbuys/marketplace-backend/pkg/db/models"
	"github.com/ghbuys/marketplace-backend/pkg/enums"
	"github.com/ghbuys/marketplace-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for vendors and their admins.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, vendor *models.Vendor) (*models.Vendor, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
	FindByHandle(ctx context.Context, handle string) (*models.Vendor, error)
	FindByEmail(ctx context.Context, email string) (*models.Vendor, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*VendorList, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	CreateAdmin(ctx context.Context, admin *models.VendorAdmin) error
	FindAdminByUserID(ctx context.Context, userID uuid.UUID) (*models.VendorAdmin, error)
	IncrementSales(ctx context.Context, id uuid.UUID, amountPesewas int64, orderCount int64) error
	CountByVerificationStatus(ctx context.Context) (map[enums.VendorVerificationStatus]int64, error)
}

// ListFilters describe the supported filter knobs for vendor listings.
type ListFilters struct {
	Region             string
	Category           string
	VerificationStatus *enums.VendorVerificationStatus
	VerifiedOnly       bool
	Query              string
}

// VendorList is one page of vendors plus the cursor for the next page.
type VendorList struct {
	Vendors    []models.Vendor
	NextCursor string
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a vendor repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, vendor *models.Vendor) (*models.Vendor, error) {
	if err := r.db.WithContext(ctx).Create(vendor).Error; err != nil {
		return nil, err
	}
	return vendor, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *repository) FindByHandle(ctx context.Context, handle string) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.WithContext(ctx).Where("handle = ?", handle).First(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters ListFilters) (*VendorList, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)
	if limitWithBuffer <= pageSize {
		limitWithBuffer = pageSize + 1
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).Model(&models.Vendor{})
	if filters.Region != "" {
		qb = qb.Where("region = ?", filters.Region)
	}
	if filters.Category != "" {
		qb = qb.Where("primary_category = ?", filters.Category)
	}
	if filters.VerificationStatus != nil {
		qb = qb.Where("verification_status = ?", *filters.VerificationStatus)
	}
	if filters.VerifiedOnly {
		qb = qb.Where("is_verified = ?", true)
	}
	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		qb = qb.Where("name ILIKE ? OR handle ILIKE ?", like, like)
	}
	if cursor != nil {
		qb = qb.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var vendors []models.Vendor
	err = qb.Order("created_at DESC, id DESC").
		Limit(limitWithBuffer).
		Find(&vendors).Error
	if err != nil {
		return nil, err
	}

	list := &VendorList{Vendors: vendors}
	if len(vendors) > pageSize {
		list.Vendors = vendors[:pageSize]
		last := list.Vendors[pageSize-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return list, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&models.Vendor{}).
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

func (r *repository) CreateAdmin(ctx context.Context, admin *models.VendorAdmin) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

func (r *repository) FindAdminByUserID(ctx context.Context, userID uuid.UUID) (*models.VendorAdmin, error) {
	var admin models.VendorAdmin
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at ASC").
		First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *repository) IncrementSales(ctx context.Context, id uuid.UUID, amountPesewas int64, orderCount int64) error {
	return r.db.WithContext(ctx).
		Model(&models.Vendor{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"total_sales_pesewas": gorm.Expr("total_sales_pesewas + ?", amountPesewas),
			"total_orders":        gorm.Expr("total_orders + ?", orderCount),
			"updated_at":          time.Now().UTC(),
		}).Error
}

func (r *repository) CountByVerificationStatus(ctx context.Context) (map[enums.VendorVerificationStatus]int64, error) {
	var rows []struct {
		VerificationStatus enums.VendorVerificationStatus
		Total              int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Vendor{}).
		Select("verification_status, COUNT(*) AS total").
		Group("verification_status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[enums.VendorVerificationStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.VerificationStatus] = row.Total
	}
	return counts, nil
}
