package products

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ghbuys/marketplace-backend/pkg/db/models"
	"github.com/ghbuys/marketplace-backend/pkg/enums"
	pkgerrors "github.com/ghbuys/marketplace-backend/pkg/errors"
	"github.com/ghbuys/marketplace-backend/pkg/pagination"
)

const slugMaxLen = 80

// Service defines vendor catalog operations.
type Service interface {
	Create(ctx context.Context, vendorID uuid.UUID, input CreateInput) (*ProductSummary, error)
	Update(ctx context.Context, vendorID, productID uuid.UUID, input UpdateInput) (*ProductSummary, error)
	GetBySlug(ctx context.Context, slug string) (*ProductSummary, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*ProductList, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID, params pagination.Params) (*ProductList, error)
}

type service struct {
	repo Repository
}

// NewService wires catalog dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, vendorID uuid.UUID, input CreateInput) (*ProductSummary, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}

	slug := GenerateSlug(input.Name)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name produces an empty slug")
	}

	status := enums.ProductStatusDraft
	if input.Publish {
		status = enums.ProductStatusPublished
	}

	product := &models.Product{
		VendorID:     vendorID,
		Name:         strings.TrimSpace(input.Name),
		Slug:         slug,
		Description:  input.Description,
		Category:     input.Category,
		Subcategory:  input.Subcategory,
		SKU:          strings.TrimSpace(input.SKU),
		PricePesewas: input.PricePesewas,
		Currency:     enums.CurrencyGHS,
		Inventory:    input.Inventory,
		Status:       status,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	summary := NewProductSummary(created)
	return &summary, nil
}

func (s *service) Update(ctx context.Context, vendorID, productID uuid.UUID, input UpdateInput) (*ProductSummary, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err == gorm.ErrRecordNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup product")
	}
	if product.VendorID != vendorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another vendor")
	}

	updates := map[string]any{"updated_at": time.Now().UTC()}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Category != nil {
		updates["category"] = *input.Category
	}
	if input.Subcategory != nil {
		updates["subcategory"] = *input.Subcategory
	}
	if input.PricePesewas != nil {
		updates["price_pesewas"] = *input.PricePesewas
	}
	if input.Inventory != nil {
		updates["inventory"] = *input.Inventory
	}
	if input.Status != nil {
		status, perr := enums.ParseProductStatus(*input.Status)
		if perr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, perr, "product status")
		}
		updates["status"] = status
	}

	if err := s.repo.Update(ctx, productID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	updated, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload product")
	}

	summary := NewProductSummary(updated)
	return &summary, nil
}

// GetBySlug serves the public detail page. Draft and archived listings are
// hidden from it.
func (s *service) GetBySlug(ctx context.Context, slug string) (*ProductSummary, error) {
	product, err := s.repo.FindBySlug(ctx, strings.TrimSpace(slug))
	if err == gorm.ErrRecordNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup product by slug")
	}
	if product.Status != enums.ProductStatusPublished {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	summary := NewProductSummary(product)
	return &summary, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ListFilters) (*ProductList, error) {
	filters.PublishedOnly = true
	filters.VendorID = nil
	filters.Status = nil

	rows, nextCursor, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, err
	}
	return buildProductList(rows, nextCursor), nil
}

func (s *service) ListByVendor(ctx context.Context, vendorID uuid.UUID, params pagination.Params) (*ProductList, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}

	rows, nextCursor, err := s.repo.List(ctx, params, ListFilters{VendorID: &vendorID})
	if err != nil {
		return nil, err
	}
	return buildProductList(rows, nextCursor), nil
}

func buildProductList(rows []models.Product, nextCursor string) *ProductList {
	list := &ProductList{
		Products:   make([]ProductSummary, 0, len(rows)),
		NextCursor: nextCursor,
	}
	for i := range rows {
		list.Products = append(list.Products, NewProductSummary(&rows[i]))
	}
	return list
}

var slugStripPattern = regexp.MustCompile(`[^a-z0-9\s-]`)

// GenerateSlug lowercases the product name and appends a base36 timestamp so
// two listings with the same name never collide.
func GenerateSlug(name string) string {
	slug := strings.ToLower(name)
	slug = slugStripPattern.ReplaceAllString(slug, "")
	slug = strings.Join(strings.Fields(slug), "-")
	if len(slug) > slugMaxLen {
		slug = slug[:slugMaxLen]
	}
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return ""
	}
	return slug + "-" + strconv.FormatInt(time.Now().UnixMilli(), 36)
}
