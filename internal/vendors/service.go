package vendors

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ghbuys/marketplace-backend/internal/users"
	"github.com/ghbuys/marketplace-backend/pkg/config"
	"github.com/ghbuys/marketplace-backend/pkg/db"
	"github.com/ghbuys/marketplace-backend/pkg/db/models"
	"github.com/ghbuys/marketplace-backend/pkg/enums"
	pkgerrors "github.com/ghbuys/marketplace-backend/pkg/errors"
	"github.com/ghbuys/marketplace-backend/pkg/logger"
	"github.com/ghbuys/marketplace-backend/pkg/pagination"
	"github.com/ghbuys/marketplace-backend/pkg/security"
)

const (
	handleMaxLen      = 50
	tempPasswordLen   = 12
	minVerifyNotesLen = 10
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Mailer builds and dispatches vendor lifecycle emails.
type Mailer interface {
	VendorWelcome(ctx context.Context, vendor *models.Vendor, contact ContactPerson) error
	AdminVendorAlert(ctx context.Context, vendor *models.Vendor) error
	VendorApproved(ctx context.Context, vendor *models.Vendor, email, tempPassword string) error
	VendorRejected(ctx context.Context, vendor *models.Vendor, notes string, requirements []string) error
	VendorSuspended(ctx context.Context, vendor *models.Vendor, notes string) error
}

// Service defines vendor application, lookup, and verification operations.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*RegisterResult, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
	GetByHandle(ctx context.Context, handle string) (*models.Vendor, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*VendorList, error)
	ListPending(ctx context.Context, params pagination.Params) (*VendorList, error)
	Verify(ctx context.Context, input VerifyInput) (*VerifyResult, error)
}

// ServiceParams carries the vendor service dependencies.
type ServiceParams struct {
	Repo              Repository
	Users             users.Repository
	TransactionRunner txRunner
	Mailer            Mailer
	PasswordConfig    config.PasswordConfig
	Logger            *logger.Logger
}

type service struct {
	repo     Repository
	users    users.Repository
	tx       txRunner
	mailer   Mailer
	password config.PasswordConfig
	logger   *logger.Logger
}

// NewService wires vendor dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "vendors repository required")
	}
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user store required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.Mailer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "mailer required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &service{
		repo:     params.Repo,
		users:    params.Users,
		tx:       params.TransactionRunner,
		mailer:   params.Mailer,
		password: params.PasswordConfig,
		logger:   params.Logger,
	}, nil
}

var registrationNextSteps = []string{
	"Check your email for welcome message and verification instructions",
	"Our team will review your application within 2-3 business days",
	"You will receive an email notification once your account is approved",
	"After approval, you can access your vendor dashboard to start adding products",
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	if !input.TermsAccepted || !input.PrivacyAccepted {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "terms and privacy policy must be accepted")
	}

	handle := GenerateHandle(input.Name)
	if handle == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "business name produces an empty handle")
	}

	var vendor *models.Vendor
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		userRepo := s.users.WithTx(tx)

		if _, err := repo.FindByEmail(ctx, input.BusinessEmail); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "a vendor with this email already exists")
		} else if err != gorm.ErrRecordNotFound {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup vendor by email")
		}

		owner, err := userRepo.FindByEmail(ctx, input.ContactPerson.Email)
		if err == gorm.ErrRecordNotFound {
			owner, err = s.createOwnerUser(ctx, userRepo, input.ContactPerson)
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve vendor owner")
		}

		var momoProvider *enums.MomoProvider
		if input.MomoProvider != nil {
			parsed, perr := enums.ParseMomoProvider(*input.MomoProvider)
			if perr != nil {
				return pkgerrors.Wrap(pkgerrors.CodeValidation, perr, "mobile money provider")
			}
			momoProvider = &parsed
		}

		vendor = &models.Vendor{
			UserID:               owner.ID,
			Handle:               handle,
			Name:                 input.Name,
			Description:          input.Description,
			Phone:                input.BusinessPhone,
			Email:                input.BusinessEmail,
			BusinessRegistration: &input.BusinessRegistration,
			TaxIdentification:    input.TaxIdentification,
			VATNumber:            input.VATNumber,
			Region:               input.Region,
			City:                 input.City,
			Address:              input.Address,
			GhanaPostGPS:         input.GhanaPostGPS,
			PrimaryCategory:      input.PrimaryCategory,
			SecondaryCategories:  input.SecondaryCategories,
			DeliveryZones:        input.DeliveryZones,
			BankName:             &input.BankName,
			BankAccountNumber:    &input.BankAccountNumber,
			BankAccountName:      &input.BankAccountName,
			MomoNumber:           input.MomoNumber,
			MomoProvider:         momoProvider,
			VerificationStatus:   enums.VendorVerificationPending,
			IsVerified:           false,
			IsActive:             false,
		}
		if _, err := repo.Create(ctx, vendor); err != nil {
			if db.IsUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "a vendor with similar name already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create vendor")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.logger.WithVendorID(ctx, vendor.ID.String())
	if mailErr := s.mailer.VendorWelcome(ctx, vendor, input.ContactPerson); mailErr != nil {
		s.logger.Error(logCtx, "vendor welcome email failed", mailErr)
	}
	if mailErr := s.mailer.AdminVendorAlert(ctx, vendor); mailErr != nil {
		s.logger.Error(logCtx, "admin vendor alert failed", mailErr)
	}

	return &RegisterResult{
		Vendor:    SummaryOf(vendor),
		NextSteps: registrationNextSteps,
	}, nil
}

func (s *service) createOwnerUser(ctx context.Context, userRepo users.Repository, contact ContactPerson) (*models.User, error) {
	tempPassword, err := security.GenerateTempPassword(tempPasswordLen)
	if err != nil {
		return nil, fmt.Errorf("generate owner password: %w", err)
	}
	hash, err := security.HashPassword(tempPassword, s.password)
	if err != nil {
		return nil, fmt.Errorf("hash owner password: %w", err)
	}
	phone := contact.Phone
	return userRepo.Create(ctx, &models.User{
		Email:        contact.Email,
		PasswordHash: hash,
		FirstName:    contact.FirstName,
		LastName:     contact.LastName,
		Phone:        &phone,
		Role:         enums.UserRoleCustomer,
	})
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}
	vendor, err := s.repo.FindByID(ctx, id)
	if err == gorm.ErrRecordNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}
	return vendor, nil
}

func (s *service) GetByHandle(ctx context.Context, handle string) (*models.Vendor, error) {
	if handle == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor handle required")
	}
	vendor, err := s.repo.FindByHandle(ctx, handle)
	if err == gorm.ErrRecordNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}
	return vendor, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ListFilters) (*VendorList, error) {
	filters.VerifiedOnly = true
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendors")
	}
	return list, nil
}

func (s *service) ListPending(ctx context.Context, params pagination.Params) (*VendorList, error) {
	pending := enums.VendorVerificationPending
	list, err := s.repo.List(ctx, params, ListFilters{VerificationStatus: &pending})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending vendors")
	}
	return list, nil
}

func (s *service) Verify(ctx context.Context, input VerifyInput) (*VerifyResult, error) {
	if input.VendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}
	if !input.Status.IsDecision() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "status must be approved, rejected, or suspended")
	}
	if len(strings.TrimSpace(input.Notes)) < minVerifyNotesLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "verification notes are required (minimum 10 characters)")
	}

	var (
		vendor       *models.Vendor
		tempPassword string
		adminEmail   string
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		found, err := repo.FindByID(ctx, input.VendorID)
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
		}
		vendor = found

		now := time.Now().UTC()
		updates := map[string]any{
			"verification_status": input.Status,
			"verification_notes":  input.Notes,
		}
		switch input.Status {
		case enums.VendorVerificationApproved:
			updates["is_verified"] = true
			updates["is_active"] = true
			updates["verified_at"] = now
			vendor.VerifiedAt = &now
			tempPassword, adminEmail, err = s.provisionVendorAdmin(ctx, tx, vendor, input.ActorUserID)
			if err != nil {
				return err
			}
		case enums.VendorVerificationRejected:
			updates["is_verified"] = false
			updates["is_active"] = false
		case enums.VendorVerificationSuspended:
			updates["is_active"] = false
		}
		if err := repo.Update(ctx, vendor.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update vendor verification")
		}
		vendor.VerificationStatus = input.Status
		vendor.IsVerified = input.Status == enums.VendorVerificationApproved
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.sendDecisionEmail(ctx, vendor, input, adminEmail, tempPassword)

	return &VerifyResult{
		ID:                 vendor.ID,
		Name:               vendor.Name,
		VerificationStatus: vendor.VerificationStatus,
		IsVerified:         vendor.IsVerified,
		VerifiedAt:         vendor.VerifiedAt,
	}, nil
}

// provisionVendorAdmin creates the dashboard login for an approved vendor and
// links it through the vendor_admins table. The business email becomes the
// login; an existing user with that email is promoted instead of duplicated.
func (s *service) provisionVendorAdmin(ctx context.Context, tx *gorm.DB, vendor *models.Vendor, actorID uuid.UUID) (string, string, error) {
	repo := s.repo.WithTx(tx)
	userRepo := s.users.WithTx(tx)

	tempPassword, err := security.GenerateTempPassword(tempPasswordLen)
	if err != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate temp password")
	}
	hash, err := security.HashPassword(tempPassword, s.password)
	if err != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash temp password")
	}

	admin, err := userRepo.FindByEmail(ctx, vendor.Email)
	switch err {
	case nil:
		// Existing account keeps its password; only the role is lifted.
		tempPassword = ""
	case gorm.ErrRecordNotFound:
		admin, err = userRepo.Create(ctx, &models.User{
			Email:        vendor.Email,
			PasswordHash: hash,
			FirstName:    vendor.Name,
			LastName:     "Admin",
			Phone:        &vendor.Phone,
			Role:         enums.UserRoleVendor,
		})
		if err != nil {
			return "", "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create vendor admin user")
		}
	default:
		return "", "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup vendor admin user")
	}

	link := &models.VendorAdmin{
		VendorID:  vendor.ID,
		UserID:    admin.ID,
		Role:      enums.VendorAdminRoleOwner,
		GrantedBy: &actorID,
	}
	if err := repo.CreateAdmin(ctx, link); err != nil && !db.IsUniqueViolation(err) {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "link vendor admin")
	}
	return tempPassword, admin.Email, nil
}

func (s *service) sendDecisionEmail(ctx context.Context, vendor *models.Vendor, input VerifyInput, adminEmail, tempPassword string) {
	var err error
	switch input.Status {
	case enums.VendorVerificationApproved:
		err = s.mailer.VendorApproved(ctx, vendor, adminEmail, tempPassword)
	case enums.VendorVerificationRejected:
		err = s.mailer.VendorRejected(ctx, vendor, input.Notes, input.Requirements)
	case enums.VendorVerificationSuspended:
		err = s.mailer.VendorSuspended(ctx, vendor, input.Notes)
	}
	if err != nil {
		logCtx := s.logger.WithVendorID(ctx, vendor.ID.String())
		logCtx = s.logger.WithField(logCtx, "decision", input.Status.String())
		s.logger.Error(logCtx, "vendor decision email failed", err)
	}
}

var handleStripPattern = regexp.MustCompile(`[^a-z0-9\s-]`)

// GenerateHandle slugs a business name and appends a base36 timestamp so two
// vendors with the same name never collide.
func GenerateHandle(name string) string {
	slug := strings.ToLower(name)
	slug = handleStripPattern.ReplaceAllString(slug, "")
	slug = strings.Join(strings.Fields(slug), "-")
	if len(slug) > handleMaxLen {
		slug = slug[:handleMaxLen]
	}
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return ""
	}
	return slug + "-" + strconv.FormatInt(time.Now().UnixMilli(), 36)
}
