package auth

import (
	"context"
	"testing"
	"time"

	pkgAuth "github.com/ghbuys/marketplace-backend/pkg/auth"
	"github.com/ghbuys/marketplace-backend/pkg/config"
	"github.com/ghbuys/marketplace-backend/pkg/db/models"
	"github.com/ghbuys/marketplace-backend/pkg/enums"
	pkgerrors "github.com/ghbuys/marketplace-backend/pkg/errors"
	"github.com/ghbuys/marketplace-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	byEmail    map[string]*models.User
	lastLogins map[uuid.UUID]time.Time
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail:    map[string]*models.User{},
		lastLogins: map[uuid.UUID]time.Time{},
	}
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	if _, ok := f.byEmail[user.Email]; ok {
		return nil, gorm.ErrDuplicatedKey
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.byEmail[user.Email] = user
	return user, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	f.lastLogins[id] = at
	return nil
}

type fakeVendorAdminRepo struct {
	byUserID map[uuid.UUID]*models.VendorAdmin
}

func (f *fakeVendorAdminRepo) FindAdminByUserID(_ context.Context, userID uuid.UUID) (*models.VendorAdmin, error) {
	admin, ok := f.byUserID[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return admin, nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "ghbuys",
		ExpirationMinutes: 30,
	}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func seedUser(t *testing.T, repo *fakeUserRepo, email, password string, role enums.UserRole, active bool) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig())
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Ama",
		LastName:     "Mensah",
		Role:         role,
		IsActive:     active,
	}
	repo.byEmail[email] = user
	return user
}

func newTestService(t *testing.T, userRepo *fakeUserRepo, adminRepo *fakeVendorAdminRepo) Service {
	t.Helper()
	if adminRepo == nil {
		adminRepo = &fakeVendorAdminRepo{byUserID: map[uuid.UUID]*models.VendorAdmin{}}
	}
	svc, err := NewService(ServiceParams{
		UserRepo:        userRepo,
		VendorAdminRepo: adminRepo,
		JWTConfig:       testJWTConfig(),
		PasswordConfig:  testPasswordConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestLoginSuccess(t *testing.T) {
	users := newFakeUserRepo()
	user := seedUser(t, users, "ama@example.com", "hunter2passwd", enums.UserRoleCustomer, true)
	svc := newTestService(t, users, nil)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "Ama@Example.com ", Password: "hunter2passwd"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("expected an access token")
	}
	if resp.User == nil || resp.User.ID != user.ID {
		t.Fatal("expected the logged-in user in the response")
	}
	if _, ok := users.lastLogins[user.ID]; !ok {
		t.Fatal("expected last login to be recorded")
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Role != enums.UserRoleCustomer {
		t.Fatalf("unexpected role %s", claims.Role)
	}
	if claims.VendorID != nil {
		t.Fatal("customer token should carry no vendor scope")
	}
}

func TestLoginVendorCarriesVendorScope(t *testing.T) {
	users := newFakeUserRepo()
	user := seedUser(t, users, "shop@example.com", "hunter2passwd", enums.UserRoleVendor, true)
	vendorID := uuid.New()
	admins := &fakeVendorAdminRepo{byUserID: map[uuid.UUID]*models.VendorAdmin{
		user.ID: {VendorID: vendorID, UserID: user.ID, Role: enums.VendorAdminRoleOwner, IsActive: true},
	}}
	svc := newTestService(t, users, admins)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "shop@example.com", Password: "hunter2passwd"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.VendorID == nil || *claims.VendorID != vendorID {
		t.Fatal("expected vendor id in token claims")
	}
}

func TestLoginVendorWithoutAdminLink(t *testing.T) {
	users := newFakeUserRepo()
	seedUser(t, users, "shop@example.com", "hunter2passwd", enums.UserRoleVendor, true)
	svc := newTestService(t, users, nil)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "shop@example.com", Password: "hunter2passwd"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.VendorID != nil {
		t.Fatal("expected no vendor scope without an admin link")
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	users := newFakeUserRepo()
	seedUser(t, users, "ama@example.com", "hunter2passwd", enums.UserRoleCustomer, true)
	svc := newTestService(t, users, nil)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ama@example.com", Password: "wrong"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	users := newFakeUserRepo()
	seedUser(t, users, "ama@example.com", "hunter2passwd", enums.UserRoleCustomer, false)
	svc := newTestService(t, users, nil)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ama@example.com", Password: "hunter2passwd"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	svc := newTestService(t, newFakeUserRepo(), nil)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "hunter2passwd"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestAdminLoginRejectsNonAdmin(t *testing.T) {
	users := newFakeUserRepo()
	seedUser(t, users, "ama@example.com", "hunter2passwd", enums.UserRoleCustomer, true)
	svc := newTestService(t, users, nil)

	_, err := svc.AdminLogin(context.Background(), LoginRequest{Email: "ama@example.com", Password: "hunter2passwd"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestAdminLoginSuccess(t *testing.T) {
	users := newFakeUserRepo()
	seedUser(t, users, "ops@ghbuys.com", "hunter2passwd", enums.UserRoleAdmin, true)
	svc := newTestService(t, users, nil)

	resp, err := svc.AdminLogin(context.Background(), LoginRequest{Email: "ops@ghbuys.com", Password: "hunter2passwd"})
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Role != enums.UserRoleAdmin {
		t.Fatalf("unexpected role %s", claims.Role)
	}
}

func TestRegisterCreatesCustomer(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestService(t, users, nil)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "Kofi",
		LastName:  "Boateng",
		Email:     "Kofi@Example.com",
		Password:  "hunter2passwd",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("expected an access token")
	}
	if resp.User.Role != enums.UserRoleCustomer {
		t.Fatalf("expected customer role, got %s", resp.User.Role)
	}

	stored, ok := users.byEmail["kofi@example.com"]
	if !ok {
		t.Fatal("expected the email to be lowercased before storage")
	}
	if stored.PasswordHash == "hunter2passwd" {
		t.Fatal("password must be hashed")
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	users := newFakeUserRepo()
	seedUser(t, users, "kofi@example.com", "hunter2passwd", enums.UserRoleCustomer, true)
	svc := newTestService(t, users, nil)

	_, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "Kofi",
		LastName:  "Boateng",
		Email:     "kofi@example.com",
		Password:  "hunter2passwd",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}
