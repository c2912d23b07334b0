package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ghbuys/marketplace-backend/internal/auth"
	"github.com/ghbuys/marketplace-backend/internal/users"
	"github.com/ghbuys/marketplace-backend/pkg/enums"
	pkgerrors "github.com/ghbuys/marketplace-backend/pkg/errors"
	"github.com/google/uuid"
)

type stubAuthService struct {
	login    *auth.LoginResponse
	register *auth.RegisterResponse
	err      error
}

func (s stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return s.login, s.err
}

func (s stubAuthService) AdminLogin(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return s.login, s.err
}

func (s stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.RegisterResponse, error) {
	return s.register, s.err
}

func TestAuthLoginSuccess(t *testing.T) {
	user := &users.UserDTO{ID: uuid.New(), Email: "ama@example.com", Role: enums.UserRoleCustomer}
	handler := AuthLogin(stubAuthService{login: &auth.LoginResponse{AccessToken: "access-token", User: user}}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte(`{"email":"ama@example.com","password":"Secret#1"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data struct {
			AccessToken string         `json:"access_token"`
			User        *users.UserDTO `json:"user"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.AccessToken != "access-token" {
		t.Fatalf("expected access token in payload got %q", envelope.Data.AccessToken)
	}
	if envelope.Data.User == nil || envelope.Data.User.Email != user.Email {
		t.Fatalf("expected user in payload got %+v", envelope.Data.User)
	}
}

func TestAuthLoginInvalidPayload(t *testing.T) {
	handler := AuthLogin(stubAuthService{}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte(`{"password":"Secret#1"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAuthLoginUnauthorized(t *testing.T) {
	handler := AuthLogin(stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte(`{"email":"ama@example.com","password":"wrong"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRegisterSuccess(t *testing.T) {
	user := &users.UserDTO{ID: uuid.New(), Email: "kofi@example.com", Role: enums.UserRoleCustomer}
	handler := AuthRegister(stubAuthService{register: &auth.RegisterResponse{AccessToken: "access-token", User: user}}, nil)

	body := `{"first_name":"Kofi","last_name":"Boateng","email":"kofi@example.com","password":"Secret#1long"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
}
