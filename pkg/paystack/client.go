package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/ghbuys/marketplace-backend/pkg/config"
	pkgerrors "github.com/ghbuys/marketplace-backend/pkg/errors"
	"github.com/ghbuys/marketplace-backend/pkg/logger"
)

const defaultBaseURL = "https://api.paystack.co"

var (
	errSecretKeyRequired = errors.New("paystack secret key is required")
	errLoggerRequired    = errors.New("paystack logger is required")
)

// Client exposes Paystack primitives with centralized auth, logging, and
// error mapping.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	secretKey     string
	webhookSecret string
	callbackURL   string
	logger        *logger.Logger
}

// NewClient initializes the Paystack wrapper and validates the credentials.
func NewClient(ctx context.Context, cfg config.PaystackConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}

	secretKey := strings.TrimSpace(cfg.SecretKey)
	if secretKey == "" {
		return nil, errSecretKeyRequired
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		httpClient:    &http.Client{Timeout: timeout},
		baseURL:       baseURL,
		secretKey:     secretKey,
		webhookSecret: strings.TrimSpace(cfg.SigningSecret()),
		callbackURL:   strings.TrimSpace(cfg.CallbackURL),
		logger:        logg,
	}

	logg.Info(ctx, "paystack client initialized")
	return c, nil
}

// SigningSecret returns the key deliveries are signed with.
func (c *Client) SigningSecret() string {
	if c == nil {
		return ""
	}
	return c.webhookSecret
}

// NewReference returns a unique transaction reference.
func NewReference() string {
	return fmt.Sprintf("ghbuys_%d_%s", time.Now().UnixMilli(), randomSuffix(9))
}

// NewMomoReference returns a unique mobile money charge reference.
func NewMomoReference() string {
	return fmt.Sprintf("ghbuys_momo_%d", time.Now().UnixMilli())
}

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomSuffix(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = suffixAlphabet[rand.Intn(len(suffixAlphabet))]
	}
	return string(b)
}

// InitializeTransaction starts a hosted checkout transaction. Amounts are in
// pesewas.
func (c *Client) InitializeTransaction(ctx context.Context, params InitializeParams) (*InitializedTransaction, error) {
	if params.Reference == "" {
		params.Reference = NewReference()
	}
	if params.CallbackURL == "" {
		params.CallbackURL = c.callbackURL
	}
	c.log(ctx, "request", "initialize_transaction", map[string]any{
		"reference": params.Reference,
		"amount":    params.Amount,
		"currency":  params.Currency,
		"email":     params.Email,
	})

	var out InitializedTransaction
	if err := c.do(ctx, http.MethodPost, "/transaction/initialize", params, &out); err != nil {
		c.log(ctx, "error", "initialize_transaction", map[string]any{"error": err.Error()})
		return nil, c.mapError(err, "initialize transaction")
	}

	c.log(ctx, "response", "initialize_transaction", map[string]any{
		"reference":   out.Reference,
		"access_code": out.AccessCode,
	})
	return &out, nil
}

// ChargeMobileMoney starts a mobile money charge on the customer's phone.
func (c *Client) ChargeMobileMoney(ctx context.Context, params MomoChargeParams) (*MomoCharge, error) {
	if params.Reference == "" {
		params.Reference = NewMomoReference()
	}
	c.log(ctx, "request", "charge_mobile_money", map[string]any{
		"reference": params.Reference,
		"amount":    params.Amount,
		"provider":  params.MobileMoney.Provider,
		"phone":     params.MobileMoney.Phone,
	})

	var out MomoCharge
	if err := c.do(ctx, http.MethodPost, "/charge", params, &out); err != nil {
		c.log(ctx, "error", "charge_mobile_money", map[string]any{"error": err.Error()})
		return nil, c.mapError(err, "charge mobile money")
	}
	if out.Reference == "" {
		out.Reference = params.Reference
	}

	c.log(ctx, "response", "charge_mobile_money", map[string]any{
		"reference": out.Reference,
		"status":    out.Status,
	})
	return &out, nil
}

// VerifyTransaction fetches the gateway's view of a transaction by reference.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*Transaction, error) {
	c.log(ctx, "request", "verify_transaction", map[string]any{"reference": reference})

	var out Transaction
	if err := c.do(ctx, http.MethodGet, "/transaction/verify/"+reference, nil, &out); err != nil {
		c.log(ctx, "error", "verify_transaction", map[string]any{"error": err.Error()})
		return nil, c.mapError(err, "verify transaction")
	}

	c.log(ctx, "response", "verify_transaction", map[string]any{
		"reference": out.Reference,
		"status":    out.Status,
	})
	return &out, nil
}

// CreateRefund initiates a refund for a settled transaction.
func (c *Client) CreateRefund(ctx context.Context, params RefundParams) (*Refund, error) {
	if params.MerchantNote == "" {
		params.MerchantNote = "Refund from GH Buys Marketplace"
	}
	c.log(ctx, "request", "create_refund", map[string]any{
		"transaction": params.Transaction,
		"amount":      params.Amount,
	})

	var out Refund
	if err := c.do(ctx, http.MethodPost, "/refund", params, &out); err != nil {
		c.log(ctx, "error", "create_refund", map[string]any{"error": err.Error()})
		return nil, c.mapError(err, "create refund")
	}

	c.log(ctx, "response", "create_refund", map[string]any{
		"refund_id": out.ID,
		"status":    out.Status,
	})
	return &out, nil
}

// CreateTransferRecipient registers a payout destination and returns its
// recipient code.
func (c *Client) CreateTransferRecipient(ctx context.Context, params RecipientParams) (*Recipient, error) {
	c.log(ctx, "request", "create_transfer_recipient", map[string]any{
		"type":     params.Type,
		"currency": params.Currency,
	})

	var out Recipient
	if err := c.do(ctx, http.MethodPost, "/transferrecipient", params, &out); err != nil {
		c.log(ctx, "error", "create_transfer_recipient", map[string]any{"error": err.Error()})
		return nil, c.mapError(err, "create transfer recipient")
	}

	c.log(ctx, "response", "create_transfer_recipient", map[string]any{
		"recipient_code": out.RecipientCode,
	})
	return &out, nil
}

// InitiateTransfer sends money to a previously registered recipient.
func (c *Client) InitiateTransfer(ctx context.Context, params TransferParams) (*Transfer, error) {
	if params.Source == "" {
		params.Source = "balance"
	}
	c.log(ctx, "request", "initiate_transfer", map[string]any{
		"reference": params.Reference,
		"amount":    params.Amount,
	})

	var out Transfer
	if err := c.do(ctx, http.MethodPost, "/transfer", params, &out); err != nil {
		c.log(ctx, "error", "initiate_transfer", map[string]any{"error": err.Error()})
		return nil, c.mapError(err, "initiate transfer")
	}

	c.log(ctx, "response", "initiate_transfer", map[string]any{
		"reference":     out.Reference,
		"transfer_code": out.TransferCode,
		"status":        out.Status,
	})
	return &out, nil
}

// apiError carries the gateway HTTP status and message through to mapError.
type apiError struct {
	StatusCode int
	Message    string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("paystack: %s (status %d)", e.Message, e.StatusCode)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var envelope struct {
		Status  bool            `json:"status"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		if resp.StatusCode >= 400 {
			return &apiError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("decoding response: %w", err)
	}

	if resp.StatusCode >= 400 || !envelope.Status {
		message := envelope.Message
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return &apiError{StatusCode: resp.StatusCode, Message: message}
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("decoding response data: %w", err)
		}
	}
	return nil
}

func (c *Client) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = c.redact(k, v)
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("paystack %s", op), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("paystack %s", phase))
	}
}

func (c *Client) redact(key string, value any) any {
	lower := strings.ToLower(key)
	for _, sensitive := range []string{"card", "token", "cvv", "secret", "email", "phone", "account"} {
		if strings.Contains(lower, sensitive) {
			return "[REDACTED]"
		}
	}
	return value
}

func (c *Client) mapError(err error, op string) error {
	if err == nil {
		return nil
	}
	var typed *apiError
	if errors.As(err, &typed) {
		return pkgerrors.Wrap(domainCodeForStatus(typed.StatusCode), err, fmt.Sprintf("paystack %s failed: %s", op, typed.Message))
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("paystack %s failed", op))
}

func domainCodeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusUnauthorized:
		return pkgerrors.CodeUnauthorized
	case http.StatusForbidden:
		return pkgerrors.CodeForbidden
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case http.StatusConflict:
		return pkgerrors.CodeConflict
	case http.StatusTooManyRequests:
		return pkgerrors.CodeRateLimit
	case http.StatusBadRequest:
		return pkgerrors.CodeValidation
	case http.StatusUnprocessableEntity:
		return pkgerrors.CodeStateConflict
	default:
		if status >= 400 && status < 500 {
			return pkgerrors.CodeValidation
		}
		return pkgerrors.CodeDependency
	}
}
