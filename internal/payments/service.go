package payments

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ghbuys/marketplace-backend/internal/orders"
	"github.com/ghbuys/marketplace-backend/pkg/db/models"
	"github.com/ghbuys/marketplace-backend/pkg/enums"
	pkgerrors "github.com/ghbuys/marketplace-backend/pkg/errors"
	"github.com/ghbuys/marketplace-backend/pkg/ghana"
	"github.com/ghbuys/marketplace-backend/pkg/pagination"
	"github.com/ghbuys/marketplace-backend/pkg/paystack"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gateway interface {
	InitializeTransaction(ctx context.Context, params paystack.InitializeParams) (*paystack.InitializedTransaction, error)
	ChargeMobileMoney(ctx context.Context, params paystack.MomoChargeParams) (*paystack.MomoCharge, error)
	VerifyTransaction(ctx context.Context, reference string) (*paystack.Transaction, error)
	CreateRefund(ctx context.Context, params paystack.RefundParams) (*paystack.Refund, error)
}

// Service defines payment initiation and reconciliation reads.
type Service interface {
	Initialize(ctx context.Context, input InitializeInput) (*InitializeResult, error)
	InitializeMomo(ctx context.Context, input MomoInput) (*MomoResult, error)
	Verify(ctx context.Context, reference string) (*VerifyResult, error)
	Refund(ctx context.Context, reference string, input RefundInput) (*RefundResult, error)
	History(ctx context.Context, params pagination.Params, filters ListFilters) (*PaymentList, error)
}

// ServiceParams carries the payment service dependencies.
type ServiceParams struct {
	Repo              Repository
	Orders            orders.Repository
	Gateway           gateway
	TransactionRunner txRunner
}

type service struct {
	repo    Repository
	orders  orders.Repository
	gateway gateway
	tx      txRunner
}

// NewService wires payment dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payments repository required")
	}
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders repository required")
	}
	if params.Gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payment gateway required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	return &service{
		repo:    params.Repo,
		orders:  params.Orders,
		gateway: params.Gateway,
		tx:      params.TransactionRunner,
	}, nil
}

func (s *service) Initialize(ctx context.Context, input InitializeInput) (*InitializeResult, error) {
	order, err := s.loadPayableOrder(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}

	session, err := s.gateway.InitializeTransaction(ctx, paystack.InitializeParams{
		Email:    input.Email,
		Amount:   order.TotalPesewas,
		Currency: string(order.Currency),
		Channels: input.Channels,
		Metadata: map[string]any{
			"order_id":     order.ID.String(),
			"order_number": order.OrderNumber,
		},
	})
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		OrderID:       &order.ID,
		Reference:     session.Reference,
		AmountPesewas: order.TotalPesewas,
		Currency:      order.Currency,
		Method:        enums.PaymentMethodCard,
		Status:        enums.PaymentStatusPending,
		Email:         input.Email,
	}
	if err := s.persistInitiated(ctx, order.ID, payment); err != nil {
		return nil, err
	}

	return &InitializeResult{
		Reference:        session.Reference,
		AuthorizationURL: session.AuthorizationURL,
		AccessCode:       session.AccessCode,
		AmountPesewas:    order.TotalPesewas,
	}, nil
}

func (s *service) InitializeMomo(ctx context.Context, input MomoInput) (*MomoResult, error) {
	if !ghana.IsValidPhone(input.Phone) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid Ghana phone number")
	}
	provider, err := enums.ParseMomoProvider(input.Provider)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "mobile money provider")
	}

	order, err := s.loadPayableOrder(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}

	phone := ghana.FormatPhoneInternational(input.Phone)
	charge, err := s.gateway.ChargeMobileMoney(ctx, paystack.MomoChargeParams{
		Email:    input.Email,
		Amount:   order.TotalPesewas,
		Currency: string(order.Currency),
		MobileMoney: paystack.MomoDetails{
			Phone:    phone,
			Provider: provider.GatewayCode(),
		},
		Metadata: map[string]any{
			"order_id":     order.ID.String(),
			"order_number": order.OrderNumber,
			"provider":     provider.String(),
			"phone":        phone,
		},
	})
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		OrderID:       &order.ID,
		Reference:     charge.Reference,
		AmountPesewas: order.TotalPesewas,
		Currency:      order.Currency,
		Method:        enums.PaymentMethodMobileMoney,
		MomoProvider:  &provider,
		Status:        enums.PaymentStatusPending,
		Email:         input.Email,
	}
	if err := s.persistInitiated(ctx, order.ID, payment); err != nil {
		return nil, err
	}

	displayText := charge.DisplayText
	if displayText == "" {
		displayText = MomoDisplayText(provider, order.TotalPesewas)
	}

	return &MomoResult{
		Reference:     charge.Reference,
		Status:        charge.Status,
		DisplayText:   displayText,
		Instructions:  MomoInstructions(provider),
		Provider:      provider,
		AmountPesewas: order.TotalPesewas,
	}, nil
}

func (s *service) Verify(ctx context.Context, reference string) (*VerifyResult, error) {
	if reference == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment reference required")
	}

	payment, err := s.repo.FindByReference(ctx, reference)
	if err == gorm.ErrRecordNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
	}

	tx, err := s.gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		return nil, err
	}

	status := mapGatewayStatus(tx.Status)
	if err := s.applyVerification(ctx, payment, tx, status); err != nil {
		return nil, err
	}

	current, err := s.repo.FindByReference(ctx, reference)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload payment")
	}

	var paidAt *string
	if current.PaidAt != nil {
		formatted := current.PaidAt.UTC().Format(time.RFC3339)
		paidAt = &formatted
	}
	return &VerifyResult{
		Reference:     current.Reference,
		Status:        current.Status,
		AmountPesewas: current.AmountPesewas,
		FeesPesewas:   current.FeesPesewas,
		Channel:       current.Channel,
		PaidAt:        paidAt,
		OrderID:       current.OrderID,
	}, nil
}

func (s *service) Refund(ctx context.Context, reference string, input RefundInput) (*RefundResult, error) {
	if reference == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment reference required")
	}

	payment, err := s.repo.FindByReference(ctx, reference)
	if err == gorm.ErrRecordNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
	}
	if payment.Status != enums.PaymentStatusSuccessful {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only settled payments can be refunded")
	}
	if payment.RefundProcessed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment already refunded")
	}

	// Local state flips only when the refund.processed webhook arrives.
	refund, err := s.gateway.CreateRefund(ctx, paystack.RefundParams{
		Transaction:  reference,
		Currency:     string(payment.Currency),
		MerchantNote: input.Reason,
	})
	if err != nil {
		return nil, err
	}

	return &RefundResult{
		Reference:     reference,
		RefundID:      refund.ID,
		Status:        refund.Status,
		AmountPesewas: refund.Amount,
	}, nil
}

func (s *service) History(ctx context.Context, params pagination.Params, filters ListFilters) (*PaymentList, error) {
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments")
	}
	return list, nil
}

func (s *service) loadPayableOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.orders.FindByID(ctx, orderID)
	if err == gorm.ErrRecordNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.PaymentStatus == enums.OrderPaymentStatusPaid {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is already paid")
	}
	return order, nil
}

func (s *service) persistInitiated(ctx context.Context, orderID uuid.UUID, payment *models.Payment) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Create(ctx, payment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment")
		}
		err := s.orders.WithTx(tx).Update(ctx, orderID, map[string]any{
			"payment_reference": payment.Reference,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attach payment reference")
		}
		return nil
	})
}

// applyVerification reconciles the gateway's view into the local row. A
// payment that already reached a terminal state is never downgraded.
func (s *service) applyVerification(ctx context.Context, payment *models.Payment, tx *paystack.Transaction, status enums.PaymentStatus) error {
	if payment.Status.IsTerminal() && payment.Status != status {
		return nil
	}
	if payment.Status == status && status == enums.PaymentStatusPending {
		return nil
	}

	updates := map[string]any{
		"status":       status,
		"fees_pesewas": tx.Fees,
	}
	if tx.Channel != "" {
		updates["channel"] = tx.Channel
	}
	if tx.ID != 0 {
		updates["gateway_transaction_id"] = strconv.FormatInt(tx.ID, 10)
	}
	if len(tx.Authorization) > 0 {
		updates["authorization"] = tx.Authorization
	}
	if status == enums.PaymentStatusSuccessful {
		paidAt := time.Now().UTC()
		if parsed, err := time.Parse(time.RFC3339, tx.PaidAt); err == nil {
			paidAt = parsed.UTC()
		}
		updates["paid_at"] = paidAt
	}
	if status == enums.PaymentStatusFailed && tx.GatewayResponse != "" {
		updates["failure_reason"] = tx.GatewayResponse
	}

	return s.tx.WithTx(ctx, func(dbTx *gorm.DB) error {
		if err := s.repo.WithTx(dbTx).Update(ctx, payment.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment")
		}
		if payment.OrderID == nil {
			return nil
		}
		var orderPayment enums.OrderPaymentStatus
		switch status {
		case enums.PaymentStatusSuccessful:
			orderPayment = enums.OrderPaymentStatusPaid
		case enums.PaymentStatusFailed:
			orderPayment = enums.OrderPaymentStatusFailed
		default:
			return nil
		}
		orderUpdates := map[string]any{"payment_status": orderPayment}
		if orderPayment == enums.OrderPaymentStatusPaid {
			orderUpdates["status"] = enums.OrderStatusConfirmed
		}
		err := s.orders.WithTx(dbTx).Update(ctx, *payment.OrderID, orderUpdates)
		if err != nil && err != gorm.ErrRecordNotFound {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order payment status")
		}
		return nil
	})
}

func mapGatewayStatus(raw string) enums.PaymentStatus {
	switch raw {
	case "success":
		return enums.PaymentStatusSuccessful
	case "failed":
		return enums.PaymentStatusFailed
	case "abandoned":
		return enums.PaymentStatusCancelled
	default:
		return enums.PaymentStatusPending
	}
}

