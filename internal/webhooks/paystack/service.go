package paystackwebhook

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/ghbuys/marketplace-backend/internal/orders"
	"github.com/ghbuys/marketplace-backend/internal/payments"
	"github.com/ghbuys/marketplace-backend/internal/payouts"
	"github.com/ghbuys/marketplace-backend/pkg/db/models"
	"github.com/ghbuys/marketplace-backend/pkg/enums"
	pkgerrors "github.com/ghbuys/marketplace-backend/pkg/errors"
	"github.com/ghbuys/marketplace-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type payoutFanOut interface {
	FanOutTx(ctx context.Context, tx *gorm.DB, order *models.Order, paymentReference string) (int, error)
}

// ServiceParams carries the webhook service dependencies.
type ServiceParams struct {
	Payments          payments.Repository
	Orders            orders.Repository
	PayoutRepo        payouts.Repository
	PayoutFanOut      payoutFanOut
	Events            EventRepository
	TransactionRunner txRunner
	Logger            *logger.Logger
}

// Service reconciles gateway webhook deliveries into local payment, order,
// and payout state.
type Service struct {
	payments payments.Repository
	orders   orders.Repository
	payouts  payouts.Repository
	fanOut   payoutFanOut
	events   EventRepository
	txRunner txRunner
	logger   *logger.Logger
}

// NewService validates dependencies and constructs the webhook service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Payments == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payments repo required")
	}
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders repo required")
	}
	if params.PayoutRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payouts repo required")
	}
	if params.PayoutFanOut == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payout fan-out required")
	}
	if params.Events == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "events repo required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &Service{
		payments: params.Payments,
		orders:   params.Orders,
		payouts:  params.PayoutRepo,
		fanOut:   params.PayoutFanOut,
		events:   params.Events,
		txRunner: params.TransactionRunner,
		logger:   params.Logger,
	}, nil
}

// HandleEvent routes a verified delivery to its handler. Unknown event types
// are recorded and acknowledged so the gateway stops retrying them.
func (s *Service) HandleEvent(ctx context.Context, digest string, raw []byte, event *Event) error {
	if event == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "nil webhook event")
	}

	logCtx := s.logger.WithReference(ctx, event.Data.Reference)
	logCtx = s.logger.WithField(logCtx, "event_type", event.Event)

	switch event.Event {
	case EventChargeSuccess:
		return s.handleChargeSuccess(logCtx, digest, raw, event)
	case EventChargeFailed:
		return s.handleChargeFailed(logCtx, digest, raw, event)
	case EventTransferSuccess:
		return s.handleTransfer(logCtx, digest, raw, event, enums.PayoutStatusCompleted)
	case EventTransferFailed:
		return s.handleTransfer(logCtx, digest, raw, event, enums.PayoutStatusFailed)
	case EventRefundProcessed:
		return s.handleRefundProcessed(logCtx, digest, raw, event)
	default:
		s.logger.Info(logCtx, "ignoring unhandled webhook event")
		return s.recordStandalone(ctx, digest, raw, event, enums.WebhookEventSkipped, "unhandled event type")
	}
}

func (s *Service) handleChargeSuccess(ctx context.Context, digest string, raw []byte, event *Event) error {
	return s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		paymentRepo := s.payments.WithTx(tx)
		orderRepo := s.orders.WithTx(tx)
		events := s.events.WithTx(tx)

		payment, err := paymentRepo.FindByReference(ctx, event.Data.Reference)
		if err == gorm.ErrRecordNotFound {
			s.logger.Warn(ctx, "charge.success for unknown reference")
			return events.Record(ctx, s.eventRow(digest, raw, event, enums.WebhookEventUnmatched, "no payment for reference"))
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
		}

		if payment.Status == enums.PaymentStatusSuccessful {
			// The verify poller can settle the payment before this delivery
			// lands, and payouts are only created here. The fan-out still
			// runs; the unique payout reference absorbs true replays.
			if payment.OrderID != nil {
				order, err := orderRepo.FindByID(ctx, *payment.OrderID)
				if err != nil && err != gorm.ErrRecordNotFound {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
				}
				if order != nil {
					created, err := s.fanOut.FanOutTx(ctx, tx, order, payment.Reference)
					if err != nil {
						return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fan out payouts")
					}
					if created > 0 {
						s.logger.Info(s.logger.WithField(ctx, "payouts_created", created), "fan-out recovered for settled payment")
					}
				}
			}
			s.logger.Info(ctx, "charge.success replay for settled payment")
			return events.Record(ctx, s.eventRow(digest, raw, event, enums.WebhookEventSkipped, "payment already successful"))
		}

		updates := map[string]any{
			"status":       enums.PaymentStatusSuccessful,
			"fees_pesewas": event.Data.Fees,
			"paid_at":      paidAtOf(event),
		}
		if event.Data.Channel != "" {
			updates["channel"] = event.Data.Channel
		}
		if event.Data.ID != 0 {
			updates["gateway_transaction_id"] = strconv.FormatInt(event.Data.ID, 10)
		}
		if len(event.Data.Authorization) > 0 {
			updates["authorization"] = event.Data.Authorization
		}
		if event.Data.GatewayResponse != "" {
			response, _ := json.Marshal(map[string]string{"gateway_response": event.Data.GatewayResponse})
			updates["gateway_response"] = json.RawMessage(response)
		}
		if err := paymentRepo.Update(ctx, payment.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "settle payment")
		}

		if payment.OrderID != nil {
			order, err := orderRepo.FindByID(ctx, *payment.OrderID)
			if err != nil && err != gorm.ErrRecordNotFound {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
			}
			if order != nil {
				err = orderRepo.Update(ctx, order.ID, map[string]any{
					"payment_status": enums.OrderPaymentStatusPaid,
					"status":         enums.OrderStatusConfirmed,
				})
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm order")
				}
				created, err := s.fanOut.FanOutTx(ctx, tx, order, payment.Reference)
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fan out payouts")
				}
				s.logger.Info(s.logger.WithField(ctx, "payouts_created", created), "payment settled")
			}
		}

		return events.Record(ctx, s.eventRow(digest, raw, event, enums.WebhookEventProcessed, ""))
	})
}

func (s *Service) handleChargeFailed(ctx context.Context, digest string, raw []byte, event *Event) error {
	return s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		paymentRepo := s.payments.WithTx(tx)
		orderRepo := s.orders.WithTx(tx)
		events := s.events.WithTx(tx)

		payment, err := paymentRepo.FindByReference(ctx, event.Data.Reference)
		if err == gorm.ErrRecordNotFound {
			s.logger.Warn(ctx, "charge.failed for unknown reference")
			return events.Record(ctx, s.eventRow(digest, raw, event, enums.WebhookEventUnmatched, "no payment for reference"))
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
		}

		// A settled payment is never demoted by a late failure delivery.
		if payment.Status == enums.PaymentStatusSuccessful {
			return events.Record(ctx, s.eventRow(digest, raw, event, enums.WebhookEventSkipped, "payment already successful"))
		}

		reason := event.Data.GatewayResponse
		if event.Data.Message != nil && *event.Data.Message != "" {
			reason = *event.Data.Message
		}
		updates := map[string]any{"status": enums.PaymentStatusFailed}
		if reason != "" {
			updates["failure_reason"] = reason
		}
		if err := paymentRepo.Update(ctx, payment.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fail payment")
		}

		if payment.OrderID != nil {
			err = orderRepo.Update(ctx, *payment.OrderID, map[string]any{
				"payment_status": enums.OrderPaymentStatusFailed,
			})
			if err != nil && err != gorm.ErrRecordNotFound {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark order payment failed")
			}
		}

		return events.Record(ctx, s.eventRow(digest, raw, event, enums.WebhookEventProcessed, ""))
	})
}

func (s *Service) handleTransfer(ctx context.Context, digest string, raw []byte, event *Event, status enums.PayoutStatus) error {
	return s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		payoutRepo := s.payouts.WithTx(tx)
		events := s.events.WithTx(tx)

		payout, err := payoutRepo.FindByReference(ctx, event.Data.Reference)
		if err == gorm.ErrRecordNotFound {
			s.logger.Warn(ctx, "transfer event for unknown payout reference")
			return events.Record(ctx, s.eventRow(digest, raw, event, enums.WebhookEventUnmatched, "no payout for reference"))
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payout")
		}

		if payout.Status == enums.PayoutStatusCompleted {
			return events.Record(ctx, s.eventRow(digest, raw, event, enums.WebhookEventSkipped, "payout already completed"))
		}

		updates := map[string]any{"status": status}
		switch status {
		case enums.PayoutStatusCompleted:
			updates["completed_at"] = time.Now().UTC()
			updates["failure_reason"] = nil
		case enums.PayoutStatusFailed:
			reason := event.Data.GatewayResponse
			if event.Data.Message != nil && *event.Data.Message != "" {
				reason = *event.Data.Message
			}
			if reason == "" {
				reason = "transfer failed"
			}
			updates["failure_reason"] = reason
		}
		if err := payoutRepo.Update(ctx, payout.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payout")
		}

		return events.Record(ctx, s.eventRow(digest, raw, event, enums.WebhookEventProcessed, ""))
	})
}

func (s *Service) handleRefundProcessed(ctx context.Context, digest string, raw []byte, event *Event) error {
	return s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		paymentRepo := s.payments.WithTx(tx)
		orderRepo := s.orders.WithTx(tx)
		events := s.events.WithTx(tx)

		payment, err := paymentRepo.FindByReference(ctx, event.Data.Reference)
		if err == gorm.ErrRecordNotFound {
			s.logger.Warn(ctx, "refund.processed for unknown reference")
			return events.Record(ctx, s.eventRow(digest, raw, event, enums.WebhookEventUnmatched, "no payment for reference"))
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
		}

		if payment.RefundProcessed {
			return events.Record(ctx, s.eventRow(digest, raw, event, enums.WebhookEventSkipped, "refund already recorded"))
		}

		err = paymentRepo.Update(ctx, payment.ID, map[string]any{
			"refund_processed": true,
			"refunded_at":      time.Now().UTC(),
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record refund")
		}

		if payment.OrderID != nil {
			err = orderRepo.Update(ctx, *payment.OrderID, map[string]any{
				"payment_status": enums.OrderPaymentStatusRefunded,
				"status":         enums.OrderStatusRefunded,
			})
			if err != nil && err != gorm.ErrRecordNotFound {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark order refunded")
			}
		}

		return events.Record(ctx, s.eventRow(digest, raw, event, enums.WebhookEventProcessed, ""))
	})
}

func (s *Service) recordStandalone(ctx context.Context, digest string, raw []byte, event *Event, status enums.WebhookEventStatus, note string) error {
	return s.events.Record(ctx, s.eventRow(digest, raw, event, status, note))
}

func (s *Service) eventRow(digest string, raw []byte, event *Event, status enums.WebhookEventStatus, note string) *models.WebhookEvent {
	row := &models.WebhookEvent{
		Digest:    digest,
		EventType: event.Event,
		Status:    status,
		Payload:   json.RawMessage(raw),
	}
	if event.Data.Reference != "" {
		reference := event.Data.Reference
		row.Reference = &reference
	}
	if note != "" {
		row.Note = &note
	}
	return row
}

func paidAtOf(event *Event) time.Time {
	if parsed, err := time.Parse(time.RFC3339, event.Data.PaidAt); err == nil {
		return parsed.UTC()
	}
	return time.Now().UTC()
}
