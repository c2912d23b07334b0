package payouts

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/ghbuys/marketplace-backend/internal/vendors"
	"github.com/ghbuys/marketplace-backend/pkg/db/models"
	"github.com/ghbuys/marketplace-backend/pkg/enums"
	pkgerrors "github.com/ghbuys/marketplace-backend/pkg/errors"
	"github.com/ghbuys/marketplace-backend/pkg/ghana"
	"github.com/ghbuys/marketplace-backend/pkg/logger"
	"github.com/ghbuys/marketplace-backend/pkg/pagination"
	"github.com/ghbuys/marketplace-backend/pkg/paystack"
)

type gateway interface {
	CreateTransferRecipient(ctx context.Context, params paystack.RecipientParams) (*paystack.Recipient, error)
	InitiateTransfer(ctx context.Context, params paystack.TransferParams) (*paystack.Transfer, error)
}

// Service defines payout fan-out, dispatch, and reads.
type Service interface {
	FanOutTx(ctx context.Context, tx *gorm.DB, order *models.Order, paymentReference string) (int, error)
	DispatchQueued(ctx context.Context, batchSize int) (int, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*PayoutList, error)
}

// ServiceParams carries the payout service dependencies.
type ServiceParams struct {
	Repo    Repository
	Vendors vendors.Repository
	Gateway gateway
	Logger  *logger.Logger
}

type service struct {
	repo    Repository
	vendors vendors.Repository
	gateway gateway
	logger  *logger.Logger
}

// NewService wires payout dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payouts repository required")
	}
	if params.Vendors == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "vendors repository required")
	}
	if params.Gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payout gateway required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &service{
		repo:    params.Repo,
		vendors: params.Vendors,
		gateway: params.Gateway,
		logger:  params.Logger,
	}, nil
}

// FanOutTx creates one queued payout per vendor represented in the order's
// items, inside the caller's transaction. Replayed calls are absorbed by the
// unique payout reference; vendor sales counters only move when a row was
// actually inserted.
func (s *service) FanOutTx(ctx context.Context, tx *gorm.DB, order *models.Order, paymentReference string) (int, error) {
	repo := s.repo.WithTx(tx)
	vendorRepo := s.vendors.WithTx(tx)

	created := 0
	for _, share := range Split(order.Items, DefaultCommissionBPS) {
		payout := &models.VendorPayout{
			VendorID:          share.VendorID,
			OrderID:           order.ID,
			PaymentReference:  paymentReference,
			Reference:         PayoutReference(paymentReference, share.VendorID),
			GrossPesewas:      share.GrossPesewas,
			CommissionPesewas: share.CommissionPesewas,
			NetPesewas:        share.NetPesewas,
			Currency:          order.Currency,
			ItemIDs:           share.ItemIDs,
			Status:            enums.PayoutStatusQueued,
		}
		inserted, err := repo.CreateIfAbsent(ctx, payout)
		if err != nil {
			return created, fmt.Errorf("create payout %s: %w", payout.Reference, err)
		}
		if !inserted {
			continue
		}
		created++
		if err := vendorRepo.IncrementSales(ctx, share.VendorID, share.GrossPesewas, 1); err != nil {
			return created, fmt.Errorf("increment vendor sales %s: %w", share.VendorID, err)
		}
	}
	return created, nil
}

// DispatchQueued pushes up to batchSize queued payouts to the transfer API.
// Each payout fails independently; a gateway rejection marks the row failed
// and the loop keeps going.
func (s *service) DispatchQueued(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 20
	}
	queued, err := s.repo.FindQueued(ctx, batchSize)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load queued payouts")
	}

	dispatched := 0
	var errs error
	for i := range queued {
		payout := &queued[i]
		logCtx := s.logger.WithFields(ctx, map[string]any{
			"payout_reference": payout.Reference,
			"vendor_id":        payout.VendorID.String(),
		})
		if err := s.dispatch(ctx, payout); err != nil {
			s.logger.Error(logCtx, "payout dispatch failed", err)
			errs = multierr.Append(errs, err)
			continue
		}
		dispatched++
		s.logger.Info(logCtx, "payout dispatched")
	}
	return dispatched, errs
}

func (s *service) dispatch(ctx context.Context, payout *models.VendorPayout) error {
	vendor, err := s.vendors.FindByID(ctx, payout.VendorID)
	if err != nil {
		return fmt.Errorf("load vendor %s: %w", payout.VendorID, err)
	}

	recipientParams, err := recipientFor(vendor)
	if err != nil {
		reason := err.Error()
		if updErr := s.repo.Update(ctx, payout.ID, map[string]any{
			"status":         enums.PayoutStatusFailed,
			"failure_reason": reason,
		}); updErr != nil {
			return updErr
		}
		return err
	}

	recipient, err := s.gateway.CreateTransferRecipient(ctx, *recipientParams)
	if err != nil {
		return s.markFailed(ctx, payout, err)
	}

	transfer, err := s.gateway.InitiateTransfer(ctx, paystack.TransferParams{
		Amount:    payout.NetPesewas,
		Recipient: recipient.RecipientCode,
		Reference: payout.Reference,
		Reason:    fmt.Sprintf("GH Buys payout for order %s", payout.OrderID),
		Currency:  string(payout.Currency),
	})
	if err != nil {
		return s.markFailed(ctx, payout, err)
	}

	return s.repo.Update(ctx, payout.ID, map[string]any{
		"status":        enums.PayoutStatusProcessing,
		"transfer_code": transfer.TransferCode,
	})
}

func (s *service) markFailed(ctx context.Context, payout *models.VendorPayout, cause error) error {
	reason := cause.Error()
	if err := s.repo.Update(ctx, payout.ID, map[string]any{
		"status":         enums.PayoutStatusFailed,
		"failure_reason": reason,
	}); err != nil {
		return multierr.Append(cause, err)
	}
	return cause
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ListFilters) (*PayoutList, error) {
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payouts")
	}
	return list, nil
}

// recipientFor picks the vendor's payout destination: registered bank account
// first, mobile money wallet as the fallback.
func recipientFor(vendor *models.Vendor) (*paystack.RecipientParams, error) {
	if vendor.BankAccountNumber != nil && *vendor.BankAccountNumber != "" {
		name := vendor.Name
		if vendor.BankAccountName != nil && *vendor.BankAccountName != "" {
			name = *vendor.BankAccountName
		}
		bankCode := ""
		if vendor.BankName != nil {
			if bank, ok := ghana.BankByName(*vendor.BankName); ok {
				bankCode = bank.Code
			} else {
				bankCode = *vendor.BankName
			}
		}
		return &paystack.RecipientParams{
			Type:          "ghipss",
			Name:          name,
			AccountNumber: *vendor.BankAccountNumber,
			BankCode:      bankCode,
			Currency:      string(enums.CurrencyGHS),
		}, nil
	}
	if vendor.MomoNumber != nil && *vendor.MomoNumber != "" && vendor.MomoProvider != nil {
		return &paystack.RecipientParams{
			Type:          "mobile_money",
			Name:          vendor.Name,
			AccountNumber: *vendor.MomoNumber,
			BankCode:      vendor.MomoProvider.GatewayCode(),
			Currency:      string(enums.CurrencyGHS),
		}, nil
	}
	return nil, fmt.Errorf("vendor %s has no payout destination", vendor.ID)
}
