package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hotrecharge/hotrecharge-go/pkg/hotrecharge"
	"go.uber.org/zap"
)

// RechargeAPI is the slice of the recharge client these workflows use.
type RechargeAPI interface {
	WalletBalance(ctx context.Context) (hotrecharge.WalletBalanceResponse, error)
	ZesaWalletBalance(ctx context.Context) (hotrecharge.WalletBalanceResponse, error)
	CheckZesaCustomer(ctx context.Context, meterNumber string) (hotrecharge.ZesaCustomerResponse, error)
	RechargeZesa(ctx context.Context, request hotrecharge.ZesaRechargeRequest) (hotrecharge.ZesaRechargeResponse, error)
	QueryZesaTransaction(ctx context.Context, rechargeID string) (hotrecharge.ZesaTransactionResponse, error)
}

// ZesaConfig paces the pending-transaction poll. The provider asks agents to
// query a pending purchase no more than a few times per minute.
type ZesaConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	MaxPolls     int           `mapstructure:"max_polls"`
}

type Zesa struct {
	api    RechargeAPI
	cfg    ZesaConfig
	logger *zap.Logger
}

func NewZesaService(api RechargeAPI, cfg ZesaConfig, logger *zap.Logger) *Zesa {
	return &Zesa{api: api, cfg: cfg, logger: logger}
}

// VendResult is a confirmed electricity purchase.
type VendResult struct {
	Customer   hotrecharge.ZesaCustomer
	Tokens     []hotrecharge.ZesaToken
	RechargeID int64
}

// VendElectricity looks up the meter's customer, purchases a token, and, when
// the provider answers with a pending-verification reply, polls the
// transaction until it settles or the poll budget runs out.
func (z *Zesa) VendElectricity(ctx context.Context, request hotrecharge.ZesaRechargeRequest) (VendResult, error) {
	customer, err := z.api.CheckZesaCustomer(ctx, request.MeterNumber)
	if err != nil {
		z.logger.Warn("zesa customer lookup failed",
			zap.Error(err),
			zap.String("meterNumber", request.MeterNumber))
		return VendResult{}, NewServiceError(ErrCodeCustomerLookup, err)
	}

	z.logger.Info("zesa customer confirmed",
		zap.String("meterNumber", request.MeterNumber),
		zap.String("customerName", customer.CustomerInfo.CustomerName))

	recharge, err := z.api.RechargeZesa(ctx, request)
	if err == nil {
		z.logger.Info("zesa recharge settled",
			zap.Int64("rechargeID", recharge.RechargeID),
			zap.Int("tokens", len(recharge.Tokens)))

		return VendResult{
			Customer:   customer.CustomerInfo,
			Tokens:     recharge.Tokens,
			RechargeID: recharge.RechargeID,
		}, nil
	}

	if errors.Is(err, hotrecharge.ErrInsufficientBalance) {
		return VendResult{}, NewServiceError(ErrCodeInsufficientBalance, err)
	}

	if !errors.Is(err, hotrecharge.ErrPendingZesaTransaction) {
		z.logger.Error("zesa recharge failed",
			zap.Error(err),
			zap.String("meterNumber", request.MeterNumber))
		return VendResult{}, NewServiceError(ErrCodeVendFailed, err)
	}

	rechargeID, ok := pendingRechargeID(err)
	if !ok {
		return VendResult{}, NewServiceError(ErrCodeVendUnconfirmed, err)
	}

	z.logger.Info("zesa recharge pending verification",
		zap.String("rechargeID", rechargeID),
		zap.Duration("pollInterval", z.cfg.PollInterval))

	result, err := z.awaitSettlement(ctx, rechargeID)
	if err != nil {
		return VendResult{}, err
	}

	result.Customer = customer.CustomerInfo
	return result, nil
}

func (z *Zesa) awaitSettlement(ctx context.Context, rechargeID string) (VendResult, error) {
	var lastErr error

	for attempt := 1; attempt <= z.cfg.MaxPolls; attempt++ {
		select {
		case <-ctx.Done():
			return VendResult{}, ctx.Err()
		case <-time.After(z.cfg.PollInterval):
		}

		tx, err := z.api.QueryZesaTransaction(ctx, rechargeID)
		if err == nil {
			z.logger.Info("pending zesa recharge settled",
				zap.String("rechargeID", rechargeID),
				zap.Int("attempt", attempt))

			return VendResult{Tokens: tx.Tokens, RechargeID: tx.RechargeID}, nil
		}

		if !errors.Is(err, hotrecharge.ErrPendingZesaTransaction) {
			z.logger.Error("pending zesa recharge failed",
				zap.Error(err),
				zap.String("rechargeID", rechargeID),
				zap.Int("attempt", attempt))
			return VendResult{}, NewServiceError(ErrCodeVendFailed, err)
		}

		lastErr = err
	}

	z.logger.Warn("zesa recharge still pending after poll budget",
		zap.String("rechargeID", rechargeID),
		zap.Int("maxPolls", z.cfg.MaxPolls))

	return VendResult{}, NewServiceError(ErrCodeVendUnconfirmed, lastErr)
}

// pendingRechargeID digs the recharge id out of a pending-verification reply.
func pendingRechargeID(err error) (string, bool) {
	var apiErr *hotrecharge.APIError
	if !errors.As(err, &apiErr) || apiErr.Reply == nil {
		return "", false
	}

	v, ok := apiErr.Reply.Field("RechargeID")
	if !ok {
		return "", false
	}

	switch id := v.(type) {
	case float64:
		return fmt.Sprintf("%.0f", id), true
	case string:
		return id, true
	}

	return "", false
}
