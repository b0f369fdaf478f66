package service

import (
	"context"

	"go.uber.org/zap"
)

type Balance struct {
	api    RechargeAPI
	logger *zap.Logger
}

func NewBalanceService(api RechargeAPI, logger *zap.Logger) *Balance {
	return &Balance{api: api, logger: logger}
}

// Balances holds both agent wallets.
type Balances struct {
	Airtime float64
	Zesa    float64
}

func (b *Balance) Balances(ctx context.Context) (Balances, error) {
	airtime, err := b.api.WalletBalance(ctx)
	if err != nil {
		b.logger.Error("airtime wallet query failed", zap.Error(err))
		return Balances{}, NewServiceError(ErrCodeBalanceQuery, err)
	}

	zesa, err := b.api.ZesaWalletBalance(ctx)
	if err != nil {
		b.logger.Error("zesa wallet query failed", zap.Error(err))
		return Balances{}, NewServiceError(ErrCodeBalanceQuery, err)
	}

	return Balances{Airtime: airtime.WalletBalance, Zesa: zesa.WalletBalance}, nil
}
