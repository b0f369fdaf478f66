package mocks

import (
	"context"

	"github.com/hotrecharge/hotrecharge-go/pkg/hotrecharge"
	"github.com/stretchr/testify/mock"
)

type RechargeAPI struct {
	mock.Mock
}

func (m *RechargeAPI) WalletBalance(ctx context.Context) (hotrecharge.WalletBalanceResponse, error) {
	args := m.Called(ctx)
	return args.Get(0).(hotrecharge.WalletBalanceResponse), args.Error(1)
}

func (m *RechargeAPI) ZesaWalletBalance(ctx context.Context) (hotrecharge.WalletBalanceResponse, error) {
	args := m.Called(ctx)
	return args.Get(0).(hotrecharge.WalletBalanceResponse), args.Error(1)
}

func (m *RechargeAPI) CheckZesaCustomer(ctx context.Context, meterNumber string) (hotrecharge.ZesaCustomerResponse, error) {
	args := m.Called(ctx, meterNumber)
	return args.Get(0).(hotrecharge.ZesaCustomerResponse), args.Error(1)
}

func (m *RechargeAPI) RechargeZesa(ctx context.Context, request hotrecharge.ZesaRechargeRequest) (hotrecharge.ZesaRechargeResponse, error) {
	args := m.Called(ctx, request)
	return args.Get(0).(hotrecharge.ZesaRechargeResponse), args.Error(1)
}

func (m *RechargeAPI) QueryZesaTransaction(ctx context.Context, rechargeID string) (hotrecharge.ZesaTransactionResponse, error) {
	args := m.Called(ctx, rechargeID)
	return args.Get(0).(hotrecharge.ZesaTransactionResponse), args.Error(1)
}
