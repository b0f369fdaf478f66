package main

import (
	"context"

	"github.com/hotrecharge/hotrecharge-go/internal/config"
	"github.com/hotrecharge/hotrecharge-go/internal/service"
	"github.com/hotrecharge/hotrecharge-go/pkg/hotrecharge"
	"github.com/hotrecharge/hotrecharge-go/pkg/httpclient"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,
			NewRechargeClient,
			NewRechargeAPI,
			service.NewBalanceService,
		),
		fx.Invoke(runBalanceQuery),
	).Run()
}

func runBalanceQuery(svc *service.Balance, cfg *config.Config, logger *zap.Logger,
	shutdowner fx.Shutdowner, lc fx.Lifecycle,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				queryCtx, cancel := context.WithTimeout(context.Background(), cfg.API.Timeout)
				defer cancel()

				balances, err := svc.Balances(queryCtx)
				if err != nil {
					logger.Error("balance query failed", zap.Error(err))
				} else {
					logger.Info("agent balances",
						zap.Float64("airtime", balances.Airtime),
						zap.Float64("zesa", balances.Zesa))
				}

				shutdowner.Shutdown()
			}()
			return nil
		},
	})
}

func NewRechargeClient(cfg *config.Config) (*hotrecharge.Client, error) {
	auth, err := hotrecharge.NewAuthConfig(cfg.Credentials.AccessCode,
		cfg.Credentials.AccessPassword, cfg.Credentials.Reference)
	if err != nil {
		return nil, err
	}

	client := httpclient.NewHTTPClient(cfg.API.Timeout)

	return hotrecharge.NewClient(auth, client, hotrecharge.Options{
		BaseURL:              cfg.API.BaseURL,
		UseRandomRef:         cfg.API.UseRandomRef,
		ValidateTargetNumber: cfg.API.ValidateTargetNumber,
		EnforceMessageLimit:  cfg.API.EnforceMessageLimit,
	}), nil
}

func NewRechargeAPI(client *hotrecharge.Client) service.RechargeAPI {
	return client
}
