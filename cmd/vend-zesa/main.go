package main

import (
	"context"
	"flag"

	"github.com/hotrecharge/hotrecharge-go/internal/config"
	"github.com/hotrecharge/hotrecharge-go/internal/service"
	"github.com/hotrecharge/hotrecharge-go/pkg/hotrecharge"
	"github.com/hotrecharge/hotrecharge-go/pkg/httpclient"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	amount := flag.Float64("amount", 0, "amount to vend, USD")
	meter := flag.String("meter", "", "11 digit meter number")
	contact := flag.String("contact", "", "number to send the token to")
	message := flag.String("message", "", "optional customer sms")
	flag.Parse()

	request := hotrecharge.ZesaRechargeRequest{
		Amount:        *amount,
		MeterNumber:   *meter,
		NotifyContact: *contact,
		CustomerSMS:   *message,
	}

	fx.New(
		fx.Supply(request),
		fx.Provide(
			config.Load,
			zap.NewProduction,
			NewRechargeClient,
			NewRechargeAPI,
			NewZesaService,
		),
		fx.Invoke(runVend),
	).Run()
}

func runVend(svc *service.Zesa, request hotrecharge.ZesaRechargeRequest, logger *zap.Logger,
	shutdowner fx.Shutdowner, lc fx.Lifecycle,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				result, err := svc.VendElectricity(context.Background(), request)
				if err != nil {
					logger.Error("vend failed",
						zap.Error(err),
						zap.String("meterNumber", request.MeterNumber))
				} else {
					for _, token := range result.Tokens {
						logger.Info("electricity token",
							zap.String("token", token.Token),
							zap.String("units", token.Units),
							zap.String("customer", result.Customer.CustomerName))
					}
				}

				shutdowner.Shutdown()
			}()
			return nil
		},
	})
}

func NewZesaService(api service.RechargeAPI, cfg *config.Config, logger *zap.Logger) *service.Zesa {
	return service.NewZesaService(api, cfg.Zesa, logger)
}

func NewRechargeClient(cfg *config.Config) (*hotrecharge.Client, error) {
	auth, err := hotrecharge.NewAuthConfig(cfg.Credentials.AccessCode,
		cfg.Credentials.AccessPassword, cfg.Credentials.Reference)
	if err != nil {
		return nil, err
	}

	// zesa purchases regularly take longer than the balance queries the
	// default timeout is sized for
	client := httpclient.NewHTTPClient(cfg.API.Timeout).WithTimeout(3 * cfg.API.Timeout)

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
