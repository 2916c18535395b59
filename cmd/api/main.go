// Command api runs the SAP approval to Teams bridge HTTP server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/approvalbridge/bridge-go/internal/api"
	"github.com/approvalbridge/bridge-go/internal/card"
	"github.com/approvalbridge/bridge-go/internal/config"
	"github.com/approvalbridge/bridge-go/internal/notify"
	"github.com/approvalbridge/bridge-go/internal/observability"
	"github.com/approvalbridge/bridge-go/internal/sap"
	"github.com/approvalbridge/bridge-go/internal/service"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		slog.Error("config error", "error", err)
		os.Exit(1)
	}

	logger := observability.InitLogger(cfg.LogLevel)

	if cfg.OTelEnabled {
		shutdown, err := observability.InitTracer(context.Background(), "approval-bridge", string(cfg.Mode))
		if err != nil {
			logger.Error("otel init failed", "error", err)
		} else {
			defer shutdown(context.Background())
		}
	}

	metrics, err := observability.NewMetrics()
	if err != nil {
		logger.Error("metrics init failed", "error", err)
		os.Exit(1)
	}

	tokens := sap.NewTokenSource(cfg.SAPBaseURL, cfg.SAPClientID, cfg.SAPClientSecret)
	tokens.Metrics = metrics
	actions := sap.New(cfg.SAPBaseURL, tokens)
	dispatcher := notify.New(cfg.TeamsWebhookURL)
	builder := card.NewBuilder(cfg.AppURL + "/api/process-action")

	variant := card.VariantMock
	if cfg.Mode == config.ModeLive {
		variant = card.VariantLive
	}

	svc := service.New(service.Options{
		Actions:    actions,
		Dispatcher: dispatcher,
		Builder:    builder,
		Variant:    variant,
		InboxURL:   cfg.InboxURL,
		Metrics:    metrics,
	})

	oidcCfg := api.OIDCConfig{
		IssuerURL: cfg.OIDCIssuer,
		Audience:  cfg.OIDCAudience,
		Enabled:   cfg.OIDCEnabled(),
	}
	srv, err := api.New(svc, cfg.CORSOrigins, oidcCfg)
	if err != nil {
		logger.Error("server init failed", "error", err)
		os.Exit(1)
	}

	var handler http.Handler = srv
	if cfg.OTelEnabled {
		handler = otelhttp.NewHandler(handler, "approval-bridge-api")
	}

	addr := ":" + cfg.Port
	logger.Info("starting bridge server", "addr", addr, "mode", cfg.Mode, "oidc_enabled", oidcCfg.Enabled)
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
