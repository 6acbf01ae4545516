package api

import (
	"net/http"

	"github.com/kabylesystem/xrpl-hackaton/internal/handler"
	"github.com/kabylesystem/xrpl-hackaton/internal/relay"

	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// SetupRouter sets up router with handlers
func SetupRouter(broadcaster *relay.Broadcaster, logger *zap.Logger) http.Handler {
	smsHandler := handler.NewSMSHandler(broadcaster, logger)

	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// SMS webhook
	mux.HandleFunc("/sms/receive", smsHandler.Receive)

	// Ops
	mux.HandleFunc("/healthz", smsHandler.Healthz)

	return mux
}
