package handler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DigamberMehta/Store2Door-sub001/internal/common/auth"
)

func SetupRoutes(mux *http.ServeMux, h *OrderHandler, authManager *auth.Manager) {
	mux.Handle("POST /orders", authManager.Middleware(http.HandlerFunc(h.CreateOrder)))
	mux.Handle("PATCH /orders/{order_id}/status", authManager.Middleware(http.HandlerFunc(h.UpdateStatus)))
	mux.Handle("GET /orders/{order_id}/tracking", authManager.Middleware(http.HandlerFunc(h.GetTracking)))

	mux.HandleFunc("POST /auth/token", authManager.GetTokenHandler())
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
}
