package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ordermesh/logistics-service/internal/application"
	"github.com/ordermesh/logistics-service/internal/ports"
)

type Handler struct {
	service  *application.Service
	verifier ports.TokenVerifier
}

func NewHandler(service *application.Service, verifier ports.TokenVerifier) *Handler {
	return &Handler{service: service, verifier: verifier}
}

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { writeSuccess(w, http.StatusOK, "ok") })
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) { writeSuccess(w, http.StatusOK, "ready") })

	r.Route("/v1/shipments", func(r chi.Router) {
		r.Use(handler.authMiddleware)
		r.Get("/", handler.listShipments)
		r.Get("/stats", handler.shipmentStats)
		r.Get("/{shipment_id}", handler.getShipment)
		r.Post("/{shipment_id}/status", handler.updateStatus)
		r.Post("/{shipment_id}/tracking", handler.assignTracking)
		r.Delete("/{shipment_id}", handler.deleteShipment)
	})
	return r
}
