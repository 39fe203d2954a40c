package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/ordermesh/logistics-service/internal/contracts"
	"github.com/ordermesh/logistics-service/internal/domain"
)

func (h *Handler) getShipment(w http.ResponseWriter, r *http.Request) {
	shipment, err := h.service.GetShipment(r.Context(), chi.URLParam(r, "shipment_id"))
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, shipment)
}

func (h *Handler) listShipments(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	email := r.URL.Query().Get("customer_email")
	switch {
	case status != "" && email != "":
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "filter by either status or customer_email, not both")
		return
	case status != "":
		rows, err := h.service.ListByStatus(r.Context(), status)
		if err != nil {
			status, code, msg := mapDomainError(err)
			writeError(w, status, code, msg)
			return
		}
		writeSuccess(w, http.StatusOK, rows)
	case email != "":
		rows, err := h.service.ListByCustomerEmail(r.Context(), email)
		if err != nil {
			status, code, msg := mapDomainError(err)
			writeError(w, status, code, msg)
			return
		}
		writeSuccess(w, http.StatusOK, rows)
	default:
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "status or customer_email query param is required")
	}
}

func (h *Handler) shipmentStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, stats)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req contracts.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	requested, ok := domain.ParseShipmentStatus(req.Status)
	if !ok {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "unknown status")
		return
	}
	shipment, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "shipment_id"), requested, req.TrackingNumber)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, shipment)
}

func (h *Handler) assignTracking(w http.ResponseWriter, r *http.Request) {
	var req contracts.AssignTrackingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	shipment, err := h.service.AssignTrackingNumber(r.Context(), chi.URLParam(r, "shipment_id"), req.TrackingNumber)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, shipment)
}

func (h *Handler) deleteShipment(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok || strings.ToUpper(claims.Role) != "ADMIN" {
		writeError(w, http.StatusForbidden, "FORBIDDEN", "admin role required")
		return
	}
	if err := h.service.DeleteShipment(r.Context(), chi.URLParam(r, "shipment_id")); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true})
}
