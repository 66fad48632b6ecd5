package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"sala-quiz-service/internal/app"
	"sala-quiz-service/internal/domain"
)

// ClaimsHandler lets the registration page fetch the stored reward ticket
// and the fallback result snapshot for a kiosk.
type ClaimsHandler struct {
	service *app.KioskService
}

func NewClaimsHandler(service *app.KioskService) *ClaimsHandler {
	return &ClaimsHandler{service: service}
}

type claimResponse struct {
	Ticket domain.ClaimTicket   `json:"ticket"`
	Result domain.AttemptResult `json:"result"`
}

func (h *ClaimsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	kiosk := r.URL.Query().Get("kiosk")
	if kiosk == "" {
		http.Error(w, "missing kiosk session key", http.StatusBadRequest)
		return
	}

	ticket, result, err := h.service.Claim(r.Context(), kiosk)
	if err != nil {
		if errors.Is(err, domain.ErrClaimNotFound) {
			http.Error(w, "no claim for kiosk", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(claimResponse{Ticket: ticket, Result: result})
}
