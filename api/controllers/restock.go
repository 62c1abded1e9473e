package controllers

import (
	"net/http"

	"github.com/balcaolabs/pos-backend/api/responses"
	restocksvc "github.com/balcaolabs/pos-backend/internal/restock"
	"github.com/balcaolabs/pos-backend/pkg/logger"
)

// RestockSuggestions returns order suggestions for products at or below
// their minimum quantity.
func RestockSuggestions(svc restocksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		suggestions, err := svc.Suggestions(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, suggestions)
	}
}
