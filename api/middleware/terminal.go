package middleware

import (
	"net/http"
	"strings"

	"github.com/balcaolabs/pos-backend/api/responses"
	pkgerrors "github.com/balcaolabs/pos-backend/pkg/errors"
	"github.com/balcaolabs/pos-backend/pkg/logger"
)

const terminalIDHeader = "X-Terminal-Id"

// TerminalContext requires the terminal header on cart routes so each till
// works against its own in-memory cart.
func TerminalContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			terminalID := strings.TrimSpace(r.Header.Get(terminalIDHeader))
			if terminalID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "X-Terminal-Id header required"))
				return
			}

			ctx := WithTerminalID(r.Context(), terminalID)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{"terminal_id": terminalID})
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
