package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/balcaolabs/pos-backend/api/middleware"
	"github.com/balcaolabs/pos-backend/api/responses"
	"github.com/balcaolabs/pos-backend/api/validators"
	checkoutsvc "github.com/balcaolabs/pos-backend/internal/checkout"
	"github.com/balcaolabs/pos-backend/pkg/enums"
	pkgerrors "github.com/balcaolabs/pos-backend/pkg/errors"
	"github.com/balcaolabs/pos-backend/pkg/logger"
)

type addLineRequest struct {
	Code string `json:"code" validate:"required"`
}

type adjustLineRequest struct {
	Delta int `json:"delta" validate:"required"`
}

type commitRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required"`
	CustomerName  string `json:"customer_name,omitempty"`
	DueDate       string `json:"due_date,omitempty"`
}

func CartFetch(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.GetCart(r.Context(), middleware.TerminalIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartAddLine scans a code into the terminal's cart.
func CartAddLine(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.AddLine(r.Context(), middleware.TerminalIDFromContext(r.Context()), payload.Code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func CartAdjustLine(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload adjustLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.AdjustLine(r.Context(), middleware.TerminalIDFromContext(r.Context()), productID, payload.Delta)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func CartRemoveLine(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.RemoveLine(r.Context(), middleware.TerminalIDFromContext(r.Context()), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func CartClear(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.ClearCart(r.Context(), middleware.TerminalIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}

// CheckoutCommit turns the terminal's cart into a durable sale.
func CheckoutCommit(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		operatorID, err := validators.ParsePathUUID(middleware.OperatorIDFromContext(r.Context()), "operator")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "operator context missing"))
			return
		}
		role, err := enums.ParseOperatorRole(middleware.RoleFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "operator role missing"))
			return
		}

		var payload commitRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(payload.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method"))
			return
		}

		input := checkoutsvc.CommitInput{
			TerminalID:    middleware.TerminalIDFromContext(r.Context()),
			PaymentMethod: method,
			OperatorID:    operatorID,
			OperatorRole:  role,
			CustomerName:  validators.SanitizeString(payload.CustomerName, 128),
		}
		if payload.DueDate != "" {
			due, err := time.Parse("2006-01-02", payload.DueDate)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "due date must use YYYY-MM-DD"))
				return
			}
			input.DueDate = &due
		}

		sale, err := svc.Commit(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, sale)
	}
}
