package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/balcaolabs/pos-backend/api/responses"
	"github.com/balcaolabs/pos-backend/api/validators"
	financesvc "github.com/balcaolabs/pos-backend/internal/finance"
	"github.com/balcaolabs/pos-backend/pkg/enums"
	pkgerrors "github.com/balcaolabs/pos-backend/pkg/errors"
	"github.com/balcaolabs/pos-backend/pkg/logger"
	"github.com/balcaolabs/pos-backend/pkg/pagination"
)

type createPayableRequest struct {
	SupplierID  *string `json:"supplier_id,omitempty" validate:"omitempty,uuid"`
	Description string  `json:"description" validate:"required"`
	Amount      string  `json:"amount" validate:"required"`
	DueDate     string  `json:"due_date" validate:"required"`
}

type createReceivableRequest struct {
	CustomerName string `json:"customer_name" validate:"required"`
	Description  string `json:"description,omitempty"`
	Amount       string `json:"amount" validate:"required"`
	DueDate      string `json:"due_date" validate:"required"`
}

func PayableCreate(svc financesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createPayableRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		amount, dueDate, err := parseMoneyAndDate(payload.Amount, payload.DueDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := financesvc.CreatePayableInput{
			Description: payload.Description,
			Amount:      amount,
			DueDate:     dueDate,
		}
		if payload.SupplierID != nil {
			sid, err := uuid.Parse(*payload.SupplierID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid supplier id"))
				return
			}
			input.SupplierID = &sid
		}

		payable, err := svc.CreatePayable(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, payable)
	}
}

func ReceivableCreate(svc financesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createReceivableRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		amount, dueDate, err := parseMoneyAndDate(payload.Amount, payload.DueDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		receivable, err := svc.CreateReceivable(r.Context(), financesvc.CreateReceivableInput{
			CustomerName: payload.CustomerName,
			Description:  payload.Description,
			Amount:       amount,
			DueDate:      dueDate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, receivable)
	}
}

func PayableList(svc financesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := parseAccountsQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.ListPayables(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func ReceivableList(svc financesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := parseAccountsQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.ListReceivables(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func PayableSettle(svc financesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "payableId"), "payableId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.SettlePayable(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "settled"})
	}
}

func ReceivableSettle(svc financesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "receivableId"), "receivableId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.SettleReceivable(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "settled"})
	}
}

func FinanceSummary(svc financesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := svc.Summary(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

func parseAccountsQuery(r *http.Request) (financesvc.ListAccountsInput, error) {
	var input financesvc.ListAccountsInput

	if raw := validators.SanitizeString(r.URL.Query().Get("status"), 32); raw != "" {
		status, err := enums.ParseAccountStatus(raw)
		if err != nil {
			return input, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
		}
		input.Status = status
	}

	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return input, err
	}
	page, err := validators.ParseQueryInt(r, "page", 1, 1, 100000)
	if err != nil {
		return input, err
	}
	input.Limit = limit
	input.Page = page
	return input, nil
}

func parseMoneyAndDate(rawAmount, rawDate string) (decimal.Decimal, time.Time, error) {
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return decimal.Zero, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "amount must be a decimal string")
	}
	dueDate, err := time.Parse("2006-01-02", rawDate)
	if err != nil {
		return decimal.Zero, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "due date must use YYYY-MM-DD")
	}
	return amount, dueDate, nil
}
