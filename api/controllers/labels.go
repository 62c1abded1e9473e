package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/balcaolabs/pos-backend/api/middleware"
	"github.com/balcaolabs/pos-backend/api/responses"
	"github.com/balcaolabs/pos-backend/api/validators"
	labelssvc "github.com/balcaolabs/pos-backend/internal/labels"
	"github.com/balcaolabs/pos-backend/pkg/enums"
	pkgerrors "github.com/balcaolabs/pos-backend/pkg/errors"
	"github.com/balcaolabs/pos-backend/pkg/logger"
	"github.com/balcaolabs/pos-backend/pkg/pagination"
)

type queueLabelsRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Copies    int    `json:"copies" validate:"required,min=1"`
}

func LabelQueue(svc labelssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		operatorID, err := uuid.Parse(middleware.OperatorIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "operator context missing"))
			return
		}

		var payload queueLabelsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id"))
			return
		}

		job, err := svc.QueueLabels(r.Context(), labelssvc.QueueLabelsInput{
			ProductID:   productID,
			Copies:      payload.Copies,
			RequestedBy: operatorID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, job)
	}
}

func LabelList(svc labelssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input labelssvc.ListJobsInput

		if raw := validators.SanitizeString(r.URL.Query().Get("status"), 32); raw != "" {
			status, err := enums.ParseLabelJobStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter"))
				return
			}
			input.Status = status
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := validators.ParseQueryInt(r, "page", 1, 1, 100000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.Limit = limit
		input.Page = page

		result, err := svc.ListJobs(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func LabelMarkPrinted(svc labelssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, err := validators.ParsePathUUID(chi.URLParam(r, "jobId"), "jobId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.MarkPrinted(r.Context(), jobID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "printed"})
	}
}

func LabelCancel(svc labelssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, err := validators.ParsePathUUID(chi.URLParam(r, "jobId"), "jobId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.CancelJob(r.Context(), jobID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "canceled"})
	}
}
