package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/balcaolabs/pos-backend/api/responses"
	"github.com/balcaolabs/pos-backend/api/validators"
	operatorssvc "github.com/balcaolabs/pos-backend/internal/operators"
	"github.com/balcaolabs/pos-backend/pkg/enums"
	pkgerrors "github.com/balcaolabs/pos-backend/pkg/errors"
	"github.com/balcaolabs/pos-backend/pkg/logger"
	"github.com/balcaolabs/pos-backend/pkg/pagination"
)

type createOperatorRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required"`
}

type changePasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

func OperatorCreate(svc operatorssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createOperatorRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role, err := enums.ParseOperatorRole(payload.Role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid role"))
			return
		}

		operator, err := svc.CreateOperator(r.Context(), operatorssvc.CreateOperatorInput{
			Email:    payload.Email,
			Name:     payload.Name,
			Password: payload.Password,
			Role:     role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, operator)
	}
}

func OperatorList(svc operatorssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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

		result, err := svc.ListOperators(r.Context(), operatorssvc.ListOperatorsInput{Limit: limit, Page: page})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func OperatorChangePassword(svc operatorssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		operatorID, err := validators.ParsePathUUID(chi.URLParam(r, "operatorId"), "operatorId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload changePasswordRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ChangePassword(r.Context(), operatorID, payload.Password); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

func OperatorDeactivate(svc operatorssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		operatorID, err := validators.ParsePathUUID(chi.URLParam(r, "operatorId"), "operatorId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeactivateOperator(r.Context(), operatorID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}
