package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/balcaolabs/pos-backend/api/responses"
	"github.com/balcaolabs/pos-backend/api/validators"
	"github.com/balcaolabs/pos-backend/internal/catalog"
	pkgerrors "github.com/balcaolabs/pos-backend/pkg/errors"
	"github.com/balcaolabs/pos-backend/pkg/logger"
	"github.com/balcaolabs/pos-backend/pkg/pagination"
)

type createProductRequest struct {
	Name         string   `json:"name" validate:"required"`
	Brand        string   `json:"brand,omitempty"`
	Model        string   `json:"model,omitempty"`
	Category     string   `json:"category" validate:"required"`
	Size         string   `json:"size,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Price        string   `json:"price" validate:"required"`
	Quantity     int      `json:"quantity" validate:"min=0"`
	MinQuantity  int      `json:"min_quantity" validate:"min=0"`
	Barcode      string   `json:"barcode,omitempty"`
	InternalCode string   `json:"internal_code,omitempty"`
	SupplierID   *string  `json:"supplier_id,omitempty" validate:"omitempty,uuid"`
}

type updateProductRequest struct {
	Name         *string   `json:"name,omitempty"`
	Brand        *string   `json:"brand,omitempty"`
	Model        *string   `json:"model,omitempty"`
	Category     *string   `json:"category,omitempty"`
	Size         *string   `json:"size,omitempty"`
	Tags         *[]string `json:"tags,omitempty"`
	Price        *string   `json:"price,omitempty"`
	MinQuantity  *int      `json:"min_quantity,omitempty" validate:"omitempty,min=0"`
	Barcode      *string   `json:"barcode,omitempty"`
	InternalCode *string   `json:"internal_code,omitempty"`
	SupplierID   *string   `json:"supplier_id,omitempty" validate:"omitempty,uuid"`
	IsActive     *bool     `json:"is_active,omitempty"`
}

func ProductCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		price, err := decimal.NewFromString(payload.Price)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "price must be a decimal string"))
			return
		}

		input := catalog.CreateProductInput{
			Name:         payload.Name,
			Brand:        payload.Brand,
			Model:        payload.Model,
			Category:     payload.Category,
			Size:         payload.Size,
			Tags:         payload.Tags,
			Price:        price,
			Quantity:     payload.Quantity,
			MinQuantity:  payload.MinQuantity,
			Barcode:      payload.Barcode,
			InternalCode: payload.InternalCode,
		}
		if payload.SupplierID != nil {
			sid, err := uuid.Parse(*payload.SupplierID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid supplier id"))
				return
			}
			input.SupplierID = &sid
		}

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func ProductUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.UpdateProductInput{
			Name:         payload.Name,
			Brand:        payload.Brand,
			Model:        payload.Model,
			Category:     payload.Category,
			Size:         payload.Size,
			Tags:         payload.Tags,
			MinQuantity:  payload.MinQuantity,
			Barcode:      payload.Barcode,
			InternalCode: payload.InternalCode,
			IsActive:     payload.IsActive,
		}
		if payload.Price != nil {
			price, err := decimal.NewFromString(*payload.Price)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "price must be a decimal string"))
				return
			}
			input.Price = &price
		}
		if payload.SupplierID != nil {
			sid, err := uuid.Parse(*payload.SupplierID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid supplier id"))
				return
			}
			input.SupplierID = &sid
		}

		product, err := svc.UpdateProduct(r.Context(), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ProductDeactivate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeactivateProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}

func ProductDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ProductLookup resolves a scanned barcode or typed code to one product.
func ProductLookup(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := validators.SanitizeString(r.URL.Query().Get("code"), 128)
		product, err := svc.Lookup(r.Context(), code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ProductList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
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

		result, err := svc.ListProducts(r.Context(), catalog.ListProductsInput{
			Search: validators.SanitizeString(r.URL.Query().Get("search"), 128),
			Limit:  limit,
			Page:   page,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func ProductLowStock(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := svc.LowStockProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}
