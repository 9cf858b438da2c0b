package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/granverde/forrajera-backend/api/responses"
	"github.com/granverde/forrajera-backend/api/validators"
	"github.com/granverde/forrajera-backend/internal/discounts"
	"github.com/granverde/forrajera-backend/pkg/db/models"
	pkgerrors "github.com/granverde/forrajera-backend/pkg/errors"
	"github.com/granverde/forrajera-backend/pkg/logger"
)

type descuentoRequest struct {
	Nombre              string          `json:"nombre" validate:"required"`
	ProductoID          *int64          `json:"producto_id,omitempty"`
	MarcaID             *int64          `json:"marca_id,omitempty"`
	ClienteID           *int64          `json:"cliente_id,omitempty"`
	DescuentoPorcentaje decimal.Decimal `json:"descuento_porcentaje"`
	Activo              bool            `json:"activo"`
}

type descuentoResponse struct {
	ID                  int64           `json:"id"`
	Nombre              string          `json:"nombre"`
	ProductoID          *int64          `json:"producto_id,omitempty"`
	MarcaID             *int64          `json:"marca_id,omitempty"`
	ClienteID           *int64          `json:"cliente_id,omitempty"`
	DescuentoPorcentaje decimal.Decimal `json:"descuento_porcentaje"`
	Activo              bool            `json:"activo"`
}

func descuentoView(rule *models.DiscountRule) descuentoResponse {
	return descuentoResponse{
		ID:                  rule.ID,
		Nombre:              rule.Name,
		ProductoID:          rule.ProductID,
		MarcaID:             rule.BrandID,
		ClienteID:           rule.ClientID,
		DescuentoPorcentaje: rule.Percentage,
		Activo:              rule.Active,
	}
}

func (d descuentoRequest) toInput() discounts.RuleInput {
	return discounts.RuleInput{
		Name:       d.Nombre,
		ProductID:  d.ProductoID,
		BrandID:    d.MarcaID,
		ClientID:   d.ClienteID,
		Percentage: d.DescuentoPorcentaje,
		Active:     d.Activo,
	}
}

func DescuentoCreate(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}

		var payload descuentoRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rule, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, descuentoView(rule))
	}
}

func DescuentoUpdate(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}

		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload descuentoRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rule, err := svc.Update(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, descuentoView(rule))
	}
}

func DescuentoDelete(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}

		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"id": id, "eliminada": true})
	}
}

func DescuentoList(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}

		rules, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]descuentoResponse, 0, len(rules))
		for i := range rules {
			views = append(views, descuentoView(&rules[i]))
		}
		responses.WriteSuccess(w, views)
	}
}
