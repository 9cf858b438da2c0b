package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/granverde/forrajera-backend/api/responses"
	"github.com/granverde/forrajera-backend/api/validators"
	"github.com/granverde/forrajera-backend/internal/catalog"
	"github.com/granverde/forrajera-backend/pkg/db/models"
	"github.com/granverde/forrajera-backend/pkg/enums"
	pkgerrors "github.com/granverde/forrajera-backend/pkg/errors"
	"github.com/granverde/forrajera-backend/pkg/logger"
)

type productoRequest struct {
	Nombre         string           `json:"nombre" validate:"required"`
	SKU            *string          `json:"sku,omitempty"`
	CodigoBarras   *string          `json:"codigo_barras,omitempty"`
	TipoProducto   *string          `json:"tipo_producto,omitempty"`
	MarcaID        *int64           `json:"marca_id,omitempty"`
	CategoriaID    *int64           `json:"categoria_id,omitempty"`
	SubcategoriaID *int64           `json:"subcategoria_id,omitempty"`
	EspecieID      *int64           `json:"especie_id,omitempty"`
	EtapaID        *int64           `json:"etapa_id,omitempty"`
	LineaID        *int64           `json:"linea_id,omitempty"`
	UnidadMedida   string           `json:"unidad_medida" validate:"required"`
	ContenidoNeto  decimal.Decimal  `json:"contenido_neto"`
	SeVendeAGranel bool             `json:"se_vende_a_granel"`
	PrecioBase     decimal.Decimal  `json:"precio_base"`
	PrecioGranel   *decimal.Decimal `json:"precio_granel,omitempty"`
	Activo         *bool            `json:"activo,omitempty"`
}

func (p productoRequest) toInput() (catalog.ProductInput, error) {
	unit, err := enums.ParseUnitOfMeasure(p.UnidadMedida)
	if err != nil {
		return catalog.ProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unidad_medida")
	}
	return catalog.ProductInput{
		Name:           p.Nombre,
		SKU:            p.SKU,
		Barcode:        p.CodigoBarras,
		ProductType:    p.TipoProducto,
		BrandID:        p.MarcaID,
		CategoryID:     p.CategoriaID,
		SubcategoryID:  p.SubcategoriaID,
		SpeciesID:      p.EspecieID,
		StageID:        p.EtapaID,
		LineID:         p.LineaID,
		Unit:           unit,
		PackageContent: p.ContenidoNeto,
		AllowBulkSale:  p.SeVendeAGranel,
		BasePrice:      p.PrecioBase,
		BulkPrice:      p.PrecioGranel,
		Active:         p.Activo,
	}, nil
}

type productoResponse struct {
	ID             int64            `json:"id"`
	Nombre         string           `json:"nombre"`
	SKU            *string          `json:"sku,omitempty"`
	CodigoBarras   *string          `json:"codigo_barras,omitempty"`
	TipoProducto   *string          `json:"tipo_producto,omitempty"`
	MarcaID        *int64           `json:"marca_id,omitempty"`
	CategoriaID    *int64           `json:"categoria_id,omitempty"`
	SubcategoriaID *int64           `json:"subcategoria_id,omitempty"`
	EspecieID      *int64           `json:"especie_id,omitempty"`
	EtapaID        *int64           `json:"etapa_id,omitempty"`
	LineaID        *int64           `json:"linea_id,omitempty"`
	UnidadMedida   string           `json:"unidad_medida"`
	ContenidoNeto  decimal.Decimal  `json:"contenido_neto"`
	SeVendeAGranel bool             `json:"se_vende_a_granel"`
	PrecioBase     decimal.Decimal  `json:"precio_base"`
	PrecioGranel   *decimal.Decimal `json:"precio_granel,omitempty"`
	Activo         bool             `json:"activo"`
}

func productoView(product *models.Product) productoResponse {
	return productoResponse{
		ID:             product.ID,
		Nombre:         product.Name,
		SKU:            product.SKU,
		CodigoBarras:   product.Barcode,
		TipoProducto:   product.ProductType,
		MarcaID:        product.BrandID,
		CategoriaID:    product.CategoryID,
		SubcategoriaID: product.SubcategoryID,
		EspecieID:      product.SpeciesID,
		EtapaID:        product.StageID,
		LineaID:        product.LineID,
		UnidadMedida:   product.Unit.String(),
		ContenidoNeto:  product.PackageContent,
		SeVendeAGranel: product.AllowBulkSale,
		PrecioBase:     product.BasePrice,
		PrecioGranel:   product.BulkPrice,
		Activo:         product.Active,
	}
}

func ProductoCreate(svc catalog.Products, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload productoRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, productoView(product))
	}
}

func ProductoGet(svc catalog.Products, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, productoView(product))
	}
}

func ProductoUpdate(svc catalog.Products, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload productoRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, productoView(product))
	}
}

func ProductoDelete(svc catalog.Products, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Deactivate(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"id": id, "activo": false})
	}
}

func ProductoList(svc catalog.Products, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		filters := catalog.ProductFilters{
			BrandID:    optionalQueryID(r, "marca_id"),
			CategoryID: optionalQueryID(r, "categoria_id"),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("activo")); raw != "" {
			active := raw == "true" || raw == "1"
			filters.Active = &active
		}
		if search := strings.TrimSpace(r.URL.Query().Get("buscar")); search != "" {
			filters.Search = &search
		}

		rows, err := svc.List(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]productoResponse, 0, len(rows))
		for i := range rows {
			views = append(views, productoView(&rows[i]))
		}
		responses.WriteSuccess(w, views)
	}
}
