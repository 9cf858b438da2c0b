package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/granverde/forrajera-backend/api/responses"
	"github.com/granverde/forrajera-backend/api/validators"
	"github.com/granverde/forrajera-backend/internal/inventory"
	"github.com/granverde/forrajera-backend/pkg/db/models"
	pkgerrors "github.com/granverde/forrajera-backend/pkg/errors"
	"github.com/granverde/forrajera-backend/pkg/logger"
	"github.com/granverde/forrajera-backend/pkg/pagination"
)

type ingresoRequest struct {
	ProductoID    int64            `json:"producto_id" validate:"required,gt=0"`
	SucursalID    int64            `json:"sucursal_id" validate:"required,gt=0"`
	Cantidad      decimal.Decimal  `json:"cantidad"`
	CostoUnitario *decimal.Decimal `json:"costo_unitario,omitempty"`
	Proveedor     *string          `json:"proveedor,omitempty"`
	UsuarioID     int64            `json:"usuario_id" validate:"required,gt=0"`
}

type ingresoResponse struct {
	ID            int64            `json:"id"`
	ProductoID    int64            `json:"producto_id"`
	SucursalID    int64            `json:"sucursal_id"`
	Cantidad      decimal.Decimal  `json:"cantidad"`
	UnidadesBase  decimal.Decimal  `json:"unidades_base"`
	CostoUnitario *decimal.Decimal `json:"costo_unitario,omitempty"`
	Proveedor     *string          `json:"proveedor,omitempty"`
	UsuarioID     int64            `json:"usuario_id"`
	Fecha         time.Time        `json:"fecha"`
}

func ingresoView(entry *models.StockEntry) ingresoResponse {
	return ingresoResponse{
		ID:            entry.ID,
		ProductoID:    entry.ProductID,
		SucursalID:    entry.BranchID,
		Cantidad:      entry.Quantity,
		UnidadesBase:  entry.BaseUnits,
		CostoUnitario: entry.UnitCost,
		Proveedor:     entry.Supplier,
		UsuarioID:     entry.UserID,
		Fecha:         entry.CreatedAt,
	}
}

type existenciaResponse struct {
	ProductoID         int64           `json:"producto_id"`
	Producto           *string         `json:"producto,omitempty"`
	SucursalID         int64           `json:"sucursal_id"`
	Cantidad           decimal.Decimal `json:"cantidad"`
	FechaActualizacion time.Time       `json:"fecha_actualizacion"`
}

type ajusteRequest struct {
	ProductoID     int64           `json:"producto_id" validate:"required,gt=0"`
	SucursalID     int64           `json:"sucursal_id" validate:"required,gt=0"`
	CantidadFisica decimal.Decimal `json:"cantidad_fisica"`
	Motivo         string          `json:"motivo" validate:"required"`
	UsuarioID      int64           `json:"usuario_id" validate:"required,gt=0"`
}

type ajusteResponse struct {
	ID              int64           `json:"id"`
	ProductoID      int64           `json:"producto_id"`
	SucursalID      int64           `json:"sucursal_id"`
	CantidadSistema decimal.Decimal `json:"cantidad_sistema"`
	CantidadFisica  decimal.Decimal `json:"cantidad_fisica"`
	Diferencia      decimal.Decimal `json:"diferencia"`
	Motivo          string          `json:"motivo"`
	UsuarioID       int64           `json:"usuario_id"`
	Fecha           time.Time       `json:"fecha"`
}

type movimientoResponse struct {
	ID               int64           `json:"id"`
	ProductoID       int64           `json:"producto_id"`
	SucursalID       int64           `json:"sucursal_id"`
	TipoMovimiento   string          `json:"tipo_movimiento"`
	CantidadAnterior decimal.Decimal `json:"cantidad_anterior"`
	CantidadMovida   decimal.Decimal `json:"cantidad_movida"`
	CantidadNueva    decimal.Decimal `json:"cantidad_nueva"`
	ReferenciaID     *int64          `json:"referencia_id,omitempty"`
	UsuarioID        int64           `json:"usuario_id"`
	Motivo           *string         `json:"motivo,omitempty"`
	Fecha            time.Time       `json:"fecha"`
}

type pageResponse struct {
	Items      any    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
}

func IngresoCreate(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var payload ingresoRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entry, err := svc.RecordIngress(r.Context(), inventory.IngressInput{
			ProductID: payload.ProductoID,
			BranchID:  payload.SucursalID,
			Quantity:  payload.Cantidad,
			UnitCost:  payload.CostoUnitario,
			Supplier:  payload.Proveedor,
			UserID:    payload.UsuarioID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, ingresoView(entry))
	}
}

func InventarioList(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		filters := inventory.StockFilters{
			BranchID:  optionalQueryID(r, "sucursal_id"),
			ProductID: optionalQueryID(r, "producto_id"),
		}

		rows, err := svc.ListStock(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]existenciaResponse, 0, len(rows))
		for _, row := range rows {
			view := existenciaResponse{
				ProductoID:         row.ProductID,
				SucursalID:         row.BranchID,
				Cantidad:           row.Quantity,
				FechaActualizacion: row.UpdatedAt,
			}
			if row.Product != nil {
				view.Producto = &row.Product.Name
			}
			views = append(views, view)
		}
		responses.WriteSuccess(w, views)
	}
}

func IngresosList(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		page, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters := inventory.EntryFilters{
			BranchID:  optionalQueryID(r, "sucursal_id"),
			ProductID: optionalQueryID(r, "producto_id"),
		}

		rows, next, err := svc.ListEntries(r.Context(), filters, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]ingresoResponse, 0, len(rows))
		for i := range rows {
			views = append(views, ingresoView(&rows[i]))
		}
		responses.WriteSuccess(w, pageResponse{Items: views, NextCursor: next})
	}
}

func AjusteCreate(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var payload ajusteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		adjustment, err := svc.Adjust(r.Context(), inventory.AdjustInput{
			ProductID:  payload.ProductoID,
			BranchID:   payload.SucursalID,
			CountedQty: payload.CantidadFisica,
			Reason:     payload.Motivo,
			UserID:     payload.UsuarioID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, ajusteResponse{
			ID:              adjustment.ID,
			ProductoID:      adjustment.ProductID,
			SucursalID:      adjustment.BranchID,
			CantidadSistema: adjustment.SystemQuantity,
			CantidadFisica:  adjustment.CountedQty,
			Diferencia:      adjustment.Difference,
			Motivo:          adjustment.Reason,
			UsuarioID:       adjustment.UserID,
			Fecha:           adjustment.CreatedAt,
		})
	}
}

func HistorialList(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		page, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters := inventory.MovementFilters{
			BranchID:  optionalQueryID(r, "sucursal_id"),
			ProductID: optionalQueryID(r, "producto_id"),
		}
		if tipo := strings.TrimSpace(r.URL.Query().Get("tipo_movimiento")); tipo != "" {
			filters.Type = &tipo
		}

		rows, next, err := svc.History(r.Context(), filters, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]movimientoResponse, 0, len(rows))
		for _, row := range rows {
			views = append(views, movimientoResponse{
				ID:               row.ID,
				ProductoID:       row.ProductID,
				SucursalID:       row.BranchID,
				TipoMovimiento:   row.Type.String(),
				CantidadAnterior: row.Previous,
				CantidadMovida:   row.Moved,
				CantidadNueva:    row.Resulting,
				ReferenciaID:     row.ReferenceID,
				UsuarioID:        row.UserID,
				Motivo:           row.Reason,
				Fecha:            row.CreatedAt,
			})
		}
		responses.WriteSuccess(w, pageResponse{Items: views, NextCursor: next})
	}
}

func pageParams(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	}, nil
}

func optionalQueryID(r *http.Request, key string) *int64 {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}
