package controllers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/granverde/forrajera-backend/api/responses"
	"github.com/granverde/forrajera-backend/api/validators"
	"github.com/granverde/forrajera-backend/internal/shifts"
	"github.com/granverde/forrajera-backend/pkg/db/models"
	pkgerrors "github.com/granverde/forrajera-backend/pkg/errors"
	"github.com/granverde/forrajera-backend/pkg/logger"
)

type corteAbrirRequest struct {
	UsuarioID    int64           `json:"usuario_id" validate:"required,gt=0"`
	SucursalID   int64           `json:"sucursal_id" validate:"required,gt=0"`
	FondoInicial decimal.Decimal `json:"fondo_inicial"`
}

type corteCerrarRequest struct {
	CorteID       *int64          `json:"corte_id,omitempty"`
	UsuarioID     int64           `json:"usuario_id" validate:"required,gt=0"`
	EfectivoReal  decimal.Decimal `json:"efectivo_real"`
	MontoRetirado decimal.Decimal `json:"monto_retirado"`
	Comentarios   *string         `json:"comentarios,omitempty"`
}

type corteResponse struct {
	ID               int64            `json:"id"`
	UsuarioID        int64            `json:"usuario_id"`
	SucursalID       int64            `json:"sucursal_id"`
	FechaApertura    time.Time        `json:"fecha_apertura"`
	FechaCierre      *time.Time       `json:"fecha_cierre,omitempty"`
	FondoInicial     decimal.Decimal  `json:"fondo_inicial"`
	VentasTotales    *decimal.Decimal `json:"ventas_totales,omitempty"`
	EfectivoEsperado *decimal.Decimal `json:"efectivo_esperado,omitempty"`
	EfectivoReal     *decimal.Decimal `json:"efectivo_real,omitempty"`
	MontoRetirado    *decimal.Decimal `json:"monto_retirado,omitempty"`
	Diferencia       *decimal.Decimal `json:"diferencia,omitempty"`
	FondoSiguiente   *decimal.Decimal `json:"fondo_siguiente,omitempty"`
	Comentarios      *string          `json:"comentarios,omitempty"`
}

func corteView(shift *models.Shift) corteResponse {
	return corteResponse{
		ID:               shift.ID,
		UsuarioID:        shift.UserID,
		SucursalID:       shift.BranchID,
		FechaApertura:    shift.OpenedAt,
		FechaCierre:      shift.ClosedAt,
		FondoInicial:     shift.OpeningFund,
		VentasTotales:    shift.TotalSales,
		EfectivoEsperado: shift.ExpectedCash,
		EfectivoReal:     shift.CountedCash,
		MontoRetirado:    shift.WithdrawnCash,
		Diferencia:       shift.Difference,
		FondoSiguiente:   shift.NextFund,
		Comentarios:      shift.Comments,
	}
}

func CorteAbrir(svc shifts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shift service unavailable"))
			return
		}

		var payload corteAbrirRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		shift, err := svc.Open(r.Context(), shifts.OpenInput{
			UserID:      payload.UsuarioID,
			BranchID:    payload.SucursalID,
			OpeningFund: payload.FondoInicial,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, corteView(shift))
	}
}

func CorteActual(svc shifts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shift service unavailable"))
			return
		}

		userID, err := validators.ParsePathID(r, "usuarioId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := svc.Current(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view := corteView(status.Shift)
		view.VentasTotales = &status.TotalSales
		view.EfectivoEsperado = &status.ExpectedCash
		responses.WriteSuccess(w, view)
	}
}

func CorteCerrar(svc shifts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shift service unavailable"))
			return
		}

		var payload corteCerrarRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		shift, err := svc.Close(r.Context(), shifts.CloseInput{
			ShiftID:       payload.CorteID,
			UserID:        payload.UsuarioID,
			CountedCash:   payload.EfectivoReal,
			WithdrawnCash: payload.MontoRetirado,
			Comments:      payload.Comentarios,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, corteView(shift))
	}
}
