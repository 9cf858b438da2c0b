package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/granverde/forrajera-backend/api/responses"
	"github.com/granverde/forrajera-backend/api/validators"
	"github.com/granverde/forrajera-backend/internal/sales"
	"github.com/granverde/forrajera-backend/pkg/db/models"
	pkgerrors "github.com/granverde/forrajera-backend/pkg/errors"
	"github.com/granverde/forrajera-backend/pkg/logger"
)

type ventaLineaRequest struct {
	ProductoID int64           `json:"producto_id" validate:"required,gt=0"`
	Cantidad   decimal.Decimal `json:"cantidad"`
	EsGranel   bool            `json:"es_granel"`
}

type ventaRequest struct {
	UsuarioID       int64               `json:"usuario_id" validate:"required,gt=0"`
	SucursalID      int64               `json:"sucursal_id" validate:"required,gt=0"`
	ClienteID       *int64              `json:"cliente_id,omitempty"`
	MetodoPago      string              `json:"metodo_pago,omitempty"`
	DescuentoManual decimal.Decimal     `json:"descuento_manual"`
	Lineas          []ventaLineaRequest `json:"lineas" validate:"required,min=1,dive"`
}

type ventaLineaResponse struct {
	ProductoID          int64           `json:"producto_id"`
	Cantidad            decimal.Decimal `json:"cantidad"`
	ModoPrecio          string          `json:"modo_precio"`
	PrecioUnitario      decimal.Decimal `json:"precio_unitario"`
	UnidadesBase        decimal.Decimal `json:"unidades_base"`
	DescuentoPorcentaje decimal.Decimal `json:"descuento_porcentaje"`
	DescuentoAplicado   decimal.Decimal `json:"descuento_aplicado"`
	Subtotal            decimal.Decimal `json:"subtotal"`
}

type ventaResponse struct {
	VentaID           int64                `json:"venta_id"`
	TotalBruto        decimal.Decimal      `json:"total_bruto"`
	DescuentoAplicado decimal.Decimal      `json:"descuento_aplicado"`
	TotalFinal        decimal.Decimal      `json:"total_final"`
	Lineas            []ventaLineaResponse `json:"lineas"`
}

func ventaView(sale *models.Sale) ventaResponse {
	lines := make([]ventaLineaResponse, 0, len(sale.Lines))
	for _, line := range sale.Lines {
		lines = append(lines, ventaLineaResponse{
			ProductoID:          line.ProductID,
			Cantidad:            line.Quantity,
			ModoPrecio:          line.PricingMode.String(),
			PrecioUnitario:      line.UnitPrice,
			UnidadesBase:        line.BaseUnits,
			DescuentoPorcentaje: line.DiscountPct,
			DescuentoAplicado:   line.DiscountAmt,
			Subtotal:            line.Subtotal,
		})
	}
	return ventaResponse{
		VentaID:           sale.ID,
		TotalBruto:        sale.GrossTotal,
		DescuentoAplicado: sale.DiscountTotal,
		TotalFinal:        sale.FinalTotal,
		Lineas:            lines,
	}
}

func VentaCreate(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sales service unavailable"))
			return
		}

		var payload ventaRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines := make([]sales.LineInput, 0, len(payload.Lineas))
		for _, linea := range payload.Lineas {
			lines = append(lines, sales.LineInput{
				ProductID: linea.ProductoID,
				Quantity:  linea.Cantidad,
				IsBulk:    linea.EsGranel,
			})
		}

		sale, err := svc.Record(r.Context(), sales.SaleInput{
			UserID:         payload.UsuarioID,
			BranchID:       payload.SucursalID,
			ClientID:       payload.ClienteID,
			PaymentMethod:  payload.MetodoPago,
			ManualDiscount: payload.DescuentoManual,
			Lines:          lines,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, ventaView(sale))
	}
}

func VentaGet(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sales service unavailable"))
			return
		}

		saleID, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sale, err := svc.Get(r.Context(), saleID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, ventaView(sale))
	}
}

func VentaCancel(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sales service unavailable"))
			return
		}

		saleID, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// the canceling cashier is attributed on the reversal movements
		userID, err := validators.ParseQueryInt(r, "usuario_id", 0, 0, int(^uint(0)>>1))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if userID <= 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "usuario_id query parameter required"))
			return
		}

		if err := svc.Cancel(r.Context(), saleID, int64(userID)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"venta_id": saleID, "cancelada": true})
	}
}
