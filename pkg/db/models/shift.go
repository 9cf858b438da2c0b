package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Shift is one cash-register session (corte de caja). A user has at most one
// open shift at a time, enforced by a partial unique index on usuario_id where
// fecha_cierre is null. Closing totals stay null until the shift is closed.
type Shift struct {
	ID             int64            `gorm:"column:id;primaryKey;autoIncrement"`
	UserID         int64            `gorm:"column:usuario_id;not null;index"`
	BranchID       int64            `gorm:"column:sucursal_id;not null;index"`
	OpeningFund    decimal.Decimal  `gorm:"column:fondo_inicial;type:numeric(10,2);not null"`
	TotalSales     *decimal.Decimal `gorm:"column:ventas_totales;type:numeric(10,2)"`
	ExpectedCash   *decimal.Decimal `gorm:"column:efectivo_esperado;type:numeric(10,2)"`
	CountedCash    *decimal.Decimal `gorm:"column:efectivo_real;type:numeric(10,2)"`
	Difference     *decimal.Decimal `gorm:"column:diferencia;type:numeric(10,2)"`
	NextFund       *decimal.Decimal `gorm:"column:fondo_siguiente;type:numeric(10,2)"`
	WithdrawnCash  *decimal.Decimal `gorm:"column:monto_retirado;type:numeric(10,2)"`
	Comments       *string          `gorm:"column:comentarios"`
	OpenedAt       time.Time        `gorm:"column:fecha_apertura;autoCreateTime"`
	ClosedAt       *time.Time       `gorm:"column:fecha_cierre"`

	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Branch *Branch `gorm:"foreignKey:BranchID;constraint:OnDelete:CASCADE"`
}

func (Shift) TableName() string { return "corte_caja" }

// IsOpen reports whether the shift is still accepting sales.
func (s *Shift) IsOpen() bool {
	return s.ClosedAt == nil
}
