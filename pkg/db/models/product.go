package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/granverde/forrajera-backend/pkg/enums"
)

// Product is the catalog master record. Prices are per package (or per base
// unit when the unit of measure already is a base unit); PackageContent is the
// number of base units one package holds and is pinned to 1 for base units.
type Product struct {
	ID             int64               `gorm:"column:id;primaryKey;autoIncrement"`
	Name           string              `gorm:"column:nombre;not null"`
	SKU            *string             `gorm:"column:sku;uniqueIndex"`
	Barcode        *string             `gorm:"column:codigo_barras"`
	ProductType    *string             `gorm:"column:tipo_producto"`
	BrandID        *int64              `gorm:"column:marca_id"`
	CategoryID     *int64              `gorm:"column:categoria_id"`
	SubcategoryID  *int64              `gorm:"column:subcategoria_id"`
	SpeciesID      *int64              `gorm:"column:especie_id"`
	StageID        *int64              `gorm:"column:etapa_id"`
	LineID         *int64              `gorm:"column:linea_id"`
	Unit           enums.UnitOfMeasure `gorm:"column:unidad_medida;type:text;not null"`
	PackageContent decimal.Decimal     `gorm:"column:contenido_neto;type:numeric(12,3);not null;default:1"`
	AllowBulkSale  bool                `gorm:"column:se_vende_a_granel;not null;default:false"`
	BasePrice      decimal.Decimal     `gorm:"column:precio_base;type:numeric(10,2);not null"`
	BulkPrice      *decimal.Decimal    `gorm:"column:precio_granel;type:numeric(10,2)"`
	Active         bool                `gorm:"column:activo;not null;default:true"`
	CreatedAt      time.Time           `gorm:"column:fecha_creacion;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:fecha_actualizacion;autoUpdateTime"`
}

// TableName keeps the table name of the live schema.
func (Product) TableName() string { return "producto" }
