package models

import "time"

// Branch is a physical store location. Inventory balances and shifts are
// scoped per branch.
type Branch struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:nombre;not null;uniqueIndex"`
	Address   *string   `gorm:"column:direccion"`
	Phone     *string   `gorm:"column:telefono"`
	Active    bool      `gorm:"column:activa;not null;default:true"`
	CreatedAt time.Time `gorm:"column:fecha_creacion;autoCreateTime"`
}

func (Branch) TableName() string { return "sucursal" }
