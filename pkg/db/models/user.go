package models

import "time"

// User is an operator of the point of sale. Authentication lives outside this
// service; the row exists so sales, shifts and movements can be attributed.
type User struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:nombre;not null"`
	Role      *string   `gorm:"column:rol"`
	BranchID  *int64    `gorm:"column:sucursal_id"`
	Active    bool      `gorm:"column:activo;not null;default:true"`
	CreatedAt time.Time `gorm:"column:fecha_creacion;autoCreateTime"`

	Branch *Branch `gorm:"foreignKey:BranchID;constraint:OnDelete:SET NULL"`
}

func (User) TableName() string { return "usuario" }
