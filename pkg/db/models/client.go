package models

import "time"

// Client is an optional customer attached to a sale for record keeping.
type Client struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:nombre;not null"`
	Phone     *string   `gorm:"column:telefono"`
	Email     *string   `gorm:"column:email"`
	Active    bool      `gorm:"column:activo;not null;default:true"`
	CreatedAt time.Time `gorm:"column:fecha_creacion;autoCreateTime"`
}

func (Client) TableName() string { return "cliente" }
