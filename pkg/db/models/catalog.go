package models

// Attribute tables the catalog classifies products with. They are simple
// id+name rows; subcategories additionally hang off a category.

type Brand struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:nombre;not null;uniqueIndex"`
}

func (Brand) TableName() string { return "marca" }

type Category struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:nombre;not null;uniqueIndex"`
}

func (Category) TableName() string { return "categoria" }

type Subcategory struct {
	ID         int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name       string `gorm:"column:nombre;not null;uniqueIndex:idx_subcategoria_nombre_categoria"`
	CategoryID int64  `gorm:"column:categoria_id;not null;uniqueIndex:idx_subcategoria_nombre_categoria"`
}

func (Subcategory) TableName() string { return "subcategoria" }

type Species struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:nombre;not null;uniqueIndex"`
}

func (Species) TableName() string { return "especie" }

type Stage struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:nombre;not null;uniqueIndex"`
}

func (Stage) TableName() string { return "etapa" }

type ProductLine struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:nombre;not null;uniqueIndex"`
}

func (ProductLine) TableName() string { return "linea" }
