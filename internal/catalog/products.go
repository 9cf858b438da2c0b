package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/granverde/forrajera-backend/pkg/db"
	"github.com/granverde/forrajera-backend/pkg/db/models"
	"github.com/granverde/forrajera-backend/pkg/enums"
	pkgerrors "github.com/granverde/forrajera-backend/pkg/errors"
)

// Products carries the only catalog entity with real rules: the unit of
// measure fixes the package content and the bulk-sale flag, and bulk pricing
// must exist before a product can be flagged for bulk sale.
type Products interface {
	Create(ctx context.Context, input ProductInput) (*models.Product, error)
	Get(ctx context.Context, id int64) (*models.Product, error)
	Update(ctx context.Context, id int64, input ProductInput) (*models.Product, error)
	Deactivate(ctx context.Context, id int64) error
	List(ctx context.Context, filters ProductFilters) ([]models.Product, error)

	// FindByID loads a product without error translation so callers inside a
	// transaction can distinguish gorm.ErrRecordNotFound themselves.
	FindByID(ctx context.Context, id int64) (*models.Product, error)
}

// ProductInput is the full set of writable product fields.
type ProductInput struct {
	Name           string
	SKU            *string
	Barcode        *string
	ProductType    *string
	BrandID        *int64
	CategoryID     *int64
	SubcategoryID  *int64
	SpeciesID      *int64
	StageID        *int64
	LineID         *int64
	Unit           enums.UnitOfMeasure
	PackageContent decimal.Decimal
	AllowBulkSale  bool
	BasePrice      decimal.Decimal
	BulkPrice      *decimal.Decimal
	Active         *bool
}

// ProductFilters narrows product listings.
type ProductFilters struct {
	BrandID    *int64
	CategoryID *int64
	Active     *bool
	Search     *string
}

type products struct {
	db *gorm.DB
}

// NewProducts builds the product service.
func NewProducts(conn *gorm.DB) (Products, error) {
	if conn == nil {
		return nil, fmt.Errorf("db handle required")
	}
	return &products{db: conn}, nil
}

func (p *products) Create(ctx context.Context, input ProductInput) (*models.Product, error) {
	product := &models.Product{Active: true}
	if err := applyInput(product, input); err != nil {
		return nil, err
	}
	if err := p.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, translateWrite(err)
	}
	return product, nil
}

func (p *products) Get(ctx context.Context, id int64) (*models.Product, error) {
	product, err := p.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, productNotFound(id)
		}
		return nil, err
	}
	return product, nil
}

func (p *products) Update(ctx context.Context, id int64, input ProductInput) (*models.Product, error) {
	product, err := p.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyInput(product, input); err != nil {
		return nil, err
	}
	if err := p.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, translateWrite(err)
	}
	return product, nil
}

// Deactivate retires a product from sale. Rows are kept because sales, the
// movement history and stock entries reference them.
func (p *products) Deactivate(ctx context.Context, id int64) error {
	res := p.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("activo", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return productNotFound(id)
	}
	return nil
}

func (p *products) List(ctx context.Context, filters ProductFilters) ([]models.Product, error) {
	qb := p.db.WithContext(ctx)
	if filters.BrandID != nil {
		qb = qb.Where("marca_id = ?", *filters.BrandID)
	}
	if filters.CategoryID != nil {
		qb = qb.Where("categoria_id = ?", *filters.CategoryID)
	}
	if filters.Active != nil {
		qb = qb.Where("activo = ?", *filters.Active)
	}
	if filters.Search != nil && *filters.Search != "" {
		qb = qb.Where("nombre LIKE ?", "%"+*filters.Search+"%")
	}

	var rows []models.Product
	err := qb.Order("nombre ASC").Find(&rows).Error
	return rows, err
}

func (p *products) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := p.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// applyInput copies the input onto the row and normalizes the unit-driven
// fields: base units pin the package content to 1, kg/liter units force bulk
// sale on and pieces force it off, and a packaged product flagged for bulk
// sale must carry a bulk price.
func applyInput(product *models.Product, input ProductInput) error {
	if input.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "nombre is required")
	}
	if !input.Unit.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid unidad_medida").
			WithDetails(map[string]any{"unidad_medida": input.Unit.String()})
	}
	if !input.BasePrice.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "precio_base must be positive")
	}

	content := input.PackageContent
	if input.Unit.IsBase() {
		content = decimal.NewFromInt(1)
	} else if !content.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "contenido_neto must be positive")
	}

	allowBulk := input.AllowBulkSale
	if forced, ok := input.Unit.BulkSaleForced(); ok {
		allowBulk = forced
	}
	if allowBulk && input.Unit.IsPackaged() && input.BulkPrice == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "precio_granel is required for bulk sale")
	}
	if input.BulkPrice != nil && !input.BulkPrice.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "precio_granel must be positive")
	}

	product.Name = input.Name
	product.SKU = input.SKU
	product.Barcode = input.Barcode
	product.ProductType = input.ProductType
	product.BrandID = input.BrandID
	product.CategoryID = input.CategoryID
	product.SubcategoryID = input.SubcategoryID
	product.SpeciesID = input.SpeciesID
	product.StageID = input.StageID
	product.LineID = input.LineID
	product.Unit = input.Unit
	product.PackageContent = content
	product.AllowBulkSale = allowBulk
	product.BasePrice = input.BasePrice
	product.BulkPrice = input.BulkPrice
	if input.Active != nil {
		product.Active = *input.Active
	}
	return nil
}

func translateWrite(err error) error {
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "product already exists")
	}
	return err
}

func productNotFound(id int64) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "producto not found").
		WithDetails(map[string]any{"producto_id": id})
}
