package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/granverde/forrajera-backend/pkg/db"
	pkgerrors "github.com/granverde/forrajera-backend/pkg/errors"
)

// Store is the shared persistence plumbing behind the catalog entities. The
// attribute tables (marca, categoria, especie, etapa, linea, subcategoria) and
// the party tables (sucursal, cliente, usuario) are all simple rows with no
// domain rules, so one generic store covers them.
type Store[T any] struct {
	db *gorm.DB
}

// NewStore returns a store for one catalog entity bound to the database.
func NewStore[T any](conn *gorm.DB) *Store[T] {
	return &Store[T]{db: conn}
}

// WithTx rebinds the store to a transaction handle.
func (s *Store[T]) WithTx(tx *gorm.DB) *Store[T] {
	if tx == nil {
		return s
	}
	return &Store[T]{db: tx}
}

func (s *Store[T]) Create(ctx context.Context, row *T) error {
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		if db.IsUniqueViolation(err, "") {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "record already exists")
		}
		return err
	}
	return nil
}

func (s *Store[T]) FindByID(ctx context.Context, id int64) (*T, error) {
	var row T
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "record not found").
				WithDetails(map[string]any{"id": id})
		}
		return nil, err
	}
	return &row, nil
}

func (s *Store[T]) Update(ctx context.Context, row *T) error {
	if err := s.db.WithContext(ctx).Save(row).Error; err != nil {
		if db.IsUniqueViolation(err, "") {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "record already exists")
		}
		return err
	}
	return nil
}

func (s *Store[T]) Delete(ctx context.Context, id int64) error {
	var row T
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&row)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "record not found").
			WithDetails(map[string]any{"id": id})
	}
	return nil
}

func (s *Store[T]) List(ctx context.Context) ([]T, error) {
	var rows []T
	err := s.db.WithContext(ctx).Order("id ASC").Find(&rows).Error
	return rows, err
}
