package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, spec *Spec) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Spec, error)
	FindByShortname(ctx context.Context, db *gorm.DB, shortname string) (*Spec, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]Spec, error)
	// ListForProduct returns the specs applicable to a product. Specs are not
	// scoped to products yet, so every product sees the full set.
	ListForProduct(ctx context.Context, db *gorm.DB, productID int64) ([]Spec, error)
	ListByGroup(ctx context.Context, db *gorm.DB, groupID int64) ([]Spec, error)
}
