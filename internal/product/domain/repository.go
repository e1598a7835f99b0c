package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, product *Product) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Product, error)
	// FindByIDs returns the existing products among ids in no particular order.
	FindByIDs(ctx context.Context, db *gorm.DB, ids []int64) ([]Product, error)
	FindByName(ctx context.Context, db *gorm.DB, insurerID int64, name string) (*Product, error)
	ListByInsurer(ctx context.Context, db *gorm.DB, insurerID int64) ([]Product, error)
}
