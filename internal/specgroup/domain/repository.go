package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, group *SpecGroup) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*SpecGroup, error)
	FindByIDs(ctx context.Context, db *gorm.DB, ids []int64) ([]SpecGroup, error)
	FindByName(ctx context.Context, db *gorm.DB, name string) (*SpecGroup, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]SpecGroup, error)
}
