package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, insurer *Insurer) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Insurer, error)
	FindByName(ctx context.Context, db *gorm.DB, name string) (*Insurer, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]Insurer, error)
}
