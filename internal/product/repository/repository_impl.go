package repository

import (
	"context"

	"github.com/smallbiznis/policyhub/internal/product/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO products (id, name, insurer_id, spsolution, active)
		 VALUES (?, ?, ?, ?, ?)`,
		product.ID,
		product.Name,
		product.InsurerID,
		product.SPSolution,
		product.Active,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Product, error) {
	var p domain.Product
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, insurer_id, spsolution, active FROM products WHERE id = ?`,
		id,
	).Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

func (r *repo) FindByIDs(ctx context.Context, db *gorm.DB, ids []int64) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []domain.Product
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, insurer_id, spsolution, active FROM products WHERE id IN ?`,
		ids,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindByName(ctx context.Context, db *gorm.DB, insurerID int64, name string) (*domain.Product, error) {
	var p domain.Product
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, insurer_id, spsolution, active
		 FROM products WHERE insurer_id = ? AND name = ? ORDER BY id ASC LIMIT 1`,
		insurerID,
		name,
	).Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

func (r *repo) ListByInsurer(ctx context.Context, db *gorm.DB, insurerID int64) ([]domain.Product, error) {
	var items []domain.Product
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, insurer_id, spsolution, active
		 FROM products WHERE insurer_id = ? ORDER BY id ASC`,
		insurerID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
