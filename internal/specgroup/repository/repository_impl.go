package repository

import (
	"context"

	"github.com/smallbiznis/policyhub/internal/specgroup/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, group *domain.SpecGroup) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO product_spec_groups (id, name) VALUES (?, ?)`,
		group.ID,
		group.Name,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.SpecGroup, error) {
	var group domain.SpecGroup
	err := db.WithContext(ctx).Raw(
		`SELECT id, name FROM product_spec_groups WHERE id = ?`,
		id,
	).Scan(&group).Error
	if err != nil {
		return nil, err
	}
	if group.ID == 0 {
		return nil, nil
	}
	return &group, nil
}

func (r *repo) FindByIDs(ctx context.Context, db *gorm.DB, ids []int64) ([]domain.SpecGroup, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []domain.SpecGroup
	err := db.WithContext(ctx).Raw(
		`SELECT id, name FROM product_spec_groups WHERE id IN ? ORDER BY id ASC`,
		ids,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindByName(ctx context.Context, db *gorm.DB, name string) (*domain.SpecGroup, error) {
	var group domain.SpecGroup
	err := db.WithContext(ctx).Raw(
		`SELECT id, name FROM product_spec_groups WHERE name = ? ORDER BY id ASC LIMIT 1`,
		name,
	).Scan(&group).Error
	if err != nil {
		return nil, err
	}
	if group.ID == 0 {
		return nil, nil
	}
	return &group, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]domain.SpecGroup, error) {
	var items []domain.SpecGroup
	err := db.WithContext(ctx).Raw(
		`SELECT id, name FROM product_spec_groups ORDER BY id ASC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
