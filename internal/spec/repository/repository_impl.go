package repository

import (
	"context"

	"github.com/smallbiznis/policyhub/internal/spec/domain"
	"gorm.io/gorm"
)

const specColumns = `id, shortname, description, default_value, value_type, min_value, max_value, editable, group_id`

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, spec *domain.Spec) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO product_specs (`+specColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		spec.ID,
		spec.Shortname,
		spec.Description,
		spec.DefaultValue,
		spec.ValueType,
		spec.MinValue,
		spec.MaxValue,
		spec.Editable,
		spec.GroupID,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Spec, error) {
	var spec domain.Spec
	err := db.WithContext(ctx).Raw(
		`SELECT `+specColumns+` FROM product_specs WHERE id = ?`,
		id,
	).Scan(&spec).Error
	if err != nil {
		return nil, err
	}
	if spec.ID == 0 {
		return nil, nil
	}
	return &spec, nil
}

func (r *repo) FindByShortname(ctx context.Context, db *gorm.DB, shortname string) (*domain.Spec, error) {
	var spec domain.Spec
	err := db.WithContext(ctx).Raw(
		`SELECT `+specColumns+` FROM product_specs WHERE shortname = ? ORDER BY id ASC LIMIT 1`,
		shortname,
	).Scan(&spec).Error
	if err != nil {
		return nil, err
	}
	if spec.ID == 0 {
		return nil, nil
	}
	return &spec, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]domain.Spec, error) {
	var items []domain.Spec
	err := db.WithContext(ctx).Raw(
		`SELECT ` + specColumns + ` FROM product_specs ORDER BY id ASC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListForProduct(ctx context.Context, db *gorm.DB, productID int64) ([]domain.Spec, error) {
	return r.FindAll(ctx, db)
}

func (r *repo) ListByGroup(ctx context.Context, db *gorm.DB, groupID int64) ([]domain.Spec, error) {
	var items []domain.Spec
	err := db.WithContext(ctx).Raw(
		`SELECT `+specColumns+` FROM product_specs WHERE group_id = ? ORDER BY id ASC`,
		groupID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
