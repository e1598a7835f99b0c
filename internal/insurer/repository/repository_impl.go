package repository

import (
	"context"

	"github.com/smallbiznis/policyhub/internal/insurer/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, insurer *domain.Insurer) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO insurers (id, name) VALUES (?, ?)`,
		insurer.ID,
		insurer.Name,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Insurer, error) {
	var insurer domain.Insurer
	err := db.WithContext(ctx).Raw(
		`SELECT id, name FROM insurers WHERE id = ?`,
		id,
	).Scan(&insurer).Error
	if err != nil {
		return nil, err
	}
	if insurer.ID == 0 {
		return nil, nil
	}
	return &insurer, nil
}

func (r *repo) FindByName(ctx context.Context, db *gorm.DB, name string) (*domain.Insurer, error) {
	var insurer domain.Insurer
	err := db.WithContext(ctx).Raw(
		`SELECT id, name FROM insurers WHERE name = ? ORDER BY id ASC LIMIT 1`,
		name,
	).Scan(&insurer).Error
	if err != nil {
		return nil, err
	}
	if insurer.ID == 0 {
		return nil, nil
	}
	return &insurer, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]domain.Insurer, error) {
	var items []domain.Insurer
	err := db.WithContext(ctx).Raw(
		`SELECT id, name FROM insurers ORDER BY id ASC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
