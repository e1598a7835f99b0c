package repository

import (
	"context"

	"github.com/smallbiznis/policyhub/internal/groupchoice/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) CreateChoice(ctx context.Context, db *gorm.DB, choice *domain.GroupChoice) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO product_spec_group_choices (id, product_spec_group_id, choice_name)
		 VALUES (?, ?, ?)`,
		choice.ID,
		choice.SpecGroupID,
		choice.ChoiceName,
	).Error
}

func (r *repo) FindChoiceByID(ctx context.Context, db *gorm.DB, id int64) (*domain.GroupChoice, error) {
	var choice domain.GroupChoice
	err := db.WithContext(ctx).Raw(
		`SELECT id, product_spec_group_id, choice_name
		 FROM product_spec_group_choices WHERE id = ?`,
		id,
	).Scan(&choice).Error
	if err != nil {
		return nil, err
	}
	if choice.ID == 0 {
		return nil, nil
	}
	return &choice, nil
}

func (r *repo) FindChoiceByName(ctx context.Context, db *gorm.DB, groupID int64, name string) (*domain.GroupChoice, error) {
	var choice domain.GroupChoice
	err := db.WithContext(ctx).Raw(
		`SELECT id, product_spec_group_id, choice_name
		 FROM product_spec_group_choices
		 WHERE product_spec_group_id = ? AND choice_name = ?
		 ORDER BY id ASC LIMIT 1`,
		groupID,
		name,
	).Scan(&choice).Error
	if err != nil {
		return nil, err
	}
	if choice.ID == 0 {
		return nil, nil
	}
	return &choice, nil
}

func (r *repo) ListChoicesByGroup(ctx context.Context, db *gorm.DB, groupID int64) ([]domain.GroupChoice, error) {
	var items []domain.GroupChoice
	err := db.WithContext(ctx).Raw(
		`SELECT id, product_spec_group_id, choice_name
		 FROM product_spec_group_choices
		 WHERE product_spec_group_id = ? ORDER BY id ASC`,
		groupID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListChoicesByGroups(ctx context.Context, db *gorm.DB, groupIDs []int64) ([]domain.GroupChoice, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}
	var items []domain.GroupChoice
	err := db.WithContext(ctx).Raw(
		`SELECT id, product_spec_group_id, choice_name
		 FROM product_spec_group_choices
		 WHERE product_spec_group_id IN ? ORDER BY id ASC`,
		groupIDs,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) CreateValue(ctx context.Context, db *gorm.DB, value *domain.GroupChoiceValue) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO product_spec_group_choice_values (product_spec_group_choice_id, product_spec_id, value)
		 VALUES (?, ?, ?)`,
		value.ChoiceID,
		value.SpecID,
		value.Value,
	).Error
}

func (r *repo) FindValue(ctx context.Context, db *gorm.DB, choiceID, specID int64) (*domain.GroupChoiceValue, error) {
	var items []domain.GroupChoiceValue
	err := db.WithContext(ctx).Raw(
		`SELECT product_spec_group_choice_id, product_spec_id, value
		 FROM product_spec_group_choice_values
		 WHERE product_spec_group_choice_id = ? AND product_spec_id = ?`,
		choiceID,
		specID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

func (r *repo) ListValuesByChoice(ctx context.Context, db *gorm.DB, choiceID int64) ([]domain.GroupChoiceValue, error) {
	var items []domain.GroupChoiceValue
	err := db.WithContext(ctx).Raw(
		`SELECT product_spec_group_choice_id, product_spec_id, value
		 FROM product_spec_group_choice_values
		 WHERE product_spec_group_choice_id = ? ORDER BY product_spec_id ASC`,
		choiceID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListValuesByChoices(ctx context.Context, db *gorm.DB, choiceIDs []int64) ([]domain.GroupChoiceValue, error) {
	if len(choiceIDs) == 0 {
		return nil, nil
	}
	var items []domain.GroupChoiceValue
	err := db.WithContext(ctx).Raw(
		`SELECT product_spec_group_choice_id, product_spec_id, value
		 FROM product_spec_group_choice_values
		 WHERE product_spec_group_choice_id IN ?
		 ORDER BY product_spec_group_choice_id ASC, product_spec_id ASC`,
		choiceIDs,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
