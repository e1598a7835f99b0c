package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	CreateChoice(ctx context.Context, db *gorm.DB, choice *GroupChoice) error
	FindChoiceByID(ctx context.Context, db *gorm.DB, id int64) (*GroupChoice, error)
	FindChoiceByName(ctx context.Context, db *gorm.DB, groupID int64, name string) (*GroupChoice, error)
	ListChoicesByGroup(ctx context.Context, db *gorm.DB, groupID int64) ([]GroupChoice, error)
	ListChoicesByGroups(ctx context.Context, db *gorm.DB, groupIDs []int64) ([]GroupChoice, error)

	CreateValue(ctx context.Context, db *gorm.DB, value *GroupChoiceValue) error
	FindValue(ctx context.Context, db *gorm.DB, choiceID, specID int64) (*GroupChoiceValue, error)
	ListValuesByChoice(ctx context.Context, db *gorm.DB, choiceID int64) ([]GroupChoiceValue, error)
	ListValuesByChoices(ctx context.Context, db *gorm.DB, choiceIDs []int64) ([]GroupChoiceValue, error)
}
