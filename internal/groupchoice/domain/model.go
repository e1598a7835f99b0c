package domain

// GroupChoice is one selectable variant within a spec group.
type GroupChoice struct {
	ID          int64  `json:"id" gorm:"primaryKey;autoIncrement:false"`
	SpecGroupID int64  `json:"product_spec_group_id" gorm:"column:product_spec_group_id;not null;index"`
	ChoiceName  string `json:"choice_name" gorm:"column:choice_name;type:text;not null"`
}

func (GroupChoice) TableName() string { return "product_spec_group_choices" }

// GroupChoiceValue is the value a spec takes when its group's choice is selected.
type GroupChoiceValue struct {
	ChoiceID int64  `json:"product_spec_group_choice_id" gorm:"column:product_spec_group_choice_id;primaryKey;autoIncrement:false"`
	SpecID   int64  `json:"product_spec_id" gorm:"column:product_spec_id;primaryKey;autoIncrement:false"`
	Value    string `json:"value" gorm:"type:text;not null"`
}

func (GroupChoiceValue) TableName() string { return "product_spec_group_choice_values" }
