package domain

// SpecGroup is a named axis of variation, such as a coverage tier.
type SpecGroup struct {
	ID   int64  `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name string `json:"name" gorm:"type:text;not null"`
}

func (SpecGroup) TableName() string { return "product_spec_groups" }
