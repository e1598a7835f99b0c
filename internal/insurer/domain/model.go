package domain

type Insurer struct {
	ID   int64  `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name string `json:"name" gorm:"type:text;not null"`
}

func (Insurer) TableName() string { return "insurers" }
