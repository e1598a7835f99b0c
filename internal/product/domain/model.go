package domain

type Product struct {
	ID         int64  `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name       string `json:"name" gorm:"type:text;not null"`
	InsurerID  int64  `json:"insurer_id" gorm:"column:insurer_id;not null;index"`
	SPSolution bool   `json:"spsolution" gorm:"column:spsolution;not null;default:false"`
	Active     bool   `json:"active" gorm:"not null;default:true"`
}

func (Product) TableName() string { return "products" }
