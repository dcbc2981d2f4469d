package model

type Product struct {
	BaseModel
	Name        string  `gorm:"type:varchar(255)" json:"name" validate:"required"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `gorm:"type:numeric(12,2)" json:"price" validate:"gte=0"`
	Category    string  `gorm:"type:varchar(100)" json:"category"`
}

func (Product) TableName() string {
	return "products"
}
