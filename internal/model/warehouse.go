package model

// WarehouseItem is a row of the warehouse table. It overlaps Product in
// purpose but keeps its own shape.
type WarehouseItem struct {
	BaseModel
	Name        string  `gorm:"type:varchar(255)" json:"name" validate:"required"`
	Description string  `gorm:"type:text" json:"description"`
	Quantity    int     `gorm:"default:0" json:"quantity" validate:"gte=0"`
	Price       float64 `gorm:"type:numeric(12,2)" json:"price" validate:"gte=0"`
}

func (WarehouseItem) TableName() string {
	return "warehouse"
}
