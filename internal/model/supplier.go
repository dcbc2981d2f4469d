package model

const (
	SupplierActive   = "active"
	SupplierInactive = "inactive"
)

type Supplier struct {
	BaseModel
	Name        string `gorm:"type:varchar(255)" json:"name" validate:"required"`
	ContactName string `gorm:"type:varchar(255)" json:"contact_name"`
	Email       string `gorm:"type:varchar(255)" json:"email" validate:"omitempty,email"`
	Phone       string `gorm:"type:varchar(50)" json:"phone"`
	Address     string `gorm:"type:text" json:"address"`
	Status      string `gorm:"type:varchar(20);default:'active'" json:"status" validate:"omitempty,oneof=active inactive"`
}

func (Supplier) TableName() string {
	return "suppliers"
}
