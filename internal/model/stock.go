package model

import (
	"encoding/json"
	"strconv"
	"time"
)

type Stock struct {
	BaseModel
	ProductID   *uint      `gorm:"index" json:"product_id"`
	WarehouseID *uint      `gorm:"index" json:"warehouse_id"`
	Quantity    int        `gorm:"default:0" json:"quantity" validate:"gte=0"`
	MinQuantity int        `gorm:"default:0" json:"min_quantity" validate:"gte=0"`
	UnitCost    float64    `gorm:"type:numeric(12,2)" json:"unit_cost"`
	LastChecked *time.Time `json:"last_checked,omitempty"`
	Notes       string     `gorm:"type:text" json:"notes"`
}

func (Stock) TableName() string {
	return "stocks"
}

// IsLowStock reports whether a stock row has reached its minimum
// (quantity <= min_quantity). Rows missing either number are not low.
func IsLowStock(r Record) bool {
	qty, ok := number(r["quantity"])
	if !ok {
		return false
	}
	min, ok := number(r["min_quantity"])
	if !ok {
		return false
	}
	return qty <= min
}

// LowStockCount counts the low rows among stock records.
func LowStockCount(rows []Record) int {
	n := 0
	for _, r := range rows {
		if IsLowStock(r) {
			n++
		}
	}
	return n
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
