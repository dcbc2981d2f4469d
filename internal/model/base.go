package model

// Record is one loosely typed row as exchanged with the store and API clients.
type Record map[string]any

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// BaseModel carries the store-assigned numeric identifier shared by every table.
type BaseModel struct {
	ID uint `gorm:"primaryKey" json:"id"`
}
