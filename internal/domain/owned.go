package domain

import "time"

// Owned is implemented by every resource that belongs to exactly one user
type Owned interface {
	OwnerRef() uint64
	PublicCode() string
}

// Record is an owned row the generic store can persist.
// Assign is called once, on insert; code and owner are never written afterwards.
type Record interface {
	Owned
	Key() uint64
	Assign(ownerID uint64, code string)
}

// Model holds the columns shared by every owned resource.
// Internal ids and owner ids never leave the API boundary.
type Model struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	Code      string    `gorm:"column:code;type:varchar(8);uniqueIndex;not null" json:"code"`
	OwnerID   uint64    `gorm:"column:owner_id;index;not null" json:"-"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (m *Model) OwnerRef() uint64   { return m.OwnerID }
func (m *Model) PublicCode() string { return m.Code }
func (m *Model) Key() uint64        { return m.ID }

func (m *Model) Assign(ownerID uint64, code string) {
	m.OwnerID = ownerID
	m.Code = code
}
