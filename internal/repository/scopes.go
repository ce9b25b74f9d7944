package repository

import (
	"github.com/prmhq/prm-backend/internal/common"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DateBetween narrows a query to rows whose column falls inside r, bounds included.
// A nil range leaves the query untouched.
func DateBetween(column string, r *common.DateRange) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if r == nil {
			return db
		}
		col := clause.Column{Name: column}
		return db.
			Where(clause.Gte{Column: col, Value: r.From}).
			Where(clause.Lte{Column: col, Value: r.To})
	}
}

// WithMember narrows a roster parent query to parents that list contactID in joinTable
func WithMember(joinTable, parentColumn string, contactID uint64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		members := db.Session(&gorm.Session{NewDB: true}).
			Table(joinTable).
			Select(parentColumn).
			Where("contact_id = ?", contactID)
		return db.Where("id IN (?)", members)
	}
}

// WhereColumn matches column against value
func WhereColumn(column string, value any) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(clause.Eq{Column: clause.Column{Name: column}, Value: value})
	}
}
