package domain

import (
	"github.com/prmhq/prm-backend/internal/common"
	"gorm.io/gorm"
)

// ActivityLog is one occurrence of an activity. It outlives the activity it was logged for.
type ActivityLog struct {
	Model
	ActivityID   *uint64     `gorm:"column:activity_id;index" json:"-"`
	Activity     *Activity   `gorm:"foreignKey:ActivityID;constraint:OnDelete:SET NULL" json:"-"`
	ActivityCode *string     `gorm:"-" json:"activity"`
	Details      string      `gorm:"column:details;type:text;not null" json:"details"`
	Date         common.Date `gorm:"column:date;not null;index" json:"date"`
	Location     string      `gorm:"column:location;type:varchar(100)" json:"location"`
	Companions   []Contact   `gorm:"many2many:activity_log_companions" json:"companions"`
}

func (ActivityLog) TableName() string { return "activity_logs" }

// AfterFind exposes the preloaded activity by its public code only
func (l *ActivityLog) AfterFind(tx *gorm.DB) error {
	if l.Activity != nil {
		code := l.Activity.Code
		l.ActivityCode = &code
	}
	return nil
}

// ActivityLogRequest is the writable part of an activity log
type ActivityLogRequest struct {
	Details  string `json:"details" binding:"required"`
	Date     string `json:"date" binding:"required,datetime=2006-01-02"`
	Location string `json:"location" binding:"max=100"`
}

// ActivityLogRequestFrom returns the current state of l as a request
func ActivityLogRequestFrom(l *ActivityLog) ActivityLogRequest {
	return ActivityLogRequest{
		Details:  l.Details,
		Date:     l.Date.String(),
		Location: l.Location,
	}
}

func (r ActivityLogRequest) ApplyTo(l *ActivityLog) error {
	date, err := requiredDate("date", r.Date)
	if err != nil {
		return err
	}
	l.Details = r.Details
	l.Date = date
	l.Location = r.Location
	return nil
}
