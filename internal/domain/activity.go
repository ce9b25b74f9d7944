package domain

import "github.com/prmhq/prm-backend/internal/common"

// Activity is a recurring hobby, club or obligation of the owner
type Activity struct {
	Model
	Name        string       `gorm:"column:name;type:varchar(50);not null" json:"name"`
	Description string       `gorm:"column:description;type:text" json:"description"`
	IsActive    bool         `gorm:"column:is_active;not null" json:"is_active"`
	LastTime    *common.Date `gorm:"column:last_time" json:"last_time"`
	Partners    []Contact    `gorm:"many2many:activity_partners" json:"partners"`
}

func (Activity) TableName() string { return "activities" }

// ActivityRequest is the writable part of an activity
type ActivityRequest struct {
	Name        string `json:"name" binding:"required,min=3,max=50"`
	Description string `json:"description" binding:"required"`
	IsActive    *bool  `json:"is_active"`
	LastTime    string `json:"last_time" binding:"omitempty,datetime=2006-01-02"`
}

// ActivityRequestFrom returns the current state of a as a request
func ActivityRequestFrom(a *Activity) ActivityRequest {
	active := a.IsActive
	return ActivityRequest{
		Name:        a.Name,
		Description: a.Description,
		IsActive:    &active,
		LastTime:    dateString(a.LastTime),
	}
}

// ApplyTo copies the request onto a. A missing is_active means active.
func (r ActivityRequest) ApplyTo(a *Activity) error {
	lastTime, err := optionalDate("last_time", r.LastTime)
	if err != nil {
		return err
	}
	a.Name = r.Name
	a.Description = r.Description
	a.IsActive = r.IsActive == nil || *r.IsActive
	a.LastTime = lastTime
	return nil
}
