package domain

import "github.com/prmhq/prm-backend/internal/common"

// Event is an upcoming calendar entry, optionally shared with contacts
type Event struct {
	Model
	Title       string      `gorm:"column:title;type:varchar(200);not null" json:"title"`
	Description string      `gorm:"column:description;type:varchar(2000)" json:"description"`
	Location    string      `gorm:"column:location;type:varchar(300);not null" json:"location"`
	Date        common.Date `gorm:"column:date;not null;index" json:"date"`
	StartTime   string      `gorm:"column:start_time;type:varchar(5);not null" json:"start_time"`
	EndTime     string      `gorm:"column:end_time;type:varchar(5);not null" json:"end_time"`
	Contacts    []Contact   `gorm:"many2many:event_contacts" json:"contacts"`
}

func (Event) TableName() string { return "events" }

// EventRequest is the writable part of an event. Times are HH:MM.
type EventRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"max=2000"`
	Location    string `json:"location" binding:"required,max=300"`
	Date        string `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime   string `json:"start_time" binding:"required,datetime=15:04"`
	EndTime     string `json:"end_time" binding:"required,datetime=15:04"`
}

// EventRequestFrom returns the current state of e as a request
func EventRequestFrom(e *Event) EventRequest {
	return EventRequest{
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		Date:        e.Date.String(),
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
	}
}

func (r EventRequest) ApplyTo(e *Event) error {
	date, err := requiredDate("date", r.Date)
	if err != nil {
		return err
	}
	if r.EndTime < r.StartTime {
		return common.NewValidationError("end_time", "end_time must not be before start_time")
	}
	e.Title = r.Title
	e.Description = r.Description
	e.Location = r.Location
	e.Date = date
	e.StartTime = r.StartTime
	e.EndTime = r.EndTime
	return nil
}
