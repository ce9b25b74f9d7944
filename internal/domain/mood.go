package domain

import (
	"time"

	"github.com/prmhq/prm-backend/internal/common"
)

// MoodLevel rates a day from sad to happy
type MoodLevel int

const (
	MoodSad MoodLevel = iota + 1
	MoodBad
	MoodNeutral
	MoodGood
	MoodHappy
)

var moodNames = map[MoodLevel]string{
	MoodSad:     "sad",
	MoodBad:     "bad",
	MoodNeutral: "neutral",
	MoodGood:    "good",
	MoodHappy:   "happy",
}

func (m MoodLevel) String() string { return moodNames[m] }

// Mood is the owner's feeling for a single day; there is at most one per (owner, date).
// It declares its own columns so owner_id can share the composite unique index with date.
type Mood struct {
	ID          uint64      `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	Code        string      `gorm:"column:code;type:varchar(8);uniqueIndex;not null" json:"code"`
	OwnerID     uint64      `gorm:"column:owner_id;not null;uniqueIndex:idx_mood_owner_date,priority:1" json:"-"`
	Date        common.Date `gorm:"column:date;not null;uniqueIndex:idx_mood_owner_date,priority:2" json:"date"`
	Mood        MoodLevel   `gorm:"column:mood;type:smallint;not null" json:"mood"`
	Highlights  string      `gorm:"column:highlights;type:varchar(200)" json:"highlights"`
	Description string      `gorm:"column:description;type:text" json:"description"`
	CreatedAt   time.Time   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Mood) TableName() string { return "moods" }

func (m *Mood) OwnerRef() uint64   { return m.OwnerID }
func (m *Mood) PublicCode() string { return m.Code }
func (m *Mood) Key() uint64        { return m.ID }

func (m *Mood) Assign(ownerID uint64, code string) {
	m.OwnerID = ownerID
	m.Code = code
}

// MoodRequest is the payload of POST /moods
type MoodRequest struct {
	Date        string    `json:"date" binding:"required,datetime=2006-01-02"`
	Mood        MoodLevel `json:"mood" binding:"required,min=1,max=5"`
	Highlights  string    `json:"highlights" binding:"required,max=200"`
	Description string    `json:"description" binding:"required"`
}

// ToMood builds an unsaved mood from the request
func (r MoodRequest) ToMood() (*Mood, error) {
	date, err := requiredDate("date", r.Date)
	if err != nil {
		return nil, err
	}
	return &Mood{
		Date:        date,
		Mood:        r.Mood,
		Highlights:  r.Highlights,
		Description: r.Description,
	}, nil
}
