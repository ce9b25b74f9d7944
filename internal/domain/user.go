package domain

import (
	"time"

	"github.com/prmhq/prm-backend/internal/common"
)

// User is the authenticated principal. Accounts stay inactive until the emailed token is verified.
type User struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	Username    string    `gorm:"column:username;type:varchar(30);uniqueIndex;not null" json:"username"`
	Email       string    `gorm:"column:email;type:varchar(254);uniqueIndex;not null" json:"email"`
	Password    string    `gorm:"column:password;type:varchar(128);not null" json:"-"`
	FirstName   string    `gorm:"column:first_name;type:varchar(60)" json:"first_name"`
	LastName    string    `gorm:"column:last_name;type:varchar(80)" json:"last_name"`
	PhoneNumber string    `gorm:"column:phone_number;type:varchar(17)" json:"phone_number"`
	IsActive    bool      `gorm:"column:is_active;not null" json:"-"`
	Profile     *Profile  `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"date_joined"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (User) TableName() string { return "users" }

// Profile holds the personal details of a user
type Profile struct {
	ID        uint64       `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	UserID    uint64       `gorm:"column:user_id;uniqueIndex;not null" json:"-"`
	Picture   string       `gorm:"column:picture;type:varchar(500)" json:"picture"`
	Address   string       `gorm:"column:address;type:varchar(250)" json:"address"`
	Company   string       `gorm:"column:company;type:varchar(30)" json:"company"`
	Position  string       `gorm:"column:position;type:varchar(50)" json:"position"`
	Biography string       `gorm:"column:biography;type:text" json:"biography"`
	BirthDate *common.Date `gorm:"column:birth_date" json:"birth_date"`
	CreatedAt time.Time    `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt time.Time    `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (Profile) TableName() string { return "profiles" }

// SignupRequest is the payload of POST /users/signup
type SignupRequest struct {
	Email                string `json:"email" binding:"required,email,max=254"`
	Username             string `json:"username" binding:"required,min=3,max=30,alphanumunicode"`
	PhoneNumber          string `json:"phone_number" binding:"omitempty,phone"`
	Password             string `json:"password" binding:"required,min=8,max=64"`
	PasswordConfirmation string `json:"password_confirmation" binding:"required,min=8,max=64"`
	FirstName            string `json:"first_name" binding:"required,min=2,max=60"`
	LastName             string `json:"last_name" binding:"required,min=2,max=80"`
	BirthDate            string `json:"birth_date" binding:"omitempty,datetime=2006-01-02"`
}

// VerifyRequest carries the emailed confirmation token
type VerifyRequest struct {
	Token string `json:"token" binding:"required"`
}

// LoginRequest is the payload of POST /users/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=64"`
}

// LoginResponse pairs the user with a session credential
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// UserUpdateRequest updates the user and its profile. PATCH pre-fills it from the stored record.
type UserUpdateRequest struct {
	FirstName   string         `json:"first_name" binding:"required,min=2,max=60"`
	LastName    string         `json:"last_name" binding:"required,min=2,max=80"`
	PhoneNumber string         `json:"phone_number" binding:"omitempty,phone"`
	Profile     ProfileRequest `json:"profile"`
}

// ProfileRequest is the writable part of a profile
type ProfileRequest struct {
	Address   string `json:"address" binding:"max=250"`
	Company   string `json:"company" binding:"max=30"`
	Position  string `json:"position" binding:"max=50"`
	Biography string `json:"biography"`
	BirthDate string `json:"birth_date" binding:"omitempty,datetime=2006-01-02"`
}

// UserUpdateRequestFrom returns the current state of u as an update request
func UserUpdateRequestFrom(u *User) UserUpdateRequest {
	req := UserUpdateRequest{
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhoneNumber: u.PhoneNumber,
	}
	if p := u.Profile; p != nil {
		req.Profile = ProfileRequest{
			Address:   p.Address,
			Company:   p.Company,
			Position:  p.Position,
			Biography: p.Biography,
			BirthDate: dateString(p.BirthDate),
		}
	}
	return req
}

// ApplyTo copies the request onto u, creating the profile if missing
func (r UserUpdateRequest) ApplyTo(u *User) error {
	birthDate, err := optionalDate("birth_date", r.Profile.BirthDate)
	if err != nil {
		return err
	}
	u.FirstName = r.FirstName
	u.LastName = r.LastName
	u.PhoneNumber = r.PhoneNumber
	if u.Profile == nil {
		u.Profile = &Profile{UserID: u.ID}
	}
	u.Profile.Address = r.Profile.Address
	u.Profile.Company = r.Profile.Company
	u.Profile.Position = r.Profile.Position
	u.Profile.Biography = r.Profile.Biography
	u.Profile.BirthDate = birthDate
	return nil
}
