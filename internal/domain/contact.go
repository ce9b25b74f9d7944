package domain

import "github.com/prmhq/prm-backend/internal/common"

// Contact is a person the owner keeps track of
type Contact struct {
	Model
	FirstName       string       `gorm:"column:first_name;type:varchar(40);not null" json:"first_name"`
	MiddleName      string       `gorm:"column:middle_name;type:varchar(20)" json:"middle_name"`
	LastName        string       `gorm:"column:last_name;type:varchar(40);not null" json:"last_name"`
	Email           string       `gorm:"column:email;type:varchar(254)" json:"email"`
	Nickname        string       `gorm:"column:nickname;type:varchar(40)" json:"nickname"`
	PhoneNumber     string       `gorm:"column:phone_number;type:varchar(17)" json:"phone_number"`
	Picture         string       `gorm:"column:picture;type:varchar(500)" json:"picture"`
	Address         string       `gorm:"column:address;type:varchar(250)" json:"address"`
	Company         string       `gorm:"column:company;type:varchar(30)" json:"company"`
	Position        string       `gorm:"column:position;type:varchar(50)" json:"position"`
	Biography       string       `gorm:"column:biography;type:text" json:"biography"`
	BirthDate       *common.Date `gorm:"column:birth_date" json:"birth_date"`
	Met             string       `gorm:"column:met;type:text" json:"met"`
	FoodPreferences string       `gorm:"column:food_preferences;type:text" json:"food_preferences"`
	Pets            string       `gorm:"column:pets;type:text" json:"pets"`
}

func (Contact) TableName() string { return "contacts" }

// ContactRequest is the writable part of a contact
type ContactRequest struct {
	FirstName       string `json:"first_name" binding:"required,max=40"`
	MiddleName      string `json:"middle_name" binding:"max=20"`
	LastName        string `json:"last_name" binding:"required,max=40"`
	Email           string `json:"email" binding:"omitempty,email,max=254"`
	Nickname        string `json:"nickname" binding:"max=40"`
	PhoneNumber     string `json:"phone_number" binding:"omitempty,phone"`
	Address         string `json:"address" binding:"max=250"`
	Company         string `json:"company" binding:"max=30"`
	Position        string `json:"position" binding:"max=50"`
	Biography       string `json:"biography"`
	BirthDate       string `json:"birth_date" binding:"omitempty,datetime=2006-01-02"`
	Met             string `json:"met"`
	FoodPreferences string `json:"food_preferences"`
	Pets            string `json:"pets"`
}

// ContactRequestFrom returns the current state of c as a request
func ContactRequestFrom(c *Contact) ContactRequest {
	return ContactRequest{
		FirstName:       c.FirstName,
		MiddleName:      c.MiddleName,
		LastName:        c.LastName,
		Email:           c.Email,
		Nickname:        c.Nickname,
		PhoneNumber:     c.PhoneNumber,
		Address:         c.Address,
		Company:         c.Company,
		Position:        c.Position,
		Biography:       c.Biography,
		BirthDate:       dateString(c.BirthDate),
		Met:             c.Met,
		FoodPreferences: c.FoodPreferences,
		Pets:            c.Pets,
	}
}

func (r ContactRequest) ApplyTo(c *Contact) error {
	birthDate, err := optionalDate("birth_date", r.BirthDate)
	if err != nil {
		return err
	}
	c.FirstName = r.FirstName
	c.MiddleName = r.MiddleName
	c.LastName = r.LastName
	c.Email = r.Email
	c.Nickname = r.Nickname
	c.PhoneNumber = r.PhoneNumber
	c.Address = r.Address
	c.Company = r.Company
	c.Position = r.Position
	c.Biography = r.Biography
	c.BirthDate = birthDate
	c.Met = r.Met
	c.FoodPreferences = r.FoodPreferences
	c.Pets = r.Pets
	return nil
}
