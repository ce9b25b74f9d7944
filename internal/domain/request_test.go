package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prmhq/prm-backend/internal/common"
)

func TestContactRequest_RoundTrip(t *testing.T) {
	birth, err := common.ParseDate("1985-02-03")
	require.NoError(t, err)
	stored := &Contact{
		Model:     Model{ID: 3, Code: "aB3dE5gH", OwnerID: 9},
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		BirthDate: &birth,
	}

	req := ContactRequestFrom(stored)
	assert.Equal(t, "1985-02-03", req.BirthDate)

	req.Nickname = "JD"
	req.BirthDate = ""
	require.NoError(t, req.ApplyTo(stored))
	assert.Equal(t, "JD", stored.Nickname)
	assert.Equal(t, "jane@example.com", stored.Email)
	assert.Nil(t, stored.BirthDate)
	assert.Equal(t, "aB3dE5gH", stored.Code)
	assert.Equal(t, uint64(9), stored.OwnerID)
}

func TestActivityRequest_DefaultsActive(t *testing.T) {
	var a Activity
	require.NoError(t, ActivityRequest{Name: "Climbing", Description: "Bouldering"}.ApplyTo(&a))
	assert.True(t, a.IsActive)

	inactive := false
	require.NoError(t, ActivityRequest{Name: "Climbing", Description: "Bouldering", IsActive: &inactive}.ApplyTo(&a))
	assert.False(t, a.IsActive)

	req := ActivityRequestFrom(&a)
	require.NotNil(t, req.IsActive)
	assert.False(t, *req.IsActive)
}

func TestEventRequest_EndBeforeStart(t *testing.T) {
	var e Event
	err := EventRequest{Title: "Dinner", Location: "Home", Date: "2024-03-01", StartTime: "19:00", EndTime: "18:30"}.ApplyTo(&e)

	var verr *common.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "end_time", verr.Field)
	assert.Empty(t, e.Title)
}

func TestUserUpdateRequest_CreatesProfile(t *testing.T) {
	u := &User{ID: 4, FirstName: "Ann", LastName: "Lee"}
	req := UserUpdateRequestFrom(u)
	req.Profile.Company = "Acme"
	req.Profile.BirthDate = "1990-05-01"

	require.NoError(t, req.ApplyTo(u))
	require.NotNil(t, u.Profile)
	assert.Equal(t, uint64(4), u.Profile.UserID)
	assert.Equal(t, "Acme", u.Profile.Company)
	assert.Equal(t, "1990-05-01", u.Profile.BirthDate.String())
}

func TestMoodRequest_BadDate(t *testing.T) {
	_, err := MoodRequest{Date: "2024-02-30", Mood: MoodHappy, Highlights: "x", Description: "y"}.ToMood()
	var verr *common.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "date", verr.Field)
}
