package common

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateRange_NoParams(t *testing.T) {
	r, err := ParseDateRange("", "", false, false)
	assert.NoError(t, err)
	assert.Nil(t, r)
}

func TestParseDateRange_OnlyOne(t *testing.T) {
	for _, tc := range []struct {
		from, to       string
		hasFrom, hasTo bool
	}{
		{from: "2024-01-01", hasFrom: true},
		{to: "2024-01-31", hasTo: true},
		{from: "", hasFrom: true},
	} {
		r, err := ParseDateRange(tc.from, tc.to, tc.hasFrom, tc.hasTo)
		assert.Nil(t, r)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "'from' and 'to' params must come together", verr.Message)
	}
}

func TestParseDateRange_Malformed(t *testing.T) {
	_, err := ParseDateRange("not-a-date", "2024-01-31", true, true)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "from", verr.Field)
	assert.Contains(t, verr.Message, "not-a-date")

	_, err = ParseDateRange("2024-01-01", "2024/01/31", true, true)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "to", verr.Field)
}

func TestParseDateRange_Valid(t *testing.T) {
	r, err := ParseDateRange("2024-01-01", "2024-01-31", true, true)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", r.From.String())
	assert.Equal(t, "2024-01-31", r.To.String())
}

func TestDate_JSONRoundTripAndNull(t *testing.T) {
	var payload struct {
		Date  Date  `json:"date"`
		Maybe *Date `json:"maybe"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-03-01","maybe":null}`), &payload))
	assert.Equal(t, "2024-03-01", payload.Date.String())
	assert.Nil(t, payload.Maybe)

	out, err := json.Marshal(payload.Date)
	require.NoError(t, err)
	assert.JSONEq(t, `"2024-03-01"`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"date":"03/01/2024"}`), &payload))
}

func TestDate_Scan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-01-15", d.String())

	require.NoError(t, d.Scan([]byte("2024-02-01")))
	assert.Equal(t, "2024-02-01", d.String())

	require.NoError(t, d.Scan("2024-02-02 00:00:00+00:00"))
	assert.Equal(t, "2024-02-02", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))
}

func TestDate_Value(t *testing.T) {
	d, err := ParseDate("2024-01-15")
	require.NoError(t, err)
	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", v)

	v, err = Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}
