package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-09")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2024, Month: time.March, Day: 9}, d)
	assert.Equal(t, "2024-03-09", d.String())

	for _, bad := range []string{"09/03/2024", "2024-05-01garbage", "2024-03-09T00:00:00Z", " 2024-03-09"} {
		_, err = ParseDate(bad)
		assert.ErrorIs(t, err, ErrInvalidDate, bad)
	}
}

func TestDateJSON(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2023-12-31"`), &d))
	assert.Equal(t, 31, d.Day)

	err := json.Unmarshal([]byte(`"2023-12-31garbage"`), &d)
	assert.ErrorIs(t, err, ErrInvalidDate)

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `"2023-12-31"`, string(out))
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2022, 7, 4, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2022-07-04", d.String())

	require.NoError(t, d.Scan("2022-07-05"))
	assert.Equal(t, "2022-07-05", d.String())

	// timestamps handed back by drivers for DATE columns
	require.NoError(t, d.Scan([]byte("2022-07-06T00:00:00Z")))
	assert.Equal(t, "2022-07-06", d.String())

	assert.True(t, Date{}.IsZero())
	assert.False(t, Today().IsZero())
}
