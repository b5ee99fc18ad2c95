package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListValueScan(t *testing.T) {
	v, err := StringList{"ASE Master", "EV Level 2"}.Value()
	require.NoError(t, err)

	var got StringList
	require.NoError(t, got.Scan(v))
	assert.Equal(t, StringList{"ASE Master", "EV Level 2"}, got)

	empty, err := StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), empty)

	require.NoError(t, got.Scan(nil))
	assert.Nil(t, got)

	assert.Error(t, got.Scan(42))
}

func TestJSONScanFromString(t *testing.T) {
	var j JSON
	require.NoError(t, j.Scan(`{"entity":"booking","entity_id":"b1"}`))
	assert.Equal(t, "booking", j["entity"])
	assert.Equal(t, "b1", j["entity_id"])
}

func TestParseStatusAndUrgency(t *testing.T) {
	s, err := ParseBookingStatus("in-progress")
	require.NoError(t, err)
	assert.Equal(t, BookingStatusInProgress, s)
	assert.True(t, s.IsActive())
	assert.False(t, s.IsTerminal())

	_, err = ParseBookingStatus("done")
	assert.Error(t, err)

	u, err := ParseUrgency("")
	require.NoError(t, err)
	assert.Equal(t, UrgencyNormal, u)

	_, err = ParseUrgency("asap")
	assert.Error(t, err)
}
