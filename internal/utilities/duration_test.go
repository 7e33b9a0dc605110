package utilities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	d, err := Parse("5m")
	assert.NoError(t, err)
	assert.Equal(t, 5*time.Minute, d)

	d, err = Parse("45")
	assert.NoError(t, err)
	assert.Equal(t, 45*time.Second, d)

	d, err = Parse(" 1h30m ")
	assert.NoError(t, err)
	assert.Equal(t, 90*time.Minute, d)

	_, err = Parse("")
	assert.Error(t, err)

	_, err = Parse("soon")
	assert.Error(t, err)
}

func TestParseOrDefault(t *testing.T) {
	assert.Equal(t, 5*time.Minute, ParseOrDefault("", 5*time.Minute))
	assert.Equal(t, 2*time.Minute, ParseOrDefault("2m", time.Second))
	assert.Equal(t, 45*time.Second, ParseOrDefault("45", time.Second))
	assert.Equal(t, time.Second, ParseOrDefault("garbage", time.Second))
}
