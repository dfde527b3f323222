package slug

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Daikin Inverter 1HP":                "daikin-inverter-1hp",
		"Mitsubishi Electric Inverter 1.5HP": "mitsubishi-electric-inverter-1-5hp",
		"  Panasonic -- Inverter 2HP  ":      "panasonic-inverter-2hp",
		"Điều hòa Daikin":                    "dieu-hoa-daikin",
		"Máy lạnh LG ™ 1HP":                  "may-lanh-lg-1hp",
		"!!!":                                "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Make(in), in)
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("daikin-inverter-1hp"))
	assert.False(t, Valid("Daikin"))
	assert.False(t, Valid("a--b"))
	assert.False(t, Valid(""))
}

func TestUnique(t *testing.T) {
	used := map[string]bool{"daikin": true, "daikin-2": true}
	got, err := Unique("daikin", func(s string) (bool, error) { return used[s], nil })
	require.NoError(t, err)
	assert.Equal(t, "daikin-3", got)

	got, err = Unique("lg", func(s string) (bool, error) { return used[s], nil })
	require.NoError(t, err)
	assert.Equal(t, "lg", got)

	_, err = Unique("x", func(string) (bool, error) { return false, errors.New("db down") })
	assert.EqualError(t, err, "db down")
}
