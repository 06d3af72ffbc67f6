package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Amenities []string `json:"amenities"`
	StayType  string   `json:"stay_type"`
}

func TestParseJSON(t *testing.T) {
	got, err := ParseJSON[sample](`{"amenities": ["TV"], "stay_type": "Family"}`)
	assert.NoError(t, err)
	assert.Equal(t, []string{"TV"}, got.Amenities)
	assert.Equal(t, "Family", got.StayType)
}

func TestParseJSON_MarkdownFenceAndProse(t *testing.T) {
	response := "Sure, here you go:\n```json\n{\"amenities\": [\"Parking\"], \"stay_type\": \"Couple\"}\n```"
	got, err := ParseJSON[sample](response)
	assert.NoError(t, err)
	assert.Equal(t, []string{"Parking"}, got.Amenities)
}

func TestParseJSON_PythonNone(t *testing.T) {
	got, err := ParseJSON[map[string]any](`{"stay_type": None}`)
	assert.NoError(t, err)
	assert.Nil(t, got["stay_type"])
}

func TestParseJSON_NoObject(t *testing.T) {
	_, err := ParseJSON[sample]("I could not determine the parameters.")
	assert.Error(t, err)
}
