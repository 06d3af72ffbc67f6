package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamExtractor_NormalizesToCanonicalVocabulary(t *testing.T) {
	mock := &MockLLMClient{Response: `{
		"amenities": ["tv", "air conditioning", "Rooftop Pool"],
		"stay_type": "family",
		"stay_duration": null,
		"min_rating": 7.5
	}`}
	extractor := NewParamExtractor(mock)

	params, err := extractor.Extract(context.Background(), "family hotel with TV and AC")
	require.NoError(t, err)
	assert.Equal(t, []string{"TV", "Air Conditioning"}, params.Amenities)
	assert.Equal(t, "Family", params.StayType)
	assert.Empty(t, params.StayDuration)
	assert.Equal(t, 7.5, params.MinRating)
}

func TestParamExtractor_PromptQuotesVocabulary(t *testing.T) {
	mock := &MockLLMClient{Response: `{"amenities": []}`}
	extractor := NewParamExtractor(mock)

	_, err := extractor.Extract(context.Background(), "anything")
	require.NoError(t, err)
	require.Len(t, mock.Prompts, 1)
	assert.Contains(t, mock.Prompts[0], `"Vehicle Hire"`)
	assert.Contains(t, mock.Prompts[0], `"Solo traveller"`)
	assert.Contains(t, mock.Prompts[0], `"Medium"`)
}

func TestParamExtractor_UnparsableResponseDegradesToEmpty(t *testing.T) {
	mock := &MockLLMClient{Response: "I would suggest a nice hotel downtown."}
	extractor := NewParamExtractor(mock)

	params, err := extractor.Extract(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, RecommendParams{}, params)
}

func TestParamExtractor_ModelFailureSurfaces(t *testing.T) {
	mock := &MockLLMClient{Err: errors.New("model unavailable")}
	extractor := NewParamExtractor(mock)

	_, err := extractor.Extract(context.Background(), "anything")
	require.Error(t, err)
}
