package driver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildRecommendQuery_AllFilters(t *testing.T) {
	query, params := BuildRecommendQuery([]string{"TV", "Parking"}, "Family", "Long")

	assert.Equal(t, 2, strings.Count(query, ":HAS_AMENITY"))
	assert.Contains(t, query, "HAS_TYPE")
	assert.Contains(t, query, "HAS_DURATION")
	assert.Contains(t, query, "avg_rating * 0.7 + log(review_count + 1) * 0.3")
	assert.Contains(t, query, "ORDER BY score DESC")

	assert.Equal(t, "TV", params["amenity_0"])
	assert.Equal(t, "Parking", params["amenity_1"])
	assert.Equal(t, "Family", params["stay_type"])
	assert.Equal(t, "Long", params["stay_duration"])
}

func TestBuildRecommendQuery_NoFilters(t *testing.T) {
	query, params := BuildRecommendQuery(nil, "", "")

	assert.NotContains(t, query, "HAS_AMENITY")
	assert.NotContains(t, query, "HAS_TYPE")
	assert.NotContains(t, query, "HAS_DURATION")
	assert.Empty(t, params)
}
