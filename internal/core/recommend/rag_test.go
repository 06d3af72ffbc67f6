package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecommendationList_BoldNames(t *testing.T) {
	text := `Here are my picks:

1. **Hotel X**: seafront rooms with balconies.
2. **Hotel Y** - quiet and family friendly.
3. **Hotel Z**`

	items := ParseRecommendationList(text)
	require.Len(t, items, 3)
	assert.Equal(t, "Hotel X", items[0].Name)
	assert.Equal(t, "seafront rooms with balconies.", items[0].Description)
	assert.Equal(t, "Hotel Y", items[1].Name)
	assert.Equal(t, "quiet and family friendly.", items[1].Description)
	assert.Equal(t, "Hotel Z", items[2].Name)
	assert.Empty(t, items[2].Description)
}

func TestParseRecommendationList_PlainNames(t *testing.T) {
	text := "1. Hotel X: great pool\n2) Hotel Y - central location\n3. Hotel Z"

	items := ParseRecommendationList(text)
	require.Len(t, items, 3)
	assert.Equal(t, "Hotel X", items[0].Name)
	assert.Equal(t, "great pool", items[0].Description)
	assert.Equal(t, "Hotel Y", items[1].Name)
	assert.Equal(t, "central location", items[1].Description)
	assert.Equal(t, "Hotel Z", items[2].Name)
}

func TestParseRecommendationList_ProseYieldsNothing(t *testing.T) {
	assert.Empty(t, ParseRecommendationList("I could not find any matching hotels."))
}
