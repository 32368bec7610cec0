package industry_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
)

func TestMatcherJSON_KeepsKindAndRules(t *testing.T) {
	// Arrange
	st := industry.NewStructureMatcher("st", "user-1")
	require.NoError(t, st.Rules.Set(industry.RuleKeyCategory, "Ship", 1035466617946))

	// Act
	data, err := json.Marshal(industry.MatcherJSON{Matcher: st})
	require.NoError(t, err)
	var decoded industry.MatcherJSON
	err = json.Unmarshal(data, &decoded)

	// Assert
	require.NoError(t, err)
	got, ok := decoded.Matcher.(*industry.StructureMatcher)
	require.True(t, ok)
	assert.Equal(t, "st", got.MatcherName())
	assert.Equal(t, "user-1", got.MatcherOwner())
	assert.Equal(t, []int64{1035466617946}, got.StructureIDs())
}

func TestMatcherJSON_UnknownKind(t *testing.T) {
	// Act
	var decoded industry.MatcherJSON
	err := json.Unmarshal([]byte(`{"name":"x","kind":"price"}`), &decoded)

	// Assert
	var kindErr *industry.ErrInvalidMatcherKind
	assert.ErrorAs(t, err, &kindErr)
}
