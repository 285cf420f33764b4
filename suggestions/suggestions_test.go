package suggestions

import (
	"testing"

	"nitrojack/models"

	"github.com/stretchr/testify/assert"
)

func suggest(ids ...string) []models.UserSuggest {
	out := make([]models.UserSuggest, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.UserSuggest{UserID: id, Username: "user-" + id})
	}
	return out
}

func TestFilterCandidatesDropsFollowedAndSelf(t *testing.T) {
	candidates := suggest("u1", "u2", "u3", "u4")

	got := filterCandidates(candidates, []string{"u2"}, "u3", maxSuggestions)

	assert.Len(t, got, 2)
	assert.Equal(t, "u1", got[0].UserID)
	assert.Equal(t, "u4", got[1].UserID)
}

func TestFilterCandidatesCapsAtMax(t *testing.T) {
	candidates := suggest("u1", "u2", "u3", "u4", "u5", "u6")

	got := filterCandidates(candidates, nil, "me", maxSuggestions)

	assert.Len(t, got, maxSuggestions)
}

func TestFilterCandidatesEmptyInput(t *testing.T) {
	got := filterCandidates(nil, []string{"u1"}, "me", maxSuggestions)

	assert.NotNil(t, got)
	assert.Empty(t, got)
}
