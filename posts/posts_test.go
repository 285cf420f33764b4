package posts

import (
	"strings"
	"testing"
	"time"

	"nitrojack/models"

	"github.com/stretchr/testify/assert"
)

func TestValidatePostText(t *testing.T) {
	assert.ErrorIs(t, ValidatePostText(""), errTextRequired)
	assert.NoError(t, ValidatePostText("hello"))

	assert.NoError(t, ValidatePostText(strings.Repeat("a", 500)))
	assert.ErrorIs(t, ValidatePostText(strings.Repeat("a", 501)), errTextTooLong)
}

func TestValidatePostTextCountsRunes(t *testing.T) {
	// 500 multibyte characters are still within the limit
	assert.NoError(t, ValidatePostText(strings.Repeat("ñ", 500)))
	assert.ErrorIs(t, ValidatePostText(strings.Repeat("ñ", 501)), errTextTooLong)
}

func TestBuildReplySnapshotsUser(t *testing.T) {
	user := models.User{
		UserID:     "u1234567890",
		Username:   "alice",
		ProfilePic: "/static/userpic/abc.jpg",
	}

	reply := buildReply(user, "nice post")

	assert.Equal(t, "u1234567890", reply.UserID)
	assert.Equal(t, "nice post", reply.Text)
	assert.Equal(t, "alice", reply.Username)
	assert.Equal(t, "/static/userpic/abc.jpg", reply.UserProfilePic)
	assert.WithinDuration(t, time.Now(), reply.CreatedAt, time.Second)
}
