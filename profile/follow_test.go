package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateFollowTarget(t *testing.T) {
	assert.NoError(t, validateFollowTarget("u1", "u2"))

	err := validateFollowTarget("u1", "u1")
	assert.ErrorIs(t, err, errSelfFollow)

	assert.Error(t, validateFollowTarget("u1", ""))
}
