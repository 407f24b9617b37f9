package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidStage(t *testing.T) {
	assert.True(t, IsValidStage("prod"))
	assert.True(t, IsValidStage("dev"))
	assert.True(t, IsValidStage("local"))
	assert.False(t, IsValidStage("staging"))
	assert.False(t, IsValidStage(""))
}
