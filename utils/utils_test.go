package utils

import (
	"testing"

	"github.com/cameroncuttingedge/fruit_bingo/game"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUUIDString(t *testing.T) {
	a := GenerateUUIDString()
	b := GenerateUUIDString()

	_, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestGridLabels(t *testing.T) {
	var g game.Grid
	g[0][0] = game.ImageDescriptor{Image: "a.png", Alt: "apple"}
	g[3][1] = game.ImageDescriptor{Image: "b.png", Alt: "banana"}

	labels := GridLabels(g)
	assert.Equal(t, "apple", labels[0][0])
	assert.Equal(t, "banana", labels[3][1])
	assert.Equal(t, "", labels[2][2])
}
