// utils/utils.go

package utils

import (
	"github.com/cameroncuttingedge/fruit_bingo/game"
	"github.com/google/uuid"
)

func GenerateUUIDString() string {
	id := uuid.New()
	return id.String()
}

// GridLabels flattens a grid to its alt labels, row by row.
func GridLabels(grid game.Grid) [game.GridSize][game.GridSize]string {
	var labels [game.GridSize][game.GridSize]string
	for i, row := range grid {
		for j, cell := range row {
			labels[i][j] = cell.Alt
		}
	}
	return labels
}
