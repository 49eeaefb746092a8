package abducktion

import "math/rand"

const maxBoardSize = 10

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// BoardSize is the square grid dimension for a level: grows every two levels
// from 6, capped at 10.
func BoardSize(level int) int {
	size := 6 + level/2
	if size > maxBoardSize {
		size = maxBoardSize
	}
	return size
}

// GenerateBoard builds the canonical board for a level. Cells are 0 (empty)
// or 1 (block). Block count grows with the level but never exceeds a third of
// the cells, keeping the board crossable. The start cell (0,0) and the target
// cell (size-1,size-1) are always cleared, whatever the random placement did.
func GenerateBoard(level int) ([][]int, Point) {
	size := BoardSize(level)
	board := make([][]int, size)
	for y := range board {
		board[y] = make([]int, size)
	}

	blocks := 5 + level*2
	if limit := size * size / 3; blocks > limit {
		blocks = limit
	}
	for placed := 0; placed < blocks; {
		x, y := rand.Intn(size), rand.Intn(size)
		if board[y][x] == 1 {
			continue
		}
		board[y][x] = 1
		placed++
	}

	board[0][0] = 0
	board[size-1][size-1] = 0
	return board, Point{X: size - 1, Y: size - 1}
}

func copyBoard(b [][]int) [][]int {
	out := make([][]int, len(b))
	for i, row := range b {
		out[i] = make([]int, len(row))
		copy(out[i], row)
	}
	return out
}
