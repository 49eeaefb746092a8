package abducktion

import "testing"

func TestBoardSizeProgression(t *testing.T) {
	cases := []struct {
		level int
		size  int
	}{
		{1, 6},
		{2, 7},
		{3, 7},
		{4, 8},
		{6, 9},
		{8, 10},
		{9, 10},
		{50, 10},
	}
	for _, c := range cases {
		if got := BoardSize(c.level); got != c.size {
			t.Errorf("BoardSize(%d) = %d, want %d", c.level, got, c.size)
		}
	}
}

func TestGenerateBoardShape(t *testing.T) {
	for level := 1; level <= 12; level++ {
		board, target := GenerateBoard(level)
		size := BoardSize(level)
		if len(board) != size {
			t.Fatalf("level %d: expected %d rows, got %d", level, size, len(board))
		}
		for y, row := range board {
			if len(row) != size {
				t.Fatalf("level %d row %d: expected %d cells, got %d", level, y, size, len(row))
			}
			for x, cell := range row {
				if cell != 0 && cell != 1 {
					t.Fatalf("level %d cell (%d,%d): unexpected value %d", level, x, y, cell)
				}
			}
		}
		if target.X != size-1 || target.Y != size-1 {
			t.Fatalf("level %d: target should sit in the far corner, got %+v", level, target)
		}
	}
}

func TestGenerateBoardCornersAlwaysClear(t *testing.T) {
	for i := 0; i < 200; i++ {
		board, _ := GenerateBoard(1)
		size := len(board)
		if board[0][0] != 0 {
			t.Fatal("start cell must be clear")
		}
		if board[size-1][size-1] != 0 {
			t.Fatal("target cell must be clear")
		}
	}
}

func TestGenerateBoardBlockBudget(t *testing.T) {
	for level := 1; level <= 20; level++ {
		board, _ := GenerateBoard(level)
		size := len(board)
		blocks := 0
		for _, row := range board {
			for _, cell := range row {
				if cell == 1 {
					blocks++
				}
			}
		}
		want := 5 + level*2
		if limit := size * size / 3; want > limit {
			want = limit
		}
		// corner clearing may remove up to two placed blocks
		if blocks > want || blocks < want-2 {
			t.Errorf("level %d: %d blocks, expected around %d", level, blocks, want)
		}
	}
}

func TestCopyBoardIsIndependent(t *testing.T) {
	board, _ := GenerateBoard(1)
	cp := copyBoard(board)
	cp[1][1] = 1 - cp[1][1]
	if board[1][1] == cp[1][1] {
		t.Fatal("mutating the copy must not touch the original")
	}
}
