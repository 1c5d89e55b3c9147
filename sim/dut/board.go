// sim/dut/board.go
package dut

import (
	"math/rand"
	"strings"
)

// BoardSize is the edge length of the demo board's Life grid.
const BoardSize = 8

// Board is the toroidal Conway's Life grid the demo firmware renders over
// UART. Coordinates wrap at the edges.
type Board struct {
	cells [BoardSize][BoardSize]bool
}

// Alive reports the state of one cell.
func (b *Board) Alive(x, y int) bool {
	return b.cells[y][x]
}

// SetCell sets one cell's state.
func (b *Board) SetCell(x, y int, alive bool) {
	b.cells[y][x] = alive
}

// Randomize fills the grid from the given source.
func (b *Board) Randomize(rng *rand.Rand) {
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			b.cells[y][x] = rng.Intn(2) == 1
		}
	}
}

// Step advances the grid one generation: a cell lives with exactly three
// neighbors, or with two if already alive.
func (b *Board) Step() {
	var next [BoardSize][BoardSize]bool
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			n := b.neighbors(x, y)
			next[y][x] = n == 3 || (n == 2 && b.cells[y][x])
		}
	}
	b.cells = next
}

func (b *Board) neighbors(x, y int) int {
	n := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if b.cells[(y+dy+BoardSize)%BoardSize][(x+dx+BoardSize)%BoardSize] {
				n++
			}
		}
	}
	return n
}

// Render draws the grid one CRLF-terminated row at a time, live cells as
// '*', dead cells as '.'.
func (b *Board) Render() string {
	var sb strings.Builder
	sb.Grow(BoardSize * (BoardSize + 2))
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			if b.cells[y][x] {
				sb.WriteByte('*')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteString("\r\n")
	}
	return sb.String()
}
