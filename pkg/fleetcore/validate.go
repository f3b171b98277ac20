package fleetcore

import "sort"

type cell uint8

const (
	cellEmpty cell = iota
	cellShip
	cellVisited
)

// fleetSizes is the required ship-length multiset: one carrier (5), one
// battleship (4), one destroyer (3), two cruisers (2), two submarines (1).
var fleetSizes = []int{1, 1, 2, 2, 3, 4, 5}

// ValidateBoard decides whether a flat 18-byte position list describes a
// legal fleet placement:
//
//   - exactly 18 unique cells, all inside the 10x10 grid;
//   - connected groups form the {5,4,3,2,2,1,1} length multiset;
//   - every ship is strictly axis-aligned (no L or T shapes);
//   - distinct ships never touch, diagonals included.
//
// The result is independent of the order positions are listed in.
func ValidateBoard(positions []byte) bool {
	if len(positions) != FleetCells {
		return false
	}

	var board [GridSize][GridSize]cell
	for _, pos := range positions {
		if pos >= GridCells {
			return false
		}
		x := int(pos % GridSize)
		y := int(pos / GridSize)
		if board[y][x] != cellEmpty {
			return false // duplicate
		}
		board[y][x] = cellShip
	}

	// Walk each ship along its axis, labeling cells with a ship id. The walk
	// rejects bent shapes; the separation pass below rejects touching ships.
	var ids [GridSize][GridSize]int
	var sizes []int
	for y := 0; y < GridSize; y++ {
		for x := 0; x < GridSize; x++ {
			if board[y][x] != cellShip {
				continue
			}
			size := exploreShip(&board, &ids, x, y, len(sizes)+1)
			if size == 0 {
				return false
			}
			sizes = append(sizes, size)
		}
	}

	sort.Ints(sizes)
	if len(sizes) != len(fleetSizes) {
		return false
	}
	for i, s := range sizes {
		if s != fleetSizes[i] {
			return false
		}
	}

	// Separation: every occupied cell's 8-neighborhood may only contain
	// cells of the same ship. This makes the diagonal rule explicit rather
	// than a side effect of the traversal order.
	for y := 0; y < GridSize; y++ {
		for x := 0; x < GridSize; x++ {
			if ids[y][x] == 0 {
				continue
			}
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || nx >= GridSize || ny < 0 || ny >= GridSize {
						continue
					}
					if ids[ny][nx] != 0 && ids[ny][nx] != ids[y][x] {
						return false
					}
				}
			}
		}
	}

	return true
}

// exploreShip walks the ship whose top-left cell is (x, y), marking its
// cells visited and labeling them with id. It returns the ship length, or 0
// if the shape bends.
func exploreShip(board *[GridSize][GridSize]cell, ids *[GridSize][GridSize]int, x, y, id int) int {
	horizontal := x+1 < GridSize && board[y][x+1] == cellShip
	vertical := y+1 < GridSize && board[y+1][x] == cellShip

	if horizontal && vertical {
		return 0 // bent at the bow
	}

	length := 0
	switch {
	case horizontal:
		for j := x; j < GridSize && board[y][j] == cellShip; j++ {
			board[y][j] = cellVisited
			ids[y][j] = id
			length++
			// A perpendicular neighbor mid-hull means a T or L shape.
			if y > 0 && board[y-1][j] == cellShip {
				return 0
			}
			if y+1 < GridSize && board[y+1][j] == cellShip {
				return 0
			}
		}
	case vertical:
		for i := y; i < GridSize && board[i][x] == cellShip; i++ {
			board[i][x] = cellVisited
			ids[i][x] = id
			length++
			if x > 0 && board[i][x-1] == cellShip {
				return 0
			}
			if x+1 < GridSize && board[i][x+1] == cellShip {
				return 0
			}
		}
	default:
		board[y][x] = cellVisited
		ids[y][x] = id
		length = 1
	}

	return length
}
