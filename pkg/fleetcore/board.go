package fleetcore

import (
	"fmt"
	"strconv"
	"strings"
)

// The grid is 10x10 and positions are flattened as pos = y*10 + x.
// The UI shows a position as column letter A-J followed by row digit 0-9.

const (
	GridSize  = 10
	GridCells = GridSize * GridSize

	// FleetCells is the total cell count of a freshly placed fleet:
	// 5+4+3+2+2+1+1.
	FleetCells = 18
)

// FormatPos renders a flat position as its display form, e.g. 34 -> "E3".
func FormatPos(pos uint8) string {
	x := pos % GridSize
	y := pos / GridSize
	return fmt.Sprintf("%c%d", 'A'+x, y)
}

// ParseCoordinates converts a column letter A-J and a row digit 0-9 into a
// flat position.
func ParseCoordinates(x, y string) (uint8, error) {
	if len(x) != 1 || x[0] < 'A' || x[0] > 'J' {
		return 0, fmt.Errorf("x coordinate must be a letter between A and J")
	}
	if len(y) != 1 || y[0] < '0' || y[0] > '9' {
		return 0, fmt.Errorf("y coordinate must be a digit between 0 and 9")
	}
	return (y[0]-'0')*GridSize + (x[0] - 'A'), nil
}

// ParseBoard decodes a comma-separated position list ("0,1,2,...") into the
// flat byte form used everywhere else. It rejects out-of-range cells but
// leaves fleet-shape validation to ValidateBoard.
func ParseBoard(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("board placement is empty")
	}
	parts := strings.Split(s, ",")
	board := make([]byte, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid number in board placement: %q", p)
		}
		if n >= GridCells {
			return nil, fmt.Errorf("board position %d is outside the grid", n)
		}
		board = append(board, byte(n))
	}
	return board, nil
}
