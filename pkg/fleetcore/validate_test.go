package fleetcore

import "testing"

// validFleet is a legal placement: carrier row 0, battleship row 2,
// destroyer row 4, cruisers row 6, submarines row 8.
func validFleet() []byte {
	return []byte{
		0, 1, 2, 3, 4, // carrier (5)
		20, 21, 22, 23, // battleship (4)
		40, 41, 42, // destroyer (3)
		60, 61, // cruiser (2)
		64, 65, // cruiser (2)
		80, // submarine (1)
		83, // submarine (1)
	}
}

func TestValidateBoard(t *testing.T) {
	tests := []struct {
		name  string
		board []byte
		want  bool
	}{
		{"legal fleet", validFleet(), true},
		{"vertical fleet", []byte{
			0, 10, 20, 30, 40, // carrier down column 0
			2, 12, 22, 32, // battleship down column 2
			4, 14, 24, // destroyer down column 4
			6, 16, // cruiser
			8, 18, // cruiser
			90, // submarine
			99, // submarine
		}, true},
		{"too few cells", validFleet()[:17], false},
		{"too many cells", append(validFleet(), 99), false},
		{"cell outside grid", replace(validFleet(), 83, 100), false},
		{"duplicate cell", replace(validFleet(), 83, 80), false},
		{"L-shaped destroyer", replace(validFleet(), 42, 51), false},
		{"T-shaped battleship", replace(validFleet(), 23, 31), false},
		{"ships touching orthogonally", replace(validFleet(), 80, 50), false},
		{"ships touching diagonally", replace(validFleet(), 83, 91), false},
		{"cruisers touching diagonally", []byte{
			0, 1, 2, 3, 4,
			20, 21, 22, 23,
			40, 41, 42,
			60, 61, // cruiser ending at row 6, col 1
			72, 73, // cruiser starting diagonally below it
			90, 93,
		}, false},
		{"wrong size multiset", []byte{
			0, 1, 2, 3, 4, 5, // three ships of 6
			20, 21, 22, 23, 24, 25,
			40, 41, 42, 43, 44, 45,
		}, false},
		{"two carriers", []byte{
			0, 1, 2, 3, 4, // carrier
			20, 21, 22, 23, 24, // second carrier instead of battleship+sub
			40, 41, 42,
			60, 61,
			64, 65,
			80,
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateBoard(tt.board); got != tt.want {
				t.Errorf("ValidateBoard() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestValidateBoardOrderIndependent checks that enumeration order of the
// position list never changes the verdict.
func TestValidateBoardOrderIndependent(t *testing.T) {
	board := validFleet()
	reversed := make([]byte, len(board))
	for i, b := range board {
		reversed[len(board)-1-i] = b
	}
	if !ValidateBoard(reversed) {
		t.Error("reversed enumeration of a legal fleet was rejected")
	}

	// An illegal layout must stay illegal under permutation too.
	bent := replace(validFleet(), 42, 51)
	bentReversed := make([]byte, len(bent))
	for i, b := range bent {
		bentReversed[len(bent)-1-i] = b
	}
	if ValidateBoard(bentReversed) {
		t.Error("reversed enumeration of an L-shaped fleet was accepted")
	}
}

// replace returns a copy of board with the first occurrence of old swapped
// for new.
func replace(board []byte, old, new byte) []byte {
	out := make([]byte, len(board))
	copy(out, board)
	for i, b := range out {
		if b == old {
			out[i] = new
			break
		}
	}
	return out
}
