package simulate

import (
	"fmt"

	"github.com/okian/salesboard/internal/domain/leaderboard"
)

// compareBoards checks both boards entry by entry, order included.
func compareBoards(expected, actual leaderboard.Boards) error {
	if err := compareBoard("sales", expected.Sales, actual.Sales); err != nil {
		return err
	}
	return compareBoard("am", expected.AccountManagers, actual.AccountManagers)
}

func compareBoard(name string, expected, actual []leaderboard.Entry) error {
	if len(expected) != len(actual) {
		return fmt.Errorf("%w: %s board has %d entries, want %d", ErrMismatch, name, len(actual), len(expected))
	}
	for i := range expected {
		if expected[i] != actual[i] {
			return fmt.Errorf("%w: %s board position %d is %s with %d, want %s with %d",
				ErrMismatch, name, i+1, actual[i].Name, actual[i].Score, expected[i].Name, expected[i].Score)
		}
	}
	return nil
}
