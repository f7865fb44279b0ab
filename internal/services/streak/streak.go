// Package streak computes win/loss runs over an ordered sequence of frames.
//
// Frames are expected in ascending recorded-time order. Frames that do not
// involve the player are transparent: they neither extend nor break a run.
package streak

import "github.com/chalkline/chalkline/internal/model"

// Outcome selects which kind of run Max counts
type Outcome int

const (
	Win Outcome = iota
	Loss
)

// Current returns the player's active run of consecutive wins, scanning
// backward from the most recent frame. The scan stops at the first frame the
// player lost, so a loss in the final frame yields 0 no matter how long the
// earlier run was. That is deliberate: this is a single continuous-sequence
// streak, not a "best active streak".
func Current(frames []model.Frame, playerID model.PlayerID) int {
	n := 0
	for i := len(frames) - 1; i >= 0; i-- {
		switch playerID {
		case frames[i].WinnerID:
			n++
		case frames[i].LoserID:
			return n
		}
	}
	return n
}

// Max returns the longest run of the given outcome for the player across the
// whole sequence. The running counter resets on the opposite outcome and is
// untouched by frames the player was not part of. Returns 0 for an empty or
// irrelevant sequence.
func Max(frames []model.Frame, playerID model.PlayerID, outcome Outcome) int {
	best, run := 0, 0
	for i := range frames {
		f := &frames[i]
		if !f.Involves(playerID) {
			continue
		}
		won := f.WinnerID == playerID
		if won == (outcome == Win) {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
	}
	return best
}
