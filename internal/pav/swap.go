package pav

import "fmt"

// Swap is an ordered pair (x ∈ committee, y ∉ committee) defining the
// candidate committee committee − {x} + {y}.
type Swap struct {
	X int
	Y int
}

func (sw Swap) String() string {
	return fmt.Sprintf("(%d,%d)", sw.X, sw.Y)
}

// Swaps enumerates every swap of a committee within the ground set {0..n-1},
// ordered by x then y. A committee of size k yields k·(n−k) swaps.
func Swaps(n int, committee Set) []Swap {
	out := make([]Swap, 0, committee.Card()*(n-committee.Card()))
	for x := 0; x < n; x++ {
		if !committee.Contains(x) {
			continue
		}
		for y := 0; y < n; y++ {
			if committee.Contains(y) {
				continue
			}
			out = append(out, Swap{X: x, Y: y})
		}
	}
	return out
}

// Apply returns the committee obtained by the swap.
func Apply(committee Set, sw Swap) Set {
	return committee.Remove(sw.X).Add(sw.Y)
}
