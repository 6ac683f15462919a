package pav

import (
	"fmt"
	"math/bits"
	"sort"
	"strconv"
	"strings"
)

// MaxGroundSet is the largest supported ground-set size. The hardest
// configuration verified by this system uses 16 alternatives; the bitset
// representation is sized accordingly.
const MaxGroundSet = 16

// Set is an immutable subset of a ground set {0..n-1}, encoded as a bitmask.
// Ballots, committees, and deviation targets are all Sets.
type Set uint32

// SetOf builds a Set from explicit members.
func SetOf(members ...int) Set {
	var s Set
	for _, m := range members {
		s |= 1 << uint(m)
	}
	return s
}

// Ground returns the full ground set {0..n-1}.
func Ground(n int) Set {
	return Set(1<<uint(n)) - 1
}

// Contains reports whether x is a member of s.
func (s Set) Contains(x int) bool {
	return s&(1<<uint(x)) != 0
}

// Add returns s ∪ {x}.
func (s Set) Add(x int) Set {
	return s | 1<<uint(x)
}

// Remove returns s − {x}.
func (s Set) Remove(x int) Set {
	return s &^ (1 << uint(x))
}

// Card returns |s|.
func (s Set) Card() int {
	return bits.OnesCount32(uint32(s))
}

// SubsetOf reports whether s ⊆ t.
func (s Set) SubsetOf(t Set) bool {
	return s&^t == 0
}

// Members returns the elements of s in ascending order.
func (s Set) Members() []int {
	out := make([]int, 0, s.Card())
	for x := 0; x < MaxGroundSet; x++ {
		if s.Contains(x) {
			out = append(out, x)
		}
	}
	return out
}

// String renders the set as a compact member string, one base-36 digit per
// element ("018" for {0,1,8}, "ab" for {10,11}). The empty set renders as "-".
// This is the form used in certificate keys.
func (s Set) String() string {
	if s == 0 {
		return "-"
	}
	var b strings.Builder
	for _, x := range s.Members() {
		b.WriteString(strconv.FormatInt(int64(x), 36))
	}
	return b.String()
}

// ParseSet inverts String. Returns an error on malformed digits or elements
// outside the representable range.
func ParseSet(text string) (Set, error) {
	if text == "-" {
		return 0, nil
	}
	var s Set
	for _, r := range text {
		x, err := strconv.ParseInt(string(r), 36, 32)
		if err != nil || x >= MaxGroundSet {
			return 0, fmt.Errorf("pav: invalid set element %q in %q", string(r), text)
		}
		s = s.Add(int(x))
	}
	return s, nil
}

// Utility is the approval utility of a committee for a ballot:
// |ballot ∩ committee|. Total for all inputs; both arguments are plain Sets,
// the names only document the intended roles.
func Utility(ballot, committee Set) int {
	return (ballot & committee).Card()
}

// Universe enumerates all 2^n ballots over {0..n-1} in ascending mask order.
// The slice is generated once per instance and shared read-only afterwards.
func Universe(n int) []Set {
	out := make([]Set, 1<<uint(n))
	for i := range out {
		out[i] = Set(i)
	}
	return out
}

// Subsets enumerates the size-r subsets of base in ascending mask order.
func Subsets(base Set, r int) []Set {
	members := base.Members()
	if r < 0 || r > len(members) {
		return nil
	}
	var out []Set
	idx := make([]int, r)
	for i := range idx {
		idx[i] = i
	}
	for {
		var s Set
		for _, i := range idx {
			s = s.Add(members[i])
		}
		out = append(out, s)
		// next combination in lexicographic order
		i := r - 1
		for i >= 0 && idx[i] == len(members)-r+i {
			i--
		}
		if i < 0 {
			break
		}
		idx[i]++
		for j := i + 1; j < r; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out
}
