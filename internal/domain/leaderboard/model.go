package leaderboard

import "sort"

// Entry is one derived leaderboard row.
type Entry struct {
	UserID      string
	Username    string
	DisplayName string
	Points      int
	Rank        int
}

// Rank sorts entries by descending points and assigns sequential 1-based
// ranks. Ties keep their input order and still get distinct ranks.
func Rank(entries []Entry) []Entry {
	out := append([]Entry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Points > out[j].Points
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
