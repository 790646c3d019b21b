package scoring

// ScoredPositions is the number of finishing positions compared.
const ScoredPositions = 10

// PodiumCutoff is the last position scored at the podium rate.
const PodiumCutoff = 3

const (
	PodiumExact      = 5
	PodiumPresent    = 2
	NonPodiumExact   = 3
	NonPodiumPresent = 1
)

// Points scores one guess against an official order. Both maps are keyed by
// 1-based position and hold participant ids. Positions above ScoredPositions
// are ignored, and a participant guessed twice is scored at each position.
func Points(guess, official map[int]string) int {
	if len(guess) == 0 || len(official) == 0 {
		return 0
	}

	finished := make(map[string]struct{}, len(official))
	for _, participantID := range official {
		finished[participantID] = struct{}{}
	}

	total := 0
	for pos := 1; pos <= ScoredPositions; pos++ {
		guessed, ok := guess[pos]
		if !ok {
			continue
		}
		actual, ok := official[pos]
		if !ok {
			continue
		}

		podium := pos <= PodiumCutoff
		switch {
		case guessed == actual:
			if podium {
				total += PodiumExact
			} else {
				total += NonPodiumExact
			}
		default:
			if _, present := finished[guessed]; !present {
				continue
			}
			if podium {
				total += PodiumPresent
			} else {
				total += NonPodiumPresent
			}
		}
	}

	return total
}

// PositionMap converts an ordered id list into a 1-based position map.
func PositionMap(orderedIDs []string) map[int]string {
	out := make(map[int]string, len(orderedIDs))
	for i, id := range orderedIDs {
		out[i+1] = id
	}
	return out
}
