package booking

import "table-booking-backend/internal/parse"

// CandidateCount is the number of names the allocator can hand out per room:
// "00".."20" followed by "A01".."Z20".
const CandidateCount = (parse.MaxNumeric + 1) + 26*(parse.MaxSuffix-parse.MinSuffix+1)

var candidates = buildCandidates()

// Suggestion is a free table found by the allocator.
type Suggestion struct {
	Room  string `json:"room"`
	Table string `json:"table"`
}

func buildCandidates() []string {
	names := make([]string, 0, CandidateCount)
	for n := 0; n <= parse.MaxNumeric; n++ {
		names = append(names, parse.FormatNumeric(n))
	}
	for letter := byte('A'); letter <= 'Z'; letter++ {
		for n := parse.MinSuffix; n <= parse.MaxSuffix; n++ {
			names = append(names, parse.FormatAlphanumeric(letter, n))
		}
	}
	return names
}

// Candidates returns every name the allocator may generate, in priority order.
func Candidates() []string {
	out := make([]string, len(candidates))
	copy(out, candidates)
	return out
}

// FindFirstFreeTable walks rooms in order and returns the first candidate
// name that the room does not already hold. Names are compared exactly.
// It reports false when every room is saturated.
func FindFirstFreeTable(rooms []Room) (Suggestion, bool) {
	for _, room := range rooms {
		taken := make(map[string]struct{}, len(room.Tables))
		for _, t := range room.Tables {
			taken[t.FullName] = struct{}{}
		}

		for _, name := range candidates {
			if _, ok := taken[name]; !ok {
				return Suggestion{Room: room.Name, Table: name}, true
			}
		}
	}
	return Suggestion{}, false
}
