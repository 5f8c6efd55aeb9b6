package model

// Rank is the hunter tier derived from level.
type Rank string

const (
	RankE        Rank = "E"
	RankD        Rank = "D"
	RankC        Rank = "C"
	RankB        Rank = "B"
	RankA        Rank = "A"
	RankS        Rank = "S"
	RankNational Rank = "National"
	RankMonarch  Rank = "Monarch"
)

// rankBands maps the highest level of each band to its rank, ascending.
var rankBands = []struct {
	maxLevel int
	rank     Rank
}{
	{10, RankE},
	{20, RankD},
	{30, RankC},
	{40, RankB},
	{50, RankA},
	{60, RankS},
	{100, RankNational},
}

// RankForLevel returns the rank for a hunter level.
// Monotonic: a higher level never yields a lower rank.
func RankForLevel(level int) Rank {
	for _, b := range rankBands {
		if level <= b.maxLevel {
			return b.rank
		}
	}
	return RankMonarch
}

// ExpToNextLevel returns experience required to leave the given level.
func ExpToNextLevel(level int) int {
	return level * 100
}
