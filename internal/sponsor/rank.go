package sponsor

import (
	"sort"

	"golang.org/x/text/cases"
)

type identity struct {
	platform Platform
	key      string
}

// Rank deduplicates sponsors by (platform, key), keeping the last record seen
// for each identity, and sorts the survivors ascending by start time, folded
// display name, platform and key. The final two fields make the order a
// strict total order because identities are unique after deduplication.
func Rank(sponsors []Sponsor) []Sponsor {
	unique := make(map[identity]Sponsor, len(sponsors))
	for _, s := range sponsors {
		unique[identity{platform: s.Platform, key: s.Key}] = s
	}

	ranked := make([]Sponsor, 0, len(unique))
	for _, s := range unique {
		ranked = append(ranked, s)
	}

	fold := cases.Fold()
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if !a.StartedAt.Equal(b.StartedAt) {
			return a.StartedAt.Before(b.StartedAt)
		}
		if an, bn := fold.String(a.Name), fold.String(b.Name); an != bn {
			return an < bn
		}
		if a.Platform != b.Platform {
			return a.Platform < b.Platform
		}
		return a.Key < b.Key
	})
	return ranked
}
