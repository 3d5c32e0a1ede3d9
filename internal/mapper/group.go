package mapper

import "github.com/woozymasta/georoute/internal/geo"

// Entry is one located hop inside a location group.
type Entry struct {
	IP      string `json:"ip" yaml:"ip"`
	City    string `json:"city" yaml:"city"`
	Country string `json:"country" yaml:"country"`
	Step    int    `json:"step" yaml:"step"`
}

// Group collects the hops sharing one exact coordinate.
type Group struct {
	Entries []Entry `json:"entries" yaml:"entries"`
	Lat     float64 `json:"lat" yaml:"lat"`
	Lon     float64 `json:"lon" yaml:"lon"`
}

type coord struct {
	lat, lon float64
}

// GroupByLocation groups records by exact (lat, lon) equality.
// Groups are returned in first-seen order and entries in record order.
// Steps are positions within records, starting at one.
func GroupByLocation(records []geo.Record) []Group {
	index := make(map[coord]int)
	groups := make([]Group, 0)

	for i, rec := range records {
		key := coord{rec.Lat, rec.Lon}

		pos, ok := index[key]
		if !ok {
			pos = len(groups)
			index[key] = pos
			groups = append(groups, Group{Lat: rec.Lat, Lon: rec.Lon})
		}

		groups[pos].Entries = append(groups[pos].Entries, Entry{
			Step:    i + 1,
			IP:      rec.IP,
			City:    rec.City,
			Country: rec.Country,
		})
	}

	return groups
}
