package segment

import (
	"math"
	"sort"

	"thesislab/pkg/core/driver"
)

// elasticityBump is the relative perturbation applied when measuring driver
// sensitivity. Small enough to stay local, large enough to avoid float noise.
const elasticityBump = 0.01

// DriverRank is one entry in the "first principal drivers ranked by
// importance" list.
type DriverRank struct {
	Driver     string  `json:"driver"`
	Elasticity float64 `json:"elasticity"` // %change in operating income per %change in driver
	Rank       int     `json:"rank"`       // 1 = most important
}

// RankDrivers measures the elasticity of the segment's cumulative operating
// income with respect to each driver, holding the others fixed, and returns
// the drivers ranked by magnitude. Ties break alphabetically so the ranking
// is deterministic.
func (s Segment) RankDrivers(sn *driver.Snapshot) ([]DriverRank, error) {
	base, err := s.Project(sn)
	if err != nil {
		return nil, err
	}
	baseOI := base.OperatingIncomeTotal()

	ranks := make([]DriverRank, 0, len(s.DriverNames()))
	for _, name := range s.DriverNames() {
		bumped := sn.WithTilt(sn.Tilt, map[string]float64{name: 1 + elasticityBump})
		series, err := s.Project(bumped)
		if err != nil {
			return nil, err
		}

		elasticity := 0.0
		if baseOI != 0 {
			elasticity = ((series.OperatingIncomeTotal() - baseOI) / baseOI) / elasticityBump
		}
		ranks = append(ranks, DriverRank{Driver: name, Elasticity: elasticity})
	}

	sort.Slice(ranks, func(i, j int) bool {
		ai, aj := math.Abs(ranks[i].Elasticity), math.Abs(ranks[j].Elasticity)
		if ai != aj {
			return ai > aj
		}
		return ranks[i].Driver < ranks[j].Driver
	})
	for i := range ranks {
		ranks[i].Rank = i + 1
	}
	return ranks, nil
}
