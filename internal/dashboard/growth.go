package dashboard

import "github.com/greengenius/greengenius/internal/models"

// GrowthSummary backs the height trajectory chart.
type GrowthSummary struct {
	Entries     int       `json:"entries"`
	Heights     []float64 `json:"heights"`
	Min         float64   `json:"min"`
	Max         float64   `json:"max"`
	Range       float64   `json:"range"`
	TotalGrowth float64   `json:"totalGrowth"`
}

// SummarizeGrowth expects entries oldest first. A single entry is
// duplicated so the chart always has a line; no entries gives a zero
// summary.
func SummarizeGrowth(entries []models.GrowthEntry) GrowthSummary {
	if len(entries) == 0 {
		return GrowthSummary{Heights: []float64{}}
	}

	heights := make([]float64, 0, len(entries)+1)

	for _, e := range entries {
		heights = append(heights, e.Height)
	}

	if len(heights) == 1 {
		heights = append(heights, heights[0])
	}

	min, max := heights[0], heights[0]

	for _, h := range heights[1:] {
		if h < min {
			min = h
		}
		if h > max {
			max = h
		}
	}

	rng := max - min

	if rng == 0 {
		rng = 1
	}

	return GrowthSummary{
		Entries:     len(entries),
		Heights:     heights,
		Min:         min,
		Max:         max,
		Range:       rng,
		TotalGrowth: heights[len(heights)-1] - heights[0],
	}
}
