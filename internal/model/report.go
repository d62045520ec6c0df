package model

import "math"

// Report summarizes a packing run the way the block list editor shows it:
// the fill ratio of the container and the sizes that did not fit.
type Report struct {
	Container  Rect     `json:"container"`
	Total      int      `json:"total"`
	Placed     int      `json:"placed"`
	Unfit      int      `json:"unfit"`
	UsedArea   float64  `json:"used_area"`
	FillRatio  float64  `json:"fill_ratio"`  // Rounded percentage of the container covered
	UnfitSizes []string `json:"unfit_sizes"` // "WxH" per unfit block, input order
}

// BuildReport computes a Report for result.
func BuildReport(result PackResult) Report {
	r := Report{
		Container:  result.Container,
		Total:      len(result.Blocks),
		UnfitSizes: []string{},
	}
	for _, b := range result.Blocks {
		if b.Placed() {
			r.Placed++
			r.UsedArea += b.Area()
			continue
		}
		r.Unfit++
		r.UnfitSizes = append(r.UnfitSizes, b.SizeString())
	}
	r.FillRatio = math.Round(result.FillRatio())
	return r
}

// AllFit reports whether every block was placed.
func (r Report) AllFit() bool {
	return r.Unfit == 0
}
