package regression

import (
	"log/slog"

	"nhanescli/internal/dataset"
	"nhanescli/internal/markers"
)

// ModelSet holds the fitted models of one family, keyed by marker. Markers
// whose fit failed are absent from both the map and the order slice.
type ModelSet struct {
	// Markers lists the successfully fitted markers in canonical order.
	Markers []string
	Results map[string]*FitResult
}

// FitContinuousModels fits the spline-in-time OLS model for every marker
// over the full combined dataset. A marker whose design is degenerate or
// whose fit fails is skipped with a logged reason; it never aborts the rest.
func FitContinuousModels(records []dataset.Record, variant Variant) ModelSet {
	return fitAll(records, variant, "continuous", func(marker string) (*FitResult, error) {
		d, err := ContinuousDesign(records, marker, variant)
		if err != nil {
			return nil, err
		}
		return FitOLS(d)
	})
}

// FitDichotomizedModels fits the median-split logistic model for every
// marker, with the same per-marker skip policy.
func FitDichotomizedModels(records []dataset.Record, variant Variant) ModelSet {
	return fitAll(records, variant, "logistic", func(marker string) (*FitResult, error) {
		d, err := DichotomizedDesign(records, marker, variant)
		if err != nil {
			return nil, err
		}
		return FitLogistic(d)
	})
}

func fitAll(records []dataset.Record, variant Variant, family string, fit func(marker string) (*FitResult, error)) ModelSet {
	set := ModelSet{Results: make(map[string]*FitResult)}
	for _, marker := range markers.All() {
		res, err := fit(marker)
		if err != nil {
			slog.Warn("model skipped",
				slog.String("family", family),
				slog.String("variant", variant.String()),
				slog.String("marker", marker),
				slog.Any("error", err))
			continue
		}
		set.Markers = append(set.Markers, marker)
		set.Results[marker] = res
	}
	return set
}

// TermUnion returns the union of term names across the fitted markers,
// preserving first-appearance order. Result tables use it as their dynamic
// column set.
func (s ModelSet) TermUnion() []string {
	seen := make(map[string]bool)
	var union []string
	for _, marker := range s.Markers {
		for _, term := range s.Results[marker].Terms {
			if !seen[term] {
				seen[term] = true
				union = append(union, term)
			}
		}
	}
	return union
}
