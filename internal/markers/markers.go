package markers

import (
	"math"
	"strings"

	"nhanescli/internal/dataset"
)

// Marker names, fixed by research design.
const (
	NLR          = "NLR"
	MLR          = "MLR"
	PLR          = "PLR"
	SII          = "SII"
	CRP          = "CRP"
	BloodMercury = "BloodMercury"
)

// All lists every analyzed marker in output order: the four cell-count ratios
// plus the two direct laboratory markers.
func All() []string {
	return []string{NLR, MLR, PLR, SII, CRP, BloodMercury}
}

// Ratios lists only the markers derived from the complete blood count.
func Ratios() []string {
	return []string{NLR, MLR, PLR, SII}
}

// Value returns the named marker for a record, NaN when the marker is missing
// or the name is unknown.
func Value(rec *dataset.Record, marker string) float64 {
	switch marker {
	case NLR:
		return rec.NLR
	case MLR:
		return rec.MLR
	case PLR:
		return rec.PLR
	case SII:
		return rec.SII
	case CRP:
		return rec.CRP
	case BloodMercury:
		return rec.BloodMercury
	}
	return math.NaN()
}

// Compute fills absolute cell subpopulation counts and the four ratio markers
// for every record in place. A missing input or a zero denominator yields a
// missing marker, never zero, so the subject drops out of downstream
// aggregates for that marker only.
func Compute(records []dataset.Record) {
	for i := range records {
		rec := &records[i]

		rec.Neutro = scalePct(rec.WBC, rec.NeutroPct)
		rec.Lympho = scalePct(rec.WBC, rec.LymphoPct)
		rec.Mono = scalePct(rec.WBC, rec.MonoPct)

		rec.NLR = ratio(rec.Neutro, rec.Lympho)
		rec.MLR = ratio(rec.Mono, rec.Lympho)
		rec.PLR = ratio(rec.Platelets, rec.Lympho)
		rec.SII = ratio(product(rec.Neutro, rec.Platelets), rec.Lympho)
	}
}

func scalePct(total, pct float64) float64 {
	if dataset.Missing(total) || dataset.Missing(pct) {
		return math.NaN()
	}
	return total * pct / 100
}

func ratio(num, den float64) float64 {
	if dataset.Missing(num) || dataset.Missing(den) || den == 0 {
		return math.NaN()
	}
	return num / den
}

func product(a, b float64) float64 {
	if dataset.Missing(a) || dataset.Missing(b) {
		return math.NaN()
	}
	return a * b
}

// amalgamCode is the dental-material code for an amalgam restoration in the
// exam's tooth/surface condition columns.
const amalgamCode = 2.0

// CountAmalgamSurfaces scans a dental exam table and counts, per subject, the
// surface/tooth condition cells coded as amalgam. Columns follow the exam
// naming: OHX…TC, OHX…FS and OHX…FT.
func CountAmalgamSurfaces(dental *dataset.Table) map[int]float64 {
	if dental == nil {
		return nil
	}
	var cols []string
	for _, name := range dental.Columns() {
		if !strings.HasPrefix(name, "OHX") {
			continue
		}
		if strings.HasSuffix(name, "TC") || strings.HasSuffix(name, "FS") || strings.HasSuffix(name, "FT") {
			cols = append(cols, name)
		}
	}

	counts := make(map[int]float64, dental.NumRows())
	for row := 0; row < dental.NumRows(); row++ {
		seqn := dental.Value(row, dataset.ColSEQN)
		if dataset.Missing(seqn) {
			continue
		}
		n := 0.0
		for _, c := range cols {
			if dental.Value(row, c) == amalgamCode {
				n++
			}
		}
		counts[int(seqn)] = n
	}
	return counts
}
