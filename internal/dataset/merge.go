package dataset

import (
	"math"
)

// CycleTables bundles the decoded source tables for one cycle. CBC and
// Demographics are required; every other table may be nil, in which case the
// corresponding record fields stay missing.
type CycleTables struct {
	Cycle string

	CBC          *Table
	Demographics *Table

	// AmalgamSurfaces maps subject id to the dental-exam surface count.
	// Subjects absent from the map keep a missing count.
	AmalgamSurfaces map[int]float64

	CRP     *Table
	Mercury *Table
	Smoking *Table
	Alcohol *Table
}

// MergeCycle joins one cycle's tables into subject records: an inner join of
// demographics with hematology on subject id, with dental counts and the
// optional tables attached by left join. Row order follows the demographics
// table so reruns produce identical output.
func MergeCycle(ct CycleTables) []Record {
	cbcIdx := indexBySEQN(ct.CBC)
	crpIdx := indexBySEQN(ct.CRP)
	hgIdx := indexBySEQN(ct.Mercury)
	smqIdx := indexBySEQN(ct.Smoking)
	alqIdx := indexBySEQN(ct.Alcohol)

	var records []Record
	for row := 0; row < ct.Demographics.NumRows(); row++ {
		seqn, ok := subjectID(ct.Demographics.Value(row, ColSEQN))
		if !ok {
			continue
		}
		cbcRow, ok := cbcIdx[seqn]
		if !ok {
			continue
		}

		rec := Record{
			SEQN:  seqn,
			Cycle: ct.Cycle,

			Age:      ct.Demographics.Value(row, ColAge),
			SexCode:  ct.Demographics.Value(row, ColSex),
			RaceCode: ct.Demographics.Value(row, ColRace),
			Weight:   ct.Demographics.Value(row, ColWeight),
			PSU:      ct.Demographics.Value(row, ColPSU),
			Stratum:  ct.Demographics.Value(row, ColStrat),

			WBC:       ct.CBC.Value(cbcRow, ColWBC),
			NeutroPct: ct.CBC.Value(cbcRow, ColNeutroPct),
			LymphoPct: ct.CBC.Value(cbcRow, ColLymphoPct),
			MonoPct:   ct.CBC.Value(cbcRow, ColMonoPct),
			Platelets: ct.CBC.Value(cbcRow, ColPlatelets),

			AmalgamSurfaces: math.NaN(),
			CRP:             math.NaN(),
			BloodMercury:    math.NaN(),
			SMQ020:          math.NaN(),
			SMQ040:          math.NaN(),
			ALQ101:          math.NaN(),
			ALQ120Q:         math.NaN(),

			Neutro: math.NaN(),
			Lympho: math.NaN(),
			Mono:   math.NaN(),
			NLR:    math.NaN(),
			MLR:    math.NaN(),
			PLR:    math.NaN(),
			SII:    math.NaN(),
		}

		if count, ok := ct.AmalgamSurfaces[seqn]; ok {
			rec.AmalgamSurfaces = count
		}
		if r, ok := crpIdx[seqn]; ok {
			// The archive renamed the CRP column when the high-sensitivity
			// assay replaced the original one.
			rec.CRP = firstPresent(ct.CRP, r, ColCRP, ColHSCRP)
		}
		if r, ok := hgIdx[seqn]; ok {
			rec.BloodMercury = ct.Mercury.Value(r, ColMercury)
		}
		if r, ok := smqIdx[seqn]; ok {
			rec.SMQ020 = ct.Smoking.Value(r, ColSMQ020)
			rec.SMQ040 = ct.Smoking.Value(r, ColSMQ040)
		}
		if r, ok := alqIdx[seqn]; ok {
			rec.ALQ101 = ct.Alcohol.Value(r, ColALQ101)
			rec.ALQ120Q = ct.Alcohol.Value(r, ColALQ120Q)
		}

		records = append(records, rec)
	}
	return records
}

// indexBySEQN builds subject id -> row for a joined table. A nil table yields
// an empty index so every lookup misses.
func indexBySEQN(t *Table) map[int]int {
	if t == nil {
		return nil
	}
	idx := make(map[int]int, t.NumRows())
	for row := 0; row < t.NumRows(); row++ {
		if seqn, ok := subjectID(t.Value(row, ColSEQN)); ok {
			if _, dup := idx[seqn]; !dup {
				idx[seqn] = row
			}
		}
	}
	return idx
}

func subjectID(v float64) (int, bool) {
	if Missing(v) {
		return 0, false
	}
	return int(v), true
}

func firstPresent(t *Table, row int, columns ...string) float64 {
	for _, c := range columns {
		if v := t.Value(row, c); !Missing(v) {
			return v
		}
	}
	return math.NaN()
}
