package markers

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nhanescli/internal/dataset"
)

func TestCompute(t *testing.T) {
	records := []dataset.Record{{
		WBC:       8.0, // 10^3 cells/uL
		NeutroPct: 50,
		LymphoPct: 25,
		MonoPct:   12.5,
		Platelets: 200,
	}}

	Compute(records)
	rec := records[0]

	assert.InDelta(t, 4.0, rec.Neutro, 1e-12)
	assert.InDelta(t, 2.0, rec.Lympho, 1e-12)
	assert.InDelta(t, 1.0, rec.Mono, 1e-12)
	assert.InDelta(t, 2.0, rec.NLR, 1e-12)
	assert.InDelta(t, 0.5, rec.MLR, 1e-12)
	assert.InDelta(t, 100.0, rec.PLR, 1e-12)
	assert.InDelta(t, 400.0, rec.SII, 1e-12)
}

func TestComputeMissingPropagation(t *testing.T) {
	tests := []struct {
		name string
		rec  dataset.Record
	}{
		{
			name: "zero lymphocyte percentage",
			rec:  dataset.Record{WBC: 8, NeutroPct: 50, LymphoPct: 0, MonoPct: 10, Platelets: 200},
		},
		{
			name: "missing lymphocyte percentage",
			rec:  dataset.Record{WBC: 8, NeutroPct: 50, LymphoPct: math.NaN(), MonoPct: 10, Platelets: 200},
		},
		{
			name: "missing white cell count",
			rec:  dataset.Record{WBC: math.NaN(), NeutroPct: 50, LymphoPct: 25, MonoPct: 10, Platelets: 200},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := []dataset.Record{tt.rec}
			Compute(records)
			rec := records[0]
			assert.True(t, dataset.Missing(rec.NLR), "NLR must be missing, not zero")
			assert.True(t, dataset.Missing(rec.MLR))
			assert.True(t, dataset.Missing(rec.PLR))
			assert.True(t, dataset.Missing(rec.SII))
		})
	}
}

func TestComputePartialMissing(t *testing.T) {
	// Platelets missing: PLR and SII are missing, NLR and MLR still computed.
	records := []dataset.Record{{
		WBC: 8, NeutroPct: 50, LymphoPct: 25, MonoPct: 10,
		Platelets: math.NaN(),
	}}
	Compute(records)
	rec := records[0]
	assert.False(t, dataset.Missing(rec.NLR))
	assert.False(t, dataset.Missing(rec.MLR))
	assert.True(t, dataset.Missing(rec.PLR))
	assert.True(t, dataset.Missing(rec.SII))
}

func TestValue(t *testing.T) {
	rec := dataset.Record{NLR: 1, MLR: 2, PLR: 3, SII: 4, CRP: 5, BloodMercury: 6}
	for i, name := range All() {
		assert.Equal(t, float64(i+1), Value(&rec, name))
	}
	assert.True(t, math.IsNaN(Value(&rec, "bogus")))
}

func TestCountAmalgamSurfaces(t *testing.T) {
	dental := dataset.NewTable([]string{"SEQN", "OHX02TC", "OHX03TC", "OHX04FS", "OHX05FT", "OHXIGNORED", "NOTOHXTC"})
	require.NoError(t, dental.AppendRow([]float64{1, 2, 2, 2, 1, 2, 2}))
	require.NoError(t, dental.AppendRow([]float64{2, 1, 3, math.NaN(), 4, 2, 2}))
	require.NoError(t, dental.AppendRow([]float64{3, math.NaN(), math.NaN(), math.NaN(), math.NaN(), math.NaN(), math.NaN()}))

	counts := CountAmalgamSurfaces(dental)
	require.Len(t, counts, 3)
	// Only OHX…TC/FS/FT columns participate: OHXIGNORED lacks the suffix and
	// NOTOHXTC lacks the prefix.
	assert.Equal(t, 3.0, counts[1])
	assert.Equal(t, 0.0, counts[2])
	assert.Equal(t, 0.0, counts[3], "an examined subject with no amalgam cells counts zero")

	assert.Nil(t, CountAmalgamSurfaces(nil))
}
