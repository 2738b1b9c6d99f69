package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCyclesOrder(t *testing.T) {
	cycles := Cycles()
	require.Len(t, cycles, 10)
	assert.Equal(t, Cycle("1999-2000"), cycles[0])
	assert.Equal(t, Cycle("2017-2018"), cycles[9])

	// Order must be stable between calls and immune to caller mutation.
	got := Cycles()
	got[0] = "mutated"
	assert.Equal(t, cycles, Cycles())
}

func TestStartYear(t *testing.T) {
	tests := []struct {
		cycle   Cycle
		year    int
		wantErr bool
	}{
		{"1999-2000", 1999, false},
		{"2017-2018", 2017, false},
		{"abc", 0, true},
		{"20xx-20yy", 0, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.cycle), func(t *testing.T) {
			year, err := tt.cycle.StartYear()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.year, year)
		})
	}
}

func TestFiles(t *testing.T) {
	for _, c := range Cycles() {
		fs, ok := Files(c)
		require.True(t, ok, "cycle %s missing file set", c)
		for _, name := range fs.Required() {
			assert.NotEmpty(t, name, "cycle %s has an empty required file", c)
		}
		url, ok := BaseURL(c)
		require.True(t, ok)
		assert.Contains(t, url, string(c)[:4])
	}

	// First and last cycles use their historical names.
	fs, _ := Files("1999-2000")
	assert.Equal(t, "L40_0.xpt", fs.CBC)
	assert.Equal(t, "OHXDENT.xpt", fs.Dental)
	fs, _ = Files("2017-2018")
	assert.Equal(t, "CBC_J.xpt", fs.CBC)
	assert.Equal(t, "HSCRP_J.xpt", fs.CRP)

	_, ok := Files("2021-2022")
	assert.False(t, ok)
}

func TestLabeled(t *testing.T) {
	fs := FileSet{CBC: "cbc.xpt", Demographics: "demo.xpt", Dental: "dental.xpt"}
	m := fs.Labeled()
	assert.Len(t, m, 3)
	assert.Equal(t, "cbc.xpt", m[LabelCBC])
	_, hasSmoking := m[LabelSmoking]
	assert.False(t, hasSmoking)
}
