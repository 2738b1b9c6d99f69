package xpt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nhanescli/internal/dataset"
)

// ibmEncode converts an IEEE 754 double to the IBM hexadecimal float layout
// used by transport files. Test-only inverse of decodeIBM.
func ibmEncode(v float64) []byte {
	b := make([]byte, 8)
	if math.IsNaN(v) {
		b[0] = '.'
		return b
	}
	if v == 0 {
		return b
	}
	var sign byte
	if v < 0 {
		sign = 0x80
		v = -v
	}
	frac, exp2 := math.Frexp(v)
	h := int(math.Ceil(float64(exp2) / 4))
	m := frac * math.Pow(2, float64(exp2-4*h))
	f56 := uint64(math.Round(m * (1 << 56)))
	b[0] = sign | byte(h+64)
	for i := 6; i >= 0; i-- {
		b[1+i] = byte(f56)
		f56 >>= 8
	}
	return b
}

func record(prefix string) []byte {
	rec := make([]byte, recordLen)
	for i := range rec {
		rec[i] = ' '
	}
	copy(rec, prefix)
	return rec
}

// buildXPT assembles a minimal single-member transport file with 8-byte
// numeric variables.
func buildXPT(names []string, rows [][]float64) []byte {
	var buf bytes.Buffer
	buf.Write(record(string(libraryHeader) + strings.Repeat("0", 30)))
	buf.Write(record("SAS     SAS     SASLIB  9.4"))
	buf.Write(record(""))
	buf.Write(record(string(memberHeader) + strings.Repeat("0", 16) + "01600000000140"))
	buf.Write(record("HEADER RECORD*******DSCRPTR HEADER RECORD!!!!!!!" + strings.Repeat("0", 30)))
	buf.Write(record("SAS     TESTDATA"))
	buf.Write(record(""))
	buf.Write(record(string(namestrHeader) + "000000" + fmt.Sprintf("%04d", len(names)) + strings.Repeat("0", 20)))

	pos := 0
	for i, name := range names {
		entry := make([]byte, namestrLen)
		binary.BigEndian.PutUint16(entry[0:2], typeNumeric)
		binary.BigEndian.PutUint16(entry[4:6], 8)
		binary.BigEndian.PutUint16(entry[6:8], uint16(i+1))
		copy(entry[8:16], fmt.Sprintf("%-8s", name))
		binary.BigEndian.PutUint32(entry[84:88], uint32(pos))
		pos += 8
		buf.Write(entry)
	}
	if rem := buf.Len() % recordLen; rem != 0 {
		buf.Write(bytes.Repeat([]byte{0}, recordLen-rem))
	}

	buf.Write(record(string(obsHeader) + strings.Repeat("0", 30)))
	for _, row := range rows {
		for _, v := range row {
			buf.Write(ibmEncode(v))
		}
	}
	if rem := buf.Len() % recordLen; rem != 0 {
		buf.Write(bytes.Repeat([]byte{' '}, recordLen-rem))
	}
	return buf.Bytes()
}

func TestDecodeIBM(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want float64
	}{
		{"one", []byte{0x41, 0x10, 0, 0, 0, 0, 0, 0}, 1.0},
		{"two", []byte{0x41, 0x20, 0, 0, 0, 0, 0, 0}, 2.0},
		{"half", []byte{0x40, 0x80, 0, 0, 0, 0, 0, 0}, 0.5},
		{"hundred", []byte{0x42, 0x64, 0, 0, 0, 0, 0, 0}, 100.0},
		{"negative two", []byte{0xC1, 0x20, 0, 0, 0, 0, 0, 0}, -2.0},
		{"zero", []byte{0, 0, 0, 0, 0, 0, 0, 0}, 0},
		{"truncated to four bytes", []byte{0x41, 0x10, 0, 0}, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeIBM(tt.in))
		})
	}

	t.Run("missing sentinels", func(t *testing.T) {
		for _, lead := range []byte{'.', '_', 'A', 'Z'} {
			v := decodeIBM([]byte{lead, 0, 0, 0, 0, 0, 0, 0})
			assert.True(t, math.IsNaN(v), "lead byte %c should decode as missing", lead)
		}
	})
}

func TestDecodeIBMRoundTrip(t *testing.T) {
	values := []float64{1, -1, 0.5, 2, 3.25, 100, 12345.6789, 0.001, -273.15, 1e10}
	for _, v := range values {
		got := decodeIBM(ibmEncode(v))
		assert.InDelta(t, v, got, math.Abs(v)*1e-12, "value %v", v)
	}
}

func TestRead(t *testing.T) {
	rows := [][]float64{
		{1, 7.2, 45},
		{2, math.NaN(), 62},
		{3, 5.1, math.NaN()},
	}
	data := buildXPT([]string{"SEQN", "LBXWBCSI", "RIDAGEYR"}, rows)

	table, err := Read(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []string{"SEQN", "LBXWBCSI", "RIDAGEYR"}, table.Columns())
	require.Equal(t, 3, table.NumRows())
	assert.Equal(t, 1.0, table.Value(0, "SEQN"))
	assert.InDelta(t, 7.2, table.Value(0, "LBXWBCSI"), 1e-9)
	assert.True(t, dataset.Missing(table.Value(1, "LBXWBCSI")))
	assert.True(t, dataset.Missing(table.Value(2, "RIDAGEYR")))
	assert.Equal(t, 62.0, table.Value(1, "RIDAGEYR"))

	// Absent column reads as missing, not as an error.
	assert.True(t, dataset.Missing(table.Value(0, "NOPE")))
}

func TestReadRejectsGarbage(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("definitely not a transport file")))
	assert.Error(t, err)

	_, err = Read(bytes.NewReader(bytes.Repeat([]byte{' '}, 400)))
	assert.Error(t, err)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "DEMO.xpt")
	data := buildXPT([]string{"SEQN", "RIAGENDR"}, [][]float64{{10, 1}, {11, 2}})
	require.NoError(t, os.WriteFile(path, data, 0o644))

	table, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, table.NumRows())
	assert.Equal(t, 2.0, table.Value(1, "RIAGENDR"))

	_, err = ReadFile(filepath.Join(dir, "absent.xpt"))
	assert.Error(t, err)
}
