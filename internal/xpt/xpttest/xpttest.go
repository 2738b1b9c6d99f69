// Package xpttest builds minimal SAS transport (XPORT v5) files for tests.
package xpttest

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strings"
)

const (
	recordLen  = 80
	namestrLen = 140
)

// Encode converts an IEEE 754 double to the IBM hexadecimal float layout of
// a transport file. NaN encodes as the '.' missing sentinel.
func Encode(v float64) []byte {
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

// Build assembles a single-member transport file with 8-byte numeric
// variables. Rows use NaN for missing values.
func Build(names []string, rows [][]float64) []byte {
	var buf bytes.Buffer
	buf.Write(record("HEADER RECORD*******LIBRARY HEADER RECORD!!!!!!!" + strings.Repeat("0", 30)))
	buf.Write(record("SAS     SAS     SASLIB  9.4"))
	buf.Write(record(""))
	buf.Write(record("HEADER RECORD*******MEMBER  HEADER RECORD!!!!!!!" + strings.Repeat("0", 16) + "01600000000140"))
	buf.Write(record("HEADER RECORD*******DSCRPTR HEADER RECORD!!!!!!!" + strings.Repeat("0", 30)))
	buf.Write(record("SAS     TESTDATA"))
	buf.Write(record(""))
	buf.Write(record("HEADER RECORD*******NAMESTR HEADER RECORD!!!!!!!" + "000000" + fmt.Sprintf("%04d", len(names)) + strings.Repeat("0", 20)))

	pos := 0
	for i, name := range names {
		entry := make([]byte, namestrLen)
		binary.BigEndian.PutUint16(entry[0:2], 1)
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

	buf.Write(record("HEADER RECORD*******OBS     HEADER RECORD!!!!!!!" + strings.Repeat("0", 30)))
	for _, row := range rows {
		for _, v := range row {
			buf.Write(Encode(v))
		}
	}
	if rem := buf.Len() % recordLen; rem != 0 {
		buf.Write(bytes.Repeat([]byte{' '}, recordLen-rem))
	}
	return buf.Bytes()
}

// WriteFile writes a built transport file to path.
func WriteFile(path string, names []string, rows [][]float64) error {
	return os.WriteFile(path, Build(names, rows), 0644)
}
