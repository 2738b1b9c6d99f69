package xpt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"nhanescli/internal/dataset"
)

const (
	recordLen  = 80
	namestrLen = 140
)

var (
	libraryHeader = []byte("HEADER RECORD*******LIBRARY HEADER RECORD!!!!!!!")
	memberHeader  = []byte("HEADER RECORD*******MEMBER  HEADER RECORD!!!!!!!")
	namestrHeader = []byte("HEADER RECORD*******NAMESTR HEADER RECORD!!!!!!!")
	obsHeader     = []byte("HEADER RECORD*******OBS     HEADER RECORD!!!!!!!")
)

const (
	typeNumeric = 1
	typeChar    = 2
)

// variable describes one column of the transport member.
type variable struct {
	name   string
	vtype  int
	length int
	pos    int
}

// ReadFile decodes the first member of a SAS transport (XPORT v5) file.
func ReadFile(path string) (*dataset.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return t, nil
}

// Read decodes the first member of a SAS transport stream into a numeric
// table. Character fields are parsed as numbers where possible and missing
// otherwise; numeric missing sentinels ('.', '.A'..'.Z', '._') decode to NaN.
func Read(r io.Reader) (*dataset.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read transport stream: %w", err)
	}
	if len(data) < 3*recordLen || !bytes.HasPrefix(data, libraryHeader) {
		return nil, fmt.Errorf("not a SAS transport file")
	}

	vars, obsStart, err := parseHeaders(data)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(vars))
	rowLen := 0
	for i, v := range vars {
		names[i] = v.name
		rowLen += v.length
	}
	if rowLen == 0 {
		return nil, fmt.Errorf("member has no variables")
	}

	table := dataset.NewTable(names)
	values := make([]float64, len(vars))
	for off := obsStart; off+rowLen <= len(data); off += rowLen {
		row := data[off : off+rowLen]
		if allBlank(row) {
			break
		}
		for i, v := range vars {
			field := row[v.pos : v.pos+v.length]
			if v.vtype == typeChar {
				values[i] = parseCharField(field)
			} else {
				values[i] = decodeIBM(field)
			}
		}
		if err := table.AppendRow(values); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// parseHeaders walks the 80-byte header records of the first member and
// returns its variable descriptors plus the byte offset of the first
// observation.
func parseHeaders(data []byte) ([]variable, int, error) {
	off := 0
	varCount := -1
	for off+recordLen <= len(data) {
		rec := data[off : off+recordLen]
		switch {
		case bytes.HasPrefix(rec, namestrHeader):
			n, err := strconv.Atoi(strings.TrimSpace(string(rec[54:58])))
			if err != nil {
				return nil, 0, fmt.Errorf("parse variable count: %w", err)
			}
			varCount = n
			off += recordLen
			vars, next, err := parseNamestrs(data, off, varCount)
			if err != nil {
				return nil, 0, err
			}
			off = next
			if off+recordLen > len(data) || !bytes.HasPrefix(data[off:off+recordLen], obsHeader) {
				return nil, 0, fmt.Errorf("missing observation header record")
			}
			return vars, off + recordLen, nil
		case bytes.HasPrefix(rec, libraryHeader), bytes.HasPrefix(rec, memberHeader):
			off += recordLen
		default:
			// Real SAS headers (descriptor records, timestamps) carry no
			// structure the reader needs.
			off += recordLen
		}
	}
	return nil, 0, fmt.Errorf("no NAMESTR header record found")
}

// parseNamestrs decodes varCount 140-byte NAMESTR entries starting at off.
// The entries are packed and the block is padded to an 80-byte boundary.
func parseNamestrs(data []byte, off, varCount int) ([]variable, int, error) {
	need := varCount * namestrLen
	if off+need > len(data) {
		return nil, 0, fmt.Errorf("truncated NAMESTR block: need %d bytes", need)
	}
	vars := make([]variable, 0, varCount)
	for i := 0; i < varCount; i++ {
		entry := data[off+i*namestrLen:]
		v := variable{
			vtype:  int(binary.BigEndian.Uint16(entry[0:2])),
			length: int(binary.BigEndian.Uint16(entry[4:6])),
			name:   strings.TrimSpace(string(entry[8:16])),
			pos:    int(binary.BigEndian.Uint32(entry[84:88])),
		}
		if v.vtype != typeNumeric && v.vtype != typeChar {
			return nil, 0, fmt.Errorf("variable %q has unknown type %d", v.name, v.vtype)
		}
		if v.length <= 0 {
			return nil, 0, fmt.Errorf("variable %q has invalid length %d", v.name, v.length)
		}
		vars = append(vars, v)
	}
	end := off + need
	if rem := end % recordLen; rem != 0 {
		end += recordLen - rem
	}
	return vars, end, nil
}

// decodeIBM converts an IBM System/360 hexadecimal float (2-8 bytes, as
// stored in transport files) to IEEE 754.
func decodeIBM(b []byte) float64 {
	var buf [8]byte
	copy(buf[:], b)

	var frac uint64
	for _, c := range buf[1:] {
		frac = frac<<8 | uint64(c)
	}
	lead := buf[0]
	if frac == 0 {
		if lead == 0 {
			return 0
		}
		// Missing sentinels carry '.', '.A'..'.Z' or '._' in the first byte.
		if lead == '.' || lead == '_' || (lead >= 'A' && lead <= 'Z') {
			return math.NaN()
		}
		return 0
	}

	exp := int(lead & 0x7f)
	v := math.Ldexp(float64(frac), 4*(exp-64)-56)
	if lead&0x80 != 0 {
		return -v
	}
	return v
}

// parseCharField interprets a character field numerically; survey code
// columns are occasionally stored as text.
func parseCharField(b []byte) float64 {
	s := strings.TrimSpace(string(bytes.TrimRight(b, "\x00")))
	if s == "" || s == "." {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// allBlank reports whether a candidate observation is trailing record
// padding, which the format writes as ASCII blanks.
func allBlank(b []byte) bool {
	for _, c := range b {
		if c != ' ' {
			return false
		}
	}
	return true
}
