package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// csvColumns is the fixed column order of CSV catalogs.
var csvColumns = []string{"name", "radius", "distance", "rotation", "orbital", "tilt"}

// ParseCSV reads rows of name,radius,distance,rotation,orbital,tilt.
// A leading header row and '#' comment lines are skipped.
func ParseCSV(r io.Reader) (*Catalog, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = len(csvColumns)
	cr.TrimLeadingSpace = true

	var entries []Entry
	for first := true; ; first = false {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if first && isHeader(rec) {
			continue
		}

		e, err := parseRecord(rec)
		if err != nil {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		entries = append(entries, e)
	}
	return New(entries...)
}

func isHeader(rec []string) bool {
	return strings.EqualFold(strings.TrimSpace(rec[0]), csvColumns[0])
}

func parseRecord(rec []string) (Entry, error) {
	var vals [5]float32
	for i := range vals {
		f, err := strconv.ParseFloat(strings.TrimSpace(rec[i+1]), 32)
		if err != nil {
			return Entry{}, fmt.Errorf("%s %q: %w", csvColumns[i+1], rec[i+1], err)
		}
		vals[i] = float32(f)
	}
	return Entry{
		Name:           strings.TrimSpace(rec[0]),
		Radius:         vals[0],
		Distance:       vals[1],
		RotationPeriod: vals[2],
		OrbitalPeriod:  vals[3],
		AxialTilt:      vals[4],
	}, nil
}
