// Package ingest loads estimator CSV exports into odtable tables. The
// estimator writes one header row naming every column; numeric cells may be
// empty for epochs where a measurement type was not observed, and those
// stay absent in the loaded table.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/signalsfoundry/od-analyzer/model"
	"github.com/signalsfoundry/od-analyzer/odtable"
)

// epochLayout matches the estimator's UTC epoch strings, with or without
// fractional seconds, e.g. "2023-11-16T13:35:30.231".
const epochLayout = "2006-01-02T15:04:05.999999999"

// LoadObservationCSV parses an observation table export. The "Residual
// Rejected" column, when present, is parsed as a boolean flag; every other
// non-epoch column is numeric. Rows are sorted ascending by epoch before
// the table is returned.
func LoadObservationCSV(r io.Reader) (*odtable.Table, error) {
	return load(r, map[string]bool{model.ResidualRejectedColumn: true})
}

// LoadRICErrorCSV parses a RIC error table export (all columns numeric).
func LoadRICErrorCSV(r io.Reader) (*odtable.Table, error) {
	return load(r, nil)
}

// LoadObservationFile is LoadObservationCSV over a file path.
func LoadObservationFile(path string) (*odtable.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := LoadObservationCSV(f)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", path, err)
	}
	return t, nil
}

// LoadRICErrorFile is LoadRICErrorCSV over a file path.
func LoadRICErrorFile(path string) (*odtable.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := LoadRICErrorCSV(f)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", path, err)
	}
	return t, nil
}

func load(r io.Reader, boolColumns map[string]bool) (*odtable.Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	epochIdx := -1
	for i, name := range header {
		if name == model.EpochColumn {
			epochIdx = i
			break
		}
	}
	if epochIdx < 0 {
		return nil, fmt.Errorf("missing column %q in header", model.EpochColumn)
	}

	var (
		epochs  []time.Time
		records [][]string
	)
	for row := 2; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		epoch, err := time.Parse(epochLayout, record[epochIdx])
		if err != nil {
			return nil, fmt.Errorf("row %d: parse %q in column %q: %w",
				row, record[epochIdx], model.EpochColumn, err)
		}
		epochs = append(epochs, epoch.UTC())
		records = append(records, record)
	}

	t := odtable.New(epochs)
	for col, name := range header {
		if col == epochIdx {
			continue
		}
		if boolColumns[name] {
			flags := make([]bool, len(records))
			for i, record := range records {
				v, err := parseBool(record[col])
				if err != nil {
					return nil, fmt.Errorf("row %d: parse %q in column %q: %w", i+2, record[col], name, err)
				}
				flags[i] = v
			}
			if err := t.AddFlag(name, flags); err != nil {
				return nil, err
			}
			continue
		}

		values := make([]float64, len(records))
		valid := make([]bool, len(records))
		for i, record := range records {
			cell := strings.TrimSpace(record[col])
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: parse %q in column %q: %w", i+2, cell, name, err)
			}
			values[i] = v
			valid[i] = true
		}
		if err := t.AddSeries(name, values, valid); err != nil {
			return nil, err
		}
	}

	// Derived computations assume ascending epochs; exports are usually
	// sorted already but pass ordering is not guaranteed.
	t.SortByEpoch()
	return t, nil
}

func parseBool(cell string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "true", "1":
		return true, nil
	case "false", "0", "":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", cell)
}
