package odtable

import (
	"fmt"
	"sort"
	"time"
)

// Series is one named numeric column. Valid marks rows that carry a value;
// rows where the estimator recorded nothing stay invalid and are never
// interpolated or imputed by any downstream computation.
type Series struct {
	Name   string
	Values []float64
	Valid  []bool
}

// Len returns the number of rows in the series.
func (s *Series) Len() int { return len(s.Values) }

// At returns the value at row i and whether it is present.
func (s *Series) At(i int) (float64, bool) {
	if !s.Valid[i] {
		return 0, false
	}
	return s.Values[i], true
}

// Clone returns an independent deep copy of the series.
func (s *Series) Clone() *Series {
	out := &Series{
		Name:   s.Name,
		Values: make([]float64, len(s.Values)),
		Valid:  make([]bool, len(s.Valid)),
	}
	copy(out.Values, s.Values)
	copy(out.Valid, s.Valid)
	return out
}

// Table is an ordered, epoch-indexed set of numeric and boolean columns.
// Rows are keyed by a UTC epoch; epochs need not be uniformly spaced and
// duplicates are permitted. All derived analysis output is appended to
// clones, so a loaded table is effectively immutable for the whole run.
type Table struct {
	epochs []time.Time

	order  []string
	series map[string]*Series

	flagOrder []string
	flags     map[string][]bool
}

// New constructs a table over the given epochs. The epoch slice is copied.
func New(epochs []time.Time) *Table {
	t := &Table{
		epochs: make([]time.Time, len(epochs)),
		series: make(map[string]*Series),
		flags:  make(map[string][]bool),
	}
	copy(t.epochs, epochs)
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.epochs) }

// Epoch returns the epoch of row i.
func (t *Table) Epoch(i int) time.Time { return t.epochs[i] }

// Epochs returns a snapshot copy of all row epochs.
func (t *Table) Epochs() []time.Time {
	out := make([]time.Time, len(t.epochs))
	copy(out, t.epochs)
	return out
}

// AddSeries adds a numeric column. A nil valid slice marks every row valid.
// It returns an error if the name is taken or the lengths do not match the
// table's row count.
func (t *Table) AddSeries(name string, values []float64, valid []bool) error {
	if _, exists := t.series[name]; exists {
		return fmt.Errorf("series %q already exists", name)
	}
	if len(values) != len(t.epochs) {
		return fmt.Errorf("series %q has %d values for %d rows", name, len(values), len(t.epochs))
	}
	if valid == nil {
		valid = make([]bool, len(values))
		for i := range valid {
			valid[i] = true
		}
	} else if len(valid) != len(values) {
		return fmt.Errorf("series %q has %d validity flags for %d values", name, len(valid), len(values))
	}
	s := &Series{
		Name:   name,
		Values: make([]float64, len(values)),
		Valid:  make([]bool, len(valid)),
	}
	copy(s.Values, values)
	copy(s.Valid, valid)
	t.series[name] = s
	t.order = append(t.order, name)
	return nil
}

// Series returns the named numeric column, or false if absent. The returned
// series is shared with the table and must not be mutated by callers.
func (t *Table) Series(name string) (*Series, bool) {
	s, ok := t.series[name]
	return s, ok
}

// HasSeries reports whether a numeric column with the given name exists.
func (t *Table) HasSeries(name string) bool {
	_, ok := t.series[name]
	return ok
}

// SeriesNames returns the numeric column names in insertion order.
func (t *Table) SeriesNames() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// AddFlag adds a boolean column. It returns an error if the name is taken
// or the length does not match the table's row count.
func (t *Table) AddFlag(name string, values []bool) error {
	if _, exists := t.flags[name]; exists {
		return fmt.Errorf("flag %q already exists", name)
	}
	if len(values) != len(t.epochs) {
		return fmt.Errorf("flag %q has %d values for %d rows", name, len(values), len(t.epochs))
	}
	v := make([]bool, len(values))
	copy(v, values)
	t.flags[name] = v
	t.flagOrder = append(t.flagOrder, name)
	return nil
}

// Flag returns the named boolean column, or false if absent. The returned
// slice is shared with the table and must not be mutated by callers.
func (t *Table) Flag(name string) ([]bool, bool) {
	v, ok := t.flags[name]
	return v, ok
}

// HasFlag reports whether a boolean column with the given name exists.
func (t *Table) HasFlag(name string) bool {
	_, ok := t.flags[name]
	return ok
}

// Clone returns an independent deep copy of the table.
func (t *Table) Clone() *Table {
	out := New(t.epochs)
	for _, name := range t.order {
		s := t.series[name]
		out.series[name] = s.Clone()
		out.order = append(out.order, name)
	}
	for _, name := range t.flagOrder {
		v := t.flags[name]
		cp := make([]bool, len(v))
		copy(cp, v)
		out.flags[name] = cp
		out.flagOrder = append(out.flagOrder, name)
	}
	return out
}

// SortByEpoch sorts rows ascending by epoch, keeping the relative order of
// rows with equal epochs. It mutates the table and is meant to be called
// once at load time, before any derived computation.
func (t *Table) SortByEpoch() {
	idx := make([]int, len(t.epochs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return t.epochs[idx[a]].Before(t.epochs[idx[b]])
	})
	t.reorder(idx)
}

// Select returns a new table holding only the rows where mask is true,
// preserving row order. The mask length must equal the row count.
func (t *Table) Select(mask []bool) (*Table, error) {
	if len(mask) != len(t.epochs) {
		return nil, fmt.Errorf("mask has %d entries for %d rows", len(mask), len(t.epochs))
	}
	var keep []int
	for i, ok := range mask {
		if ok {
			keep = append(keep, i)
		}
	}
	epochs := make([]time.Time, len(keep))
	for j, i := range keep {
		epochs[j] = t.epochs[i]
	}
	out := New(epochs)
	for _, name := range t.order {
		s := t.series[name]
		values := make([]float64, len(keep))
		valid := make([]bool, len(keep))
		for j, i := range keep {
			values[j] = s.Values[i]
			valid[j] = s.Valid[i]
		}
		if err := out.AddSeries(name, values, valid); err != nil {
			return nil, err
		}
	}
	for _, name := range t.flagOrder {
		v := t.flags[name]
		values := make([]bool, len(keep))
		for j, i := range keep {
			values[j] = v[i]
		}
		if err := out.AddFlag(name, values); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (t *Table) reorder(idx []int) {
	epochs := make([]time.Time, len(idx))
	for j, i := range idx {
		epochs[j] = t.epochs[i]
	}
	t.epochs = epochs

	for _, s := range t.series {
		values := make([]float64, len(idx))
		valid := make([]bool, len(idx))
		for j, i := range idx {
			values[j] = s.Values[i]
			valid[j] = s.Valid[i]
		}
		s.Values = values
		s.Valid = valid
	}
	for name, v := range t.flags {
		values := make([]bool, len(idx))
		for j, i := range idx {
			values[j] = v[i]
		}
		t.flags[name] = values
	}
}
