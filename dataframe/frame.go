// Package dataframe holds the tabular dataset that flows from ingestion
// through cleaning.
//
// A Frame is an ordered set of equally long columns. Numeric columns store
// float64 values with NaN marking a missing cell; every other kind stores the
// raw text together with a validity mask. Cleaning code replaces whole
// columns rather than editing cells, so Clone is cheap to reason about.
package dataframe

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/custsat/core/parallel"
	"github.com/YuminosukeSato/custsat/pkg/errors"
)

// Kind is the logical type of a column.
type Kind int

const (
	Numeric Kind = iota
	Categorical
	Text
	Timestamp
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	case Text:
		return "text"
	case Timestamp:
		return "timestamp"
	default:
		return "unknown"
	}
}

// Column is a single named column of a Frame.
type Column struct {
	Name string
	Kind Kind

	// Floats holds numeric values. NaN marks a missing cell.
	Floats []float64

	// Strings and Valid hold non-numeric values. Valid[i] == false marks a
	// missing cell.
	Strings []string
	Valid   []bool
}

// NewNumericColumn creates a numeric column backed by values.
func NewNumericColumn(name string, values []float64) *Column {
	return &Column{Name: name, Kind: Numeric, Floats: values}
}

// NewStringColumn creates a non-numeric column. A nil valid mask marks every
// cell as present.
func NewStringColumn(name string, kind Kind, values []string, valid []bool) *Column {
	if valid == nil {
		valid = make([]bool, len(values))
		for i := range valid {
			valid[i] = true
		}
	}
	return &Column{Name: name, Kind: kind, Strings: values, Valid: valid}
}

// Len returns the number of cells.
func (c *Column) Len() int {
	if c.Kind == Numeric {
		return len(c.Floats)
	}
	return len(c.Strings)
}

// IsNumeric reports whether the column stores float values.
func (c *Column) IsNumeric() bool {
	return c.Kind == Numeric
}

// IsMissing reports whether cell i is missing.
func (c *Column) IsMissing(i int) bool {
	if c.Kind == Numeric {
		return math.IsNaN(c.Floats[i])
	}
	return !c.Valid[i]
}

// NullCount returns the number of missing cells.
func (c *Column) NullCount() int {
	n := 0
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			n++
		}
	}
	return n
}

// Clone returns a deep copy.
func (c *Column) Clone() *Column {
	out := &Column{Name: c.Name, Kind: c.Kind}
	if c.Floats != nil {
		out.Floats = append([]float64(nil), c.Floats...)
	}
	if c.Strings != nil {
		out.Strings = append([]string(nil), c.Strings...)
		out.Valid = append([]bool(nil), c.Valid...)
	}
	return out
}

func (c *Column) take(rows []int) *Column {
	out := &Column{Name: c.Name, Kind: c.Kind}
	if c.Kind == Numeric {
		out.Floats = make([]float64, len(rows))
		for i, r := range rows {
			out.Floats[i] = c.Floats[r]
		}
		return out
	}
	out.Strings = make([]string, len(rows))
	out.Valid = make([]bool, len(rows))
	for i, r := range rows {
		out.Strings[i] = c.Strings[r]
		out.Valid[i] = c.Valid[r]
	}
	return out
}

// Frame is an ordered collection of equally long, uniquely named columns.
type Frame struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// New builds a Frame from columns. Columns are used as-is, not copied.
func New(columns ...*Column) (*Frame, error) {
	f := &Frame{index: make(map[string]int, len(columns))}
	for i, c := range columns {
		if i == 0 {
			f.rows = c.Len()
		}
		if err := f.check(c); err != nil {
			return nil, err
		}
		if _, dup := f.index[c.Name]; dup {
			return nil, errors.NewValueError("dataframe.New", "duplicate column '"+c.Name+"'")
		}
		f.index[c.Name] = len(f.columns)
		f.columns = append(f.columns, c)
	}
	return f, nil
}

func (f *Frame) check(c *Column) error {
	if c.Len() != f.rows {
		return errors.NewDimensionError("dataframe."+c.Name, f.rows, c.Len(), 0)
	}
	if c.Kind != Numeric && len(c.Valid) != len(c.Strings) {
		return errors.NewDimensionError("dataframe."+c.Name+".valid", len(c.Strings), len(c.Valid), 0)
	}
	return nil
}

func (f *Frame) reindex() {
	f.index = make(map[string]int, len(f.columns))
	for i, c := range f.columns {
		f.index[c.Name] = i
	}
}

// NumRows returns the number of rows.
func (f *Frame) NumRows() int { return f.rows }

// NumCols returns the number of columns.
func (f *Frame) NumCols() int { return len(f.columns) }

// Names returns the column names in order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.columns))
	for i, c := range f.columns {
		names[i] = c.Name
	}
	return names
}

// Columns returns the columns in order. The slice is a copy; the columns are not.
func (f *Frame) Columns() []*Column {
	return append([]*Column(nil), f.columns...)
}

// Has reports whether a column named name exists.
func (f *Frame) Has(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Column returns the named column or a MissingColumnError.
func (f *Frame) Column(name string) (*Column, error) {
	i, ok := f.index[name]
	if !ok {
		return nil, errors.NewMissingColumnError("dataframe.Column", name, f.Names())
	}
	return f.columns[i], nil
}

// Drop removes the named columns. Names that do not exist are ignored. It
// returns the number of columns removed.
func (f *Frame) Drop(names ...string) int {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		if f.Has(n) {
			drop[n] = true
		}
	}
	if len(drop) == 0 {
		return 0
	}
	kept := f.columns[:0:0]
	for _, c := range f.columns {
		if !drop[c.Name] {
			kept = append(kept, c)
		}
	}
	f.columns = kept
	f.reindex()
	return len(drop)
}

// Replace swaps the column of the same name for c.
func (f *Frame) Replace(c *Column) error {
	i, ok := f.index[c.Name]
	if !ok {
		return errors.NewMissingColumnError("dataframe.Replace", c.Name, f.Names())
	}
	if err := f.check(c); err != nil {
		return err
	}
	f.columns[i] = c
	return nil
}

// Insert places cols at position pos, shifting later columns right. A pos
// past the end appends.
func (f *Frame) Insert(pos int, cols ...*Column) error {
	if len(f.columns) == 0 && len(cols) > 0 {
		f.rows = cols[0].Len()
	}
	for _, c := range cols {
		if err := f.check(c); err != nil {
			return err
		}
		if f.Has(c.Name) {
			return errors.NewValueError("dataframe.Insert", "duplicate column '"+c.Name+"'")
		}
	}
	if pos < 0 {
		pos = 0
	}
	if pos > len(f.columns) {
		pos = len(f.columns)
	}

	merged := make([]*Column, 0, len(f.columns)+len(cols))
	merged = append(merged, f.columns[:pos]...)
	merged = append(merged, cols...)
	merged = append(merged, f.columns[pos:]...)
	f.columns = merged
	f.reindex()
	return nil
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	out := &Frame{rows: f.rows, columns: make([]*Column, len(f.columns))}
	for i, c := range f.columns {
		out.columns[i] = c.Clone()
	}
	out.reindex()
	return out
}

// Take returns a new frame holding rows in the given order.
func (f *Frame) Take(rows []int) (*Frame, error) {
	for _, r := range rows {
		if r < 0 || r >= f.rows {
			return nil, errors.NewValueError("dataframe.Take", "row index out of range")
		}
	}
	out := &Frame{rows: len(rows), columns: make([]*Column, len(f.columns))}
	for i, c := range f.columns {
		out.columns[i] = c.take(rows)
	}
	out.reindex()
	return out, nil
}

// Matrix copies the named numeric columns (all columns when names is empty)
// into a rows×len(names) dense matrix. Missing cells stay NaN.
func (f *Frame) Matrix(names ...string) (*mat.Dense, error) {
	if len(names) == 0 {
		names = f.Names()
	}
	if f.rows == 0 || len(names) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "dataframe.Matrix")
	}

	cols := make([]*Column, len(names))
	for j, n := range names {
		c, err := f.Column(n)
		if err != nil {
			return nil, err
		}
		if !c.IsNumeric() {
			return nil, errors.NewValueError("dataframe.Matrix",
				"column '"+n+"' is "+c.Kind.String()+", not numeric")
		}
		cols[j] = c
	}

	m := mat.NewDense(f.rows, len(cols), nil)
	threshold := len(cols)
	if f.rows*len(cols) > parallel.DefaultThreshold {
		threshold = 1
	}
	// Each worker writes a disjoint set of matrix columns.
	parallel.ForEach(len(cols), threshold, func(j int) {
		for i, v := range cols[j].Floats {
			m.Set(i, j, v)
		}
	})
	return m, nil
}

// Vector copies a numeric column into a vector.
func (f *Frame) Vector(name string) (*mat.VecDense, error) {
	c, err := f.Column(name)
	if err != nil {
		return nil, err
	}
	if !c.IsNumeric() {
		return nil, errors.NewValueError("dataframe.Vector",
			"column '"+name+"' is "+c.Kind.String()+", not numeric")
	}
	if len(c.Floats) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "dataframe.Vector")
	}
	return mat.NewVecDense(len(c.Floats), append([]float64(nil), c.Floats...)), nil
}

// NullCount returns the number of missing cells in the named column.
func (f *Frame) NullCount(name string) (int, error) {
	c, err := f.Column(name)
	if err != nil {
		return 0, err
	}
	return c.NullCount(), nil
}

// NonNumeric returns the names of columns that are not numeric, in order.
func (f *Frame) NonNumeric() []string {
	var names []string
	for _, c := range f.columns {
		if !c.IsNumeric() {
			names = append(names, c.Name)
		}
	}
	return names
}
