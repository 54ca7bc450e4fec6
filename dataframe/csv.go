package dataframe

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/YuminosukeSato/custsat/pkg/errors"
)

// TimestampLayouts are tried in order when inferring Timestamp columns.
var TimestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC3339,
}

var defaultMissingTokens = []string{"", "NA", "NaN", "nan", "null", "NULL"}

type readConfig struct {
	kinds   map[string]Kind
	missing map[string]bool
}

// ReadOption configures ReadCSV.
type ReadOption func(*readConfig)

// WithTextColumns forces the named columns to the Text kind.
func WithTextColumns(names ...string) ReadOption {
	return func(c *readConfig) {
		for _, n := range names {
			c.kinds[NormalizeName(n)] = Text
		}
	}
}

// WithKinds overrides kind inference for the given columns.
func WithKinds(kinds map[string]Kind) ReadOption {
	return func(c *readConfig) {
		for n, k := range kinds {
			c.kinds[NormalizeName(n)] = k
		}
	}
}

// WithMissingTokens adds cell values that are read as missing.
func WithMissingTokens(tokens ...string) ReadOption {
	return func(c *readConfig) {
		for _, t := range tokens {
			c.missing[t] = true
		}
	}
}

// NormalizeName trims surrounding whitespace and lower-cases a column name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ReadCSV loads the CSV file at path. The file is closed before ReadCSV returns.
func ReadCSV(path string, opts ...ReadOption) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()

	df, err := ReadCSVReader(f, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return df, nil
}

// ReadCSVReader loads a CSV document whose first record is the header.
func ReadCSVReader(r io.Reader, opts ...ReadOption) (*Frame, error) {
	cfg := &readConfig{kinds: map[string]Kind{}, missing: map[string]bool{}}
	for _, t := range defaultMissingTokens {
		cfg.missing[t] = true
	}
	for _, opt := range opts {
		opt(cfg)
	}

	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.Wrap(errors.ErrEmptyData, "csv has no header")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse csv header")
	}

	names := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		// UTF-8 BOM on the first header cell
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		names[i] = NormalizeName(h)
		if seen[names[i]] {
			return nil, errors.NewValueError("dataframe.ReadCSV", "duplicate column '"+names[i]+"'")
		}
		seen[names[i]] = true
	}

	raw := make([][]string, len(names))
	valid := make([][]bool, len(names))
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// csv.ParseError carries the line number
			return nil, errors.Wrap(err, "malformed csv")
		}
		for j, cell := range rec {
			raw[j] = append(raw[j], cell)
			valid[j] = append(valid[j], !cfg.missing[strings.TrimSpace(cell)])
		}
	}

	columns := make([]*Column, len(names))
	for j, name := range names {
		kind, forced := cfg.kinds[name]
		if !forced {
			kind = inferKind(raw[j], valid[j])
		}
		col, err := buildColumn(name, kind, raw[j], valid[j])
		if err != nil {
			return nil, err
		}
		columns[j] = col
	}
	return New(columns...)
}

func inferKind(values []string, valid []bool) Kind {
	numeric, timestamp := true, true
	present := 0
	for i, v := range values {
		if !valid[i] {
			continue
		}
		present++
		s := strings.TrimSpace(v)
		if numeric {
			if _, err := strconv.ParseFloat(s, 64); err != nil {
				numeric = false
			}
		}
		if timestamp && !isTimestamp(s) {
			timestamp = false
		}
		if !numeric && !timestamp {
			return Categorical
		}
	}
	// An all-missing column reads as numeric NaNs.
	if numeric || present == 0 {
		return Numeric
	}
	return Timestamp
}

func isTimestamp(s string) bool {
	for _, layout := range TimestampLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

func buildColumn(name string, kind Kind, values []string, valid []bool) (*Column, error) {
	if values == nil {
		values, valid = []string{}, []bool{}
	}
	if kind != Numeric {
		return NewStringColumn(name, kind, values, valid), nil
	}

	floats := make([]float64, len(values))
	for i, v := range values {
		if !valid[i] {
			floats[i] = math.NaN()
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, errors.NewValueError("dataframe.ReadCSV",
				"column '"+name+"' row "+strconv.Itoa(i+1)+": '"+v+"' is not numeric")
		}
		floats[i] = f
	}
	return NewNumericColumn(name, floats), nil
}
