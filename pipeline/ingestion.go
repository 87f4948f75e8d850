package pipeline

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Dataset holds the encoded sessions and their revenue labels, index aligned.
type Dataset struct {
	Evidence []Vector
	Labels   []int
}

func (d *Dataset) Len() int {
	return len(d.Labels)
}

// RowError reports a malformed data row.
type RowError struct {
	Line   int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d, column %s: %v", e.Line, e.Column, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

type cacheKey struct {
	path    string
	size    int64
	modTime int64
}

// Loader parses session files and remembers the result for files that have not changed.
type Loader struct {
	cache  *lru.Cache[cacheKey, *Dataset]
	logger *zap.Logger
}

func NewLoader(cacheSize int, logger *zap.Logger) (*Loader, error) {
	if cacheSize <= 0 {
		return nil, errors.New("cache size must be positive")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cache, err := lru.New[cacheKey, *Dataset](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Loader{cache: cache, logger: logger}, nil
}

// Load returns the dataset for path, re-parsing only when size or modification time changed.
func (l *Loader) Load(path string) (*Dataset, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat data file: %w", err)
	}
	key := cacheKey{path: abs, size: info.Size(), modTime: info.ModTime().UnixNano()}
	if ds, ok := l.cache.Get(key); ok {
		l.logger.Debug("dataset cache hit", zap.String("path", abs), zap.Int("rows", ds.Len()))
		return ds, nil
	}

	ds, err := LoadData(abs)
	if err != nil {
		return nil, err
	}
	l.cache.Add(key, ds)
	l.logger.Info("dataset loaded", zap.String("path", abs), zap.Int("rows", ds.Len()))
	return ds, nil
}

// LoadData reads a session CSV, skips its header and encodes every data row.
func LoadData(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer file.Close()

	return Decode(file)
}

// Decode encodes sessions from r. Input is UTF-8; a leading byte order mark is dropped.
func Decode(r io.Reader) (*Dataset, error) {
	utf8Reader := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := csv.NewReader(utf8Reader)
	reader.FieldsPerRecord = -1

	ds := &Dataset{
		Evidence: make([]Vector, 0),
		Labels:   make([]int, 0),
	}

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return ds, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line, _ := reader.FieldPos(0)

		evidence, label, err := encodeRow(row)
		if err != nil {
			var rowErr *RowError
			if errors.As(err, &rowErr) {
				rowErr.Line = line
			}
			return nil, err
		}
		ds.Evidence = append(ds.Evidence, evidence)
		ds.Labels = append(ds.Labels, label)
	}
	return ds, nil
}

func encodeRow(row []string) (Vector, int, error) {
	if len(row) != ColumnCount {
		return nil, 0, &RowError{Err: fmt.Errorf("%w: got %d, want %d", ErrColumnCount, len(row), ColumnCount)}
	}

	vec := make(Vector, FeatureCount)
	for col := 0; col < FeatureCount; col++ {
		field := row[col]
		switch col {
		case ColMonth:
			idx, err := MonthIndex(field)
			if err != nil {
				return nil, 0, &RowError{Column: columnNames[col], Err: fmt.Errorf("%w: %q", err, field)}
			}
			vec[col] = IntValue(int64(idx))
		case ColVisitorType:
			vec[col] = IntValue(boolToInt(field == returningVisitor))
		case ColWeekend:
			vec[col] = IntValue(boolToInt(field == trueLiteral))
		default:
			v, err := ParseNumeric(field)
			if err != nil {
				return nil, 0, &RowError{Column: columnNames[col], Err: err}
			}
			vec[col] = v
		}
	}
	return vec, int(boolToInt(row[ColRevenue] == trueLiteral)), nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
