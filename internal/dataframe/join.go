package dataframe

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/array"
	xxhash "github.com/cespare/xxhash/v2"

	"github.com/shotafuji/cartml/internal/errors"
	"github.com/shotafuji/cartml/internal/parallel"
)

// JoinType represents the type of join operation.
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftJoin
)

// JoinOptions specifies the keys and type of a join.
type JoinOptions struct {
	Type      JoinType
	LeftKey   string   // single join key for the left DataFrame
	RightKey  string   // single join key for the right DataFrame
	LeftKeys  []string // multiple join keys for the left DataFrame
	RightKeys []string // multiple join keys for the right DataFrame
}

const (
	// parallelBuildThreshold is the right-table row count above which the
	// hash index is built in parallel chunks.
	parallelBuildThreshold = 10000
	buildChunkSize         = 1000

	// keySeparator joins multi-column key parts. Unit separator avoids
	// collisions with data values.
	keySeparator = "\x1f"
)

// Join performs a hash join between two DataFrames.
func (df *DataFrame) Join(right *DataFrame, opts *JoinOptions) (*DataFrame, error) {
	if opts == nil {
		return nil, errors.NewInvalidInputError("Join", "options must not be nil")
	}

	leftKeys, rightKeys, err := resolveJoinKeys(opts)
	if err != nil {
		return nil, err
	}
	for _, k := range leftKeys {
		if !df.HasColumn(k) {
			return nil, errors.NewColumnNotFoundError("Join", k)
		}
	}
	for _, k := range rightKeys {
		if !right.HasColumn(k) {
			return nil, errors.NewColumnNotFoundError("Join", k)
		}
	}

	index := buildJoinIndex(right, rightKeys)

	var leftIndices, rightIndices []int
	switch opts.Type {
	case InnerJoin:
		for i := 0; i < df.Len(); i++ {
			key := buildJoinKey(df, leftKeys, i)
			for _, j := range index.get(key) {
				leftIndices = append(leftIndices, i)
				rightIndices = append(rightIndices, j)
			}
		}
	case LeftJoin:
		for i := 0; i < df.Len(); i++ {
			key := buildJoinKey(df, leftKeys, i)
			matches := index.get(key)
			if len(matches) == 0 {
				leftIndices = append(leftIndices, i)
				rightIndices = append(rightIndices, -1) // no match: zero values
				continue
			}
			for _, j := range matches {
				leftIndices = append(leftIndices, i)
				rightIndices = append(rightIndices, j)
			}
		}
	default:
		return nil, errors.NewInvalidInputError("Join", fmt.Sprintf("unsupported join type: %d", opts.Type))
	}

	return assembleJoinResult(df, right, rightKeys, leftIndices, rightIndices), nil
}

func resolveJoinKeys(opts *JoinOptions) (left, right []string, err error) {
	switch {
	case len(opts.LeftKeys) > 0 || len(opts.RightKeys) > 0:
		if len(opts.LeftKeys) != len(opts.RightKeys) || len(opts.LeftKeys) == 0 {
			return nil, nil, errors.NewInvalidInputError("Join", "LeftKeys and RightKeys must be non-empty and equal length")
		}
		return opts.LeftKeys, opts.RightKeys, nil
	case opts.LeftKey != "" && opts.RightKey != "":
		return []string{opts.LeftKey}, []string{opts.RightKey}, nil
	default:
		return nil, nil, errors.NewInvalidInputError("Join", "join keys must be specified")
	}
}

// joinIndex is an xxhash-bucketed multimap from key string to row indices.
type joinIndex struct {
	buckets [][]joinEntry
	mask    uint64
	size    int
}

type joinEntry struct {
	key  string
	rows []int
}

func newJoinIndex(estimatedSize int) *joinIndex {
	capacity := nextPowerOfTwo(estimatedSize * 2)
	return &joinIndex{
		buckets: make([][]joinEntry, capacity),
		mask:    uint64(capacity - 1),
	}
}

func (ji *joinIndex) put(key string, row int) {
	b := xxhash.Sum64String(key) & ji.mask
	for i := range ji.buckets[b] {
		if ji.buckets[b][i].key == key {
			ji.buckets[b][i].rows = append(ji.buckets[b][i].rows, row)
			return
		}
	}
	ji.buckets[b] = append(ji.buckets[b], joinEntry{key: key, rows: []int{row}})
	ji.size++
}

func (ji *joinIndex) get(key string) []int {
	b := xxhash.Sum64String(key) & ji.mask
	for _, e := range ji.buckets[b] {
		if e.key == key {
			return e.rows
		}
	}
	return nil
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	power := 1
	for power < n {
		power <<= 1
	}
	return power
}

// buildJoinIndex indexes the right table by its key columns. Large tables
// are chunked across the worker pool and merged.
func buildJoinIndex(right *DataFrame, rightKeys []string) *joinIndex {
	index := newJoinIndex(right.Len())

	if right.Len() <= parallelBuildThreshold {
		for i := 0; i < right.Len(); i++ {
			index.put(buildJoinKey(right, rightKeys, i), i)
		}
		return index
	}

	wp := parallel.NewWorkerPool(0)
	defer wp.Close()

	numChunks := (right.Len() + buildChunkSize - 1) / buildChunkSize
	type span struct{ start, end int }
	chunks := make([]span, 0, numChunks)
	for i := 0; i < numChunks; i++ {
		start := i * buildChunkSize
		end := min(start+buildChunkSize, right.Len())
		chunks = append(chunks, span{start, end})
	}

	partials := parallel.Process(wp, chunks, func(c span) *joinIndex {
		partial := newJoinIndex(c.end - c.start)
		for i := c.start; i < c.end; i++ {
			partial.put(buildJoinKey(right, rightKeys, i), i)
		}
		return partial
	})

	for _, partial := range partials {
		for _, bucket := range partial.buckets {
			for _, entry := range bucket {
				for _, row := range entry.rows {
					index.put(entry.key, row)
				}
			}
		}
	}
	return index
}

// buildJoinKey renders the key columns of one row as a composite string.
func buildJoinKey(df *DataFrame, keys []string, row int) string {
	parts := make([]string, 0, len(keys))
	for _, name := range keys {
		col, ok := df.Column(name)
		if !ok {
			parts = append(parts, "")
			continue
		}
		parts = append(parts, keyValueAt(col, row))
	}
	return strings.Join(parts, keySeparator)
}

func keyValueAt(col ISeries, row int) string {
	arr := col.Array()
	defer arr.Release()

	if row < 0 || row >= arr.Len() || arr.IsNull(row) {
		return ""
	}

	switch typed := arr.(type) {
	case *array.String:
		return typed.Value(row)
	case *array.Int64:
		return strconv.FormatInt(typed.Value(row), 10)
	case *array.Float64:
		return strconv.FormatFloat(typed.Value(row), 'g', -1, 64)
	case *array.Boolean:
		return strconv.FormatBool(typed.Value(row))
	default:
		return ""
	}
}

// assembleJoinResult gathers matched rows from both sides. Right key columns
// are dropped (they duplicate the left keys); any other right column whose
// name collides with a left column gets a "_right" suffix.
func assembleJoinResult(left, right *DataFrame, rightKeys []string, leftIndices, rightIndices []int) *DataFrame {
	keySet := make(map[string]bool, len(rightKeys))
	for _, k := range rightKeys {
		keySet[k] = true
	}

	cols := make([]ISeries, 0, left.Width()+right.Width())
	for _, name := range left.Columns() {
		col, _ := left.Column(name)
		cols = append(cols, takeSeries(col, leftIndices))
	}
	for _, name := range right.Columns() {
		if keySet[name] {
			continue
		}
		col, _ := right.Column(name)
		taken := takeSeries(col, rightIndices)
		if left.HasColumn(name) {
			taken = renameSeries(taken, name+"_right")
		}
		cols = append(cols, taken)
	}
	return New(cols...)
}
