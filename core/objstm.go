package core

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/tsawler/pdfdoc/logger"
)

// ObjectStream holds the objects unpacked from one /ObjStm container.
// Every id has generation 0.
type ObjectStream struct {
	Objects  map[ObjectID]Object
	Warnings []Warning
}

// objectStreamEntry is one (object number, relative offset) pair from the
// index block, in index order.
type objectStreamEntry struct {
	number uint32
	offset int
}

type objStmConfig struct {
	workers int
	ctx     context.Context
}

// ObjectStreamOption configures NewObjectStream
type ObjectStreamOption func(*objStmConfig)

// WithWorkers parses entries on up to n goroutines. n <= 1 parses
// sequentially. The result does not depend on n.
func WithWorkers(n int) ObjectStreamOption {
	return func(c *objStmConfig) { c.workers = n }
}

// WithContext lets a caller abandon a parallel decode.
func WithContext(ctx context.Context) ObjectStreamOption {
	return func(c *objStmConfig) { c.ctx = ctx }
}

// NewObjectStream unpacks the objects stored in stream.
//
// A decompression failure falls back to the raw data. Only a missing or
// invalid /First or /N, or an index block that is not UTF-8, is an error;
// individual entries that are out of bounds or do not parse are skipped with
// a warning.
func NewObjectStream(stream *Stream, opts ...ObjectStreamOption) (*ObjectStream, error) {
	cfg := objStmConfig{workers: 1, ctx: context.Background()}
	for _, opt := range opts {
		opt(&cfg)
	}

	stm := &ObjectStream{Objects: make(map[ObjectID]Object)}
	if stream == nil {
		return nil, fmt.Errorf("%w: stream is nil", ErrInvalidObjectStream)
	}

	content, err := stream.Decode()
	if err != nil {
		stm.warn("decompression failed, using raw data: %v", err)
		content = stream.Data
	}
	if len(content) == 0 {
		return stm, nil
	}

	first, ok := stream.Dict.GetInt("First")
	if !ok || first < 0 {
		return nil, fmt.Errorf("%w: /First missing or not a non-negative integer", ErrInvalidObjectStream)
	}
	if int64(first) > int64(len(content)) {
		return nil, fmt.Errorf("%w: /First %d beyond content length %d", ErrInvalidObjectStream, first, len(content))
	}
	n, ok := stream.Dict.GetInt("N")
	if !ok {
		return nil, fmt.Errorf("%w: /N missing or not an integer", ErrInvalidObjectStream)
	}

	prefix := content[:first]
	if !utf8.Valid(prefix) {
		return nil, fmt.Errorf("%w: index block is not valid UTF-8", ErrInvalidObjectStream)
	}
	entries, valid := parseIndexBlock(string(prefix))
	if int64(valid) != 2*int64(n) {
		stm.warn("/N is %d but the index block holds %d valid numbers", n, valid)
	}

	starts := make([]int, len(entries))
	for i, e := range entries {
		starts[i] = int(first) + e.offset
	}
	sort.Ints(starts)

	results := make([]Object, len(entries))
	errs := make([]error, len(entries))
	parseOne := func(i int) {
		results[i], errs[i] = parseEntry(content, int(first), int(first)+entries[i].offset, starts)
	}

	if cfg.workers > 1 && len(entries) > 1 {
		g, ctx := errgroup.WithContext(cfg.ctx)
		g.SetLimit(cfg.workers)
		for i := range entries {
			i := i
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				parseOne(i)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range entries {
			parseOne(i)
		}
	}

	// warnings and the map are assembled in index order on this goroutine
	for i, e := range entries {
		if errs[i] != nil {
			stm.warn("object %d skipped: %v", e.number, errs[i])
			continue
		}
		stm.Objects[ObjectID{Number: e.number}] = results[i]
	}
	return stm, nil
}

// Get returns the object stored under number
func (stm *ObjectStream) Get(number uint32) (Object, bool) {
	obj, ok := stm.Objects[ObjectID{Number: number}]
	return obj, ok
}

func (stm *ObjectStream) warn(format string, args ...interface{}) {
	w := Warnf("objstm", format, args...)
	logger.Warn("object stream: " + w.Message)
	stm.Warnings = append(stm.Warnings, w)
}

// parseIndexBlock splits the index block on whitespace and pairs the
// numbers up. A pair with an unparsable half is dropped whole; an odd
// trailing token is ignored. valid counts the tokens that parse as integers.
func parseIndexBlock(block string) (entries []objectStreamEntry, valid int) {
	fields := strings.Fields(block)
	for _, f := range fields {
		if _, err := strconv.ParseUint(f, 10, 32); err == nil {
			valid++
		}
	}
	for i := 0; i+1 < len(fields); i += 2 {
		num, err1 := strconv.ParseUint(fields[i], 10, 32)
		off, err2 := strconv.ParseUint(fields[i+1], 10, 32)
		if err1 != nil || err2 != nil {
			continue
		}
		entries = append(entries, objectStreamEntry{number: uint32(num), offset: int(off)})
	}
	return entries, valid
}

// parseEntry parses the object at start. It only reads content, so entries
// can be parsed concurrently. The object is bounded by the next larger
// offset in starts (sorted), or the end of the content.
func parseEntry(content []byte, first, start int, starts []int) (Object, error) {
	if start < first || start >= len(content) {
		return nil, fmt.Errorf("%w: offset %d outside [%d, %d)", ErrInvalidOffset, start, first, len(content))
	}
	end := len(content)
	if j := sort.SearchInts(starts, start+1); j < len(starts) && starts[j] < end {
		end = starts[j]
	}
	obj, err := ParseObjectAt(content[:end], start)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// Numbers returns the object numbers in the stream, sorted.
func (stm *ObjectStream) Numbers() []uint32 {
	nums := make([]uint32, 0, len(stm.Objects))
	for id := range stm.Objects {
		nums = append(nums, id.Number)
	}
	sort.Slice(nums, func(i, j int) bool { return nums[i] < nums[j] })
	return nums
}
