package document

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/tsawler/pdfdoc/core"
	"github.com/tsawler/pdfdoc/logger"
)

// headerWindow is how far into the file the %PDF- marker may start
const headerWindow = 1024

// Open reads and loads the file at path
func Open(ctx context.Context, path string, cfg *Config) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Load(ctx, data, cfg)
}

// Load parses a complete PDF file held in memory. A nil cfg uses
// NewDefaultConfig. A non-nil cfg.Logger is installed with logger.SetLogger,
// which is process-wide: concurrent loads with different loggers all log
// through whichever was installed last.
func Load(ctx context.Context, data []byte, cfg *Config) (*Document, error) {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Logger != nil {
		logger.SetLogger(cfg.Logger)
	}

	l := &loader{ctx: ctx, data: data, doc: newDocument(cfg)}
	if err := l.load(); err != nil {
		return nil, err
	}
	return l.doc, nil
}

// loader holds the state of one Load call
type loader struct {
	ctx  context.Context
	data []byte
	doc  *Document
	xref *core.XRefTable
}

func (l *loader) load() error {
	version, err := readHeader(l.data)
	if err != nil {
		return err
	}
	l.doc.Version = version

	if err := l.readXRefChain(); err != nil {
		return err
	}
	if err := l.loadObjects(); err != nil {
		return err
	}
	if err := l.loadCompressed(); err != nil {
		return err
	}
	l.dropContainers()

	if size, ok := l.doc.Trailer.GetInt("Size"); ok && size > 0 && uint32(size-1) > l.doc.MaxID {
		l.doc.MaxID = uint32(size - 1)
	}
	logger.Debug("document loaded", "version", l.doc.Version, "objects", len(l.doc.Objects), "warnings", len(l.doc.Warnings))
	return nil
}

// readHeader returns the version from "%PDF-x.y"
func readHeader(data []byte) (string, error) {
	window := data
	if len(window) > headerWindow {
		window = window[:headerWindow]
	}
	idx := bytes.Index(window, []byte("%PDF-"))
	if idx < 0 {
		return "", ErrInvalidHeader
	}
	rest := data[idx+len("%PDF-"):]
	end := bytes.IndexAny(rest, " \t\r\n%")
	if end < 0 {
		end = len(rest)
	}
	if end == 0 || end > 8 {
		return "", fmt.Errorf("%w: missing version", ErrInvalidHeader)
	}
	return string(rest[:end]), nil
}

// readXRefChain walks startxref and every /Prev, merging the sections so
// that newer entries shadow older ones. Trailer keys missing from the newest
// trailer are taken from older ones.
func (l *loader) readXRefChain() error {
	offset, err := core.FindStartXRef(l.data)
	if err != nil {
		return err
	}

	var tables []*core.XRefTable
	var trailers []core.Dict
	visited := make(map[int64]bool)
	for {
		if visited[offset] {
			l.doc.warn("xref", "cross-reference chain loops back to offset %d", offset)
			break
		}
		visited[offset] = true

		table, trailer, err := l.readSection(offset)
		if err != nil {
			if len(tables) == 0 || l.doc.cfg.ParsingMode == Strict {
				return fmt.Errorf("xref section at %d: %w", offset, err)
			}
			l.doc.warn("xref", "older section at %d ignored: %v", offset, err)
			break
		}
		tables = append(tables, table)
		trailers = append(trailers, trailer)

		prev, ok := trailer.GetInt("Prev")
		if !ok {
			break
		}
		offset = int64(prev)
	}

	// tables were collected newest first
	oldestFirst := make([]*core.XRefTable, len(tables))
	for i, t := range tables {
		oldestFirst[len(tables)-1-i] = t
	}
	l.xref = core.MergeXRefTables(oldestFirst...)
	for _, w := range l.xref.Warnings {
		logger.Warn(w.String())
	}
	l.doc.Warnings = append(l.doc.Warnings, l.xref.Warnings...)
	l.doc.XRef = l.xref

	trailer := trailers[0].Clone()
	for _, older := range trailers[1:] {
		for key, value := range older {
			if !trailer.Has(key) {
				trailer[key] = value
			}
		}
	}
	trailer.Delete("Prev", "XRefStm", "Type")
	l.doc.Trailer = trailer
	return nil
}

// readSection reads either a classic table (plus its /XRefStm companion) or
// a cross-reference stream at offset.
func (l *loader) readSection(offset int64) (*core.XRefTable, core.Dict, error) {
	if core.IsXRefTableAt(l.data, offset) {
		table, trailer, err := core.ParseXRefTable(l.data, offset)
		if err != nil {
			return nil, nil, err
		}
		if stm, ok := trailer.GetInt("XRefStm"); ok {
			hybrid, _, err := l.readXRefStream(int64(stm))
			if err != nil {
				l.doc.warn("xref", "XRefStm at %d ignored: %v", stm, err)
			} else {
				table.Merge(hybrid)
			}
		}
		return table, trailer, nil
	}
	return l.readXRefStream(offset)
}

func (l *loader) readXRefStream(offset int64) (*core.XRefTable, core.Dict, error) {
	obj, err := core.ParseIndirectObjectAt(l.data, int(offset), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", core.ErrInvalidXRef, err)
	}
	stream, err := core.AsStream(obj.Object)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: object %s at %d: %w", core.ErrInvalidXRef, obj.ID, offset, err)
	}
	return core.DecodeXRefStream(stream)
}

// loadObjects parses every object with a byte offset
func (l *loader) loadObjects() error {
	nums := make([]uint32, 0, len(l.xref.Entries))
	for num, e := range l.xref.Entries {
		if e.Type == core.XRefNormal {
			nums = append(nums, num)
		}
	}
	sort.Slice(nums, func(i, j int) bool { return nums[i] < nums[j] })

	for _, num := range nums {
		if err := l.ctx.Err(); err != nil {
			return err
		}
		if _, done := l.doc.Objects[core.ObjectID{Number: num, Generation: l.xref.Entries[num].Generation}]; done {
			continue
		}
		if _, err := l.parseAt(num); err != nil {
			if err := l.fail("object %d: %w", num, err); err != nil {
				return err
			}
		}
	}
	return nil
}

// parseAt parses the object that the xref places at a byte offset and
// stores it.
func (l *loader) parseAt(num uint32) (core.Object, error) {
	entry := l.xref.Entries[num]
	if entry.Offset >= uint64(len(l.data)) {
		return nil, fmt.Errorf("%w: offset %d", core.ErrInvalidOffset, entry.Offset)
	}
	obj, err := core.ParseIndirectObjectAt(l.data, int(entry.Offset), l)
	if err != nil {
		return nil, err
	}
	if obj.ID.Number != num {
		return nil, fmt.Errorf("offset %d holds object %s", entry.Offset, obj.ID)
	}
	l.doc.SetObject(obj.ID, obj.Object)
	return obj.Object, nil
}

// ResolveReference serves indirect stream lengths while objects are still
// being loaded.
func (l *loader) ResolveReference(ref core.IndirectRef) (core.Object, error) {
	if obj, ok := l.doc.Objects[ref.ID()]; ok {
		return obj, nil
	}
	entry, ok := l.xref.Get(ref.Number)
	if !ok || entry.Type != core.XRefNormal {
		return nil, fmt.Errorf("%w: %s", core.ErrObjectNotFound, ref.ID())
	}
	obj, err := core.ParseIndirectObjectAt(l.data, int(entry.Offset), nil)
	if err != nil {
		return nil, err
	}
	return obj.Object, nil
}

// loadCompressed unpacks object streams, one decode per container, and
// stores only the objects the xref places in them.
func (l *loader) loadCompressed() error {
	byContainer := make(map[uint32][]uint32)
	for num, e := range l.xref.Entries {
		if e.Type == core.XRefCompressed {
			byContainer[e.Container] = append(byContainer[e.Container], num)
		}
	}
	containers := make([]uint32, 0, len(byContainer))
	for c := range byContainer {
		containers = append(containers, c)
	}
	sort.Slice(containers, func(i, j int) bool { return containers[i] < containers[j] })

	for _, c := range containers {
		if err := l.ctx.Err(); err != nil {
			return err
		}
		stm, err := l.objectStream(c)
		if err != nil {
			if err := l.fail("object stream %d: %w", c, err); err != nil {
				return err
			}
			continue
		}
		l.doc.Warnings = append(l.doc.Warnings, stm.Warnings...)

		nums := byContainer[c]
		sort.Slice(nums, func(i, j int) bool { return nums[i] < nums[j] })
		for _, num := range nums {
			obj, ok := stm.Get(num)
			if !ok {
				if err := l.fail("object %d: %w in object stream %d", num, core.ErrObjectNotFound, c); err != nil {
					return err
				}
				continue
			}
			l.doc.SetObject(core.ObjectID{Number: num}, obj)
		}
	}
	return nil
}

func (l *loader) objectStream(container uint32) (*core.ObjectStream, error) {
	obj, ok := l.doc.Objects[core.ObjectID{Number: container}]
	if !ok {
		return nil, fmt.Errorf("%w: container %d", core.ErrObjectNotFound, container)
	}
	stream, err := core.AsStream(obj)
	if err != nil {
		return nil, err
	}
	return core.NewObjectStream(stream,
		core.WithWorkers(l.doc.cfg.ObjectStreamWorkers),
		core.WithContext(l.ctx),
	)
}

// dropContainers removes object streams and xref streams: their contents now
// live in the arena and the writer emits a classic table.
func (l *loader) dropContainers() {
	for id, obj := range l.doc.Objects {
		s, ok := obj.(*core.Stream)
		if !ok {
			continue
		}
		if t, _ := s.Dict.GetName("Type"); t == "ObjStm" || t == "XRef" {
			delete(l.doc.Objects, id)
		}
	}
}

// fail returns the error in strict mode; in best-effort mode it records a
// warning and returns nil.
func (l *loader) fail(format string, args ...interface{}) error {
	err := fmt.Errorf(format, args...)
	if l.doc.cfg.ParsingMode == Strict {
		return err
	}
	l.doc.warn("load", "skipped %v", err)
	return nil
}
