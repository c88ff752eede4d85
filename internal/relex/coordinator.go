// Package relex keeps a linestore.Store in step with a document by
// rescanning only the lines an edit touched.
package relex

import (
	"context"
	"strconv"
	"time"

	"github.com/zjrosen/lexedit/internal/cachemanager"
	"github.com/zjrosen/lexedit/internal/lexer"
	"github.com/zjrosen/lexedit/internal/linestore"
	"github.com/zjrosen/lexedit/internal/log"
	"github.com/zjrosen/lexedit/internal/pubsub"
)

// Source exposes the lines of the document being tracked.
type Source interface {
	LineCount() int
	Line(i int) string
}

// Update describes one pass of the coordinator.
type Update struct {
	Start          int  // first rescanned line
	End            int  // last rescanned line, including carry-over rescans
	HighlightStart int  // first line the renderer must repaint
	Added          int  // entries inserted into the store
	Removed        int  // entries removed from the store
	FullRescan     bool // every line was rescanned
}

// Lines returns the number of rescanned lines.
func (u Update) Lines() int {
	if u.End < u.Start {
		return 0
	}
	return u.End - u.Start + 1
}

// ScanKey identifies a line scan by its start state and text.
type ScanKey string

func scanKey(start lexer.State, line string) ScanKey {
	return ScanKey(strconv.Itoa(int(start)) + ":" + line)
}

type scanRequest struct {
	line  string
	start lexer.State
}

// Coordinator owns the token store of one document. It is not safe for
// concurrent use.
type Coordinator struct {
	src       Source
	scanner   *lexer.Scanner
	store     *linestore.Store
	prevCount int

	cache  *cachemanager.ReadThroughCache[ScanKey, lexer.Result, scanRequest]
	broker *pubsub.Broker[Update]
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithCache memoizes line scans in cache for ttl.
func WithCache(cache cachemanager.CacheManager[ScanKey, lexer.Result], ttl time.Duration) Option {
	return func(c *Coordinator) {
		c.cache = cachemanager.NewReadThroughCache(cache, c.scanUncached, ttl)
	}
}

// WithBroker publishes every Update as a RelexedEvent on broker.
func WithBroker(broker *pubsub.Broker[Update]) Option {
	return func(c *Coordinator) {
		c.broker = broker
	}
}

// New creates a coordinator for src and scans every line of it.
func New(src Source, scanner *lexer.Scanner, opts ...Option) *Coordinator {
	c := &Coordinator{
		src:     src,
		scanner: scanner,
		store:   linestore.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.rescanAll()
	return c
}

// Store returns the token store. Callers must not mutate it.
func (c *Coordinator) Store() *linestore.Store {
	return c.store
}

// Tokens returns the tokens of line i.
func (c *Coordinator) Tokens(i int) ([]lexer.Token, bool) {
	return c.store.Tokens(i)
}

// LineCount returns the line count the store currently reflects.
func (c *Coordinator) LineCount() int {
	return c.prevCount
}

// OnTextChanged updates the store after the document changed around
// editedLine and now has newLineCount lines. A single contiguous block of
// lines is assumed to have been inserted ending at editedLine, or removed
// right after it.
func (c *Coordinator) OnTextChanged(editedLine, newLineCount int) Update {
	return c.OnEdit(editedLine, editedLine, newLineCount)
}

// OnEdit is OnTextChanged for an edit known to span firstLine through
// editedLine. When firstLine is before the range OnTextChanged would derive,
// the rescan is widened to start at firstLine.
func (c *Coordinator) OnEdit(firstLine, editedLine, newLineCount int) Update {
	diff := newLineCount - c.prevCount

	changeStart := editedLine
	if diff > 0 {
		changeStart = editedLine - diff
	}

	if !c.consistent(firstLine, editedLine, changeStart, diff, newLineCount) {
		log.Warn(log.CatRelex, "line arithmetic inconsistent, rescanning document",
			"first", firstLine,
			"edited", editedLine,
			"prev", c.prevCount,
			"new", newLineCount,
			"stored", c.store.Len())
		return c.Rebuild()
	}

	start := min(changeStart, firstLine)
	u := Update{Start: start, End: editedLine}

	switch {
	case diff > 0:
		fresh := make([]linestore.Line, diff)
		if err := c.store.Insert(changeStart+1, fresh...); err != nil {
			log.ErrorErr(log.CatRelex, "insert failed", err, "at", changeStart+1)
			return c.Rebuild()
		}
		u.Added = diff
	case diff < 0:
		if err := c.store.Remove(editedLine+1, -diff); err != nil {
			log.ErrorErr(log.CatRelex, "remove failed", err, "at", editedLine+1, "count", -diff)
			return c.Rebuild()
		}
		u.Removed = -diff
	}
	c.prevCount = newLineCount

	for i := start; i <= editedLine; i++ {
		c.rescan(i)
	}
	u.End = c.propagate(editedLine)
	u.HighlightStart = max(0, start-1)

	log.Debug(log.CatRelex, "rescanned",
		"start", u.Start,
		"end", u.End,
		"added", u.Added,
		"removed", u.Removed)
	c.publish(u)
	return u
}

// consistent reports whether an edit notification can be applied
// incrementally to the current store.
func (c *Coordinator) consistent(firstLine, editedLine, changeStart, diff, newLineCount int) bool {
	switch {
	case c.prevCount == 0 || c.store.Len() != c.prevCount:
		return false
	case firstLine < 0 || firstLine > editedLine:
		return false
	case changeStart < 0 || editedLine >= newLineCount:
		return false
	case diff >= 0 && changeStart >= c.prevCount:
		return false
	case diff < 0 && editedLine+1-diff > c.prevCount:
		return false
	}
	return c.src.LineCount() == newLineCount
}

// Rebuild rescans every line of the document.
func (c *Coordinator) Rebuild() Update {
	prev := c.store.Len()
	c.rescanAll()
	n := c.store.Len()

	u := Update{Start: 0, End: n - 1, FullRescan: true}
	if n > prev {
		u.Added = n - prev
	} else {
		u.Removed = prev - n
	}
	if c.cache != nil {
		hits, loads := c.cache.Counts()
		log.Debug(log.CatRelex, "full rescan", "lines", n, "cache_hits", hits, "cache_loads", loads)
	} else {
		log.Debug(log.CatRelex, "full rescan", "lines", n)
	}
	c.publish(u)
	return u
}

func (c *Coordinator) rescanAll() {
	n := c.src.LineCount()
	lines := make([]linestore.Line, n)
	state := lexer.StateStart
	for i := range n {
		lines[i] = linestore.FromResult(state, c.scan(c.src.Line(i), state))
		state = lines[i].EndState
	}
	c.store.Reset(lines)
	c.prevCount = n
}

// rescan recomputes line i from the end state of line i-1.
func (c *Coordinator) rescan(i int) {
	start := c.store.EndState(i - 1)
	line := linestore.FromResult(start, c.scan(c.src.Line(i), start))
	if err := c.store.Replace(i, line); err != nil {
		log.ErrorErr(log.CatRelex, "replace failed", err, "line", i)
	}
}

// propagate rescans the lines after last whose start state no longer
// matches the end state before them, as happens when a block comment is
// opened or closed. It returns the last line rescanned.
func (c *Coordinator) propagate(last int) int {
	for i := last + 1; i < c.store.Len(); i++ {
		line, _ := c.store.Line(i)
		if line.StartState == c.store.EndState(i-1) {
			break
		}
		c.rescan(i)
		last = i
	}
	return last
}

func (c *Coordinator) scan(line string, start lexer.State) lexer.Result {
	if c.cache == nil {
		return c.scanner.ScanLine(line, start)
	}
	res, err := c.cache.Get(context.Background(), scanKey(start, line), scanRequest{line: line, start: start})
	if err != nil {
		return c.scanner.ScanLine(line, start)
	}
	return res
}

func (c *Coordinator) scanUncached(_ context.Context, req scanRequest) (lexer.Result, error) {
	return c.scanner.ScanLine(req.line, req.start), nil
}

func (c *Coordinator) publish(u Update) {
	if c.broker != nil {
		c.broker.Publish(pubsub.RelexedEvent, u)
	}
}
