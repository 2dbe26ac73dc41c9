// Package slicer keeps the slicing criteria of each document and renders the
// resulting program slice as diagnostics.
package slicer

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/flowr-analysis/flowr-lsp/src/flsp/controller/connection"
	"github.com/flowr-analysis/flowr-lsp/src/flsp/controller/diagnostics"
	docsync "github.com/flowr-analysis/flowr-lsp/src/flsp/controller/doc-sync"
	"github.com/flowr-analysis/flowr-lsp/src/flsp/entity"
	"github.com/flowr-analysis/flowr-lsp/src/flsp/mapper"
	resultcache "github.com/flowr-analysis/flowr-lsp/src/flsp/repository/result-cache"
	"github.com/gofrs/uuid"
	"github.com/uber-go/tally"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_nameKey   = "slicer"
	_configKey = "slicer"
)

// Controller maintains per document slicing criteria and their slices.
type Controller interface {
	// ToggleCriterion adds the criterion at the given position, or removes it if already set, and refreshes the slice.
	ToggleCriterion(ctx context.Context, params *entity.ToggleCriterionParams) (*entity.SliceState, error)
	// ClearSlice removes every criterion of a document and its diagnostics.
	ClearSlice(ctx context.Context, doc protocol.TextDocumentIdentifier) (*entity.SliceState, error)
	// Refresh recomputes the slice of a document if its text or criteria changed since the last run.
	Refresh(ctx context.Context, doc protocol.TextDocumentIdentifier) (*entity.SliceState, error)
	// Reconstruct returns the reconstructed code of the current slice.
	Reconstruct(ctx context.Context, doc protocol.TextDocumentIdentifier) (*entity.Reconstruction, error)
	// DidClose forgets the slice of a closed document.
	DidClose(ctx context.Context, doc protocol.TextDocumentIdentifier) error
	// EndSession forgets every slice of an editor session.
	EndSession(ctx context.Context, id uuid.UUID) error
}

// Params are inbound parameters to initialize a new controller.
type Params struct {
	fx.In

	Config      config.Provider
	Logger      *zap.SugaredLogger
	Stats       tally.Scope
	Connection  connection.Controller
	Documents   docsync.Controller
	Diagnostics diagnostics.Controller
}

// Config is the slicer configuration block.
type Config struct {
	CacheSize int `yaml:"cacheSize"`
	// KeepOnError keeps the last slice on screen when a refresh fails.
	KeepOnError bool `yaml:"keepOnError"`
}

type documentKey struct {
	session uuid.UUID
	uri     uri.URI
}

type documentSlice struct {
	// criteria are positions in criteriaText. They are moved along with every edit
	// before they are used, so they keep pointing at the code they were set on.
	criteria     []protocol.Position
	criteriaText string
	// lastText and lastKey describe the input of the last successful refresh.
	lastText string
	lastKey  string
	slice    *entity.Slice
	ranges   []protocol.Range
}

// cachedSlice keeps the analyzed text so that ranges can be mapped onto texts with the same fingerprint.
type cachedSlice struct {
	Slice *entity.Slice
	Text  string
}

type controller struct {
	cfg         Config
	logger      *zap.SugaredLogger
	stats       tally.Scope
	connection  connection.Controller
	documents   docsync.Controller
	diagnostics diagnostics.Controller
	cache       resultcache.Cache[cachedSlice]

	working atomic.Bool

	mu     sync.Mutex
	slices map[documentKey]*documentSlice
}

// New creates a new slicer controller.
func New(p Params) (Controller, error) {
	var cfg Config
	if err := p.Config.Get(_configKey).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("unable to get %s config: %w", _configKey, err)
	}

	stats := p.Stats.SubScope(_nameKey)
	return &controller{
		cfg:         cfg,
		logger:      p.Logger.With("plugin", _nameKey),
		stats:       stats,
		connection:  p.Connection,
		documents:   p.Documents,
		diagnostics: p.Diagnostics,
		cache:       resultcache.New[cachedSlice](cfg.CacheSize, stats.SubScope("cache")),
		slices:      make(map[documentKey]*documentSlice),
	}, nil
}

func (c *controller) ToggleCriterion(ctx context.Context, params *entity.ToggleCriterionParams) (*entity.SliceState, error) {
	key, err := c.key(ctx, params.TextDocument)
	if err != nil {
		return nil, err
	}
	item, err := c.documents.GetTextDocument(ctx, params.TextDocument)
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}
	criterion := mapper.PositionToCriterion(params.Position)

	c.mu.Lock()
	state := c.stateLocked(key)
	c.moveCriteriaLocked(key, state, item.Text)
	removed := false
	for i, existing := range state.criteria {
		if mapper.PositionToCriterion(existing) == criterion {
			state.criteria = append(state.criteria[:i:i], state.criteria[i+1:]...)
			removed = true
			break
		}
	}
	if !removed {
		state.criteria = append(state.criteria, params.Position)
	}
	empty := len(state.criteria) == 0
	c.mu.Unlock()

	c.logger.Debugw("toggled slicing criterion", "uri", params.TextDocument.URI, "criterion", criterion, "removed", removed)
	if empty {
		return c.ClearSlice(ctx, params.TextDocument)
	}
	return c.Refresh(ctx, params.TextDocument)
}

func (c *controller) ClearSlice(ctx context.Context, doc protocol.TextDocumentIdentifier) (*entity.SliceState, error) {
	key, err := c.key(ctx, doc)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	delete(c.slices, key)
	c.mu.Unlock()

	if err := c.diagnostics.ClearDiagnostics(ctx, doc.URI); err != nil {
		return nil, err
	}
	return &entity.SliceState{URI: doc.URI, Criteria: []entity.Criterion{}}, nil
}

func (c *controller) Refresh(ctx context.Context, doc protocol.TextDocumentIdentifier) (*entity.SliceState, error) {
	key, err := c.key(ctx, doc)
	if err != nil {
		return nil, err
	}

	if !c.working.CompareAndSwap(false, true) {
		c.stats.Counter("dropped_refreshes").Inc(1)
		return c.snapshot(key), nil
	}
	defer c.working.Store(false)

	c.mu.Lock()
	state, ok := c.slices[key]
	empty := !ok || len(state.criteria) == 0
	c.mu.Unlock()
	if empty {
		return &entity.SliceState{URI: doc.URI, Criteria: []entity.Criterion{}}, nil
	}

	item, err := c.documents.GetTextDocument(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}

	c.mu.Lock()
	state, ok = c.slices[key]
	if !ok {
		c.mu.Unlock()
		return &entity.SliceState{URI: doc.URI, Criteria: []entity.Criterion{}}, nil
	}
	c.moveCriteriaLocked(key, state, item.Text)
	if len(state.criteria) == 0 {
		// Every criterion was in text that has been removed.
		c.mu.Unlock()
		return c.ClearSlice(ctx, doc)
	}
	positions := append([]protocol.Position{}, state.criteria...)
	lastText, lastKey := state.lastText, state.lastKey
	c.mu.Unlock()

	criteria := criteriaAt(positions)
	criteriaKey := mapper.CriteriaKey(criteria)
	if item.Text == lastText && criteriaKey == lastKey {
		c.stats.Counter("unchanged").Inc(1)
		return c.snapshot(key), nil
	}

	result, err := c.retrieve(ctx, item, positions, criteria, criteriaKey)
	if err != nil {
		c.stats.Counter("errors").Inc(1)
		c.logger.Warnw("refreshing slice", "uri", doc.URI, "error", err)
		if !c.cfg.KeepOnError {
			c.reset(key)
			if clearErr := c.diagnostics.ClearDiagnostics(ctx, doc.URI); clearErr != nil {
				c.logger.Errorf("clearing diagnostics after failed refresh: %s", clearErr)
			}
		}
		return nil, err
	}

	ranges, err := c.currentRanges(ctx, doc, result)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if state, ok := c.slices[key]; ok {
		state.lastText = item.Text
		state.lastKey = criteriaKey
		state.slice = result.Slice
		state.ranges = ranges
	}
	c.mu.Unlock()

	if err := c.diagnostics.ApplyDiagnostics(ctx, doc.URI, mapper.SliceDiagnostics(ranges, criteria)); err != nil {
		return nil, err
	}
	return c.snapshot(key), nil
}

func (c *controller) Reconstruct(ctx context.Context, doc protocol.TextDocumentIdentifier) (*entity.Reconstruction, error) {
	if _, err := c.Refresh(ctx, doc); err != nil && !c.cfg.KeepOnError {
		return nil, err
	}

	key, err := c.key(ctx, doc)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	state, ok := c.slices[key]
	if !ok || len(state.criteria) == 0 {
		return nil, fmt.Errorf("no slicing criteria set for %s", doc.URI)
	}
	if state.slice == nil {
		return nil, fmt.Errorf("no slice computed yet for %s", doc.URI)
	}
	return &entity.Reconstruction{
		URI:      doc.URI,
		Criteria: append([]entity.Criterion{}, state.slice.Criteria...),
		Code:     state.slice.Code,
	}, nil
}

func (c *controller) DidClose(ctx context.Context, doc protocol.TextDocumentIdentifier) error {
	key, err := c.key(ctx, doc)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.slices, key)
	return nil
}

func (c *controller) EndSession(ctx context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.slices {
		if key.session == id {
			delete(c.slices, key)
		}
	}
	return nil
}

// retrieve returns the slice for text from the cache or the analysis server.
// positions are the criteria in item.Text. A cached slice matches when its text has the
// same fingerprint and the positions moved onto its text give the same criteria.
func (c *controller) retrieve(ctx context.Context, item protocol.TextDocumentItem, positions []protocol.Position, criteria []entity.Criterion, criteriaKey string) (cachedSlice, error) {
	fingerprint := mapper.Fingerprint(item.Text)
	entry, ok := c.cache.Get(func(e resultcache.Entry[cachedSlice]) bool {
		if e.Fingerprint != fingerprint {
			return false
		}
		if e.Result.Text == item.Text {
			return e.Key == criteriaKey
		}
		moved, ok := movePositions(positions, item.Text, e.Result.Text)
		return ok && mapper.CriteriaKey(criteriaAt(moved)) == e.Key
	})
	if ok {
		return entry.Result, nil
	}

	session, err := c.connection.Session(ctx)
	if err != nil {
		return cachedSlice{}, err
	}

	if timeout := c.connection.Config().RequestTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	c.stats.Counter("requests").Inc(1)
	slice, err := session.RetrieveSlice(ctx, mapper.URIToFilename(item.URI), item.Text, criteria)
	if err != nil {
		return cachedSlice{}, fmt.Errorf("slicing %s: %w", item.URI, err)
	}

	result := cachedSlice{Slice: slice, Text: item.Text}
	c.cache.Push(resultcache.Entry[cachedSlice]{Fingerprint: fingerprint, Key: criteriaKey, Result: result})
	return result, nil
}

// currentRanges maps the slice ranges from the analyzed text onto the current document text.
// Ranges in text deleted since the analysis are dropped.
func (c *controller) currentRanges(ctx context.Context, doc protocol.TextDocumentIdentifier, result cachedSlice) ([]protocol.Range, error) {
	positions, err := c.documents.GetPositionMapper(ctx, doc, result.Text)
	if err != nil {
		return nil, err
	}

	ranges := make([]protocol.Range, 0, len(result.Slice.Nodes))
	for _, node := range result.Slice.Nodes {
		r, deleted, err := positions.MapRange(mapper.SourceRangeToRange(node.Location))
		if err != nil {
			c.logger.Debugf("skipping node %s at %s: %s", node.ID, node.Location, err)
			continue
		}
		if deleted {
			continue
		}
		ranges = append(ranges, r)
	}
	return ranges, nil
}

func (c *controller) key(ctx context.Context, doc protocol.TextDocumentIdentifier) (documentKey, error) {
	id, err := mapper.ContextToSessionUUID(ctx)
	if err != nil {
		return documentKey{}, err
	}
	return documentKey{session: id, uri: doc.URI}, nil
}

// moveCriteriaLocked moves the criteria of state onto text.
// Criteria inside removed text are dropped.
func (c *controller) moveCriteriaLocked(key documentKey, state *documentSlice, text string) {
	if state.criteriaText == text {
		return
	}
	if len(state.criteria) > 0 {
		positions := docsync.NewPositionMapper(state.criteriaText, text)
		moved := make([]protocol.Position, 0, len(state.criteria))
		for _, p := range state.criteria {
			current, deleted, err := positions.MapPosition(p)
			if err != nil || deleted {
				c.stats.Counter("dropped_criteria").Inc(1)
				c.logger.Debugw("dropping slicing criterion in removed text", "uri", key.uri, "criterion", mapper.PositionToCriterion(p), "error", err)
				continue
			}
			moved = append(moved, current)
		}
		state.criteria = moved
	}
	state.criteriaText = text
}

// movePositions maps positions in from onto to. ok is false when one of them was removed.
func movePositions(positions []protocol.Position, from, to string) ([]protocol.Position, bool) {
	positionMapper := docsync.NewPositionMapper(from, to)
	moved := make([]protocol.Position, 0, len(positions))
	for _, p := range positions {
		current, deleted, err := positionMapper.MapPosition(p)
		if err != nil || deleted {
			return nil, false
		}
		moved = append(moved, current)
	}
	return moved, true
}

func criteriaAt(positions []protocol.Position) []entity.Criterion {
	criteria := make([]entity.Criterion, 0, len(positions))
	for _, p := range positions {
		criteria = append(criteria, mapper.PositionToCriterion(p))
	}
	return criteria
}

func (c *controller) stateLocked(key documentKey) *documentSlice {
	state, ok := c.slices[key]
	if !ok {
		state = &documentSlice{}
		c.slices[key] = state
	}
	return state
}

func (c *controller) reset(key documentKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if state, ok := c.slices[key]; ok {
		state.lastText, state.lastKey = "", ""
		state.slice, state.ranges = nil, nil
	}
}

func (c *controller) snapshot(key documentKey) *entity.SliceState {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := &entity.SliceState{URI: key.uri, Criteria: []entity.Criterion{}}
	if state, ok := c.slices[key]; ok {
		result.Criteria = append(result.Criteria, criteriaAt(state.criteria)...)
		result.Nodes = len(state.ranges)
	}
	return result
}
