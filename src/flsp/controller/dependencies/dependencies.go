// Package dependencies builds the dependency view of a document and keeps the view
// of the most recently requested document up to date on an interval.
package dependencies

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/flowr-analysis/flowr-lsp/src/flsp/controller/connection"
	docsync "github.com/flowr-analysis/flowr-lsp/src/flsp/controller/doc-sync"
	"github.com/flowr-analysis/flowr-lsp/src/flsp/entity"
	ideclient "github.com/flowr-analysis/flowr-lsp/src/flsp/gateway/ide-client"
	"github.com/flowr-analysis/flowr-lsp/src/internal/clock"
	"github.com/flowr-analysis/flowr-lsp/src/flsp/mapper"
	resultcache "github.com/flowr-analysis/flowr-lsp/src/flsp/repository/result-cache"
	"github.com/gofrs/uuid"
	"github.com/uber-go/tally"
	"go.lsp.dev/protocol"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_nameKey   = "dependencies"
	_configKey = "dependencies"
	// _cacheKey distinguishes dependency results from other results computed for the same text.
	_cacheKey = entity.QueryDependencies
)

// Controller serves the dependency view.
type Controller interface {
	// Dependencies returns the dependency view of a document and makes it the document refreshed on the interval.
	Dependencies(ctx context.Context, doc protocol.TextDocumentIdentifier) (*entity.DependencyView, error)
	// DidClose stops tracking a closed document.
	DidClose(ctx context.Context, doc protocol.TextDocumentIdentifier) error
	// EndSession stops tracking the documents of an editor session.
	EndSession(ctx context.Context, id uuid.UUID) error
}

// Params are inbound parameters to initialize a new controller.
type Params struct {
	fx.In

	Config     config.Provider
	Logger     *zap.SugaredLogger
	Stats      tally.Scope
	Connection connection.Controller
	Documents  docsync.Controller
	IdeGateway ideclient.Gateway
	Clock      clock.Clock
	Lifecycle  fx.Lifecycle
}

// Config is the dependencies configuration block.
type Config struct {
	CacheSize   int  `yaml:"cacheSize"`
	KeepOnError bool `yaml:"keepOnError"`
	// RefreshInterval is the period of the automatic refresh. Zero disables it.
	RefreshInterval time.Duration `yaml:"refreshInterval"`
}

type documentKey struct {
	session uuid.UUID
	uri     protocol.DocumentURI
}

type documentView struct {
	lastText string
	view     *entity.DependencyView
}

type cachedDependencies struct {
	Dependencies *entity.Dependencies
	Text         string
}

type controller struct {
	cfg        Config
	logger     *zap.SugaredLogger
	stats      tally.Scope
	connection connection.Controller
	documents  docsync.Controller
	ideGateway ideclient.Gateway
	clock      clock.Clock
	cache      resultcache.Cache[cachedDependencies]

	working atomic.Bool

	mu     sync.Mutex
	views  map[documentKey]*documentView
	active *documentKey

	ticker clock.Ticker
	done   chan struct{}
	wg     sync.WaitGroup
}

// New creates the dependencies controller and registers the interval refresh with the lifecycle.
func New(p Params) (Controller, error) {
	var cfg Config
	if err := p.Config.Get(_configKey).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("unable to get %s config: %w", _configKey, err)
	}

	stats := p.Stats.SubScope(_nameKey)
	c := &controller{
		cfg:        cfg,
		logger:     p.Logger.With("plugin", _nameKey),
		stats:      stats,
		connection: p.Connection,
		documents:  p.Documents,
		ideGateway: p.IdeGateway,
		clock:      p.Clock,
		cache:      resultcache.New[cachedDependencies](cfg.CacheSize, stats.SubScope("cache")),
		views:      make(map[documentKey]*documentView),
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			c.start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			c.stop()
			return nil
		},
	})
	return c, nil
}

func (c *controller) Dependencies(ctx context.Context, doc protocol.TextDocumentIdentifier) (*entity.DependencyView, error) {
	id, err := mapper.ContextToSessionUUID(ctx)
	if err != nil {
		return nil, err
	}
	key := documentKey{session: id, uri: doc.URI}

	c.mu.Lock()
	c.active = &key
	c.mu.Unlock()

	view, _, err := c.refresh(ctx, key)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, fmt.Errorf("dependency analysis of %s is already running", doc.URI)
	}
	return view, nil
}

func (c *controller) DidClose(ctx context.Context, doc protocol.TextDocumentIdentifier) error {
	id, err := mapper.ContextToSessionUUID(ctx)
	if err != nil {
		return err
	}
	key := documentKey{session: id, uri: doc.URI}

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.views, key)
	if c.active != nil && *c.active == key {
		c.active = nil
	}
	return nil
}

func (c *controller) EndSession(ctx context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.views {
		if key.session == id {
			delete(c.views, key)
		}
	}
	if c.active != nil && c.active.session == id {
		c.active = nil
	}
	return nil
}

// refresh returns the view of a document and whether it differs from the previous one.
// A nil view without error means another refresh was in flight and no view exists yet.
func (c *controller) refresh(ctx context.Context, key documentKey) (*entity.DependencyView, bool, error) {
	if !c.working.CompareAndSwap(false, true) {
		c.stats.Counter("dropped_refreshes").Inc(1)
		return c.lastView(key), false, nil
	}
	defer c.working.Store(false)

	doc := protocol.TextDocumentIdentifier{URI: key.uri}
	item, err := c.documents.GetTextDocument(ctx, doc)
	if err != nil {
		return nil, false, fmt.Errorf("getting document: %w", err)
	}

	c.mu.Lock()
	previous, ok := c.views[key]
	c.mu.Unlock()
	if ok && previous.lastText == item.Text {
		c.stats.Counter("unchanged").Inc(1)
		return previous.view, false, nil
	}

	result, err := c.retrieve(ctx, item)
	if err != nil {
		c.stats.Counter("errors").Inc(1)
		c.logger.Warnw("refreshing dependencies", "uri", key.uri, "error", err)
		if !c.cfg.KeepOnError {
			c.mu.Lock()
			delete(c.views, key)
			c.mu.Unlock()
		}
		return nil, false, err
	}

	records := c.currentRecords(ctx, doc, result)
	view := &entity.DependencyView{
		URI:     key.uri,
		Items:   mapper.DependencyTree(records),
		Timings: result.Dependencies.Timings,
	}

	c.mu.Lock()
	c.views[key] = &documentView{lastText: item.Text, view: view}
	c.mu.Unlock()
	return view, true, nil
}

func (c *controller) retrieve(ctx context.Context, item protocol.TextDocumentItem) (cachedDependencies, error) {
	fingerprint := mapper.Fingerprint(item.Text)
	if entry, ok := c.cache.Lookup(fingerprint, _cacheKey); ok {
		return entry.Result, nil
	}

	session, err := c.connection.Session(ctx)
	if err != nil {
		return cachedDependencies{}, err
	}
	if timeout := c.connection.Config().RequestTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	c.stats.Counter("requests").Inc(1)
	deps, err := session.RetrieveDependencies(ctx, mapper.URIToFilename(item.URI), item.Text)
	if err != nil {
		return cachedDependencies{}, fmt.Errorf("querying dependencies of %s: %w", item.URI, err)
	}

	result := cachedDependencies{Dependencies: deps, Text: item.Text}
	c.cache.Push(resultcache.Entry[cachedDependencies]{Fingerprint: fingerprint, Key: _cacheKey, Result: result})
	return result, nil
}

// currentRecords moves record locations from the analyzed text onto the current text.
// Locations in deleted text are removed, the record itself is kept.
func (c *controller) currentRecords(ctx context.Context, doc protocol.TextDocumentIdentifier, result cachedDependencies) []entity.DependencyRecord {
	records := make([]entity.DependencyRecord, 0, len(result.Dependencies.Records))
	positions, err := c.documents.GetPositionMapper(ctx, doc, result.Text)
	if err != nil {
		c.logger.Debugf("keeping analyzed locations of %s: %s", doc.URI, err)
		return append(records, result.Dependencies.Records...)
	}

	for _, record := range result.Dependencies.Records {
		if record.Location != nil {
			r, deleted, err := positions.MapRange(mapper.SourceRangeToRange(*record.Location))
			switch {
			case err != nil, deleted:
				record.Location = nil
			default:
				moved := mapper.RangeToSourceRange(r)
				record.Location = &moved
			}
		}
		records = append(records, record)
	}
	return records
}

func (c *controller) lastView(key documentKey) *entity.DependencyView {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.views[key]; ok {
		return v.view
	}
	return nil
}

func (c *controller) start() {
	if c.cfg.RefreshInterval <= 0 {
		return
	}
	c.ticker = c.clock.NewTicker(c.cfg.RefreshInterval)
	c.done = make(chan struct{})
	c.wg.Add(1)
	go c.run(c.ticker, c.done)
}

func (c *controller) stop() {
	if c.ticker == nil {
		return
	}
	close(c.done)
	c.wg.Wait()
	c.ticker.Stop()
	c.ticker = nil
}

func (c *controller) run(ticker clock.Ticker, done <-chan struct{}) {
	defer c.wg.Done()
	for {
		select {
		case <-done:
			return
		case <-ticker.C():
			c.tick()
		}
	}
}

// tick refreshes the active document and pushes the view to the editor when it changed.
func (c *controller) tick() {
	c.mu.Lock()
	active := c.active
	c.mu.Unlock()
	if active == nil {
		return
	}

	ctx := context.WithValue(context.Background(), entity.SessionContextKey, active.session)
	view, changed, err := c.refresh(ctx, *active)
	if err != nil {
		c.logger.Debugf("interval refresh of %s: %s", active.uri, err)
		return
	}
	if !changed {
		return
	}
	if err := c.ideGateway.Notify(ctx, entity.MethodDependenciesUpdate, view); err != nil {
		c.logger.Warnf("sending dependency update: %s", err)
	}
}
