// Package docsync tracks the text of the documents open in each editor session.
package docsync

import (
	"context"
	"fmt"
	"sync"

	"github.com/flowr-analysis/flowr-lsp/src/internal/errors"
	"github.com/flowr-analysis/flowr-lsp/src/flsp/mapper"
	"github.com/gofrs/uuid"
	"github.com/uber-go/tally"
	"go.lsp.dev/protocol"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_nameKey   = "doc-sync"
	_configKey = "docSync"
)

// Controller defines the interface for a document sync controller.
type Controller interface {
	DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error
	DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error
	DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error

	// GetTextDocument returns the document as of the last received change.
	GetTextDocument(ctx context.Context, doc protocol.TextDocumentIdentifier) (protocol.TextDocumentItem, error)
	// GetPositionMapper returns a mapper from analyzedText onto the current text of the document.
	GetPositionMapper(ctx context.Context, doc protocol.TextDocumentIdentifier, analyzedText string) (PositionMapper, error)

	// EndSession drops every document of an editor session.
	EndSession(ctx context.Context, id uuid.UUID) error
}

// Params are inbound parameters to initialize a new controller.
type Params struct {
	fx.In

	Logger *zap.SugaredLogger
	Stats  tally.Scope
	Config config.Provider
}

// Config is the docSync configuration block.
type Config struct {
	MaxFileSizeBytes int64 `yaml:"maxFileSizeBytes"`
}

type documentStoreEntry struct {
	Document protocol.TextDocumentItem

	mu             sync.Mutex
	mapperBase     string
	positionMapper PositionMapper
}

type documentStore map[uuid.UUID]map[protocol.TextDocumentIdentifier]*documentStoreEntry

type controller struct {
	logger           *zap.SugaredLogger
	stats            tally.Scope
	documents        documentStore
	documentsMu      sync.RWMutex
	maxFileSizeBytes int64
}

// New creates a new controller for document sync.
func New(p Params) (Controller, error) {
	var cfg Config
	if err := p.Config.Get(_configKey).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("unable to get %s config: %w", _configKey, err)
	}
	if cfg.MaxFileSizeBytes <= 0 {
		return nil, fmt.Errorf("%s.maxFileSizeBytes must be positive, got %d", _configKey, cfg.MaxFileSizeBytes)
	}

	c := &controller{
		logger:           p.Logger.With("plugin", _nameKey),
		stats:            p.Stats.SubScope("doc_sync"),
		documents:        make(documentStore),
		maxFileSizeBytes: cfg.MaxFileSizeBytes,
	}
	c.updateMetrics()
	return c, nil
}

// DidOpen stores the initial contents of a newly opened document.
func (c *controller) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	defer c.updateMetrics()

	id, err := mapper.ContextToSessionUUID(ctx)
	if err != nil {
		return err
	}

	if err := c.validateSize(params.TextDocument.Text); err != nil {
		// Oversized documents are not tracked. Later requests for them fail with DocumentNotFoundError.
		c.logger.Warnf("unable to track open document %q: %s", params.TextDocument.URI, err)
		return nil
	}

	c.documentsMu.Lock()
	defer c.documentsMu.Unlock()

	if c.documents[id] == nil {
		c.documents[id] = make(map[protocol.TextDocumentIdentifier]*documentStoreEntry)
	}
	c.documents[id][protocol.TextDocumentIdentifier{URI: params.TextDocument.URI}] = &documentStoreEntry{Document: params.TextDocument}
	return nil
}

// DidChange replaces the document text. Documents are synced in full, so the last change wins.
func (c *controller) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	defer c.updateMetrics()

	id, err := mapper.ContextToSessionUUID(ctx)
	if err != nil {
		return err
	}
	if len(params.ContentChanges) == 0 {
		return nil
	}
	text := params.ContentChanges[len(params.ContentChanges)-1].Text

	c.documentsMu.Lock()
	defer c.documentsMu.Unlock()

	entry, ok := c.documents[id][params.TextDocument.TextDocumentIdentifier]
	if !ok {
		return &errors.DocumentNotFoundError{Document: params.TextDocument.TextDocumentIdentifier}
	}
	if params.TextDocument.Version <= entry.Document.Version {
		return &errors.DocumentOutdatedError{
			URI:            params.TextDocument.URI,
			CurrentVersion: entry.Document.Version,
			ChangeVersion:  params.TextDocument.Version,
		}
	}

	if err := c.validateSize(text); err != nil {
		c.logger.Warnf("no longer tracking document %q: %s", params.TextDocument.URI, err)
		delete(c.documents[id], params.TextDocument.TextDocumentIdentifier)
		return nil
	}

	updated := entry.Document
	updated.Text = text
	updated.Version = params.TextDocument.Version
	c.documents[id][params.TextDocument.TextDocumentIdentifier] = &documentStoreEntry{Document: updated}
	return nil
}

// DidClose deletes the entry for a closed document.
func (c *controller) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	defer c.updateMetrics()

	id, err := mapper.ContextToSessionUUID(ctx)
	if err != nil {
		return err
	}

	c.documentsMu.Lock()
	defer c.documentsMu.Unlock()
	delete(c.documents[id], params.TextDocument)
	return nil
}

func (c *controller) GetTextDocument(ctx context.Context, doc protocol.TextDocumentIdentifier) (protocol.TextDocumentItem, error) {
	entry, err := c.getDocumentStoreEntry(ctx, doc)
	if err != nil {
		return protocol.TextDocumentItem{}, err
	}
	return entry.Document, nil
}

func (c *controller) GetPositionMapper(ctx context.Context, doc protocol.TextDocumentIdentifier, analyzedText string) (PositionMapper, error) {
	entry, err := c.getDocumentStoreEntry(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.positionMapper == nil || entry.mapperBase != analyzedText {
		entry.positionMapper = NewPositionMapper(analyzedText, entry.Document.Text)
		entry.mapperBase = analyzedText
	}
	return entry.positionMapper, nil
}

func (c *controller) EndSession(ctx context.Context, id uuid.UUID) error {
	defer c.updateMetrics()

	c.documentsMu.Lock()
	defer c.documentsMu.Unlock()
	delete(c.documents, id)
	return nil
}

func (c *controller) getDocumentStoreEntry(ctx context.Context, doc protocol.TextDocumentIdentifier) (*documentStoreEntry, error) {
	id, err := mapper.ContextToSessionUUID(ctx)
	if err != nil {
		return nil, err
	}

	c.documentsMu.RLock()
	defer c.documentsMu.RUnlock()

	entry, ok := c.documents[id][doc]
	if !ok {
		return nil, &errors.DocumentNotFoundError{Document: doc}
	}
	return entry, nil
}

func (c *controller) validateSize(text string) error {
	size := int64(len(text))
	if size > c.maxFileSizeBytes {
		return &errors.DocumentSizeLimitError{Size: size, Limit: c.maxFileSizeBytes}
	}
	return nil
}

func (c *controller) updateMetrics() {
	c.documentsMu.RLock()
	defer c.documentsMu.RUnlock()

	openDocs := 0
	openBytes := 0
	for _, sessionDocs := range c.documents {
		openDocs += len(sessionDocs)
		for _, entry := range sessionDocs {
			openBytes += len(entry.Document.Text)
		}
	}
	c.stats.Gauge("open_docs").Update(float64(openDocs))
	c.stats.Gauge("open_bytes").Update(float64(openBytes))
}
