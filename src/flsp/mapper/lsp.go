package mapper

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/flowr-analysis/flowr-lsp/src/flsp/entity"
	"github.com/flowr-analysis/flowr-lsp/src/internal/errors"
	"github.com/gofrs/uuid"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

// RequestToInitializeParams maps the parameters from a jsonrpc2.Request into protocol.InitializeParams.
func RequestToInitializeParams(req jsonrpc2.Request) (*protocol.InitializeParams, error) {
	params := protocol.InitializeParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToInitializedParams maps the parameters from a jsonrpc2.Request into protocol.InitializedParams.
func RequestToInitializedParams(req jsonrpc2.Request) (*protocol.InitializedParams, error) {
	params := protocol.InitializedParams{}
	if len(req.Params()) == 0 {
		return &params, nil
	}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToDidOpenTextDocumentParams maps the parameters from a jsonrpc2.Request into protocol.DidOpenTextDocumentParams.
func RequestToDidOpenTextDocumentParams(req jsonrpc2.Request) (*protocol.DidOpenTextDocumentParams, error) {
	params := protocol.DidOpenTextDocumentParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToDidChangeTextDocumentParams maps the parameters from a jsonrpc2.Request into protocol.DidChangeTextDocumentParams.
func RequestToDidChangeTextDocumentParams(req jsonrpc2.Request) (*protocol.DidChangeTextDocumentParams, error) {
	params := protocol.DidChangeTextDocumentParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToDidCloseTextDocumentParams maps the parameters from a jsonrpc2.Request into protocol.DidCloseTextDocumentParams.
func RequestToDidCloseTextDocumentParams(req jsonrpc2.Request) (*protocol.DidCloseTextDocumentParams, error) {
	params := protocol.DidCloseTextDocumentParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToDocumentParams maps the parameters of the flowr document requests into entity.DocumentParams.
func RequestToDocumentParams(req jsonrpc2.Request) (*entity.DocumentParams, error) {
	params := entity.DocumentParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	if params.TextDocument.URI == "" {
		return nil, wrapErrParse(fmt.Errorf("textDocument.uri is required"))
	}
	return &params, nil
}

// RequestToToggleCriterionParams maps the parameters from a jsonrpc2.Request into entity.ToggleCriterionParams.
func RequestToToggleCriterionParams(req jsonrpc2.Request) (*entity.ToggleCriterionParams, error) {
	params := entity.ToggleCriterionParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	if params.TextDocument.URI == "" {
		return nil, wrapErrParse(fmt.Errorf("textDocument.uri is required"))
	}
	return &params, nil
}

// PositionToCriterion converts a 0-based editor position into a 1-based slicing criterion.
func PositionToCriterion(p protocol.Position) entity.Criterion {
	return entity.NewCriterion(int(p.Line)+1, int(p.Character)+1)
}

// CriteriaKey returns a cache key for a set of criteria that does not depend on their order.
func CriteriaKey(criteria []entity.Criterion) string {
	keys := criteriaStrings(criteria)
	sort.Strings(keys)
	return strings.Join(keys, ";")
}

// SliceDiagnostics renders the ranges of a slice as hint diagnostics.
func SliceDiagnostics(ranges []protocol.Range, criteria []entity.Criterion) []protocol.Diagnostic {
	message := fmt.Sprintf("in slice for %s", strings.Join(criteriaStrings(criteria), ", "))
	diagnostics := make([]protocol.Diagnostic, 0, len(ranges))
	for _, r := range ranges {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    r,
			Severity: protocol.DiagnosticSeverityHint,
			Source:   entity.DiagnosticSource,
			Message:  message,
		})
	}
	return diagnostics
}

func criteriaStrings(criteria []entity.Criterion) []string {
	out := make([]string, 0, len(criteria))
	for _, c := range criteria {
		out = append(out, string(c))
	}
	return out
}

// SourceRangeToRange converts an inclusive 1-based server range into an editor range.
func SourceRangeToRange(r entity.SourceRange) protocol.Range {
	return PositionsToRange(
		protocol.Position{Line: clampUint(r.StartLine() - 1), Character: clampUint(r.StartColumn() - 1)},
		protocol.Position{Line: clampUint(r.EndLine() - 1), Character: clampUint(r.EndColumn())},
	)
}

// RangeToSourceRange converts an editor range back into an inclusive 1-based server range.
func RangeToSourceRange(r protocol.Range) entity.SourceRange {
	return entity.SourceRange{
		int(r.Start.Line) + 1,
		int(r.Start.Character) + 1,
		int(r.End.Line) + 1,
		int(r.End.Character),
	}
}

// URIToFilename returns the file name the analysis server reports for a document.
// Documents that are not files, such as unsaved buffers, keep their URI.
func URIToFilename(u uri.URI) string {
	if strings.HasPrefix(string(u), uri.FileScheme+"://") {
		return u.Filename()
	}
	return string(u)
}

// PositionsToRange converts two positions into a range.
func PositionsToRange(start, end protocol.Position) protocol.Range {
	return protocol.Range{
		Start: start,
		End:   end,
	}
}

// UUIDToSession creates a new editor session for a connection.
func UUIDToSession(id uuid.UUID, conn *jsonrpc2.Conn) *entity.EditorSession {
	return &entity.EditorSession{
		UUID: id,
		Conn: conn,
	}
}

// WorkspaceRoot returns the directory of the first workspace folder, falling back to the root URI.
// An empty string means the editor opened loose files only.
func WorkspaceRoot(params *protocol.InitializeParams) string {
	if params == nil {
		return ""
	}
	for _, folder := range params.WorkspaceFolders {
		if folder.URI != "" {
			return URIToFilename(uri.URI(folder.URI))
		}
	}
	if params.RootURI != "" {
		return URIToFilename(params.RootURI)
	}
	return ""
}

// ContextToSessionUUID extracts the editor session UUID from a context.
func ContextToSessionUUID(c context.Context) (uuid.UUID, error) {
	s, ok := c.Value(entity.SessionContextKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, &errors.NoSessionFoundError{}
	}
	return s, nil
}

func clampUint(v int) uint32 {
	if v < 0 {
		return 0
	}
	return uint32(v)
}

func wrapErrParse(err error) error {
	return fmt.Errorf("%s: %w", jsonrpc2.ErrParse, err)
}
