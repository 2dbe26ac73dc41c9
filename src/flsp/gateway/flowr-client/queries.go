package flowrclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/flowr-analysis/flowr-lsp/src/flsp/entity"
	"github.com/flowr-analysis/flowr-lsp/src/flsp/factory"
	flsperrors "github.com/flowr-analysis/flowr-lsp/src/internal/errors"
	"github.com/flowr-analysis/flowr-lsp/src/flsp/mapper"
)

func (s *session) AnalyzeFile(ctx context.Context, fileToken, filename, content string) (*entity.FileAnalysis, error) {
	var resp fileAnalysisResponse
	err := s.roundTrip(ctx, TypeFileAnalysisResponse, func(id string) interface{} {
		return FileAnalysisRequest{
			Type:      TypeFileAnalysisRequest,
			ID:        id,
			FileToken: fileToken,
			Filename:  filename,
			Content:   content,
			Format:    FormatJSON,
		}
	}, &resp)
	if err != nil {
		return nil, err
	}

	ast := resp.Results.Normalize.AST
	if len(ast) == 0 || string(ast) == "null" {
		return nil, &flsperrors.MalformedResponseError{Expected: TypeFileAnalysisResponse, Reason: "missing results.normalize.ast"}
	}
	locations, err := mapper.LocationMapFromAST(ast)
	if err != nil {
		return nil, &flsperrors.MalformedResponseError{Expected: TypeFileAnalysisResponse, Reason: err.Error()}
	}
	return &entity.FileAnalysis{FileToken: fileToken, AST: ast, Locations: locations}, nil
}

func (s *session) Slice(ctx context.Context, fileToken string, criteria []entity.Criterion) (*entity.SliceResult, error) {
	if len(criteria) == 0 {
		return nil, fmt.Errorf("at least one slicing criterion is required")
	}
	var resp sliceResponse
	err := s.roundTrip(ctx, TypeSliceResponse, func(id string) interface{} {
		return SliceRequest{Type: TypeSliceRequest, ID: id, FileToken: fileToken, Criterion: criteria}
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &entity.SliceResult{IDs: resp.Results.Slice.Result, Code: resp.Results.Reconstruct.Code}, nil
}

func (s *session) Query(ctx context.Context, fileToken string, queries []entity.Query) (*entity.QueryBundle, error) {
	if len(queries) == 0 {
		return nil, fmt.Errorf("at least one query is required")
	}
	var resp queryResponse
	err := s.roundTrip(ctx, TypeQueryResponse, func(id string) interface{} {
		return QueryRequest{Type: TypeQueryRequest, ID: id, FileToken: fileToken, Query: queries}
	}, &resp)
	if err != nil {
		return nil, err
	}

	bundle := &entity.QueryBundle{
		Results: make(map[string]json.RawMessage, len(resp.Results)),
		Timings: make(map[string]float64, len(resp.Results)),
	}
	for key, raw := range resp.Results {
		var meta queryMeta
		if key == _metaKey {
			if err := json.Unmarshal(raw, &meta.Meta); err == nil {
				bundle.Total = meta.Meta.Timing
			}
			continue
		}
		bundle.Results[key] = raw
		if err := json.Unmarshal(raw, &meta); err == nil {
			bundle.Timings[key] = meta.Meta.Timing
		}
	}
	for _, q := range queries {
		if _, ok := bundle.Results[q.Type]; !ok {
			return nil, &flsperrors.MalformedResponseError{
				Expected: TypeQueryResponse,
				Reason:   fmt.Sprintf("missing result for query %q", q.Type),
			}
		}
	}
	return bundle, nil
}

func (s *session) RetrieveSlice(ctx context.Context, filename, content string, criteria []entity.Criterion) (*entity.Slice, error) {
	token := factory.FileToken()
	analysis, err := s.AnalyzeFile(ctx, token, filename, content)
	if err != nil {
		return nil, err
	}
	result, err := s.Slice(ctx, token, criteria)
	if err != nil {
		return nil, err
	}
	return &entity.Slice{
		Criteria: criteria,
		Code:     result.Code,
		Nodes:    mapper.ReconcileSlice(result.IDs, analysis.Locations),
	}, nil
}

func (s *session) RetrieveQuery(ctx context.Context, filename, content string, queries []entity.Query) (*entity.QueryBundle, error) {
	token := factory.FileToken()
	if _, err := s.AnalyzeFile(ctx, token, filename, content); err != nil {
		return nil, err
	}
	return s.Query(ctx, token, queries)
}

func (s *session) RetrieveDependencies(ctx context.Context, filename, content string) (*entity.Dependencies, error) {
	token := factory.FileToken()
	analysis, err := s.AnalyzeFile(ctx, token, filename, content)
	if err != nil {
		return nil, err
	}
	bundle, err := s.Query(ctx, token, []entity.Query{
		{Type: entity.QueryDependencies},
		{Type: entity.QueryLocationMap},
	})
	if err != nil {
		return nil, err
	}

	locations, err := mapper.LocationMapFromQuery(bundle.Results[entity.QueryLocationMap])
	if err != nil {
		s.logger.Warnw("ignoring unreadable location map, falling back to the analysis", "error", err)
		locations = analysis.Locations
	}
	for id, r := range analysis.Locations {
		if _, ok := locations[id]; !ok {
			locations[id] = r
		}
	}

	records, err := mapper.DependenciesFromQuery(bundle.Results[entity.QueryDependencies], locations)
	if err != nil {
		return nil, &flsperrors.MalformedResponseError{Expected: TypeQueryResponse, Reason: err.Error()}
	}
	return &entity.Dependencies{Records: records, Timings: bundle.Timings}, nil
}

// roundTrip sends the request built for the next id and decodes the matching response into out.
func (s *session) roundTrip(ctx context.Context, expected string, build func(id string) interface{}, out interface{}) error {
	correlator, err := s.ready()
	if err != nil {
		return err
	}
	id := correlator.NextID()
	s.stats.Counter("round_trips").Inc(1)

	frame, err := correlator.SendWithResponse(ctx, id, build(id))
	if err != nil {
		s.stats.Counter("round_trip_errors").Inc(1)
		return err
	}
	if err := decodeResponse(frame, id, expected, out); err != nil {
		s.stats.Counter("round_trip_errors").Inc(1)
		s.logger.Warnw("request failed", "id", id, "expected", expected, "error", err)
		return err
	}
	return nil
}

// decodeResponse checks the type and id of frame before unmarshalling it into out.
// An error message from the server becomes a RemoteQueryError.
func decodeResponse(frame []byte, id, expected string, out interface{}) error {
	var env envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return &flsperrors.MalformedResponseError{Expected: expected, Reason: err.Error(), Frame: frame}
	}

	if env.Type == TypeError {
		var msg errorMessage
		if err := json.Unmarshal(frame, &msg); err != nil {
			return &flsperrors.MalformedResponseError{Expected: expected, Reason: err.Error(), Frame: frame}
		}
		return &flsperrors.RemoteQueryError{RequestID: id, Fatal: msg.Fatal, Reason: msg.Reason}
	}
	if env.Type != expected {
		return &flsperrors.MalformedResponseError{
			Expected: expected,
			Reason:   fmt.Sprintf("unexpected message type %q", env.Type),
			Frame:    frame,
		}
	}
	if env.ID != id {
		return &flsperrors.MalformedResponseError{
			Expected: expected,
			Reason:   fmt.Sprintf("response id %q does not match request id %q", env.ID, id),
			Frame:    frame,
		}
	}
	if err := json.Unmarshal(frame, out); err != nil {
		return &flsperrors.MalformedResponseError{Expected: expected, Reason: err.Error(), Frame: frame}
	}
	return nil
}
