package flowrclient

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/flowr-analysis/flowr-lsp/src/flsp/entity"
	flsperrors "github.com/flowr-analysis/flowr-lsp/src/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const _scenarioContent = "x <- 1\ny <- x + 1\n"

// _scenarioAST places n1 on the first and n2 on the second line. n0 is synthetic.
var _scenarioAST = json.RawMessage(`{
	"type": "RExpressionList",
	"info": {"id": "n0"},
	"children": [
		{"type": "RBinaryOp", "location": [1, 1, 1, 6], "info": {"id": "n1"}},
		{"type": "RBinaryOp", "location": [2, 1, 2, 11], "info": {"id": "n2"}}
	]
}`)

func analysisResponse(id interface{}) map[string]interface{} {
	return map[string]interface{}{
		"type":   TypeFileAnalysisResponse,
		"id":     id,
		"format": FormatJSON,
		"results": map[string]interface{}{
			"parse":     map[string]interface{}{},
			"normalize": map[string]interface{}{"ast": _scenarioAST},
			"dataflow":  map[string]interface{}{},
		},
	}
}

func TestRetrieveSliceScenario(t *testing.T) {
	s, server := connectedSession(t)

	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)

		analysis := server.read()
		assert.Equal(t, TypeFileAnalysisRequest, analysis["type"])
		assert.Equal(t, "0", analysis["id"])
		assert.Equal(t, "a.r", analysis["filename"])
		assert.Equal(t, _scenarioContent, analysis["content"])
		assert.Equal(t, FormatJSON, analysis["format"])
		token := analysis["filetoken"]
		assert.NotEmpty(t, token)
		server.writeJSON(analysisResponse(analysis["id"]))

		slice := server.read()
		assert.Equal(t, TypeSliceRequest, slice["type"])
		assert.Equal(t, "1", slice["id"])
		assert.Equal(t, token, slice["filetoken"])
		assert.Equal(t, []interface{}{"2:1"}, slice["criterion"])
		server.writeJSON(map[string]interface{}{
			"type": TypeSliceResponse,
			"id":   slice["id"],
			"results": map[string]interface{}{
				"slice":       map[string]interface{}{"result": []string{"n2", "n3", "n1"}},
				"reconstruct": map[string]interface{}{"code": "x <- 1\ny <- x + 1"},
			},
		})
	}()

	result, err := s.RetrieveSlice(context.Background(), "a.r", _scenarioContent, []entity.Criterion{entity.NewCriterion(2, 1)})
	require.NoError(t, err)
	<-serverDone

	assert.Equal(t, []entity.LocatedNode{
		{ID: "n1", Location: entity.SourceRange{1, 1, 1, 6}},
		{ID: "n2", Location: entity.SourceRange{2, 1, 2, 11}},
	}, result.Nodes)
	assert.Equal(t, "x <- 1\ny <- x + 1", result.Code)
	assert.Equal(t, []entity.Criterion{"2:1"}, result.Criteria)
}

func TestAnalyzeFile(t *testing.T) {
	t.Run("collects locations", func(t *testing.T) {
		s, server := connectedSession(t)
		go func() {
			req := server.read()
			server.writeJSON(analysisResponse(req["id"]))
		}()

		analysis, err := s.AnalyzeFile(context.Background(), "token-1", "a.r", _scenarioContent)
		require.NoError(t, err)
		assert.Equal(t, "token-1", analysis.FileToken)
		assert.Len(t, analysis.Locations, 2)
		assert.JSONEq(t, string(_scenarioAST), string(analysis.AST))
	})

	t.Run("missing ast", func(t *testing.T) {
		s, server := connectedSession(t)
		go func() {
			req := server.read()
			server.writeJSON(map[string]interface{}{"type": TypeFileAnalysisResponse, "id": req["id"], "results": map[string]interface{}{}})
		}()

		_, err := s.AnalyzeFile(context.Background(), "token-1", "a.r", _scenarioContent)
		assert.True(t, flsperrors.IsMalformedResponse(err))
		assert.Equal(t, entity.SessionStateConnected, s.State())
	})

	t.Run("remote error keeps the session", func(t *testing.T) {
		s, server := connectedSession(t)
		go func() {
			req := server.read()
			server.writeJSON(map[string]interface{}{"type": TypeError, "id": req["id"], "fatal": false, "reason": "parse error"})
			req = server.read()
			server.writeJSON(analysisResponse(req["id"]))
		}()

		_, err := s.AnalyzeFile(context.Background(), "token-1", "a.r", "x <-")
		require.True(t, flsperrors.IsRemoteQuery(err))
		var remote *flsperrors.RemoteQueryError
		require.ErrorAs(t, err, &remote)
		assert.Equal(t, "0", remote.RequestID)
		assert.Equal(t, "parse error", remote.Reason)
		assert.False(t, flsperrors.IsSessionTerminal(err))

		_, err = s.AnalyzeFile(context.Background(), "token-2", "a.r", _scenarioContent)
		assert.NoError(t, err)
	})

	t.Run("mismatched id", func(t *testing.T) {
		s, server := connectedSession(t)
		go func() {
			server.read()
			server.writeJSON(analysisResponse("17"))
		}()

		_, err := s.AnalyzeFile(context.Background(), "token-1", "a.r", _scenarioContent)
		assert.True(t, flsperrors.IsMalformedResponse(err))
	})

	t.Run("invalid frame", func(t *testing.T) {
		s, server := connectedSession(t)
		go func() {
			server.read()
			server.write("{")
		}()

		_, err := s.AnalyzeFile(context.Background(), "token-1", "a.r", _scenarioContent)
		assert.True(t, flsperrors.IsMalformedResponse(err))
	})
}

func TestSliceRequiresCriteria(t *testing.T) {
	s, _ := connectedSession(t)
	_, err := s.Slice(context.Background(), "token", nil)
	assert.Error(t, err)
}

func TestQuery(t *testing.T) {
	s, server := connectedSession(t)
	go func() {
		req := server.read()
		assert.Equal(t, TypeQueryRequest, req["type"])
		assert.Equal(t, []interface{}{
			map[string]interface{}{"type": "dependencies"},
			map[string]interface{}{"type": "location-map"},
		}, req["query"])
		server.write(`{"type":"response-query","id":"` + req["id"].(string) + `","results":{` +
			`"dependencies":{".meta":{"timing":4},"libraries":[]},` +
			`"location-map":{".meta":{"timing":2},"map":{"ids":{}}},` +
			`".meta":{"timing":7}}}`)
	}()

	bundle, err := s.Query(context.Background(), "token", []entity.Query{
		{Type: entity.QueryDependencies},
		{Type: entity.QueryLocationMap},
	})
	require.NoError(t, err)
	assert.Len(t, bundle.Results, 2)
	assert.Equal(t, map[string]float64{"dependencies": 4, "location-map": 2}, bundle.Timings)
	assert.Equal(t, float64(7), bundle.Total)
}

func TestQueryMissingResult(t *testing.T) {
	s, server := connectedSession(t)
	go func() {
		req := server.read()
		server.writeJSON(map[string]interface{}{
			"type":    TypeQueryResponse,
			"id":      req["id"],
			"results": map[string]interface{}{"dependencies": map[string]interface{}{}},
		})
	}()

	_, err := s.Query(context.Background(), "token", []entity.Query{{Type: entity.QueryLocationMap}})
	assert.True(t, flsperrors.IsMalformedResponse(err))
}

func TestRetrieveDependencies(t *testing.T) {
	s, server := connectedSession(t)
	go func() {
		req := server.read()
		server.writeJSON(analysisResponse(req["id"]))

		req = server.read()
		server.write(`{"type":"response-query","id":"` + req["id"].(string) + `","results":{` +
			`"dependencies":{".meta":{"timing":4},` +
			`"libraries":[{"nodeId":"n1","functionName":"library","libraryName":"dplyr"}],` +
			`"readData":[{"nodeId":"n9","functionName":"read.csv","source":"data.csv"}],` +
			`"sourcedFiles":[],"writtenData":[]},` +
			`"location-map":{".meta":{"timing":2},"map":{"files":["a.r"],"ids":{"n9":[0,[3,1,3,20]]}}},` +
			`".meta":{"timing":7}}}`)
	}()

	deps, err := s.RetrieveDependencies(context.Background(), "a.r", _scenarioContent)
	require.NoError(t, err)
	require.Len(t, deps.Records, 2)

	assert.Equal(t, "dplyr", deps.Records[0].Name)
	require.NotNil(t, deps.Records[0].Location)
	assert.Equal(t, entity.SourceRange{1, 1, 1, 6}, *deps.Records[0].Location)

	assert.Equal(t, entity.DependencyRead, deps.Records[1].Kind)
	require.NotNil(t, deps.Records[1].Location)
	assert.Equal(t, entity.SourceRange{3, 1, 3, 20}, *deps.Records[1].Location)
	assert.Equal(t, float64(4), deps.Timings["dependencies"])
}

func TestRetrieveQuery(t *testing.T) {
	s, server := connectedSession(t)
	go func() {
		analysis := server.read()
		server.writeJSON(analysisResponse(analysis["id"]))
		query := server.read()
		assert.Equal(t, analysis["filetoken"], query["filetoken"])
		server.writeJSON(map[string]interface{}{
			"type":    TypeQueryResponse,
			"id":      query["id"],
			"results": map[string]interface{}{"location-map": map[string]interface{}{"map": map[string]interface{}{"ids": map[string]interface{}{}}}},
		})
	}()

	bundle, err := s.RetrieveQuery(context.Background(), "a.r", _scenarioContent, []entity.Query{{Type: entity.QueryLocationMap}})
	require.NoError(t, err)
	assert.Contains(t, bundle.Results, entity.QueryLocationMap)
}
