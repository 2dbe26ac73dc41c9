package mapper

import (
	"encoding/json"
	"testing"

	"github.com/flowr-analysis/flowr-lsp/src/flsp/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const _sampleAST = `{
	"type": "RExpressionList",
	"info": {"id": 7},
	"children": [
		{
			"type": "RBinaryOp",
			"location": [1, 3, 1, 4],
			"info": {"id": 2},
			"lhs": {"type": "RSymbol", "location": [1, 1, 1, 1], "lexeme": "x", "info": {"id": 0}},
			"rhs": {"type": "RNumber", "location": [1, 6, 1, 6], "lexeme": "1", "info": {"id": 1}}
		},
		{
			"type": "RFunctionCall",
			"location": [2, 1, 2, 5],
			"info": {"id": "6"},
			"arguments": [
				{"type": "RArgument", "location": [2, 7, 2, 7], "info": {"id": 5}},
				{"type": "RSymbol", "location": [2, 7], "info": {"id": 4}}
			]
		}
	]
}`

func TestLocationMapFromAST(t *testing.T) {
	t.Run("collects every located node", func(t *testing.T) {
		locations, err := LocationMapFromAST(json.RawMessage(_sampleAST))
		require.NoError(t, err)
		assert.Equal(t, entity.LocationMap{
			"0": {1, 1, 1, 1},
			"1": {1, 6, 1, 6},
			"2": {1, 3, 1, 4},
			"5": {2, 7, 2, 7},
			"6": {2, 1, 2, 5},
		}, locations)
	})

	t.Run("root without location is skipped", func(t *testing.T) {
		locations, err := LocationMapFromAST(json.RawMessage(_sampleAST))
		require.NoError(t, err)
		assert.NotContains(t, locations, entity.NodeID("7"))
	})

	t.Run("malformed location is skipped", func(t *testing.T) {
		locations, err := LocationMapFromAST(json.RawMessage(_sampleAST))
		require.NoError(t, err)
		assert.NotContains(t, locations, entity.NodeID("4"))
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := LocationMapFromAST(json.RawMessage(`{"info":`))
		assert.Error(t, err)
	})

	t.Run("root must be an object", func(t *testing.T) {
		_, err := LocationMapFromAST(json.RawMessage(`[1, 2]`))
		assert.Error(t, err)
	})
}

func TestLocationMapFromQuery(t *testing.T) {
	t.Run("file indexed and plain entries", func(t *testing.T) {
		raw := json.RawMessage(`{
			".meta": {"timing": 1},
			"map": {
				"files": ["a.R"],
				"ids": {
					"0": [0, [1, 1, 1, 6]],
					"1": [2, 1, 2, 11],
					"2": [0, [3]],
					"3": "broken"
				}
			}
		}`)
		locations, err := LocationMapFromQuery(raw)
		require.NoError(t, err)
		assert.Equal(t, entity.LocationMap{
			"0": {1, 1, 1, 6},
			"1": {2, 1, 2, 11},
		}, locations)
	})

	t.Run("missing result", func(t *testing.T) {
		_, err := LocationMapFromQuery(nil)
		assert.Error(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := LocationMapFromQuery(json.RawMessage(`{"map": 3}`))
		assert.Error(t, err)
	})
}
