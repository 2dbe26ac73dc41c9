package mapper

import (
	"encoding/json"
	"testing"

	"github.com/flowr-analysis/flowr-lsp/src/flsp/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const _sampleDependencies = `{
	".meta": {"timing": 3},
	"libraries": [
		{"nodeId": 3, "functionName": "library", "libraryName": "dplyr"},
		{"nodeId": 9, "functionName": "require", "libraryName": "<unknown>", "lexemeOfArgument": "pkg"}
	],
	"sourcedFiles": [{"nodeId": "12", "functionName": "source", "file": "helpers.R"}],
	"readData": [{"nodeId": 20, "functionName": "read.csv", "source": "data.csv"}],
	"writtenData": [{"nodeId": 31, "functionName": "write.csv", "destination": "<unknown>"}]
}`

func TestDependenciesFromQuery(t *testing.T) {
	locations := entity.LocationMap{
		"3":  {1, 1, 1, 14},
		"20": {4, 6, 4, 25},
	}

	records, err := DependenciesFromQuery(json.RawMessage(_sampleDependencies), locations)
	require.NoError(t, err)
	require.Len(t, records, 5)

	lib := entity.SourceRange{1, 1, 1, 14}
	read := entity.SourceRange{4, 6, 4, 25}
	assert.Equal(t, []entity.DependencyRecord{
		{Kind: entity.DependencyLibrary, Name: "dplyr", FunctionName: "library", NodeID: "3", Location: &lib},
		{Kind: entity.DependencyLibrary, Name: entity.UnknownName, FunctionName: "require", Lexeme: "pkg", NodeID: "9"},
		{Kind: entity.DependencyRead, Name: "data.csv", FunctionName: "read.csv", NodeID: "20", Location: &read},
		{Kind: entity.DependencySource, Name: "helpers.R", FunctionName: "source", NodeID: "12"},
		{Kind: entity.DependencyWrite, Name: entity.UnknownName, FunctionName: "write.csv", NodeID: "31"},
	}, records)
}

func TestDependenciesFromQueryErrors(t *testing.T) {
	_, err := DependenciesFromQuery(nil, nil)
	assert.Error(t, err)

	_, err = DependenciesFromQuery(json.RawMessage(`{"libraries": {}}`), nil)
	assert.Error(t, err)
}

func TestDependencyTree(t *testing.T) {
	records, err := DependenciesFromQuery(json.RawMessage(_sampleDependencies), entity.LocationMap{"3": {1, 1, 1, 14}})
	require.NoError(t, err)

	tree := DependencyTree(records)
	require.Len(t, tree, len(DependencyKinds))

	labels := make([]string, 0, len(tree))
	for _, item := range tree {
		labels = append(labels, item.Label)
	}
	assert.Equal(t, []string{"Libraries", "Imported Data", "Sourced Scripts", "Outputs"}, labels)

	libraries := tree[0]
	assert.Equal(t, "2", libraries.Description)
	require.Len(t, libraries.Children, 2)
	assert.Equal(t, "dplyr", libraries.Children[0].Label)
	assert.Equal(t, "library at line 1", libraries.Children[0].Description)
	assert.NotNil(t, libraries.Children[0].Location)
	assert.Equal(t, "pkg", libraries.Children[1].Label)
	assert.Equal(t, "require", libraries.Children[1].Description)

	outputs := tree[3]
	require.Len(t, outputs.Children, 1)
	assert.Equal(t, entity.UnknownName, outputs.Children[0].Label)
}

func TestDependencyTreeEmpty(t *testing.T) {
	tree := DependencyTree(nil)
	require.Len(t, tree, 4)
	for _, item := range tree {
		assert.Equal(t, "0", item.Description)
		assert.Empty(t, item.Children)
	}
}
