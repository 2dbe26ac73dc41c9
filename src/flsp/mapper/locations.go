package mapper

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/flowr-analysis/flowr-lsp/src/flsp/entity"
)

const (
	_keyInfo     = "info"
	_keyID       = "id"
	_keyLocation = "location"
)

// LocationMapFromAST walks a normalized AST and records the location of every node
// that carries both an info.id and a four element location. Other nodes are skipped.
func LocationMapFromAST(ast json.RawMessage) (entity.LocationMap, error) {
	root, err := decodeTree(ast)
	if err != nil {
		return nil, fmt.Errorf("decoding normalized AST: %w", err)
	}
	if _, ok := root.(map[string]interface{}); !ok {
		return nil, errors.New("normalized AST root is not an object")
	}

	locations := entity.LocationMap{}
	walk(root, func(node map[string]interface{}) {
		info, ok := node[_keyInfo].(map[string]interface{})
		if !ok {
			return
		}
		id, ok := nodeID(info[_keyID])
		if !ok {
			return
		}
		r, ok := sourceRange(node[_keyLocation])
		if !ok {
			return
		}
		locations[id] = r
	})
	return locations, nil
}

// LocationMapFromQuery decodes the result of the location-map catalog query.
// Entries are either a plain range or a [file index, range] pair.
func LocationMapFromQuery(raw json.RawMessage) (entity.LocationMap, error) {
	if len(raw) == 0 {
		return nil, errors.New("location map query result is missing")
	}
	var result struct {
		Map struct {
			IDs map[string]json.RawMessage `json:"ids"`
		} `json:"map"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decoding location map: %w", err)
	}

	locations := make(entity.LocationMap, len(result.Map.IDs))
	for id, entry := range result.Map.IDs {
		value, err := decodeTree(entry)
		if err != nil {
			return nil, fmt.Errorf("decoding location of node %s: %w", id, err)
		}
		if r, ok := sourceRange(value); ok {
			locations[entity.NodeID(id)] = r
			continue
		}
		pair, ok := value.([]interface{})
		if !ok || len(pair) != 2 {
			continue
		}
		if r, ok := sourceRange(pair[1]); ok {
			locations[entity.NodeID(id)] = r
		}
	}
	return locations, nil
}

func decodeTree(raw json.RawMessage) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// walk calls visit for every object in the tree, parents before children.
func walk(v interface{}, visit func(map[string]interface{})) {
	switch t := v.(type) {
	case map[string]interface{}:
		visit(t)
		for _, child := range t {
			walk(child, visit)
		}
	case []interface{}:
		for _, child := range t {
			walk(child, visit)
		}
	}
}

func nodeID(v interface{}) (entity.NodeID, bool) {
	switch t := v.(type) {
	case string:
		return entity.NodeID(t), t != ""
	case json.Number:
		return entity.NodeID(t.String()), true
	default:
		return "", false
	}
}

func sourceRange(v interface{}) (entity.SourceRange, bool) {
	values, ok := v.([]interface{})
	if !ok || len(values) != len(entity.SourceRange{}) {
		return entity.SourceRange{}, false
	}
	var r entity.SourceRange
	for i, value := range values {
		n, ok := value.(json.Number)
		if !ok {
			return entity.SourceRange{}, false
		}
		i64, err := n.Int64()
		if err != nil {
			return entity.SourceRange{}, false
		}
		r[i] = int(i64)
	}
	return r, true
}
