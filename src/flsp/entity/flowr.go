// Package entity contains the domain types shared by the flsp daemon.
package entity

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// SessionState describes where a connection to the analysis server is in its lifecycle.
type SessionState string

const (
	// SessionStateConnecting indicates that the transport is being opened or the handshake is pending.
	SessionStateConnecting SessionState = "connecting"
	// SessionStateConnected indicates that the handshake completed and queries may be issued.
	SessionStateConnected SessionState = "connected"
	// SessionStateDisconnected indicates that the session was destroyed or the server closed the connection.
	SessionStateDisconnected SessionState = "disconnected"
	// SessionStateFailed indicates that the transport failed while connecting or serving requests.
	SessionStateFailed SessionState = "failed"
)

// Terminal reports whether no further queries can be issued in this state.
func (s SessionState) Terminal() bool {
	return s == SessionStateDisconnected || s == SessionStateFailed
}

// ServerInfo holds the metadata negotiated during the handshake.
type ServerInfo struct {
	ClientName   string `json:"clientName" yaml:"clientName"`
	FlowrVersion string `json:"flowr" yaml:"flowr"`
	RVersion     string `json:"r" yaml:"r"`
	Engine       string `json:"engine" yaml:"engine"`
	// Compatible is false when the server is older than the configured minimum version.
	Compatible bool `json:"compatible" yaml:"compatible"`
}

// NodeID is an opaque identifier of a normalized AST node, scoped to one analyzed file.
type NodeID string

// UnmarshalJSON accepts both numeric and string identifiers as used by the server.
func (n *NodeID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*n = NodeID(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return fmt.Errorf("node id must be a string or number, got %s", string(b))
	}
	*n = NodeID(num.String())
	return nil
}

// SourceRange is a server reported range: start line, start column, end line, end column.
// Lines are 1-based and the range is inclusive. Values are passed through unmodified.
type SourceRange [4]int

// StartLine returns the first line of the range.
func (r SourceRange) StartLine() int { return r[0] }

// StartColumn returns the first column of the range.
func (r SourceRange) StartColumn() int { return r[1] }

// EndLine returns the last line of the range.
func (r SourceRange) EndLine() int { return r[2] }

// EndColumn returns the last column of the range.
func (r SourceRange) EndColumn() int { return r[3] }

// String implements fmt.Stringer.
func (r SourceRange) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r[0], r[1], r[2], r[3])
}

// Less orders ranges by start line, then start column, then end position.
func (r SourceRange) Less(o SourceRange) bool {
	for i := range r {
		if r[i] != o[i] {
			return r[i] < o[i]
		}
	}
	return false
}

// LocationMap maps node identifiers to their source ranges.
type LocationMap map[NodeID]SourceRange

// LocatedNode pairs a node identifier with its source range.
type LocatedNode struct {
	ID       NodeID      `json:"id" yaml:"id"`
	Location SourceRange `json:"location" yaml:"location"`
}

// Criterion is a slicing criterion in the "line:column" form expected by the server.
type Criterion string

// NewCriterion builds a criterion from a 1-based line and column.
func NewCriterion(line, column int) Criterion {
	return Criterion(strconv.Itoa(line) + ":" + strconv.Itoa(column))
}

// Fingerprint is normalized document text used as a cache key.
type Fingerprint string

// FileAnalysis is the part of a file analysis response that the daemon consumes.
type FileAnalysis struct {
	FileToken string          `json:"filetoken"`
	AST       json.RawMessage `json:"-"`
	Locations LocationMap     `json:"-"`
}

// SliceResult is the set of node identifiers returned by the slicer together with the reconstructed code.
type SliceResult struct {
	IDs  []NodeID `json:"ids"`
	Code string   `json:"code"`
}

// Slice is a reconciled slice ready to be rendered.
type Slice struct {
	Criteria []Criterion   `json:"criteria" yaml:"criteria"`
	Code     string        `json:"code" yaml:"code"`
	Nodes    []LocatedNode `json:"nodes" yaml:"nodes"`
}

// Query names a catalog query to be evaluated server-side.
type Query struct {
	Type string `json:"type"`
}

const (
	// QueryDependencies extracts library loads, data reads/writes and sourced scripts.
	QueryDependencies = "dependencies"
	// QueryLocationMap returns the node identifier to location map of the analyzed file.
	QueryLocationMap = "location-map"
)

// QueryBundle is a keyed set of catalog query results with their timing metadata.
type QueryBundle struct {
	Results map[string]json.RawMessage
	// Timings holds the per-query evaluation time in milliseconds, keyed like Results.
	Timings map[string]float64
	// Total is the server reported time for the whole batch.
	Total float64
}
