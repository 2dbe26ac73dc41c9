package entity

import "go.lsp.dev/protocol"

// Editor methods served in addition to the LSP lifecycle and document sync methods.
const (
	MethodConnect         = "flowr/connect"
	MethodDisconnect      = "flowr/disconnect"
	MethodStatus          = "flowr/status"
	MethodToggleCriterion = "flowr/slice/toggleCriterion"
	MethodClearSlice      = "flowr/slice/clear"
	MethodReconstruct     = "flowr/slice/reconstruct"
	MethodDependencies    = "flowr/dependencies"
	// MethodRequestFullShutdown makes the next exit request stop the daemon instead of only ending the session.
	MethodRequestFullShutdown = "flowr/requestFullShutdown"
	// MethodDependenciesUpdate is sent to the editor, never received.
	MethodDependenciesUpdate = "flowr/dependencies/update"
)

// DiagnosticSource is the source reported on every published diagnostic.
const DiagnosticSource = "flowR"

// DocumentParams addresses one open document.
type DocumentParams struct {
	TextDocument protocol.TextDocumentIdentifier `json:"textDocument"`
}

// ToggleCriterionParams toggles the slicing criterion at a cursor position.
type ToggleCriterionParams struct {
	TextDocument protocol.TextDocumentIdentifier `json:"textDocument"`
	Position     protocol.Position               `json:"position"`
}

// SliceState is returned to the editor after the criteria of a document changed.
type SliceState struct {
	URI      protocol.DocumentURI `json:"uri"`
	Criteria []Criterion          `json:"criteria"`
	// Nodes is the number of source ranges currently highlighted.
	Nodes int `json:"nodes"`
}

// Reconstruction is the reconstructed code of the current slice of a document.
type Reconstruction struct {
	URI      protocol.DocumentURI `json:"uri"`
	Criteria []Criterion          `json:"criteria"`
	Code     string               `json:"code"`
}

// DependencyView is pushed to the editor with the flowr/dependencies/update notification.
type DependencyView struct {
	URI     protocol.DocumentURI `json:"uri"`
	Items   []TreeItem           `json:"items"`
	Timings map[string]float64   `json:"timings,omitempty"`
}

// Status describes the connection to the analysis server.
type Status struct {
	State  SessionState `json:"state"`
	Server string       `json:"server"`
	Info   *ServerInfo  `json:"info,omitempty"`
}
