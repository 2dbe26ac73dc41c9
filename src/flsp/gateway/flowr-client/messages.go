package flowrclient

import (
	"encoding/json"

	"github.com/flowr-analysis/flowr-lsp/src/flsp/entity"
)

// Message types of the analysis server protocol.
const (
	TypeHello                = "hello"
	TypeError                = "error"
	TypeFileAnalysisRequest  = "request-file-analysis"
	TypeFileAnalysisResponse = "response-file-analysis"
	TypeSliceRequest         = "request-slice"
	TypeSliceResponse        = "response-slice"
	TypeQueryRequest         = "request-query"
	TypeQueryResponse        = "response-query"
)

// FormatJSON requests analysis results as nested JSON.
const FormatJSON = "json"

// FileAnalysisRequest uploads content under a file token and asks for its analysis.
type FileAnalysisRequest struct {
	Type      string `json:"type"`
	ID        string `json:"id"`
	FileToken string `json:"filetoken"`
	Filename  string `json:"filename"`
	Content   string `json:"content"`
	Format    string `json:"format"`
}

// SliceRequest slices a previously analyzed file.
type SliceRequest struct {
	Type      string             `json:"type"`
	ID        string             `json:"id"`
	FileToken string             `json:"filetoken"`
	Criterion []entity.Criterion `json:"criterion"`
}

// QueryRequest evaluates a batch of catalog queries against a previously analyzed file.
type QueryRequest struct {
	Type      string         `json:"type"`
	ID        string         `json:"id"`
	FileToken string         `json:"filetoken"`
	Query     []entity.Query `json:"query"`
}

// envelope holds the fields shared by every server message.
type envelope struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`
}

type helloMessage struct {
	ClientName string `json:"clientName"`
	Versions   struct {
		Flowr  string `json:"flowr"`
		R      string `json:"r"`
		Engine string `json:"engine"`
	} `json:"versions"`
}

type errorMessage struct {
	Fatal  bool   `json:"fatal"`
	Reason string `json:"reason"`
}

type fileAnalysisResponse struct {
	Format  string `json:"format"`
	Results struct {
		Normalize struct {
			AST json.RawMessage `json:"ast"`
		} `json:"normalize"`
	} `json:"results"`
}

type sliceResponse struct {
	Results struct {
		Slice struct {
			Result []entity.NodeID `json:"result"`
		} `json:"slice"`
		Reconstruct struct {
			Code string `json:"code"`
		} `json:"reconstruct"`
	} `json:"results"`
}

type queryResponse struct {
	Results map[string]json.RawMessage `json:"results"`
}

// queryMeta is the ".meta" member present on every query result and on the batch itself.
type queryMeta struct {
	Meta struct {
		Timing float64 `json:"timing"`
	} `json:".meta"`
}

const _metaKey = ".meta"
