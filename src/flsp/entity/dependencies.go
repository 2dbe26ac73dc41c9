package entity

// DependencyKind classifies a dependency edge reported by the server.
type DependencyKind string

const (
	// DependencyLibrary is a library or package load.
	DependencyLibrary DependencyKind = "library"
	// DependencyRead is a data read, e.g. read.csv.
	DependencyRead DependencyKind = "read"
	// DependencySource is a sourced script.
	DependencySource DependencyKind = "source"
	// DependencyWrite is a data write, e.g. write.csv or a plot device.
	DependencyWrite DependencyKind = "write"
)

// Label returns the human readable category for a dependency kind.
func (k DependencyKind) Label() string {
	switch k {
	case DependencyLibrary:
		return "Libraries"
	case DependencyRead:
		return "Imported Data"
	case DependencySource:
		return "Sourced Scripts"
	case DependencyWrite:
		return "Outputs"
	default:
		return string(k)
	}
}

// UnknownName is used when neither the name nor a lexeme could be determined statically.
const UnknownName = "<unknown>"

// DependencyRecord is one dependency edge.
type DependencyRecord struct {
	Kind         DependencyKind `json:"kind" yaml:"kind"`
	Name         string         `json:"name" yaml:"name"`
	FunctionName string         `json:"functionName" yaml:"functionName"`
	// Lexeme is the raw source text of the argument, used when Name is statically unknown.
	Lexeme   string       `json:"lexeme,omitempty" yaml:"lexeme,omitempty"`
	NodeID   NodeID       `json:"nodeId" yaml:"nodeId"`
	Location *SourceRange `json:"location,omitempty" yaml:"location,omitempty"`
}

// DisplayName returns the name to present, falling back to the lexeme and then to UnknownName.
func (d DependencyRecord) DisplayName() string {
	if d.Name != "" && d.Name != UnknownName {
		return d.Name
	}
	if d.Lexeme != "" {
		return d.Lexeme
	}
	return UnknownName
}

// Dependencies is the result bundle rendered by the dependency view.
type Dependencies struct {
	Records []DependencyRecord `json:"records" yaml:"records"`
	// Timings holds per query evaluation time in milliseconds.
	Timings map[string]float64 `json:"timings" yaml:"timings"`
}

// TreeItem is one node of the hierarchical structure handed to the tree rendering sink.
type TreeItem struct {
	Label       string       `json:"label"`
	Description string       `json:"description,omitempty"`
	Icon        string       `json:"icon,omitempty"`
	Location    *SourceRange `json:"location,omitempty"`
	Children    []TreeItem   `json:"children,omitempty"`
}
