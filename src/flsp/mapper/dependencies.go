package mapper

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/flowr-analysis/flowr-lsp/src/flsp/entity"
)

// dependencyInfo is the common shape of every entry of the dependencies query.
// Only the name field differs between categories.
type dependencyInfo struct {
	NodeID       entity.NodeID `json:"nodeId"`
	FunctionName string        `json:"functionName"`
	LibraryName  string        `json:"libraryName"`
	Source       string        `json:"source"`
	File         string        `json:"file"`
	Destination  string        `json:"destination"`
	Lexeme       string        `json:"lexemeOfArgument"`
}

type dependenciesResult struct {
	Libraries    []dependencyInfo `json:"libraries"`
	SourcedFiles []dependencyInfo `json:"sourcedFiles"`
	ReadData     []dependencyInfo `json:"readData"`
	WrittenData  []dependencyInfo `json:"writtenData"`
}

// DependencyKinds lists the dependency categories in presentation order.
var DependencyKinds = []entity.DependencyKind{
	entity.DependencyLibrary,
	entity.DependencyRead,
	entity.DependencySource,
	entity.DependencyWrite,
}

var _icons = map[entity.DependencyKind]string{
	entity.DependencyLibrary: "library",
	entity.DependencyRead:    "file-import",
	entity.DependencySource:  "file-code",
	entity.DependencyWrite:   "save",
}

// DependenciesFromQuery decodes the dependencies catalog query result into records,
// resolving each record's location through locations when the node is known.
func DependenciesFromQuery(raw json.RawMessage, locations entity.LocationMap) ([]entity.DependencyRecord, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("dependencies query result is missing")
	}
	var result dependenciesResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decoding dependencies: %w", err)
	}

	records := make([]entity.DependencyRecord, 0,
		len(result.Libraries)+len(result.ReadData)+len(result.SourcedFiles)+len(result.WrittenData))
	add := func(kind entity.DependencyKind, infos []dependencyInfo, name func(dependencyInfo) string) {
		for _, info := range infos {
			record := entity.DependencyRecord{
				Kind:         kind,
				Name:         name(info),
				FunctionName: info.FunctionName,
				Lexeme:       info.Lexeme,
				NodeID:       info.NodeID,
			}
			if r, ok := locations[info.NodeID]; ok {
				r := r
				record.Location = &r
			}
			records = append(records, record)
		}
	}
	add(entity.DependencyLibrary, result.Libraries, func(d dependencyInfo) string { return d.LibraryName })
	add(entity.DependencyRead, result.ReadData, func(d dependencyInfo) string { return d.Source })
	add(entity.DependencySource, result.SourcedFiles, func(d dependencyInfo) string { return d.File })
	add(entity.DependencyWrite, result.WrittenData, func(d dependencyInfo) string { return d.Destination })
	return records, nil
}

// DependencyTree groups records by kind into one tree item per category.
// Every category is present, empty ones without children.
func DependencyTree(records []entity.DependencyRecord) []entity.TreeItem {
	byKind := make(map[entity.DependencyKind][]entity.TreeItem, len(DependencyKinds))
	for _, record := range records {
		item := entity.TreeItem{
			Label:       record.DisplayName(),
			Description: record.FunctionName,
			Icon:        _icons[record.Kind],
			Location:    record.Location,
		}
		if record.Location != nil {
			item.Description = fmt.Sprintf("%s at line %d", record.FunctionName, record.Location.StartLine())
		}
		byKind[record.Kind] = append(byKind[record.Kind], item)
	}

	tree := make([]entity.TreeItem, 0, len(DependencyKinds))
	for _, kind := range DependencyKinds {
		children := byKind[kind]
		tree = append(tree, entity.TreeItem{
			Label:       kind.Label(),
			Description: strconv.Itoa(len(children)),
			Icon:        _icons[kind],
			Children:    children,
		})
	}
	return tree
}
