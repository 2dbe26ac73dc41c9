package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const (
	_formatText = "text"
	_formatJSON = "json"
	_formatYAML = "yaml"
)

func checkFormat(format string) error {
	switch format {
	case _formatText, _formatJSON, _formatYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q, use text, json or yaml", format)
	}
}

// render writes v in the requested format. text is used for the text format.
func render(w io.Writer, format string, v interface{}, text func(io.Writer) error) error {
	switch format {
	case _formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case _formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return text(w)
	}
}
