// Package protocol converts between editor positions (0-based line, UTF-16 character)
// and byte offsets into document text.
package protocol

import (
	"fmt"
	"sort"
	"sync"
	"unicode/utf8"

	"go.lsp.dev/protocol"
)

// LineIndex converts between byte offsets and protocol positions for one text.
type LineIndex struct {
	Content []byte

	once      sync.Once
	lineStart []int // byte offset of the start of each line
	ascii     bool
}

// NewLineIndex creates an index over content. Line starts are computed on first use.
func NewLineIndex(content []byte) *LineIndex {
	return &LineIndex{Content: content}
}

func (x *LineIndex) init() {
	x.once.Do(func() {
		x.lineStart = []int{0}
		x.ascii = true
		for i, b := range x.Content {
			if b == '\n' {
				x.lineStart = append(x.lineStart, i+1)
			}
			if b >= utf8.RuneSelf {
				x.ascii = false
			}
		}
	})
}

// LineCount returns the number of lines, counting a trailing partial line.
func (x *LineIndex) LineCount() int {
	x.init()
	return len(x.lineStart)
}

// PositionOffset returns the byte offset of p. A character past the end of its line
// is clamped to the line end, a line past the end of the text is an error.
func (x *LineIndex) PositionOffset(p protocol.Position) (int, error) {
	x.init()
	line := int(p.Line)
	if line >= len(x.lineStart) {
		return 0, fmt.Errorf("line %d is beyond the end of the text (%d lines)", line, len(x.lineStart))
	}

	start := x.lineStart[line]
	end := len(x.Content)
	if line+1 < len(x.lineStart) {
		end = x.lineStart[line+1] - 1
	}
	text := x.Content[start:end]

	if x.ascii {
		if int(p.Character) > len(text) {
			return end, nil
		}
		return start + int(p.Character), nil
	}

	units := 0
	for i := 0; i < len(text); {
		if units >= int(p.Character) {
			return start + i, nil
		}
		r, size := utf8.DecodeRune(text[i:])
		units += utf16Width(r)
		i += size
	}
	return end, nil
}

// OffsetPosition returns the position of a byte offset.
func (x *LineIndex) OffsetPosition(offset int) (protocol.Position, error) {
	if offset < 0 || offset > len(x.Content) {
		return protocol.Position{}, fmt.Errorf("offset %d is out of range [0, %d]", offset, len(x.Content))
	}
	x.init()
	line := sort.Search(len(x.lineStart), func(i int) bool { return x.lineStart[i] > offset }) - 1
	start := x.lineStart[line]

	if x.ascii {
		return protocol.Position{Line: uint32(line), Character: uint32(offset - start)}, nil
	}
	return protocol.Position{Line: uint32(line), Character: uint32(UTF16Len(x.Content[start:offset]))}, nil
}

// UTF16Len returns the number of UTF-16 code units needed to encode s.
func UTF16Len(s []byte) int {
	n := 0
	for len(s) > 0 {
		r, size := utf8.DecodeRune(s)
		n += utf16Width(r)
		s = s[size:]
	}
	return n
}

func utf16Width(r rune) int {
	if r >= 0x10000 {
		return 2
	}
	return 1
}
