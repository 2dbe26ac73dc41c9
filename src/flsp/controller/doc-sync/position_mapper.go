package docsync

import (
	"errors"

	protocolmapper "github.com/flowr-analysis/flowr-lsp/src/internal/protocol"
	"github.com/sergi/go-diff/diffmatchpatch"
	"go.lsp.dev/protocol"
)

// PositionMapper maps positions in the text an analysis ran on onto the current text of the document.
type PositionMapper interface {
	// MapPosition maps a position in the analyzed text to the current text.
	// deleted is true when the position lies in text that has since been removed.
	MapPosition(analyzed protocol.Position) (current protocol.Position, deleted bool, err error)
	// MapRange maps both ends of a range. A range is deleted when its start was removed
	// or when it collapsed to nothing.
	MapRange(analyzed protocol.Range) (current protocol.Range, deleted bool, err error)
}

type documentPositionMapper struct {
	modified bool
	analyzed *protocolmapper.LineIndex
	current  *protocolmapper.LineIndex
	diffs    []diffmatchpatch.Diff // analyzed to current
}

// NewPositionMapper creates a position mapper from analyzedText to currentText.
func NewPositionMapper(analyzedText, currentText string) PositionMapper {
	if analyzedText == currentText {
		return &documentPositionMapper{modified: false}
	}

	dmp := diffmatchpatch.New()
	return &documentPositionMapper{
		modified: true,
		analyzed: protocolmapper.NewLineIndex([]byte(analyzedText)),
		current:  protocolmapper.NewLineIndex([]byte(currentText)),
		diffs:    dmp.DiffMain(analyzedText, currentText, false),
	}
}

func (m *documentPositionMapper) MapPosition(position protocol.Position) (protocol.Position, bool, error) {
	if !m.modified {
		return position, false, nil
	}
	if m.analyzed == nil || m.current == nil {
		return position, false, errors.New("position mapper not initialized")
	}

	offset, err := m.analyzed.PositionOffset(position)
	if err != nil {
		return position, false, err
	}

	shifted, deleted := diffXIndex(m.diffs, offset)
	result, err := m.current.OffsetPosition(shifted)
	if err != nil {
		return position, deleted, err
	}
	return result, deleted, nil
}

func (m *documentPositionMapper) MapRange(r protocol.Range) (protocol.Range, bool, error) {
	if !m.modified {
		return r, false, nil
	}

	start, startDeleted, err := m.MapPosition(r.Start)
	if err != nil {
		return r, false, err
	}
	end, _, err := m.MapPosition(r.End)
	if err != nil {
		return r, false, err
	}

	mapped := protocol.Range{Start: start, End: end}
	collapsed := start == end && r.Start != r.End
	return mapped, startDeleted || collapsed, nil
}

// diffXIndex returns the offset in the target text of loc after applying diffs,
// and whether loc was inside a deletion.
// Adapted from diffmatchpatch.DiffXIndex with the deletion flag added.
func diffXIndex(diffs []diffmatchpatch.Diff, loc int) (int, bool) {
	chars1 := 0
	chars2 := 0
	lastChars1 := 0
	lastChars2 := 0
	lastDiff := diffmatchpatch.Diff{}
	for i := 0; i < len(diffs); i++ {
		aDiff := diffs[i]
		if aDiff.Type != diffmatchpatch.DiffInsert {
			chars1 += len(aDiff.Text)
		}
		if aDiff.Type != diffmatchpatch.DiffDelete {
			chars2 += len(aDiff.Text)
		}
		if chars1 > loc {
			lastDiff = aDiff
			break
		}
		lastChars1 = chars1
		lastChars2 = chars2
	}
	if lastDiff.Type == diffmatchpatch.DiffDelete {
		return lastChars2, true
	}
	return lastChars2 + (loc - lastChars1), false
}
