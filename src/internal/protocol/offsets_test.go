package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"
)

func TestPositionOffset(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		pos     protocol.Position
		offset  int
		wantErr bool
	}{
		{
			name:   "start of second line",
			text:   "x <- 1\nprint(x)\n",
			pos:    protocol.Position{Line: 1, Character: 0},
			offset: 7,
		},
		{
			name:   "middle of line",
			text:   "x <- 1\nprint(x)\n",
			pos:    protocol.Position{Line: 1, Character: 6},
			offset: 13,
		},
		{
			name:   "character past line end is clamped",
			text:   "x <- 1\nprint(x)\n",
			pos:    protocol.Position{Line: 0, Character: 40},
			offset: 6,
		},
		{
			name:   "empty last line",
			text:   "x <- 1\nprint(x)\n",
			pos:    protocol.Position{Line: 2, Character: 0},
			offset: 16,
		},
		{
			name:    "line past the end",
			text:    "x <- 1\nprint(x)\n",
			pos:     protocol.Position{Line: 5, Character: 0},
			wantErr: true,
		},
		{
			name:   "surrogate pair counts two units",
			text:   "s <- \"𐐀\"; y",
			pos:    protocol.Position{Line: 0, Character: 10},
			offset: 12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := NewLineIndex([]byte(tt.text))
			got, err := x.PositionOffset(tt.pos)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.offset, got)
		})
	}
}

func TestOffsetPosition(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		offset int
		want   protocol.Position
	}{
		{
			name:   "start",
			text:   "a\nbc\n",
			offset: 0,
			want:   protocol.Position{Line: 0, Character: 0},
		},
		{
			name:   "newline belongs to its line",
			text:   "a\nbc\n",
			offset: 1,
			want:   protocol.Position{Line: 0, Character: 1},
		},
		{
			name:   "second line",
			text:   "a\nbc\n",
			offset: 3,
			want:   protocol.Position{Line: 1, Character: 1},
		},
		{
			name:   "end of text",
			text:   "a\nbc\n",
			offset: 5,
			want:   protocol.Position{Line: 2, Character: 0},
		},
		{
			name:   "after multi byte rune",
			text:   "é=1",
			offset: 2,
			want:   protocol.Position{Line: 0, Character: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewLineIndex([]byte(tt.text)).OffsetPosition(tt.offset)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOffsetPositionOutOfRange(t *testing.T) {
	x := NewLineIndex([]byte("a\nb"))
	for _, offset := range []int{-1, 4} {
		_, err := x.OffsetPosition(offset)
		assert.Error(t, err, "offset %d", offset)
	}
}

func TestRoundTrip(t *testing.T) {
	text := []byte("library(dplyr)\n# 𐐀 comment\ndf <- read.csv(\"a.csv\")\n")
	x := NewLineIndex(text)
	for offset := 0; offset <= len(text); offset++ {
		if offset < len(text) && text[offset]&0xC0 == 0x80 {
			continue
		}
		pos, err := x.OffsetPosition(offset)
		require.NoError(t, err)
		back, err := x.PositionOffset(pos)
		require.NoError(t, err)
		assert.Equal(t, offset, back, "offset %d via %v", offset, pos)
	}
}

func TestUTF16Len(t *testing.T) {
	assert.Equal(t, 0, UTF16Len(nil))
	assert.Equal(t, 3, UTF16Len([]byte("abc")))
	assert.Equal(t, 1, UTF16Len([]byte("é")))
	assert.Equal(t, 2, UTF16Len([]byte("𐐀")))
}

func TestLineCount(t *testing.T) {
	assert.Equal(t, 1, NewLineIndex(nil).LineCount())
	assert.Equal(t, 2, NewLineIndex([]byte("a\nb")).LineCount())
	assert.Equal(t, 3, NewLineIndex([]byte("a\nb\n")).LineCount())
}
