package source

import "fmt"

// Location is a span of source text. FirstOffset is inclusive and LastOffset
// exclusive, both 0-based byte offsets; Line is the 1-based line of FirstOffset.
type Location struct {
	Source      *SourceFile
	Line        int
	FirstOffset int
	LastOffset  int
}

// NewLocation builds a location for the byte range [first, last) of src.
func NewLocation(src *SourceFile, first, last int) Location {
	line := 1
	if src != nil {
		line = src.LineAt(first)
	}
	return Location{Source: src, Line: line, FirstOffset: first, LastOffset: last}
}

// WithLineAndOffset builds an empty location at the given line and offset.
func WithLineAndOffset(src *SourceFile, line, offset int) Location {
	return Location{Source: src, Line: line, FirstOffset: offset, LastOffset: offset}
}

// CombineWith returns the smallest location covering both l and other.
func (l Location) CombineWith(other Location) Location {
	result := l
	if other.FirstOffset < l.FirstOffset {
		result.FirstOffset = other.FirstOffset
		result.Line = other.Line
	}
	if other.LastOffset > result.LastOffset {
		result.LastOffset = other.LastOffset
	}
	return result
}

// Text returns the source text the location covers.
func (l Location) Text() string {
	if l.Source == nil {
		return ""
	}
	first, last := l.FirstOffset, l.LastOffset
	if first < 0 {
		first = 0
	}
	if last > len(l.Source.Content) {
		last = len(l.Source.Content)
	}
	if first >= last {
		return ""
	}
	return l.Source.Content[first:last]
}

// Column returns the 1-based column of the first character.
func (l Location) Column() int {
	if l.Source == nil {
		return l.FirstOffset + 1
	}
	return l.Source.ColumnAt(l.FirstOffset)
}

// String formats the location as path:line:column.
func (l Location) String() string {
	name := "<unknown>"
	if l.Source != nil {
		name = l.Source.DisplayPath()
	}
	return fmt.Sprintf("%s:%d:%d", name, l.Line, l.Column())
}
