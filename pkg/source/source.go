package source

import (
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"
)

// SourceFile represents a source file with its content and metadata
type SourceFile struct {
	Name    string // Display name (e.g., "Main.as", "<stdin>", "<eval>")
	Path    string // Full file path (empty for REPL/eval)
	Content string // The source code content

	lines      []string // Cached split lines (lazy initialization)
	lineStarts []int    // Byte offsets where each line starts (lazy initialization)
}

// NewSourceFile creates a new source file
func NewSourceFile(name, path, content string) *SourceFile {
	return &SourceFile{
		Name:    name,
		Path:    path,
		Content: content,
	}
}

// NewEvalSource creates a source file for standalone expression input
func NewEvalSource(content string) *SourceFile {
	return &SourceFile{
		Name:    "<eval>",
		Path:    "",
		Content: content,
	}
}

// NewReplSource creates a source file for REPL input
func NewReplSource(content string) *SourceFile {
	return &SourceFile{
		Name:    "<repl>",
		Path:    "",
		Content: content,
	}
}

// NewStdinSource creates a source file for stdin input
func NewStdinSource(content string) *SourceFile {
	return &SourceFile{
		Name:    "<stdin>",
		Path:    "",
		Content: content,
	}
}

// Lines returns the source split into lines (cached)
func (sf *SourceFile) Lines() []string {
	if sf.lines == nil {
		sf.lines = strings.Split(sf.Content, "\n")
	}
	return sf.lines
}

// LineStarts returns the byte offset of the first character of every line.
func (sf *SourceFile) LineStarts() []int {
	if sf.lineStarts == nil {
		starts := []int{0}
		for i := 0; i < len(sf.Content); i++ {
			if sf.Content[i] == '\n' {
				starts = append(starts, i+1)
			}
		}
		sf.lineStarts = starts
	}
	return sf.lineStarts
}

// LineAt returns the 1-based line containing the given byte offset.
func (sf *SourceFile) LineAt(offset int) int {
	starts := sf.LineStarts()
	return sort.Search(len(starts), func(i int) bool { return starts[i] > offset })
}

// ColumnAt returns the 1-based column (rune index within the line) of the given byte offset.
func (sf *SourceFile) ColumnAt(offset int) int {
	line := sf.LineAt(offset)
	start := sf.LineStarts()[line-1]
	if offset > len(sf.Content) {
		offset = len(sf.Content)
	}
	return utf8.RuneCountInString(sf.Content[start:offset]) + 1
}

// DisplayPath returns the best path for display (prefers Path, falls back to Name)
func (sf *SourceFile) DisplayPath() string {
	if sf.Path != "" {
		return sf.Path
	}
	return sf.Name
}

// IsFile returns true if this represents an actual file (has a path)
func (sf *SourceFile) IsFile() bool {
	return sf.Path != ""
}

// FromFile creates a SourceFile from a file path and content
func FromFile(filePath, content string) *SourceFile {
	name := filepath.Base(filePath)
	return NewSourceFile(name, filePath, content)
}
