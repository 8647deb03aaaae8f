// Package ingestion turns uploaded résumé files into clean text ready for segmentation.
package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	inlineSpaceRe   = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
	excessBlankRe   = regexp.MustCompile(`\n{3,}`)
	bulletGlyphRe   = regexp.MustCompile(`^[•·▪●◦‣]\s*`)
	plainTextSuffix = map[string]bool{".txt": true, ".text": true, ".md": true}
)

// CleanText normalizes extracted text while keeping the line structure the
// segmenter relies on: heading lines stay at line starts and blank lines
// between entries are kept (runs of them collapse to one).
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := strings.Join(lines, "\n")
	result = excessBlankRe.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine collapses inline whitespace and rewrites leading bullet glyphs as "- ".
func cleanLine(line string) string {
	line = strings.TrimSpace(inlineSpaceRe.ReplaceAllString(line, " "))
	if line == "" {
		return ""
	}
	if bulletGlyphRe.MatchString(line) {
		return "- " + bulletGlyphRe.ReplaceAllString(line, "")
	}
	return line
}

// LoadFile reads a résumé from disk and returns its cleaned text and metadata.
// Plain text files are read as-is; everything else goes through ExtractText.
func LoadFile(path string) (string, *Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("file not found: %w", err)
		}
		return "", nil, fmt.Errorf("failed to read file: %w", err)
	}

	name := filepath.Base(path)
	var raw string
	contentType := "text/plain"
	if plainTextSuffix[strings.ToLower(filepath.Ext(path))] {
		raw = string(data)
	} else {
		contentType = DetectFormat(name, "", data)
		raw, err = ExtractText(name, contentType, data)
		if err != nil {
			return "", nil, err
		}
	}

	cleaned := CleanText(raw)
	return cleaned, NewMetadata(name, contentType, data, cleaned), nil
}
