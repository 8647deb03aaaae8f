package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// TextItem is a bullet in a responsibility or description list.
// A plain item carries only text; a tagged item also carries a category tag
// such as "Backend" or "Frontend" assigned during a merge.
type TextItem struct {
	Tag  string
	Text string
}

// PlainText returns an untagged item.
func PlainText(text string) TextItem {
	return TextItem{Text: text}
}

// TaggedText returns an item carrying a category tag.
func TaggedText(tag, text string) TextItem {
	return TextItem{Tag: tag, Text: text}
}

// IsTagged reports whether the item has a category tag.
func (t TextItem) IsTagged() bool {
	return t.Tag != ""
}

// String renders the item for display. Tagged items are not prefixed with their tag.
func (t TextItem) String() string {
	return t.Text
}

type textItemObject struct {
	Tag         string `json:"tag,omitempty"`
	Category    string `json:"category,omitempty"`
	Text        string `json:"text,omitempty"`
	Description string `json:"description,omitempty"`
}

// MarshalJSON writes plain items as JSON strings and tagged items as {"tag","text"} objects.
func (t TextItem) MarshalJSON() ([]byte, error) {
	if !t.IsTagged() {
		return json.Marshal(t.Text)
	}
	return json.Marshal(struct {
		Tag  string `json:"tag"`
		Text string `json:"text"`
	}{Tag: t.Tag, Text: t.Text})
}

// UnmarshalJSON accepts either a JSON string or an object with a
// "text" or "description" field and an optional "tag" or "category".
func (t *TextItem) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = TextItem{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = PlainText(s)
		return nil
	}

	if data[0] != '{' {
		return fmt.Errorf("text item must be a string or an object, got %s", string(data))
	}

	var obj textItemObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	text := obj.Text
	if text == "" {
		text = obj.Description
	}
	tag := obj.Tag
	if tag == "" {
		tag = obj.Category
	}
	*t = TextItem{Tag: tag, Text: text}
	return nil
}

// FlattenText renders a list of items as plain strings, skipping empty ones.
// This is the single place structured bullets are turned back into text.
func FlattenText(items []TextItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item.String()); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// PlainTexts wraps each string as an untagged item.
func PlainTexts(lines []string) []TextItem {
	out := make([]TextItem, 0, len(lines))
	for _, line := range lines {
		out = append(out, PlainText(line))
	}
	return out
}
