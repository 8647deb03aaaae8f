// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import "strings"

// JSONOutputTag wraps the final answer of prompts that reason first.
const JSONOutputTag = "json_output"

// CleanJSONBlock removes markdown code block wrappers from JSON responses.
// LLMs often wrap JSON in ```json ... ``` blocks even when instructed not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip a language identifier on the first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	return text
}

// TaggedBlock returns the text between <tag> and </tag>, and whether the
// opening tag was found. A missing closing tag runs to the end of text.
func TaggedBlock(text, tag string) (string, bool) {
	open := "<" + tag + ">"
	start := strings.Index(text, open)
	if start < 0 {
		return "", false
	}
	body := text[start+len(open):]
	if end := strings.Index(body, "</"+tag+">"); end >= 0 {
		body = body[:end]
	}
	return body, true
}

// JSONPayload isolates the JSON document in a model response. Responses
// that reason before answering put the document inside <json_output>; any
// ``` or ```json fence anywhere in the payload is dropped.
func JSONPayload(raw string) string {
	payload := raw
	if body, ok := TaggedBlock(raw, JSONOutputTag); ok {
		payload = body
	}
	payload = strings.ReplaceAll(payload, "```json", "")
	payload = strings.ReplaceAll(payload, "```", "")
	return strings.TrimSpace(payload)
}
