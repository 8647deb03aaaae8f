package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Metadata describes an ingested résumé document
type Metadata struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Hash        string `json:"hash"`      // SHA256 hex digest of the original bytes
	TextHash    string `json:"text_hash"` // SHA256 hex digest of the cleaned text
	TextLength  int    `json:"text_length"`
	Timestamp   string `json:"timestamp"` // RFC3339 format
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(fileName, contentType string, data []byte, cleanedText string) *Metadata {
	return &Metadata{
		FileName:    fileName,
		ContentType: contentType,
		Size:        int64(len(data)),
		Hash:        ContentHash(data),
		TextHash:    ContentHash([]byte(cleanedText)),
		TextLength:  len(cleanedText),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
}

// ContentHash computes SHA256 hash of content and returns hex string
func ContentHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to pretty-printed JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}
