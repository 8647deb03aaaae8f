package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/resume-profile/internal/extraction"
	"github.com/jonathan/resume-profile/internal/ingestion"
	"github.com/jonathan/resume-profile/internal/segmentation"
	"github.com/jonathan/resume-profile/internal/types"
)

// SegmentResponse describes how a résumé was split into sections.
type SegmentResponse struct {
	Prefix             string                           `json:"prefix"`
	Spans              []segmentation.Span              `json:"spans"`
	Sections           map[segmentation.Kind]string     `json:"sections"`
	AdditionalSections []segmentation.AdditionalSection `json:"additional_sections"`
}

// decodeTextRequest reads and validates a {"text": ...} body.
func (s *Server) decodeTextRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req types.ParseResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return "", false
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "text is required")
		return "", false
	}
	return ingestion.CleanText(req.Text), true
}

func (s *Server) handleParseResume(w http.ResponseWriter, r *http.Request) {
	text, ok := s.decodeTextRequest(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, extraction.ParseResume(text))
}

func (s *Server) handleSegmentResume(w http.ResponseWriter, r *http.Request) {
	text, ok := s.decodeTextRequest(w, r)
	if !ok {
		return
	}

	result := segmentation.Segment(text)
	spans := result.Spans
	if spans == nil {
		spans = []segmentation.Span{}
	}
	additional := result.Additional
	if additional == nil {
		additional = []segmentation.AdditionalSection{}
	}

	s.jsonResponse(w, http.StatusOK, SegmentResponse{
		Prefix:             result.Prefix,
		Spans:              spans,
		Sections:           result.Sections(),
		AdditionalSections: additional,
	})
}
