package types

// GenerationHistoryEntry records one tailored résumé generation.
// Entries are created once and never modified; they may only be deleted.
type GenerationHistoryEntry struct {
	ID                  string      `json:"id"`
	Timestamp           string      `json:"timestamp"` // RFC3339
	JobTitle            string      `json:"jobTitle"`
	JobDescription      string      `json:"jobDescription"`
	GeneratedResume     string      `json:"generatedResume"`
	CoreProfileSnapshot CoreProfile `json:"coreProfileSnapshot"`
}
