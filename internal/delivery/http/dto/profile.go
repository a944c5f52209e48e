package dto

import "encoding/json"

// ParseRequest carries either free text or, for candidates, a structured document.
type ParseRequest struct {
	Text     string          `json:"text"`
	Document json.RawMessage `json:"document,omitempty"`
}

func (r ParseRequest) HasDocument() bool {
	return len(r.Document) > 0 && string(r.Document) != "null"
}

type SkillRequest struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Category string `json:"category"`
}
