// Package resume describes the loosely typed JSON bodies returned by the
// resume parser service. Every endpoint may add fields the console does not
// know about, so the payload keeps each field raw and decodes on access.
package resume

import (
	"bytes"
	"encoding/json"
	"log"

	"github.com/zhouzirui/resume-console/internal/model/jobs"
)

// Payload is a decoded view over a response body.
type Payload struct {
	SkillsRaw          json.RawMessage `json:"skills"`
	RecommendationsRaw json.RawMessage `json:"recommendations"`
	DetailRaw          json.RawMessage `json:"detail"`
	TextRaw            json.RawMessage `json:"text"`
}

// Parse reads the known fields out of body. Bodies that are valid JSON but not
// objects yield an empty payload.
func Parse(body []byte) Payload {
	var p Payload
	if err := json.Unmarshal(body, &p); err != nil {
		return Payload{}
	}
	return p
}

// Skills returns the skill list in order. Non-string items are kept in their
// JSON form so nothing the service sent is silently dropped.
func (p Payload) Skills() []string {
	if isAbsent(p.SkillsRaw) {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(p.SkillsRaw, &items); err != nil {
		return nil
	}
	skills := make([]string, 0, len(items))
	for _, item := range items {
		skills = append(skills, stringOrJSON(item))
	}
	return skills
}

// Recommendations returns the recommendation list and whether the field was
// present at all.
func (p Payload) Recommendations() ([]jobs.Recommendation, bool) {
	if isAbsent(p.RecommendationsRaw) {
		return nil, false
	}
	var recs []jobs.Recommendation
	if err := json.Unmarshal(p.RecommendationsRaw, &recs); err != nil {
		log.Printf("[payload] ignoring malformed recommendations: %v", err)
		return nil, false
	}
	return recs, true
}

// Detail returns the failure detail, or "" when the service sent none.
// Structured details (validation error lists) are returned as compact JSON.
func (p Payload) Detail() string {
	if isAbsent(p.DetailRaw) {
		return ""
	}
	return stringOrJSON(p.DetailRaw)
}

// Text returns the assistant reply text, or "" when missing.
func (p Payload) Text() string {
	if isAbsent(p.TextRaw) {
		return ""
	}
	return stringOrJSON(p.TextRaw)
}

// Indent formats body with two-space indentation, keeping key order.
func Indent(body []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return string(body)
	}
	return buf.String()
}

// Compact formats body on a single line, keeping key order.
func Compact(body []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, body); err != nil {
		return string(body)
	}
	return buf.String()
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func stringOrJSON(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return Compact(raw)
}
