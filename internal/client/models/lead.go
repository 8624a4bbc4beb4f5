package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Lead is a prospective or registered user tracked through the calling
// workflow.
type Lead struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	PhoneNumbers PhoneList `json:"mobileNumber"`
	Instruction  string    `json:"instruction,omitempty"`
	Status       Status    `json:"status,omitempty"`
	Feedback     string    `json:"feedback,omitempty"`
	AssignedTo   string    `json:"assignedTo,omitempty"`
	Tag          Tag       `json:"tag,omitempty"`
	Priority     int       `json:"priority,omitempty"`
	Processed    bool      `json:"isProcessed"`
	CreatedAt    time.Time `json:"createdAt,omitzero"`
	UpdatedAt    time.Time `json:"updatedAt,omitzero"`
}

// PhoneList is the canonical list form of a lead's phone numbers.
//
// On the wire the server sends a single comma-joined string; UnmarshalJSON
// accepts that as well as a JSON array and normalises both through
// SplitPhones. It always marshals as an array.
type PhoneList []string

func (p *PhoneList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*p = nil
		return nil
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = SplitPhones(s)
	case '[':
		var items []string
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*p = SplitPhones(strings.Join(items, ","))
	default:
		// bare numbers show up for single-phone records
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("phone list: unsupported JSON %s", string(b))
		}
		*p = SplitPhones(n.String())
	}
	return nil
}

func (p PhoneList) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(p))
}

// SplitPhones splits a comma-joined phone field, trims each part and drops
// empty parts and repeats. Original order is kept.
func SplitPhones(s string) PhoneList {
	parts := strings.Split(s, ",")
	out := make(PhoneList, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, dup := seen[part]; dup {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	return out
}

// Primary returns the first phone number, or "" when there is none.
func (p PhoneList) Primary() string {
	if len(p) == 0 {
		return ""
	}
	return p[0]
}

// String joins the numbers the way the server stores them.
func (p PhoneList) String() string {
	return strings.Join(p, ", ")
}

// Matches reports whether q occurs, case-insensitively, in the lead's name,
// in any of its phone numbers, or in the assigned agent's name. An empty
// query matches every lead.
func (l Lead) Matches(q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(l.Name), q) {
		return true
	}
	if strings.Contains(strings.ToLower(l.AssignedTo), q) {
		return true
	}
	for _, phone := range l.PhoneNumbers {
		if strings.Contains(strings.ToLower(phone), q) {
			return true
		}
	}
	return false
}
