package models

import "time"

type PolicyStatus string

const (
	PolicyValid         PolicyStatus = "Valid"
	PolicyUnderRevision PolicyStatus = "UnderRevision"
)

func (s PolicyStatus) Valid() bool {
	return s == PolicyValid || s == PolicyUnderRevision
}

type Policy struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Category string       `json:"category"` // free text, e.g. "Access", "Logging"
	Version  string       `json:"version"`  // free text, e.g. "1.0"
	Body     string       `json:"body"`
	Status   PolicyStatus `json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
