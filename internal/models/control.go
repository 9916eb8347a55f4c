package models

type ControlStatus string

const (
	ControlImplemented ControlStatus = "Implemented"
	ControlPlanned     ControlStatus = "Planned"
	ControlNotRelevant ControlStatus = "NotRelevant"
)

func (s ControlStatus) Valid() bool {
	return s == ControlImplemented || s == ControlPlanned || s == ControlNotRelevant
}

// Control is a security control mapped to an external standard, e.g. ISO 27001 "A.9.2.3".
type Control struct {
	ID            string        `json:"id"`
	ISOID         string        `json:"isoId"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Status        ControlStatus `json:"status"`
	Justification string        `json:"justification,omitempty"`
	Owner         string        `json:"owner,omitempty"`
}
