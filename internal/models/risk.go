package models

import "time"

type RiskLevel string
type RiskStatus string
type RiskCategory string
type RiskTreatment string
type TreatmentStatus string

const (
	LevelLow    RiskLevel = "Low"
	LevelMedium RiskLevel = "Medium"
	LevelHigh   RiskLevel = "High"

	StatusOpen       RiskStatus = "Open"
	StatusInProgress RiskStatus = "InProgress"
	StatusClosed     RiskStatus = "Closed"

	CategoryTechnical RiskCategory = "Technical"
	CategoryProcess   RiskCategory = "Process"
	CategoryPersonnel RiskCategory = "Personnel"
	CategoryLegal     RiskCategory = "Legal"

	TreatmentReduce   RiskTreatment = "Reduce"
	TreatmentAvoid    RiskTreatment = "Avoid"
	TreatmentTransfer RiskTreatment = "Transfer"
	TreatmentAccept   RiskTreatment = "Accept"

	TreatmentPlanned     TreatmentStatus = "Planned"
	TreatmentInProgress  TreatmentStatus = "InProgress"
	TreatmentImplemented TreatmentStatus = "Implemented"
)

func (l RiskLevel) Valid() bool {
	return l == LevelLow || l == LevelMedium || l == LevelHigh
}

func (s RiskStatus) Valid() bool {
	return s == StatusOpen || s == StatusInProgress || s == StatusClosed
}

func (c RiskCategory) Valid() bool {
	return c == CategoryTechnical || c == CategoryProcess ||
		c == CategoryPersonnel || c == CategoryLegal
}

func (t RiskTreatment) Valid() bool {
	return t == TreatmentReduce || t == TreatmentAvoid ||
		t == TreatmentTransfer || t == TreatmentAccept
}

func (t TreatmentStatus) Valid() bool {
	return t == TreatmentPlanned || t == TreatmentInProgress || t == TreatmentImplemented
}

type Risk struct {
	ID string `json:"id"`

	// report-adjacent fields
	ReportID       string          `json:"reportId,omitempty"`
	Category       RiskCategory    `json:"category,omitempty"`
	AffectedAssets []string        `json:"affectedAssets,omitempty"`
	Treatment      RiskTreatment   `json:"treatment,omitempty"`
	TreatmentStatus TreatmentStatus `json:"treatmentStatus,omitempty"`
	EstimatedHours *float64        `json:"estimatedHours,omitempty"`

	// weak references, no existence check
	ControlIDs []string `json:"controlIds,omitempty"`
	PolicyIDs  []string `json:"policyIds,omitempty"`

	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Measures    string `json:"measures,omitempty"`
	Owner       string `json:"owner"`

	Likelihood  int        `json:"likelihood"`  // 1-5
	Consequence int        `json:"consequence"` // 1-5
	Score       int        `json:"score"`       // likelihood * consequence
	Level       RiskLevel  `json:"level"`
	Status      RiskStatus `json:"status"`

	// residual risk, all-or-nothing
	ResidualLikelihood  *int      `json:"residualLikelihood,omitempty"`
	ResidualConsequence *int      `json:"residualConsequence,omitempty"`
	ResidualScore       *int      `json:"residualScore,omitempty"`
	ResidualLevel       RiskLevel `json:"residualLevel,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
