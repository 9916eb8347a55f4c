package models

// Actor identifies who performed a mutation. UserID is the stable identifier;
// Email and Name are display labels and may be empty.
type Actor struct {
	UserID string
	Email  string
	Name   string
}
