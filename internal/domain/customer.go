package domain

import "time"

// Customer is keyed by its code, which is issued once and never reassigned.
// Timestamps stay nil for codes that were issued ahead of time and never used.
type Customer struct {
	Code             string     `json:"code"`
	Name             string     `json:"name"`
	Contact          string     `json:"contact"`
	Registered       bool       `json:"registered"`
	FirstVisit       *time.Time `json:"first_visit,omitempty"`
	LastVisit        *time.Time `json:"last_visit,omitempty"`
	RegistrationDate *time.Time `json:"registration_date,omitempty"`
}

func (c *Customer) DisplayName() string {
	if c == nil || c.Name == "" {
		return "дорогой гость"
	}
	return c.Name
}
