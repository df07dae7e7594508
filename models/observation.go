package models

import "time"

// Observation is one synthetic data point for a location and month.
type Observation struct {
	Date          time.Time `json:"date"`
	Location      string    `json:"location"`
	ActiveUsers   int       `json:"active_users"`
	NumberOfPosts int       `json:"number_of_posts"`
}

// Scenario is the live selection coming from the dashboard controls.
type Scenario struct {
	Location      string `json:"location"`
	ActiveUsers   int    `json:"active_users"`
	NumberOfPosts int    `json:"number_of_posts"`
}

// PricedObservation is an Observation annotated with the price prescribed
// from its own active users and posts.
type PricedObservation struct {
	Observation
	Price    float64 `json:"price"`
	Feasible bool    `json:"feasible"`
}

// Prescription is a single scenario price.
type Prescription struct {
	Rule          string  `json:"rule"`
	ActiveUsers   int     `json:"active_users"`
	NumberOfPosts int     `json:"number_of_posts"`
	Price         float64 `json:"price"`
	Feasible      bool    `json:"feasible"`
	Display       string  `json:"display"`
}

// PriceSummary holds aggregate figures over a set of priced rows.
type PriceSummary struct {
	Rows       int       `json:"rows"`
	Infeasible int       `json:"infeasible"`
	Average    float64   `json:"average"`
	Min        float64   `json:"min"`
	Max        float64   `json:"max"`
	MaxDate    time.Time `json:"max_date"`
}

// DashboardView is everything the presentation layer needs for one render.
type DashboardView struct {
	Scenario  Scenario             `json:"scenario"`
	Headline  Prescription         `json:"headline"`
	Rows      []*PricedObservation `json:"rows"`
	Summary   PriceSummary         `json:"summary"`
	Locations []string             `json:"locations"`
}

// LocationReport groups a location's priced rows with their summary.
type LocationReport struct {
	Location string
	Rows     []*PricedObservation
	Summary  PriceSummary
}

// Report is the terminal/CSV report produced by the report command.
type Report struct {
	Rule        string
	GeneratedAt time.Time
	Scenario    Prescription
	Locations   []*LocationReport
	Overall     PriceSummary
}
