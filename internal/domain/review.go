package domain

import "time"

// ReviewID is assigned by the store on creation. Callers pass it through untouched.
type ReviewID string

// Conventional values for the Yes/No style free-text fields.
const (
	OptionYes    = "Yes"
	OptionNo     = "No"
	OptionHybrid = "Hybrid"
)

type Review struct {
	ID                 ReviewID  `json:"id"`
	CompanyName        string    `json:"company_name" validate:"notblank"`
	ReviewText         string    `json:"review_text" validate:"notblank"`
	Rating             float64   `json:"rating" validate:"gte=1,lte=5"`
	SalaryInfo         string    `json:"salary_info"`
	TransportationInfo string    `json:"transportation_info"`
	RemoteWorkOption   string    `json:"remote_work_option" validate:"oneof=Yes No Hybrid"`
	Department         string    `json:"department"`
	InternshipRole     string    `json:"internship_role"`
	ProjectRating      float64   `json:"project_rating" validate:"gte=1,lte=5"`
	MealCard           string    `json:"meal_card" validate:"oneof=Yes No"`
	TechnologiesUsed   []string  `json:"technologies_used" validate:"required"` // may be empty, not nil
	FeedbackDate       time.Time `json:"feedback_date" validate:"required"`
	LikeCount          int64     `json:"like_count" validate:"gte=0"`
}

// DateOf drops the time-of-day part; feedback dates are calendar dates.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FilterCriteria combines every non-nil option with AND.
type FilterCriteria struct {
	CompanyNameContains *string  // case-insensitive substring
	DepartmentEquals    *string  // exact
	MinRating           *float64 // inclusive
	Limit               int      // 0 = no cap
}

func (c FilterCriteria) Empty() bool {
	return c.CompanyNameContains == nil && c.DepartmentEquals == nil && c.MinRating == nil
}
