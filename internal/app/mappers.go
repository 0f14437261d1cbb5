package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"intern_insider/internal/domain"
)

// DateLayout is how feedback dates travel on the wire.
const DateLayout = "2006-01-02"

// ReviewInput is a review as submitted by the admin form or a seed file.
type ReviewInput struct {
	CompanyName        string   `json:"company_name"`
	ReviewText         string   `json:"review_text"`
	Rating             float64  `json:"rating"`
	SalaryInfo         string   `json:"salary_info"`
	TransportationInfo string   `json:"transportation_info"`
	RemoteWorkOption   string   `json:"remote_work_option"`
	Department         string   `json:"department"`
	InternshipRole     string   `json:"internship_role"`
	ProjectRating      float64  `json:"project_rating"`
	MealCard           string   `json:"meal_card"`
	TechnologiesUsed   []string `json:"technologies_used"`
	FeedbackDate       string   `json:"feedback_date"`
	LikeCount          *int64   `json:"like_count,omitempty"`
}

// ReviewView is the read model handed to the presentation layer.
type ReviewView struct {
	ID                 string   `json:"id"`
	CompanyName        string   `json:"company_name"`
	ReviewText         string   `json:"review_text"`
	Rating             float64  `json:"rating"`
	SalaryInfo         string   `json:"salary_info"`
	TransportationInfo string   `json:"transportation_info"`
	RemoteWorkOption   string   `json:"remote_work_option"`
	Department         string   `json:"department"`
	InternshipRole     string   `json:"internship_role"`
	ProjectRating      float64  `json:"project_rating"`
	MealCard           string   `json:"meal_card"`
	TechnologiesUsed   []string `json:"technologies_used"`
	FeedbackDate       string   `json:"feedback_date"`
	LikeCount          int64    `json:"like_count"`
}

// ToReview maps wire input onto the domain type. Field constraints are
// checked by the repository on create, except when the date does not parse:
// then every field is checked here so the caller sees all problems at once.
func (in ReviewInput) ToReview() (domain.Review, error) {
	d, derr := time.Parse(DateLayout, strings.TrimSpace(in.FeedbackDate))
	r := in.review(d)
	if derr == nil {
		return r, nil
	}
	out := domain.Invalid("feedback_date", "must be a date formatted YYYY-MM-DD")
	var ve *domain.ValidationError
	if errors.As(r.Validate(), &ve) {
		for _, fe := range ve.Fields {
			if fe.Field != "feedback_date" {
				out.Fields = append(out.Fields, fe)
			}
		}
	}
	return domain.Review{}, out
}

func (in ReviewInput) review(d time.Time) domain.Review {
	var likes int64 // unspecified means a fresh review
	if in.LikeCount != nil {
		likes = *in.LikeCount
	}
	return domain.Review{
		CompanyName:        strings.TrimSpace(in.CompanyName),
		ReviewText:         in.ReviewText,
		Rating:             in.Rating,
		SalaryInfo:         in.SalaryInfo,
		TransportationInfo: in.TransportationInfo,
		RemoteWorkOption:   strings.TrimSpace(in.RemoteWorkOption),
		Department:         strings.TrimSpace(in.Department),
		InternshipRole:     in.InternshipRole,
		ProjectRating:      in.ProjectRating,
		MealCard:           strings.TrimSpace(in.MealCard),
		TechnologiesUsed:   in.TechnologiesUsed,
		FeedbackDate:       d,
		LikeCount:          likes,
	}
}

func ToView(r domain.Review) ReviewView {
	tech := r.TechnologiesUsed
	if tech == nil {
		tech = []string{}
	}
	return ReviewView{
		ID:                 string(r.ID),
		CompanyName:        r.CompanyName,
		ReviewText:         r.ReviewText,
		Rating:             r.Rating,
		SalaryInfo:         r.SalaryInfo,
		TransportationInfo: r.TransportationInfo,
		RemoteWorkOption:   r.RemoteWorkOption,
		Department:         r.Department,
		InternshipRole:     r.InternshipRole,
		ProjectRating:      r.ProjectRating,
		MealCard:           r.MealCard,
		TechnologiesUsed:   tech,
		FeedbackDate:       r.FeedbackDate.Format(DateLayout),
		LikeCount:          r.LikeCount,
	}
}

func ToViews(rs []domain.Review) []ReviewView {
	out := make([]ReviewView, 0, len(rs))
	for _, r := range rs {
		out = append(out, ToView(r))
	}
	return out
}

// DecodeReviews reads a JSON array of ReviewInput, as used by seed files.
func DecodeReviews(r io.Reader) ([]domain.Review, error) {
	var in []ReviewInput
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}
	out := make([]domain.Review, 0, len(in))
	for i, ri := range in {
		rv, err := ri.ToReview()
		if err != nil {
			return nil, fmt.Errorf("review %d (%s): %w", i, ri.CompanyName, err)
		}
		out = append(out, rv)
	}
	return out, nil
}
