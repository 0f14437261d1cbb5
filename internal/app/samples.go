package app

import (
	"time"

	"intern_insider/internal/domain"
)

// SampleReviews returns the demo data set. Nothing inserts it implicitly;
// only the seed command does.
func SampleReviews() []domain.Review {
	return []domain.Review{
		{
			CompanyName:        "TechCorp",
			ReviewText:         "Great learning experience with supportive team members.",
			Rating:             4.5,
			SalaryInfo:         "Paid internship with $2000/month stipend.",
			TransportationInfo: "Transportation allowance provided.",
			RemoteWorkOption:   domain.OptionYes,
			Department:         "Software Development",
			InternshipRole:     "Backend Developer Intern",
			ProjectRating:      4.8,
			MealCard:           domain.OptionYes,
			TechnologiesUsed:   []string{"Python", "Django", "PostgreSQL"},
			FeedbackDate:       time.Date(2024, 10, 12, 0, 0, 0, 0, time.UTC),
			LikeCount:          25,
		},
		{
			CompanyName:        "DataSolutions",
			ReviewText:         "Worked on exciting data projects. Learned a lot!",
			Rating:             4.2,
			SalaryInfo:         "Unpaid internship.",
			TransportationInfo: "Not provided.",
			RemoteWorkOption:   domain.OptionNo,
			Department:         "Data Science",
			InternshipRole:     "Data Analyst Intern",
			ProjectRating:      4.0,
			MealCard:           domain.OptionNo,
			TechnologiesUsed:   []string{"SQL", "Pandas", "Tableau"},
			FeedbackDate:       time.Date(2024, 9, 15, 0, 0, 0, 0, time.UTC),
			LikeCount:          15,
		},
		{
			CompanyName:        "InnovateX",
			ReviewText:         "Amazing work culture with a focus on growth and development.",
			Rating:             4.7,
			SalaryInfo:         "Paid internship with $1500/month.",
			TransportationInfo: "Company shuttle service provided.",
			RemoteWorkOption:   domain.OptionHybrid,
			Department:         "Product Management",
			InternshipRole:     "Product Manager Intern",
			ProjectRating:      4.6,
			MealCard:           domain.OptionYes,
			TechnologiesUsed:   []string{"Excel", "JIRA", "Confluence"},
			FeedbackDate:       time.Date(2024, 8, 20, 0, 0, 0, 0, time.UTC),
			LikeCount:          30,
		},
	}
}
