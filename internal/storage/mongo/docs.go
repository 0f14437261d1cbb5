package mongo

import (
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"intern_insider/internal/domain"
)

// reviewDoc is the persisted layout: one self-contained document per review.
type reviewDoc struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	CompanyName        string             `bson:"company_name"`
	ReviewText         string             `bson:"review_text"`
	Rating             float64            `bson:"rating"`
	SalaryInfo         string             `bson:"salary_info"`
	TransportationInfo string             `bson:"transportation_info"`
	RemoteWorkOption   string             `bson:"remote_work_option"`
	Department         string             `bson:"department"`
	InternshipRole     string             `bson:"internship_role"`
	ProjectRating      float64            `bson:"project_rating"`
	MealCard           string             `bson:"meal_card"`
	TechnologiesUsed   []string           `bson:"technologies_used"`
	FeedbackDate       time.Time          `bson:"feedback_date"`
	LikeCount          int64              `bson:"like_count"`
}

func toDoc(r domain.Review) reviewDoc {
	tech := r.TechnologiesUsed
	if tech == nil {
		tech = []string{}
	}
	return reviewDoc{
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
		FeedbackDate:       domain.DateOf(r.FeedbackDate),
		LikeCount:          r.LikeCount,
	}
}

func (d reviewDoc) toDomain() domain.Review {
	tech := d.TechnologiesUsed
	if tech == nil {
		tech = []string{}
	}
	return domain.Review{
		ID:                 domain.ReviewID(d.ID.Hex()),
		CompanyName:        d.CompanyName,
		ReviewText:         d.ReviewText,
		Rating:             d.Rating,
		SalaryInfo:         d.SalaryInfo,
		TransportationInfo: d.TransportationInfo,
		RemoteWorkOption:   d.RemoteWorkOption,
		Department:         d.Department,
		InternshipRole:     d.InternshipRole,
		ProjectRating:      d.ProjectRating,
		MealCard:           d.MealCard,
		TechnologiesUsed:   tech,
		FeedbackDate:       domain.DateOf(d.FeedbackDate),
		LikeCount:          d.LikeCount,
	}
}

// objectID parses an opaque id. Ids that were never issued by the store are
// reported as not found rather than as malformed input.
func objectID(id domain.ReviewID) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(string(id))
	if err != nil {
		return primitive.NilObjectID, &domain.NotFoundError{ID: id}
	}
	return oid, nil
}

// ---- query documents ----

// Most liked first, then most recent feedback, then earliest inserted.
var popularSort = bson.D{
	{Key: "like_count", Value: -1},
	{Key: "feedback_date", Value: -1},
	{Key: "_id", Value: 1},
}

var insertionOrder = bson.D{{Key: "_id", Value: 1}}

func filterDoc(c domain.FilterCriteria) bson.D {
	f := bson.D{}
	if c.CompanyNameContains != nil {
		f = append(f, bson.E{Key: "company_name", Value: primitive.Regex{
			Pattern: regexp.QuoteMeta(*c.CompanyNameContains),
			Options: "i",
		}})
	}
	if c.DepartmentEquals != nil {
		f = append(f, bson.E{Key: "department", Value: *c.DepartmentEquals})
	}
	if c.MinRating != nil {
		f = append(f, bson.E{Key: "rating", Value: bson.D{{Key: "$gte", Value: *c.MinRating}}})
	}
	return f
}

var indexModels = []mongo.IndexModel{
	{Keys: bson.D{{Key: "company_name", Value: 1}}},
	{Keys: bson.D{{Key: "department", Value: 1}, {Key: "rating", Value: -1}}},
	{Keys: popularSort},
}
