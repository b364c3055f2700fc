package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/pllus/clubmatch/internal/models"
)

const (
	ClubsCollection     = "clubs"
	CompaniesCollection = "companies"

	// UnknownOrganization is shown when a user has no club or company profile.
	UnknownOrganization = "未知組織"
	unnamedClub         = "社團名稱未填寫"
	unnamedCompany      = "企業名稱未填寫"
)

type OrganizationRepository struct {
	clubs     *mongo.Collection
	companies *mongo.Collection
}

func NewOrganizationRepository(db *mongo.Database) *OrganizationRepository {
	return &OrganizationRepository{
		clubs:     db.Collection(ClubsCollection),
		companies: db.Collection(CompaniesCollection),
	}
}

// FindName resolves the organization a user posts for: a club profile wins
// over a company profile. ok is false when the user has neither.
func (r *OrganizationRepository) FindName(ctx context.Context, userID bson.ObjectID) (name string, ok bool, err error) {
	var club models.Club
	err = r.clubs.FindOne(ctx, bson.M{"user_id": userID}).Decode(&club)
	switch {
	case err == nil:
		if club.ClubName == "" {
			return unnamedClub, true, nil
		}
		return club.ClubName, true, nil
	case !errors.Is(err, mongo.ErrNoDocuments):
		return "", false, err
	}

	var company models.Company
	err = r.companies.FindOne(ctx, bson.M{"user_id": userID}).Decode(&company)
	switch {
	case err == nil:
		if company.CompanyName == "" {
			return unnamedCompany, true, nil
		}
		return company.CompanyName, true, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return "", false, nil
	}
	return "", false, err
}
