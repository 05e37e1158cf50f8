package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SocialPlatforms are the keys accepted in Profile.Social.
var SocialPlatforms = []string{"youtube", "twitter", "facebook", "linkedin", "instagram"}

type Profile struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User           primitive.ObjectID `bson:"user" json:"user_id"`
	Owner          *UserSummary       `bson:"owner,omitempty" json:"user,omitempty"`
	Company        string             `bson:"company,omitempty" json:"company,omitempty"`
	Website        string             `bson:"website,omitempty" json:"website,omitempty"`
	Location       string             `bson:"location,omitempty" json:"location,omitempty"`
	Bio            string             `bson:"bio,omitempty" json:"bio,omitempty"`
	Status         string             `bson:"status" json:"status"`
	Skills         []string           `bson:"skills" json:"skills"`
	GithubUsername string             `bson:"githubusername,omitempty" json:"githubusername,omitempty"`
	Social         map[string]string  `bson:"social,omitempty" json:"social,omitempty"`
	Experience     []Experience       `bson:"experience" json:"experience"`
	Education      []Education        `bson:"education" json:"education"`
	Date           time.Time          `bson:"date" json:"date"`
}

type Experience struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Company     string             `bson:"company" json:"company"`
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`
	From        time.Time          `bson:"from" json:"from"`
	To          *time.Time         `bson:"to,omitempty" json:"to,omitempty"`
	Current     bool               `bson:"current" json:"current"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
}

type Education struct {
	ID           primitive.ObjectID `bson:"_id" json:"_id"`
	School       string             `bson:"school" json:"school"`
	Degree       string             `bson:"degree" json:"degree"`
	FieldOfStudy string             `bson:"fieldofstudy" json:"fieldofstudy"`
	From         time.Time          `bson:"from" json:"from"`
	To           *time.Time         `bson:"to,omitempty" json:"to,omitempty"`
	Current      bool               `bson:"current" json:"current"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
}

// ProfileInput is the body of POST /profile. Nil fields were not sent.
type ProfileInput struct {
	Company        *string `json:"company"`
	Website        *string `json:"website"`
	Location       *string `json:"location"`
	Bio            *string `json:"bio"`
	Status         *string `json:"status"`
	GithubUsername *string `json:"githubusername"`
	Skills         *string `json:"skills"`
	Youtube        *string `json:"youtube"`
	Twitter        *string `json:"twitter"`
	Facebook       *string `json:"facebook"`
	Linkedin       *string `json:"linkedin"`
	Instagram      *string `json:"instagram"`
}

type ExperienceInput struct {
	Title       string `json:"title" validate:"required"`
	Company     string `json:"company" validate:"required"`
	Location    string `json:"location"`
	From        string `json:"from" validate:"required"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type EducationInput struct {
	School       string `json:"school" validate:"required"`
	Degree       string `json:"degree" validate:"required"`
	FieldOfStudy string `json:"fieldofstudy" validate:"required"`
	From         string `json:"from" validate:"required"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

// ProfileChanges is the normalized, sparse set of fields an upsert writes.
type ProfileChanges struct {
	Company        *string
	Website        *string
	Location       *string
	Bio            *string
	Status         *string
	GithubUsername *string
	Skills         []string
	Social         map[string]string
}

// CanCreate reports whether the changes carry every field a new profile needs.
func (pc *ProfileChanges) CanCreate() bool {
	return pc.Status != nil && len(pc.Skills) > 0
}

// SetDoc renders the changes as a $set document. Social links use dotted
// paths so links that were not sent keep their stored value.
func (pc *ProfileChanges) SetDoc() bson.M {
	set := bson.M{}
	setString := func(key string, v *string) {
		if v != nil {
			set[key] = *v
		}
	}
	setString("company", pc.Company)
	setString("website", pc.Website)
	setString("location", pc.Location)
	setString("bio", pc.Bio)
	setString("status", pc.Status)
	setString("githubusername", pc.GithubUsername)
	if pc.Skills != nil {
		set["skills"] = pc.Skills
	}
	for platform, url := range pc.Social {
		set["social."+platform] = url
	}
	return set
}

// ApplyTo writes the changes onto p in place.
func (pc *ProfileChanges) ApplyTo(p *Profile) {
	apply := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	apply(&p.Company, pc.Company)
	apply(&p.Website, pc.Website)
	apply(&p.Location, pc.Location)
	apply(&p.Bio, pc.Bio)
	apply(&p.Status, pc.Status)
	apply(&p.GithubUsername, pc.GithubUsername)
	if pc.Skills != nil {
		p.Skills = append([]string(nil), pc.Skills...)
	}
	if len(pc.Social) > 0 && p.Social == nil {
		p.Social = make(map[string]string, len(pc.Social))
	}
	for platform, url := range pc.Social {
		p.Social[platform] = url
	}
}
