package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joshua-takyi/devnet/internal/helpers"
	"github.com/joshua-takyi/devnet/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProfileService struct {
	profileRepo models.ProfileRepo
	postRepo    models.PostRepo
	userRepo    models.UserRepo
	repoLookup  RepositoryLookup
}

func NewProfileService(profileRepo models.ProfileRepo, postRepo models.PostRepo, userRepo models.UserRepo, repoLookup RepositoryLookup) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		repoLookup:  repoLookup,
	}
}

func (ps *ProfileService) GetProfile(ctx context.Context, userId primitive.ObjectID) (*models.Profile, error) {
	return ps.profileRepo.GetProfileByUser(ctx, userId)
}

func (ps *ProfileService) ListProfiles(ctx context.Context) ([]*models.Profile, error) {
	return ps.profileRepo.ListProfiles(ctx)
}

// Upsert writes only the fields present in the request. A profile that does
// not exist yet is created when status and skills are both present.
func (ps *ProfileService) Upsert(ctx context.Context, userId primitive.ObjectID, in models.ProfileInput) (*models.Profile, error) {
	changes, err := buildProfileChanges(in)
	if err != nil {
		return nil, err
	}

	profile, err := ps.profileRepo.UpsertProfile(ctx, userId, changes, changes.CanCreate())
	if errors.Is(err, models.ErrProfileNotFound) {
		return nil, missingRequiredProfileFields(changes)
	}
	return profile, err
}

func buildProfileChanges(in models.ProfileInput) (*models.ProfileChanges, error) {
	changes := &models.ProfileChanges{
		Company:        present(in.Company),
		Website:        present(in.Website),
		Location:       present(in.Location),
		Bio:            present(in.Bio),
		Status:         present(in.Status),
		GithubUsername: present(in.GithubUsername),
	}

	if changes.Website != nil {
		if err := models.Validate.Var(*changes.Website, "url"); err != nil {
			return nil, models.NewValidationError("website", "Website must be a valid URL")
		}
	}

	if raw := present(in.Skills); raw != nil {
		changes.Skills = helpers.NormalizeSkills(*raw)
		if len(changes.Skills) == 0 {
			return nil, models.NewValidationError("skills", "Skills is required")
		}
	}

	links := map[string]*string{
		"youtube":   in.Youtube,
		"twitter":   in.Twitter,
		"facebook":  in.Facebook,
		"linkedin":  in.Linkedin,
		"instagram": in.Instagram,
	}
	for _, platform := range models.SocialPlatforms {
		if v := present(links[platform]); v != nil {
			if changes.Social == nil {
				changes.Social = map[string]string{}
			}
			changes.Social[platform] = *v
		}
	}
	return changes, nil
}

// present returns the trimmed value of v, or nil when v was omitted or blank.
func present(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}

func missingRequiredProfileFields(changes *models.ProfileChanges) error {
	ve := &models.ValidationError{}
	if changes.Status == nil {
		ve.Fields = append(ve.Fields, models.FieldError{Param: "status", Msg: "Status is required"})
	}
	if len(changes.Skills) == 0 {
		ve.Fields = append(ve.Fields, models.FieldError{Param: "skills", Msg: "Skills is required"})
	}
	return ve
}

func (ps *ProfileService) AddExperience(ctx context.Context, userId primitive.ObjectID, in models.ExperienceInput) (*models.Profile, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Company = strings.TrimSpace(in.Company)
	in.Location = strings.TrimSpace(in.Location)
	in.From = strings.TrimSpace(in.From)
	in.To = strings.TrimSpace(in.To)
	if err := models.ValidateStruct(&in); err != nil {
		return nil, err
	}
	from, to, err := parsePeriod(in.From, in.To, in.Current)
	if err != nil {
		return nil, err
	}

	exp := models.Experience{
		ID:          primitive.NewObjectID(),
		Title:       in.Title,
		Company:     in.Company,
		Location:    in.Location,
		From:        from,
		To:          to,
		Current:     in.Current,
		Description: in.Description,
	}
	return ps.profileRepo.PushExperience(ctx, userId, exp)
}

func (ps *ProfileService) RemoveExperience(ctx context.Context, userId, expId primitive.ObjectID) (*models.Profile, error) {
	return ps.profileRepo.PullExperience(ctx, userId, expId)
}

func (ps *ProfileService) AddEducation(ctx context.Context, userId primitive.ObjectID, in models.EducationInput) (*models.Profile, error) {
	in.School = strings.TrimSpace(in.School)
	in.Degree = strings.TrimSpace(in.Degree)
	in.FieldOfStudy = strings.TrimSpace(in.FieldOfStudy)
	in.From = strings.TrimSpace(in.From)
	in.To = strings.TrimSpace(in.To)
	if err := models.ValidateStruct(&in); err != nil {
		return nil, err
	}
	from, to, err := parsePeriod(in.From, in.To, in.Current)
	if err != nil {
		return nil, err
	}

	edu := models.Education{
		ID:           primitive.NewObjectID(),
		School:       in.School,
		Degree:       in.Degree,
		FieldOfStudy: in.FieldOfStudy,
		From:         from,
		To:           to,
		Current:      in.Current,
		Description:  in.Description,
	}
	return ps.profileRepo.PushEducation(ctx, userId, edu)
}

func (ps *ProfileService) RemoveEducation(ctx context.Context, userId, eduId primitive.ObjectID) (*models.Profile, error) {
	return ps.profileRepo.PullEducation(ctx, userId, eduId)
}

// parsePeriod parses the from/to dates of an entry. A current entry has no end.
func parsePeriod(fromRaw, toRaw string, current bool) (from time.Time, to *time.Time, err error) {
	from, err = helpers.ParseDate(fromRaw)
	if err != nil {
		return from, nil, models.NewValidationError("from", "From date is invalid")
	}
	if current || strings.TrimSpace(toRaw) == "" {
		return from, nil, nil
	}
	end, err := helpers.ParseDate(toRaw)
	if err != nil {
		return from, nil, models.NewValidationError("to", "To date is invalid")
	}
	if end.Before(from) {
		return from, nil, models.NewValidationError("to", "To date must not be before from date")
	}
	return from, &end, nil
}

// DeleteAccount removes the user's posts, profile and account in that order.
// Every step runs even when an earlier one failed or found nothing.
func (ps *ProfileService) DeleteAccount(ctx context.Context, userId primitive.ObjectID) error {
	var errs []error
	if _, err := ps.postRepo.DeletePostsByUser(ctx, userId); err != nil {
		errs = append(errs, fmt.Errorf("delete posts: %w", err))
	}
	if err := ps.profileRepo.DeleteProfile(ctx, userId); err != nil {
		errs = append(errs, fmt.Errorf("delete profile: %w", err))
	}
	if err := ps.userRepo.DeleteUser(ctx, userId); err != nil {
		errs = append(errs, fmt.Errorf("delete user: %w", err))
	}
	return errors.Join(errs...)
}

func (ps *ProfileService) FetchRepositories(ctx context.Context, username string) ([]Repository, error) {
	username = helpers.StringTrim(username)
	if username == "" {
		return nil, models.ErrGithubProfileNotFound
	}
	return ps.repoLookup.Repositories(ctx, username)
}
