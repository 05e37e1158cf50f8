package services

import (
	"context"
	"testing"
	"time"

	"github.com/joshua-takyi/devnet/internal/helpers"
	"github.com/joshua-takyi/devnet/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeLookup struct {
	repos []Repository
	err   error
	calls []string
}

func (f *fakeLookup) Repositories(ctx context.Context, username string) ([]Repository, error) {
	f.calls = append(f.calls, username)
	return f.repos, f.err
}

type fixture struct {
	repo     *models.MemoryRepo
	tokens   *helpers.TokenService
	users    *UserService
	profiles *ProfileService
	posts    *PostService
	lookup   *fakeLookup
}

func newFixture() *fixture {
	repo := models.NewMemoryRepo()
	tokens := helpers.NewTokenService("test-secret", time.Hour)
	lookup := &fakeLookup{}
	return &fixture{
		repo:     repo,
		tokens:   tokens,
		users:    NewUserService(repo, tokens),
		profiles: NewProfileService(repo, repo, repo, lookup),
		posts:    NewPostService(repo, repo),
		lookup:   lookup,
	}
}

// register creates a user and returns its id.
func (f *fixture) register(t *testing.T, name, email string) primitive.ObjectID {
	t.Helper()
	token, err := f.users.Register(context.Background(), models.RegisterInput{Name: name, Email: email, Password: "123456"})
	if err != nil {
		t.Fatalf("Register(%s): %v", email, err)
	}
	subject, err := f.tokens.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	id, err := primitive.ObjectIDFromHex(subject)
	if err != nil {
		t.Fatalf("subject %q is not an object id", subject)
	}
	return id
}

func strPtr(s string) *string { return &s }

func wantKind(t *testing.T, err error, kind models.ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error of kind %v, got nil", kind)
	}
	if got := models.KindOf(err); got != kind {
		t.Fatalf("error %v has kind %v, want %v", err, got, kind)
	}
}
