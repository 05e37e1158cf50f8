package models

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepo is a process-local store implementing UserRepo, ProfileRepo and
// PostRepo. Every method holds the lock for its whole read-modify-write, which
// gives it the same per-call atomicity as the conditional Mongo updates.
type MemoryRepo struct {
	mu       sync.RWMutex
	users    map[primitive.ObjectID]*User
	profiles map[primitive.ObjectID]*Profile // keyed by owning user
	posts    map[primitive.ObjectID]*Post
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		users:    make(map[primitive.ObjectID]*User),
		profiles: make(map[primitive.ObjectID]*Profile),
		posts:    make(map[primitive.ObjectID]*Post),
	}
}

func (m *MemoryRepo) CreateUser(ctx context.Context, user *User) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, ErrUserExists
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	stored := *user
	m.users[user.ID] = &stored
	return user, nil
}

func (m *MemoryRepo) GetUserByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (m *MemoryRepo) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			out := *u
			return &out, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *MemoryRepo) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.users, id)
	return nil
}

func (m *MemoryRepo) GetProfileByUser(ctx context.Context, userId primitive.ObjectID) (*Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[userId]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return m.withOwner(p), nil
}

func (m *MemoryRepo) ListProfiles(ctx context.Context) ([]*Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		out = append(out, m.withOwner(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// withOwner copies p and joins the owner's summary. Callers hold the lock.
func (m *MemoryRepo) withOwner(p *Profile) *Profile {
	out := copyProfile(p)
	if u, ok := m.users[p.User]; ok {
		out.Owner = &UserSummary{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
	}
	return out
}

func (m *MemoryRepo) UpsertProfile(ctx context.Context, userId primitive.ObjectID, changes *ProfileChanges, allowCreate bool) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[userId]
	if !ok {
		if !allowCreate {
			return nil, ErrProfileNotFound
		}
		p = &Profile{
			ID:         primitive.NewObjectID(),
			User:       userId,
			Experience: []Experience{},
			Education:  []Education{},
			Date:       time.Now(),
		}
		m.profiles[userId] = p
	}
	changes.ApplyTo(p)
	return copyProfile(p), nil
}

func (m *MemoryRepo) PushExperience(ctx context.Context, userId primitive.ObjectID, exp Experience) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[userId]
	if !ok {
		return nil, ErrProfileNotFound
	}
	p.Experience = append([]Experience{exp}, p.Experience...)
	return copyProfile(p), nil
}

func (m *MemoryRepo) PullExperience(ctx context.Context, userId, expId primitive.ObjectID) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[userId]
	if !ok {
		return nil, ErrProfileNotFound
	}
	for i, e := range p.Experience {
		if e.ID == expId {
			p.Experience = append(p.Experience[:i:i], p.Experience[i+1:]...)
			return copyProfile(p), nil
		}
	}
	return nil, ErrExperienceNotFound
}

func (m *MemoryRepo) PushEducation(ctx context.Context, userId primitive.ObjectID, edu Education) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[userId]
	if !ok {
		return nil, ErrProfileNotFound
	}
	p.Education = append([]Education{edu}, p.Education...)
	return copyProfile(p), nil
}

func (m *MemoryRepo) PullEducation(ctx context.Context, userId, eduId primitive.ObjectID) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[userId]
	if !ok {
		return nil, ErrProfileNotFound
	}
	for i, e := range p.Education {
		if e.ID == eduId {
			p.Education = append(p.Education[:i:i], p.Education[i+1:]...)
			return copyProfile(p), nil
		}
	}
	return nil, ErrEducationNotFound
}

func (m *MemoryRepo) DeleteProfile(ctx context.Context, userId primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.profiles, userId)
	return nil
}

func (m *MemoryRepo) CreatePost(ctx context.Context, post *Post) (*Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	if post.Likes == nil {
		post.Likes = []Like{}
	}
	if post.Comments == nil {
		post.Comments = []Comment{}
	}
	m.posts[post.ID] = copyPost(post)
	return copyPost(post), nil
}

func (m *MemoryRepo) ListPosts(ctx context.Context) ([]*Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Post, 0, len(m.posts))
	for _, p := range m.posts {
		out = append(out, copyPost(p))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (m *MemoryRepo) GetPost(ctx context.Context, postId primitive.ObjectID) (*Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.posts[postId]
	if !ok {
		return nil, ErrPostNotFound
	}
	return copyPost(p), nil
}

func (m *MemoryRepo) DeletePost(ctx context.Context, postId, userId primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[postId]
	if !ok {
		return ErrPostNotFound
	}
	if p.User != userId {
		return ErrNotAuthorized
	}
	delete(m.posts, postId)
	return nil
}

func (m *MemoryRepo) DeletePostsByUser(ctx context.Context, userId primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for id, p := range m.posts {
		if p.User == userId {
			delete(m.posts, id)
			n++
		}
	}
	return n, nil
}

func (m *MemoryRepo) AddLike(ctx context.Context, postId, userId primitive.ObjectID) (*Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[postId]
	if !ok {
		return nil, ErrPostNotFound
	}
	if p.LikedBy(userId) {
		return nil, ErrAlreadyLiked
	}
	p.Likes = append([]Like{{User: userId}}, p.Likes...)
	return copyPost(p), nil
}

func (m *MemoryRepo) RemoveLike(ctx context.Context, postId, userId primitive.ObjectID) (*Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[postId]
	if !ok {
		return nil, ErrPostNotFound
	}
	for i, l := range p.Likes {
		if l.User == userId {
			p.Likes = append(p.Likes[:i:i], p.Likes[i+1:]...)
			return copyPost(p), nil
		}
	}
	return nil, ErrNotLiked
}

func (m *MemoryRepo) AddComment(ctx context.Context, postId primitive.ObjectID, comment Comment) (*Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[postId]
	if !ok {
		return nil, ErrPostNotFound
	}
	p.Comments = append([]Comment{comment}, p.Comments...)
	return copyPost(p), nil
}

func (m *MemoryRepo) RemoveComment(ctx context.Context, postId, commentId, userId primitive.ObjectID) (*Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[postId]
	if !ok {
		return nil, ErrPostNotFound
	}
	i := p.CommentIndex(commentId)
	if i < 0 {
		return nil, ErrCommentNotFound
	}
	if p.Comments[i].User != userId {
		return nil, ErrNotAuthorized
	}
	p.Comments = append(p.Comments[:i:i], p.Comments[i+1:]...)
	return copyPost(p), nil
}

func copyProfile(p *Profile) *Profile {
	out := *p
	out.Owner = nil
	out.Skills = append([]string(nil), p.Skills...)
	out.Experience = append([]Experience{}, p.Experience...)
	out.Education = append([]Education{}, p.Education...)
	if p.Social != nil {
		out.Social = make(map[string]string, len(p.Social))
		for k, v := range p.Social {
			out.Social[k] = v
		}
	}
	return &out
}

func copyPost(p *Post) *Post {
	out := *p
	out.Likes = append([]Like{}, p.Likes...)
	out.Comments = append([]Comment{}, p.Comments...)
	return &out
}
