package mock

import (
	"context"
	"time"

	"github.com/jobtrail/jobtrail/pkg/models"
)

// Test helpers and mocks
type Mocks struct {
	UserRepo *UserRepo
}

func NewMocks() *Mocks {
	return &Mocks{
		UserRepo: &UserRepo{},
	}
}

// UserRepo is a single-user mock with error injection for handler tests.
type UserRepo struct {
	Stored   *models.User
	PutErr   error
	GetErr   error
	PatchErr error
}

func (m *UserRepo) PutUser(ctx context.Context, u *models.User) error {
	if m.PutErr != nil {
		return m.PutErr
	}
	cp := *u
	m.Stored = &cp
	return nil
}

func (m *UserRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if m.Stored != nil && m.Stored.ID == id {
		cp := *m.Stored
		return &cp, nil
	}
	return nil, nil
}

func (m *UserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if m.Stored != nil && m.Stored.Email == email {
		cp := *m.Stored
		return &cp, nil
	}
	return nil, nil
}

func (m *UserRepo) ListAllUsers(ctx context.Context) ([]models.User, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if m.Stored == nil {
		return nil, nil
	}
	return []models.User{*m.Stored}, nil
}

func (m *UserRepo) PatchUser(ctx context.Context, id string, fields map[string]any) error {
	if m.PatchErr != nil {
		return m.PatchErr
	}
	if m.Stored == nil || m.Stored.ID != id {
		return nil
	}
	if v, ok := fields["name"].(string); ok {
		m.Stored.Name = v
	}
	if v, ok := fields["company"].(string); ok {
		m.Stored.Company = v
	}
	if v, ok := fields["headline"].(string); ok {
		m.Stored.Headline = v
	}
	if v, ok := fields["passwordHash"].(string); ok {
		m.Stored.PasswordHash = v
	}
	if v, ok := fields["updatedAt"].(time.Time); ok {
		m.Stored.UpdatedAt = v
	}
	return nil
}
