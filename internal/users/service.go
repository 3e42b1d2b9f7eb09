package users

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/odyssey-erp/odyssey-stock/internal/masterdata/shared"
	"github.com/odyssey-erp/odyssey-stock/internal/rbac"
	internalShared "github.com/odyssey-erp/odyssey-stock/internal/shared"
)

// Service handles user business logic.
type Service struct {
	repo RepositoryPort
	cost int
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, cost: bcrypt.DefaultCost}
}

// ListUsers returns users matching the filters.
func (s *Service) ListUsers(ctx context.Context, filters shared.ListFilters) ([]User, int, error) {
	return s.repo.ListUsers(ctx, filters)
}

// SaveUser creates or updates an account. Branch roles must be bound to a
// branch; the administrator is stored without one.
func (s *Service) SaveUser(ctx context.Context, form UserForm) (User, error) {
	role := rbac.ParseRole(form.Role)
	if !role.Known() {
		return User{}, internalShared.NewUserError(internalShared.MsgFieldInvalid, "role")
	}
	u := User{
		ID:       form.ID,
		Username: strings.ToLower(strings.TrimSpace(form.Username)),
		FullName: strings.TrimSpace(form.FullName),
		Email:    strings.ToLower(strings.TrimSpace(form.Email)),
		Role:     string(role),
		BranchID: strings.TrimSpace(form.BranchID),
		IsActive: form.IsActive == nil || *form.IsActive,
	}
	if u.Username == "" {
		return User{}, internalShared.NewUserError(internalShared.MsgFieldRequired, "username")
	}
	if rbac.CrossBranch(role) {
		u.BranchID = ""
	} else if u.BranchID == "" {
		return User{}, internalShared.NewUserError(internalShared.MsgAdminBranch)
	}

	creating := u.ID == ""
	if creating && form.Password == "" {
		return User{}, internalShared.NewUserError(internalShared.MsgFieldRequired, "password")
	}
	var hash string
	if form.Password != "" {
		if utf8.RuneCountInString(form.Password) < MinPasswordLength {
			return User{}, internalShared.NewUserError(internalShared.MsgPasswordShort)
		}
		if len(form.Password) > MaxPasswordBytes {
			return User{}, internalShared.NewUserError(internalShared.MsgPasswordLong)
		}
		raw, err := bcrypt.GenerateFromPassword([]byte(form.Password), s.cost)
		if err != nil {
			return User{}, err
		}
		hash = string(raw)
	}

	if creating {
		u.ID = uuid.NewString()
		if err := s.repo.CreateUser(ctx, u, hash); err != nil {
			return User{}, err
		}
		return u, nil
	}
	if _, err := uuid.Parse(u.ID); err != nil {
		return User{}, internalShared.NewUserError(internalShared.MsgFieldInvalid, "id")
	}
	if err := s.repo.UpdateUser(ctx, u, hash); err != nil {
		return User{}, err
	}
	return u, nil
}

// DeleteUser removes an account other than the caller's own.
func (s *Service) DeleteUser(ctx context.Context, actorID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return internalShared.NewUserError(internalShared.MsgFieldInvalid, "id")
	}
	if id == actorID {
		return internalShared.NewUserError(internalShared.MsgSelfDelete)
	}
	return s.repo.DeleteUser(ctx, id)
}
