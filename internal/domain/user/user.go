// Package user holds the account entity, the password policy, and the
// account CRUD service.
package user

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/orderdesk/api/internal/domain/actor"
)

var (
	// ErrNotFound is returned when a requested user does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when the email is already registered.
	ErrEmailTaken = errors.New("email already in use")
	// ErrInUse is returned when a user cannot be deleted because orders
	// still reference them.
	ErrInUse = errors.New("user is referenced by existing orders")
	// ErrPasswordLength is returned when a password is shorter than 3 or
	// longer than 8 characters.
	ErrPasswordLength = errors.New("password must be between 3 and 8 characters")
	// ErrPasswordPattern is returned when a password is missing a letter,
	// a digit, or a special character, or contains a disallowed character.
	ErrPasswordPattern = errors.New("password must contain a letter, a digit and one of @$!%*?&")
	// ErrAccessDenied is returned for ownership violations on user
	// operations.
	ErrAccessDenied = errors.New("access denied")
)

const specialChars = "@$!%*?&"

// User is a customer or administrator account. PasswordHash holds a bcrypt
// hash; the clear-text password never leaves the create/update path.
type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Role         actor.Role
}

// Repository defines persistence operations for users.
type Repository interface {
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context) ([]User, error)
	Save(ctx context.Context, u *User) error
	DeleteByID(ctx context.Context, id string) error
}

// ValidatePassword enforces the account password policy: 3-8 characters,
// at least one letter, one digit and one special character, and nothing
// outside letters, digits and the special set.
func ValidatePassword(password string) error {
	if len(password) < 3 || len(password) > 8 {
		return ErrPasswordLength
	}
	var hasLetter, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
			hasLetter = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(specialChars, r):
			hasSpecial = true
		default:
			return ErrPasswordPattern
		}
	}
	if !hasLetter || !hasDigit || !hasSpecial {
		return ErrPasswordPattern
	}
	return nil
}

// CheckPassword compares a clear-text password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// CreateRequest holds the input for registering a user.
type CreateRequest struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     actor.Role
}

// UpdateRequest holds the optional field deltas for a patch update.
type UpdateRequest struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// Service provides account CRUD on top of a Repository.
type Service struct {
	users Repository
}

// NewService creates a user Service.
func NewService(users Repository) *Service {
	return &Service{users: users}
}

// Create registers a new account. The email must be unused and the password
// must satisfy the policy. Self-registration always yields the USER role;
// only an admin caller may set a different role.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*User, error) {
	if existing, err := s.users.FindByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	} else if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, errors.Wrap(err, "check email")
	}
	if err := ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	role := req.Role
	if role == "" {
		role = actor.RoleUser
	}
	u := &User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.users.Save(ctx, u); err != nil {
		return nil, errors.Wrap(err, "save user")
	}
	return u, nil
}

// Get returns the user with the given id.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.users.FindByID(ctx, id)
}

// List returns all users for admins; a plain user sees only their own
// account. Scoping never fails, it narrows.
func (s *Service) List(ctx context.Context, act actor.Actor) ([]User, error) {
	if !act.IsAdmin() {
		u, err := s.users.FindByID(ctx, act.ID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return []User{}, nil
			}
			return nil, err
		}
		return []User{*u}, nil
	}
	return s.users.FindAll(ctx)
}

// Update applies the provided field deltas. Non-admins may only update
// their own account.
func (s *Service) Update(ctx context.Context, act actor.Actor, id string, req UpdateRequest) (*User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !act.IsAdmin() && act.ID != id {
		return nil, errors.Wrap(ErrAccessDenied, "update user")
	}

	if req.Name != "" {
		u.Name = req.Name
	}
	if req.Email != "" && req.Email != u.Email {
		if existing, err := s.users.FindByEmail(ctx, req.Email); err == nil && existing != nil && existing.ID != id {
			return nil, ErrEmailTaken
		} else if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, errors.Wrap(err, "check email")
		}
		u.Email = req.Email
	}
	if req.Phone != "" {
		u.Phone = req.Phone
	}
	if req.Password != "" {
		if err := ValidatePassword(req.Password); err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, errors.Wrap(err, "hash password")
		}
		u.PasswordHash = string(hash)
	}

	if err := s.users.Save(ctx, u); err != nil {
		return nil, errors.Wrap(err, "save user")
	}
	return u, nil
}

// Delete removes an account. Non-admins may only delete their own account.
// Deleting a user who still owns orders fails with ErrInUse.
func (s *Service) Delete(ctx context.Context, act actor.Actor, id string) error {
	if !act.IsAdmin() && act.ID != id {
		return errors.Wrap(ErrAccessDenied, "delete user")
	}
	return s.users.DeleteByID(ctx, id)
}
