package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"storefront/internal/events"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// RegisterInput is the data needed to create an account.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     *string
}

// UpdateUserInput lists the user fields that can change; nil fields stay as they are.
type UpdateUserInput struct {
	Email     *string
	Password  *string
	FirstName *string
	LastName  *string
	Phone     *string
	IsActive  *bool
}

// UserService handles accounts.
type UserService struct {
	repo      repositories.UserRepository
	publisher events.Publisher
}

func NewUserService(repo repositories.UserRepository, publisher events.Publisher) *UserService {
	return &UserService{repo: repo, publisher: publisher}
}

// ListUsers returns every user, or only the one registered under email when it is set.
func (s *UserService) ListUsers(email string) ([]models.User, error) {
	if email = strings.TrimSpace(email); email != "" {
		user, err := s.repo.GetByEmail(email)
		if errors.Is(err, repositories.ErrNotFound) {
			return []models.User{}, nil
		}
		if err != nil {
			return nil, err
		}
		return []models.User{user.Public()}, nil
	}

	users, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	out := make([]models.User, len(users))
	for i, u := range users {
		out[i] = u.Public()
	}
	return out, nil
}

func (s *UserService) GetUser(id int) (*models.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fromRepo(err, "User")
	}
	public := user.Public()
	return &public, nil
}

// Register creates an active account with a hashed password.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := strings.TrimSpace(in.Email)
	fields := map[string]string{}
	if !ValidEmail(email) {
		fields["email"] = "A valid email address is required"
	}
	if problem := PasswordProblem(in.Password); problem != "" {
		fields["password"] = problem
	}
	if strings.TrimSpace(in.FirstName) == "" {
		fields["first_name"] = "First name is required"
	}
	if len(fields) > 0 {
		return nil, ValidationError("Invalid registration data", fields)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:     email,
		Password:  string(hashed),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Phone:     in.Phone,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, newError(ErrConflict, "Email already exists")
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	if err := s.publisher.Publish(ctx, events.UserRegistered(*user)); err != nil {
		log.Printf("Failed to publish registration of user %d: %v", user.ID, err)
	}

	public := user.Public()
	return &public, nil
}

// UpdateUser applies the non-nil fields of in.
func (s *UserService) UpdateUser(id int, in UpdateUserInput) (*models.User, error) {
	patch := map[string]any{}
	fields := map[string]string{}

	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if !ValidEmail(email) {
			fields["email"] = "A valid email address is required"
		}
		patch["email"] = email
	}
	if in.Password != nil {
		if problem := PasswordProblem(*in.Password); problem != "" {
			fields["password"] = problem
		} else {
			hashed, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
			if err != nil {
				return nil, fmt.Errorf("failed to hash password: %w", err)
			}
			patch["password"] = string(hashed)
		}
	}
	if in.FirstName != nil {
		patch["first_name"] = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		patch["last_name"] = strings.TrimSpace(*in.LastName)
	}
	if in.Phone != nil {
		patch["phone"] = *in.Phone
	}
	if in.IsActive != nil {
		patch["is_active"] = *in.IsActive
	}
	if len(fields) > 0 {
		return nil, ValidationError("Invalid user data", fields)
	}
	if len(patch) == 0 {
		return s.GetUser(id)
	}

	user, err := s.repo.Update(id, patch)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, newError(ErrConflict, "Email already exists")
		}
		return nil, fromRepo(err, "User")
	}
	public := user.Public()
	return &public, nil
}

func (s *UserService) DeleteUser(id int) error {
	return fromRepo(s.repo.Delete(id), "User")
}
