package repositories

import (
	"errors"
	"fmt"
	"strings"

	"storefront/internal/models"
	"storefront/internal/store"
)

// JSONUserRepository keeps users in the "users" collection of the JSON store.
type JSONUserRepository struct {
	store *store.Store
}

// NewJSONUserRepository creates a new instance of JSONUserRepository.
func NewJSONUserRepository(s *store.Store) *JSONUserRepository {
	return &JSONUserRepository{store: s}
}

func (r *JSONUserRepository) GetAll() ([]models.User, error) {
	var users []models.User
	err := r.store.View(func(tx *store.Tx) error {
		var err error
		users, err = store.All[models.User](tx, usersCollection)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	return users, nil
}

func (r *JSONUserRepository) GetByID(id int) (*models.User, error) {
	var user models.User
	err := r.store.View(func(tx *store.Tx) error {
		var err error
		user, err = store.Get[models.User](tx, usersCollection, id)
		return err
	})
	if err != nil {
		return nil, notFoundOr(err, "user with ID %d not found", id)
	}
	return &user, nil
}

func (r *JSONUserRepository) GetByEmail(email string) (*models.User, error) {
	var (
		user  models.User
		found bool
	)
	err := r.store.View(func(tx *store.Tx) error {
		var err error
		user, found, err = store.Find(tx, usersCollection, sameEmail(email))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	if !found {
		return nil, fmt.Errorf("user with email %s not found: %w", email, ErrNotFound)
	}
	return &user, nil
}

func (r *JSONUserRepository) Create(user *models.User) error {
	return r.store.Update(func(tx *store.Tx) error {
		_, taken, err := store.Find(tx, usersCollection, sameEmail(user.Email))
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("email '%s' already registered: %w", user.Email, ErrDuplicate)
		}
		created, err := store.Insert(tx, usersCollection, *user)
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		*user = created
		return nil
	})
}

func (r *JSONUserRepository) Update(id int, patch map[string]any) (*models.User, error) {
	var user models.User
	err := r.store.Update(func(tx *store.Tx) error {
		if email, ok := patch["email"].(string); ok {
			other, taken, err := store.Find(tx, usersCollection, sameEmail(email))
			if err != nil {
				return err
			}
			if taken && other.ID != id {
				return fmt.Errorf("email '%s' already registered: %w", email, ErrDuplicate)
			}
		}
		var err error
		user, err = store.Patch[models.User](tx, usersCollection, id, patch)
		return err
	})
	if err != nil {
		return nil, notFoundOr(err, "user with ID %d not found for update", id)
	}
	return &user, nil
}

func (r *JSONUserRepository) Delete(id int) error {
	err := r.store.Update(func(tx *store.Tx) error {
		return store.Delete(tx, usersCollection, id)
	})
	if err != nil {
		return notFoundOr(err, "user with ID %d not found for deletion", id)
	}
	return nil
}

func sameEmail(email string) func(models.User) bool {
	return func(u models.User) bool {
		return strings.EqualFold(u.Email, email)
	}
}

// notFoundOr converts store.ErrNotFound into ErrNotFound with a readable
// message and passes every other error through.
func notFoundOr(err error, format string, args ...any) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
	}
	return err
}
