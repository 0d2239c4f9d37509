// Package service provides the business logic between the controllers and the
// remote database/storage clients.
package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"rx-vault/database/model"
	"rx-vault/util/crypto"
)

// allowedEmailDomain is the suffix every registration email must carry.
const allowedEmailDomain = "@gmail.com"

// ErrInvalidCredentials is returned for an unknown email as well as a wrong
// password, so a caller cannot enumerate accounts.
var ErrInvalidCredentials = errors.New("Invalid email or password.")

// UserStore is the slice of the database client the user service needs.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
}

// UserService registers accounts and verifies credentials.
type UserService struct {
	db UserStore
}

func NewUserService(db UserStore) *UserService {
	return &UserService{db: db}
}

// Register validates the submitted form fields in order and inserts a new
// user with a hashed password. The email-exists check and the insert are two
// separate calls; concurrent registrations of the same email can race.
func (s *UserService) Register(ctx context.Context, email, username, ageRaw, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)
	ageRaw = strings.TrimSpace(ageRaw)
	password = strings.TrimSpace(password)

	if email == "" || username == "" || ageRaw == "" || password == "" {
		return ValidationError("All fields are required.")
	}
	if !strings.HasSuffix(email, allowedEmailDomain) {
		return ValidationError("Please use a Gmail address.")
	}
	age, err := strconv.Atoi(ageRaw)
	if err != nil || age <= 0 {
		return ValidationError("Age must be a valid positive number.")
	}
	if len(password) < 6 {
		return ValidationError("Password must be at least 6 characters.")
	}

	existing, err := s.db.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ValidationError("Email is already registered.")
	}

	hash, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return err
	}

	return s.db.CreateUser(ctx, &model.User{
		Email:        email,
		Username:     username,
		Age:          age,
		PasswordHash: hash,
	})
}

// Login looks up the user by email and verifies the password against the
// stored hash. Both failure modes yield ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	password = strings.TrimSpace(password)

	user, err := s.db.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if !crypto.CheckPasswordHash(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
