// Package auth implements the login stub: one configurable admin
// credential checked with bcrypt, and reader logins resolved against
// the catalog. It is deliberately not an account system; reader
// passwords are the decimal user id, a placeholder scheme carried over
// from the system this replaces.
package auth

import (
	"errors"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"librarium/internal/config"
	"librarium/internal/entities"
)

// Role distinguishes the admin dashboard from reader dashboards.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleReader Role = "reader"
)

// AdminUserID is the pseudo user id for the admin identity.
const AdminUserID = 0

var ErrInvalidCredentials = errors.New("invalid username or password")

// UserDirectory is the slice of the catalog the login stub needs.
type UserDirectory interface {
	FindUserByNameOrEmail(nameOrEmail string) *entities.User
}

// Identity is the result of a successful login.
type Identity struct {
	UserID   int    `json:"userId"`
	Username string `json:"username"`
	Role     Role   `json:"userType"`
}

// Service validates credentials.
type Service struct {
	directory     UserDirectory
	adminUsername string
	adminHash     []byte
}

// NewService hashes the configured admin password once at startup so
// every login check goes through bcrypt regardless of account type.
func NewService(directory UserDirectory, cfg config.Auth) (*Service, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	return &Service{
		directory:     directory,
		adminUsername: cfg.AdminUsername,
		adminHash:     hash,
	}, nil
}

// Authenticate checks the credential pair and returns the identity it
// resolves to. Readers may log in with their name or email.
func (s *Service) Authenticate(username, password string) (*Identity, error) {
	if username == s.adminUsername {
		if bcrypt.CompareHashAndPassword(s.adminHash, []byte(password)) == nil {
			return &Identity{UserID: AdminUserID, Username: s.adminUsername, Role: RoleAdmin}, nil
		}
		return nil, ErrInvalidCredentials
	}

	user := s.directory.FindUserByNameOrEmail(username)
	if user != nil && password == strconv.Itoa(user.ID) {
		return &Identity{UserID: user.ID, Username: user.Name, Role: RoleReader}, nil
	}
	return nil, ErrInvalidCredentials
}
