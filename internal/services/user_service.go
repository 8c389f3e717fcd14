package services

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
	"busbooking/internal/notify"
	"busbooking/internal/utils"
)

// UserService covers admin-side account provisioning. Self-service
// registration and login live in the auth handler.
type UserService struct {
	Users  UserStore
	Mailer notify.Sender
}

func NewUserService(users UserStore, mailer notify.Sender) *UserService {
	return &UserService{Users: users, Mailer: mailer}
}

type CreateUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
}

// CreateUser provisions an account with a generated temporary password and
// mails the credentials. Unlike booking notifications the mail is part of
// the contract here: if it cannot be delivered the account is removed again,
// since the holder would have no way to log in.
func (s *UserService) CreateUser(req CreateUserRequest) (models.User, error) {
	if req.Email == "" || req.FirstName == "" {
		return models.User{}, domain.ValidationError{Field: "email", Msg: "first name and email are required"}
	}
	role := req.Role
	if role == "" {
		role = "user"
	}
	if role != "user" && role != "admin" {
		return models.User{}, domain.ValidationError{Field: "role", Msg: "role must be user or admin"}
	}

	exists, err := s.Users.EmailExists(req.Email)
	if err != nil {
		return models.User{}, err
	}
	if exists {
		return models.User{}, domain.ConflictError{Resource: "user", Msg: "email is already registered"}
	}

	password, err := temporaryPassword()
	if err != nil {
		return models.User{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.Users.CreateUser(models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      role,
		Status:    "active",
	}, string(hash))
	if err != nil {
		return models.User{}, err
	}

	if s.Mailer == nil {
		s.rollback(user.ID)
		return models.User{}, domain.DependencyError{Dependency: "mail"}
	}
	if err := s.Mailer.Send(notify.AccountCredentials(user, password)); err != nil {
		s.rollback(user.ID)
		return models.User{}, err
	}
	return user, nil
}

func (s *UserService) rollback(userID int64) {
	if err := s.Users.DeleteUser(userID); err != nil {
		utils.LogEvent("", "user", "rollback", fmt.Sprintf("user=%d err=%v", userID, err))
	}
}

func temporaryPassword() (string, error) {
	buf := make([]byte, 9)
	if _, err := rand.Read(buf); err != nil {
		return "", domain.InternalError{Msg: "password generation failed", Err: err}
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
