package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"inventory-api/internal/model"
	"inventory-api/internal/repository"
	"inventory-api/pkg/jwt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const resetTokenTTL = time.Hour

// DTOs for Request validation
type RegisterRequest struct {
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=6"`
	ProfilePicture string `json:"profilePicture"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	ProfilePicture string `json:"profilePicture"`
	Password       string `json:"password" validate:"omitempty,min=6"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// UserResponse is the public view of an admin user
type UserResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Picture string    `json:"picture"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ForgotPasswordResponse carries the reset token only when the server is not in release mode
type ForgotPasswordResponse struct {
	ResetToken string    `json:"reset_token,omitempty"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type UserService interface {
	Register(ctx context.Context, req RegisterRequest) (*UserResponse, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserResponse, error)
	ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (*ForgotPasswordResponse, error)
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
	SeedAdmin(ctx context.Context, req RegisterRequest) (*UserResponse, bool, error)
	SetPassword(ctx context.Context, email, password string) error
}

// UserOptions tunes registration and password reset
type UserOptions struct {
	AllowedEmailDomains []string
	ExposeResetToken    bool
}

type userService struct {
	repo    repository.UserRepository
	tx      repository.TransactionManager
	audit   auditor
	tokens  *jwt.Manager
	options UserOptions
}

// NewUserService returns a new instance of UserService
func NewUserService(repo repository.UserRepository, auditRepo repository.AuditRepository, tx repository.TransactionManager, tokens *jwt.Manager, options UserOptions) UserService {
	return &userService{
		repo:    repo,
		tx:      tx,
		audit:   auditor{repo: auditRepo},
		tokens:  tokens,
		options: options,
	}
}

func toUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		Picture: user.ProfilePicture,
	}
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.New("failed to hash password")
	}
	return string(hashed), nil
}

// emailAllowed reports whether the email's domain is in the allow list. An empty list allows all.
func (s *userService) emailAllowed(email string) bool {
	if len(s.options.AllowedEmailDomains) == 0 {
		return true
	}
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	domain := strings.ToLower(email[at+1:])
	for _, allowed := range s.options.AllowedEmailDomains {
		if strings.ToLower(strings.TrimSpace(allowed)) == domain {
			return true
		}
	}
	return false
}

func (s *userService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if !s.emailAllowed(req.Email) {
		return nil, fmt.Errorf("%w: registration restricted to approved email domains", ErrForbidden)
	}

	user, err := s.create(ctx, req, SystemActor)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

func (s *userService) create(ctx context.Context, req RegisterRequest, actor Actor) (*model.User, error) {
	hashed, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:           req.Name,
		Email:          req.Email,
		Password:       hashed,
		ProfilePicture: req.ProfilePicture,
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.FindByEmail(txCtx, req.Email); err == nil {
			return fmt.Errorf("email %w", ErrConflict)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := s.repo.Create(txCtx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return s.audit.record(txCtx, actor, model.ActionRegisterUser, user.ID.String(), user.Email, map[string]string{"name": user.Name})
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.emailAllowed(user.Email) {
		return nil, fmt.Errorf("%w: login restricted to approved email domains", ErrForbidden)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID, jwt.RoleAdmin)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{Token: token, User: *toUserResponse(user)}, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	var user *model.User
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		user, err = s.repo.FindByID(txCtx, userID)
		if err != nil {
			return notFound(err, "user")
		}

		if !strings.EqualFold(user.Email, req.Email) {
			if _, err := s.repo.FindByEmail(txCtx, req.Email); err == nil {
				return fmt.Errorf("email %w", ErrConflict)
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		user.Name = req.Name
		user.Email = req.Email
		user.ProfilePicture = req.ProfilePicture
		if req.Password != "" {
			hashed, err := hashPassword(req.Password)
			if err != nil {
				return err
			}
			user.Password = hashed
		}

		if err := s.repo.Update(txCtx, user); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		return s.audit.record(txCtx, AdminActor(user.ID), model.ActionUpdateProfile, user.ID.String(), user.Email,
			map[string]bool{"password_changed": req.Password != ""})
	})
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// ForgotPassword issues a one hour reset token. Only its bcrypt hash is stored.
func (s *userService) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (*ForgotPasswordResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, notFound(err, "user")
	}

	token := uuid.NewString()
	hashed, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash reset token")
	}
	expiresAt := time.Now().Add(resetTokenTTL)

	user.ResetTokenHash = string(hashed)
	user.ResetTokenExpiresAt = &expiresAt
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to store reset token: %w", err)
	}
	log.Printf("Password reset token issued for %s, valid until %s", user.Email, expiresAt.Format(time.RFC3339))

	res := &ForgotPasswordResponse{ExpiresAt: expiresAt}
	if s.options.ExposeResetToken {
		res.ResetToken = token
	}
	return res, nil
}

func (s *userService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	invalidToken := invalid("invalid or expired token")
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		user, err := s.repo.FindByEmail(txCtx, req.Email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return invalidToken
			}
			return err
		}
		if user.ResetTokenHash == "" || user.ResetTokenExpiresAt == nil || time.Now().After(*user.ResetTokenExpiresAt) {
			return invalidToken
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.ResetTokenHash), []byte(req.Token)); err != nil {
			return invalidToken
		}

		hashed, err := hashPassword(req.Password)
		if err != nil {
			return err
		}
		user.Password = hashed
		user.ResetTokenHash = ""
		user.ResetTokenExpiresAt = nil

		if err := s.repo.Update(txCtx, user); err != nil {
			return fmt.Errorf("failed to reset password: %w", err)
		}
		return s.audit.record(txCtx, AdminActor(user.ID), model.ActionResetPassword, user.ID.String(), user.Email, map[string]string{"via": "token"})
	})
}

// SeedAdmin creates the admin unless the email is taken. The bool reports whether a user was created.
func (s *userService) SeedAdmin(ctx context.Context, req RegisterRequest) (*UserResponse, bool, error) {
	if err := validate(req); err != nil {
		return nil, false, err
	}

	existing, err := s.repo.FindByEmail(ctx, req.Email)
	if err == nil {
		return toUserResponse(existing), false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	user, err := s.create(ctx, req, SystemActor)
	if err != nil {
		return nil, false, err
	}
	return toUserResponse(user), true, nil
}

// SetPassword overwrites a user's password without a reset token
func (s *userService) SetPassword(ctx context.Context, email, password string) error {
	if len(password) < 6 {
		return invalid("password must be at least 6 characters")
	}

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		user, err := s.repo.FindByEmail(txCtx, email)
		if err != nil {
			return notFound(err, "user")
		}
		hashed, err := hashPassword(password)
		if err != nil {
			return err
		}
		user.Password = hashed
		user.ResetTokenHash = ""
		user.ResetTokenExpiresAt = nil
		if err := s.repo.Update(txCtx, user); err != nil {
			return fmt.Errorf("failed to set password: %w", err)
		}
		return s.audit.record(txCtx, SystemActor, model.ActionResetPassword, user.ID.String(), user.Email, map[string]string{"via": "cli"})
	})
}
