// Package account covers sign-up, sign-in and the admin user-management actions.
package account

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"brgyalert/backend/internal/apperr"
	"brgyalert/backend/internal/audit"
	"brgyalert/backend/internal/config"
	"brgyalert/backend/internal/credentials"
	"brgyalert/backend/internal/models"
	"brgyalert/backend/internal/policy"
	"brgyalert/backend/internal/ratelimit"
	"brgyalert/backend/internal/sanitize"
	"brgyalert/backend/internal/session"
	"brgyalert/backend/internal/storage"
)

const invalidCredentials = "invalid email or password"

var phonePattern = regexp.MustCompile(`^[\d\s\-\+\(\)]+$`)

// ValidPhone reports whether s looks like a phone number: digits, spaces and
// + - ( ) only, at most MaxPhoneLength characters.
func ValidPhone(s string) bool {
	return s != "" && utf8.RuneCountInString(s) <= config.MaxPhoneLength && phonePattern.MatchString(s)
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Phone    *string
	Address  *string
}

type LoginInput struct {
	Email    string
	Password string
}

// ProvisionInput creates an account outside the public sign-up flow.
type ProvisionInput struct {
	Email    string
	Password string
	Name     string
	Role     string
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Message   string       `json:"message"`
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// Service handles the business logic for accounts.
type Service struct {
	Storage  storage.Storage
	Sessions *session.Issuer
	Limiter  *ratelimit.Limiter
}

func NewService(s storage.Storage, sessions *session.Issuer, limiter *ratelimit.Limiter) *Service {
	return &Service{
		Storage:  s,
		Sessions: sessions,
		Limiter:  limiter,
	}
}

// Register creates a RESIDENT account and signs it in. Whatever role the
// client sends is ignored.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := models.NormalizeEmail(in.Email)
	if !strings.Contains(email, "@") {
		return nil, apperr.Validation("a valid email address is required")
	}
	// every attempt takes a slot, including ones rejected below
	if err := s.Limiter.Reserve(ctx, email); err != nil {
		return nil, err
	}

	user, err := s.newUser(email, in.Password, in.Name, models.RoleResident)
	if err != nil {
		return nil, err
	}
	if in.Phone != nil && strings.TrimSpace(*in.Phone) != "" {
		phone := strings.TrimSpace(*in.Phone)
		if !ValidPhone(phone) {
			return nil, apperr.Validation("invalid phone number format")
		}
		user.Phone = &phone
	}
	user.Address = sanitize.Optional(in.Address, config.MaxAddressLength)

	if _, err := s.Storage.GetUserByEmail(ctx, email); err == nil {
		return nil, apperr.Conflict("email already registered")
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.Internal(err)
	}

	err = s.Storage.WithinTx(ctx, func(tx storage.Repository) error {
		if err := tx.CreateUser(ctx, user); err != nil {
			return err
		}
		return audit.Append(ctx, tx, audit.ActionUserRegistered, user.ID,
			fmt.Sprintf("New user registered: %s", user.Email))
	})
	if errors.Is(err, storage.ErrDuplicate) {
		return nil, apperr.Conflict("email already registered")
	}
	if err != nil {
		return nil, apperr.From(err)
	}

	s.Limiter.Reset(ctx, email)
	return s.signIn(user, "Registration successful")
}

// Login reserves a rate-limit slot before touching credentials, so a blocked
// caller learns nothing about whether the account exists. Only a completed
// login gives the slots back.
func (s *Service) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	email := models.NormalizeEmail(in.Email)
	if err := s.Limiter.Reserve(ctx, email); err != nil {
		return nil, err
	}

	user, err := s.Storage.GetUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.Unauthenticated(invalidCredentials)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !credentials.Verify(in.Password, user.PasswordHash) {
		return nil, apperr.Unauthenticated(invalidCredentials)
	}
	if !user.Active() {
		return nil, apperr.Forbidden("account is deactivated")
	}

	if err := audit.Append(ctx, s.Storage, audit.ActionUserLogin, user.ID,
		fmt.Sprintf("User logged in: %s", user.Email)); err != nil {
		return nil, apperr.Internal(err)
	}
	s.Limiter.Reset(ctx, email)
	return s.signIn(user, "Login successful")
}

// Me reloads the caller's account.
func (s *Service) Me(ctx context.Context, actor *models.User) (*models.User, error) {
	user, err := s.Storage.GetUserByID(ctx, actor.ID)
	if err != nil {
		return nil, apperr.From(userNotFound(err))
	}
	return user, nil
}

func (s *Service) ListUsers(ctx context.Context, actor *models.User) ([]models.User, error) {
	if err := policy.Require(actor.Role, policy.UserList); err != nil {
		return nil, err
	}
	users, err := s.Storage.ListUsers(ctx, config.UserPage)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return users, nil
}

// UpdateRole changes another user's role. An admin cannot demote themselves,
// which keeps at least the acting admin in place.
func (s *Service) UpdateRole(ctx context.Context, actor *models.User, userID, rawRole string) (*models.User, error) {
	if err := policy.Require(actor.Role, policy.UserUpdateRole); err != nil {
		return nil, err
	}
	role, ok := models.ParseRole(rawRole)
	if !ok {
		return nil, apperr.Validation("invalid role %q", rawRole)
	}
	if userID == actor.ID && role != actor.Role {
		return nil, apperr.Forbidden("you cannot change your own role")
	}
	return s.setRole(ctx, actor.ID, userID, role)
}

// UpdateStatus activates or deactivates another user's account.
func (s *Service) UpdateStatus(ctx context.Context, actor *models.User, userID, rawStatus string) (*models.User, error) {
	if err := policy.Require(actor.Role, policy.UserUpdateStatus); err != nil {
		return nil, err
	}
	status, ok := models.ParseUserStatus(rawStatus)
	if !ok {
		return nil, apperr.Validation("invalid status %q", rawStatus)
	}
	if userID == actor.ID && status != models.UserActive {
		return nil, apperr.Forbidden("you cannot deactivate your own account")
	}
	return s.setStatus(ctx, actor.ID, userID, status)
}

func (s *Service) ResetPassword(ctx context.Context, actor *models.User, userID, password string) error {
	if err := policy.Require(actor.Role, policy.UserResetPassword); err != nil {
		return err
	}
	return s.setPassword(ctx, actor.ID, userID, password)
}

// Provision creates an account with any role. It is used by the admin CLI and
// audited as a system action.
func (s *Service) Provision(ctx context.Context, in ProvisionInput) (*models.User, error) {
	role, ok := models.ParseRole(in.Role)
	if !ok {
		return nil, apperr.Validation("invalid role %q", in.Role)
	}
	email := models.NormalizeEmail(in.Email)
	if !strings.Contains(email, "@") {
		return nil, apperr.Validation("a valid email address is required")
	}
	user, err := s.newUser(email, in.Password, in.Name, role)
	if err != nil {
		return nil, err
	}

	err = s.Storage.WithinTx(ctx, func(tx storage.Repository) error {
		if err := tx.CreateUser(ctx, user); err != nil {
			return err
		}
		return audit.Append(ctx, tx, audit.ActionUserCreated, "",
			fmt.Sprintf("User %s created with role %s", user.Email, user.Role))
	})
	if errors.Is(err, storage.ErrDuplicate) {
		return nil, apperr.Conflict("email already registered")
	}
	if err != nil {
		return nil, apperr.From(err)
	}
	return user, nil
}

// SystemSetRole, SystemSetStatus and SystemResetPassword address users by
// email and skip the role checks; the admin CLI is their only caller.
func (s *Service) SystemSetRole(ctx context.Context, email, rawRole string) (*models.User, error) {
	role, ok := models.ParseRole(rawRole)
	if !ok {
		return nil, apperr.Validation("invalid role %q", rawRole)
	}
	user, err := s.byEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.setRole(ctx, "", user.ID, role)
}

func (s *Service) SystemSetStatus(ctx context.Context, email string, status models.UserStatus) (*models.User, error) {
	user, err := s.byEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.setStatus(ctx, "", user.ID, status)
}

func (s *Service) SystemResetPassword(ctx context.Context, email, password string) error {
	user, err := s.byEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.setPassword(ctx, "", user.ID, password)
}

func (s *Service) setRole(ctx context.Context, actorID, userID string, role models.Role) (*models.User, error) {
	var target *models.User
	err := s.Storage.WithinTx(ctx, func(tx storage.Repository) error {
		u, err := tx.GetUserByID(ctx, userID)
		if err != nil {
			return userNotFound(err)
		}
		prev := u.Role
		if err := tx.UpdateUserRole(ctx, u.ID, role); err != nil {
			return userNotFound(err)
		}
		u.Role = role
		target = u
		return audit.Append(ctx, tx, audit.ActionUserRoleUpdate, actorID,
			fmt.Sprintf("User %s role changed from %s to %s", u.Email, prev, role))
	})
	if err != nil {
		return nil, apperr.From(err)
	}
	return target, nil
}

func (s *Service) setStatus(ctx context.Context, actorID, userID string, status models.UserStatus) (*models.User, error) {
	var target *models.User
	err := s.Storage.WithinTx(ctx, func(tx storage.Repository) error {
		u, err := tx.GetUserByID(ctx, userID)
		if err != nil {
			return userNotFound(err)
		}
		if err := tx.UpdateUserStatus(ctx, u.ID, status); err != nil {
			return userNotFound(err)
		}
		u.Status = status
		target = u
		return audit.Append(ctx, tx, audit.ActionUserStatusUpdate, actorID,
			fmt.Sprintf("User %s status set to %s", u.Email, status))
	})
	if err != nil {
		return nil, apperr.From(err)
	}
	return target, nil
}

func (s *Service) setPassword(ctx context.Context, actorID, userID, password string) error {
	if err := credentials.ValidatePassword(password); err != nil {
		return err
	}
	hash, err := credentials.Hash(password)
	if err != nil {
		return apperr.Internal(err)
	}

	err = s.Storage.WithinTx(ctx, func(tx storage.Repository) error {
		u, err := tx.GetUserByID(ctx, userID)
		if err != nil {
			return userNotFound(err)
		}
		if err := tx.UpdateUserPassword(ctx, u.ID, hash); err != nil {
			return userNotFound(err)
		}
		return audit.Append(ctx, tx, audit.ActionUserPasswordReset, actorID,
			fmt.Sprintf("Password reset for %s", u.Email))
	})
	if err != nil {
		return apperr.From(err)
	}
	return nil
}

func (s *Service) newUser(email, password, rawName string, role models.Role) (*models.User, error) {
	name := sanitize.Text(rawName, config.MaxNameLength)
	if utf8.RuneCountInString(name) < config.MinNameLength {
		return nil, apperr.Validation("name must be at least %d characters", config.MinNameLength)
	}
	if err := credentials.ValidatePassword(password); err != nil {
		return nil, err
	}
	hash, err := credentials.Hash(password)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
		Status:       models.UserActive,
	}, nil
}

func (s *Service) byEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.Storage.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, apperr.From(userNotFound(err))
	}
	return user, nil
}

func (s *Service) signIn(user *models.User, message string) (*AuthResult, error) {
	token, expiresAt, err := s.Sessions.Issue(user.ID, user.Role, user.Email)
	if err != nil {
		log.Printf("ERROR: failed to issue token for %s: %v", user.ID, err)
		return nil, apperr.Internal(err)
	}
	return &AuthResult{
		Message:   message,
		Token:     token,
		TokenType: "bearer",
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

func userNotFound(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NotFound("user")
	}
	return err
}
