package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"quizmaster/internal/auth"
	"quizmaster/internal/dto"
	"quizmaster/internal/model"
	"quizmaster/internal/repository"
)

type AuthService interface {
	Register(req dto.RegisterRequest) (*dto.UserResponse, error)
	// Login verifies credentials and opens a server-side session. The
	// returned token goes into the session cookie.
	Login(req dto.LoginRequest) (token string, resp *dto.LoginResponse, err error)
	Logout(token string) error
	// Resolve maps a cookie token to an identity; (nil, nil) means the
	// caller is unauthenticated (unknown or expired token).
	Resolve(token string) (*auth.Identity, error)
}

type authService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	sessionTTL  time.Duration
}

func NewAuthService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, sessionTTL time.Duration) AuthService {
	return &authService{userRepo: userRepo, sessionRepo: sessionRepo, sessionTTL: sessionTTL}
}

func (s *authService) Register(req dto.RegisterRequest) (*dto.UserResponse, error) {
	role, ok := auth.ParseRole(req.Role)
	if !ok {
		return nil, fmt.Errorf("unknown role %q", req.Role)
	}

	dob, err := time.Parse("2006-01-02", req.DOB)
	if err != nil {
		return nil, fmt.Errorf("invalid date of birth %q: %w", req.DOB, err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("Register: failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		Name:          req.Name,
		Username:      req.Username,
		PasswordHash:  hash,
		DOB:           dob,
		Qualification: req.Qualification,
		Role:          role,
		ClassID:       req.ClassID,
	}
	if err := s.userRepo.Create(&user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		log.Error().Err(err).Str("username", req.Username).Msg("Register: failed to create user")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	var resp dto.UserResponse
	if err := copier.Copy(&resp, &user); err != nil {
		return nil, fmt.Errorf("error preparing registration response: %w", err)
	}
	resp.Role = string(user.Role)
	return &resp, nil
}

func (s *authService) Login(req dto.LoginRequest) (string, *dto.LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		log.Error().Err(err).Str("username", req.Username).Msg("Login: user lookup failed")
		return "", nil, fmt.Errorf("error looking up user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return "", nil, ErrInvalidCredentials
	}
	if string(user.Role) != req.Role {
		return "", nil, ErrInvalidCredentials
	}

	// Legacy rows store the raw password; upgrade them on first successful
	// login. A failed upgrade is not a login failure.
	if !strings.HasPrefix(user.PasswordHash, "pbkdf2:") {
		if hash, hashErr := auth.HashPassword(req.Password); hashErr == nil {
			user.PasswordHash = hash
			if updErr := s.userRepo.Update(user); updErr != nil {
				log.Warn().Err(updErr).Uint("userID", user.ID).Msg("Login: failed to rehash legacy password")
			}
		}
	}

	now := time.Now()
	session := model.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessionRepo.Create(&session); err != nil {
		log.Error().Err(err).Uint("userID", user.ID).Msg("Login: failed to create session")
		return "", nil, fmt.Errorf("failed to create session: %w", err)
	}

	redirect := "/userdash/" + user.Username
	if user.Role == auth.RoleAdmin {
		redirect = "/admin/" + user.Username
	}
	resp := dto.LoginResponse{
		UserID:     user.ID,
		Username:   user.Username,
		Name:       user.Name,
		Role:       string(user.Role),
		RedirectTo: redirect,
	}
	log.Info().Uint("userID", user.ID).Str("role", string(user.Role)).Msg("User logged in")
	return session.Token, &resp, nil
}

func (s *authService) Logout(token string) error {
	if token == "" {
		return nil
	}
	return s.sessionRepo.Delete(token)
}

func (s *authService) Resolve(token string) (*auth.Identity, error) {
	if token == "" {
		return nil, nil
	}
	session, err := s.sessionRepo.FindByToken(token)
	if err != nil {
		return nil, fmt.Errorf("error resolving session: %w", err)
	}
	if session == nil {
		return nil, nil
	}
	if session.Expired(time.Now()) {
		if err := s.sessionRepo.Delete(token); err != nil {
			log.Warn().Err(err).Msg("Resolve: failed to delete expired session")
		}
		return nil, nil
	}
	return &auth.Identity{UserID: session.UserID, Username: session.Username, Role: session.Role}, nil
}
