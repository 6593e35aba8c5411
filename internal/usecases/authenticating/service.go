package authenticating

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-manager-api/infrastructure/repository"
	"github.com/vfg2006/sales-manager-api/internal/config"
	"github.com/vfg2006/sales-manager-api/internal/domain"
	"github.com/vfg2006/sales-manager-api/pkg/apiErrors"
	"golang.org/x/crypto/bcrypt"
)

type Authenticator interface {
	Register(ctx context.Context, req *domain.RegisterUserRequest) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	UpdateExpectedMonthlyIncome(ctx context.Context, userID string, income decimal.Decimal) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) (*domain.User, error)
	DeleteUser(ctx context.Context, userID string) error
	ValidateToken(tokenString string) (*domain.Claims, error)
}

type Service struct {
	userRepo repository.UserRepository
	cfg      config.Auth
	now      func() time.Time
}

func NewService(userRepo repository.UserRepository, cfg *config.Config) *Service {
	return &Service{
		userRepo: userRepo,
		cfg:      cfg.Auth,
		now:      time.Now,
	}
}

func (s *Service) Register(ctx context.Context, req *domain.RegisterUserRequest) (*domain.User, error) {
	email := handleEmail(req.Email)
	if req.Name == "" || email == "" || req.Password == "" {
		return nil, NewAuthError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "Nome, email e senha são obrigatórios")
	}

	existing, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, NewAuthError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, err.Error())
	}
	if existing != nil {
		return nil, NewUserAuthError(ErrUserAlreadyExists, apiErrors.ErrUserAlreadyExists, existing.ID, ResultRejected, "Email já cadastrado")
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.CreateUser(ctx, &domain.User{
		Name:                  req.Name,
		Email:                 email,
		PasswordHash:          hash,
		ExpectedMonthlyIncome: decimal.Zero,
	})
	if err != nil {
		// duas requisições simultâneas com o mesmo email: o índice único decide
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, NewUserAuthError(ErrUserAlreadyExists, apiErrors.ErrUserAlreadyExists, "", ResultRejected, "Email já cadastrado")
		}
		return nil, NewAuthError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, err.Error())
	}

	logrus.WithField("user_id", user.ID).Info("Usuário registrado")
	return user, nil
}

// handleEmail remove apenas os espaços das extremidades; a comparação diferencia maiúsculas
func handleEmail(s string) string {
	return strings.TrimSpace(s)
}

func (s *Service) hashPassword(password string) (string, error) {
	cost := s.cfg.HashCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", NewAuthError(err, apiErrors.ErrInternalServer, "Erro ao gerar hash da senha")
	}
	return string(hashed), nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = handleEmail(email)
	if email == "" || password == "" {
		return nil, "", NewAuthError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "Email e senha são obrigatórios")
	}

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", NewAuthError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, err.Error())
	}

	if user == nil {
		return nil, "", NewAuthError(ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, "Usuário não encontrado")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", NewUserAuthError(ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, user.ID, 0, "Senha incorreta")
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, "", NewAuthError(err, apiErrors.ErrInternalServer, "Erro ao gerar token de autenticação")
	}

	return user, token, nil
}

func (s *Service) generateJWT(user *domain.User) (string, error) {
	now := s.now()
	claims := domain.Claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}

func (s *Service) ValidateToken(tokenString string) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, NewAuthError(ErrExpiredToken, apiErrors.ErrExpiredToken, "Token expirado")
		}
		return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, err.Error())
	}

	claims, ok := token.Claims.(*domain.Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, "Token sem identificação do usuário")
	}

	return claims, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		return nil, NewAuthError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, err.Error())
	}
	return users, nil
}

func (s *Service) UpdateExpectedMonthlyIncome(ctx context.Context, userID string, income decimal.Decimal) (*domain.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, NewAuthError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, err.Error())
	}
	if user == nil {
		return nil, NewAuthError(ErrUserNotFound, apiErrors.ErrUserNotFound, "Usuário não encontrado")
	}

	if err := s.userRepo.UpdateUser(ctx, user.ID, &domain.UserUpdate{ExpectedMonthlyIncome: &income}); err != nil {
		return nil, NewAuthError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, err.Error())
	}
	user.ExpectedMonthlyIncome = income

	return user, nil
}

// ChangePassword troca a senha após conferir a atual. A nova senha não passa por regra de força.
func (s *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) (*domain.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, NewAuthError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, err.Error())
	}
	if user == nil {
		return nil, NewUserAuthError(ErrUserNotFound, apiErrors.ErrUserNotRegistered, userID, ResultRejected, "Usuário não encontrado")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return nil, NewUserAuthError(ErrInvalidCurrentPassword, apiErrors.ErrInvalidCurrentPassword, userID, ResultInvalidPassword, "Senha atual incorreta")
	}

	hash, err := s.hashPassword(newPassword)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateUser(ctx, user.ID, &domain.UserUpdate{PasswordHash: &hash}); err != nil {
		return nil, NewAuthError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, err.Error())
	}
	user.PasswordHash = hash

	logrus.WithField("user_id", user.ID).Info("Senha alterada")
	return user, nil
}

func (s *Service) DeleteUser(ctx context.Context, userID string) error {
	deleted, err := s.userRepo.DeleteUser(ctx, userID)
	if err != nil {
		return NewAuthError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, err.Error())
	}
	if !deleted {
		return NewUserAuthError(ErrUserNotFound, apiErrors.ErrUserNotRegistered, userID, ResultRejected, "Usuário não encontrado")
	}

	logrus.WithField("user_id", userID).Info("Usuário removido")
	return nil
}
