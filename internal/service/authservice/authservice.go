package authservice

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/GlebRadaev/farmops/internal/domain"
	"github.com/GlebRadaev/farmops/pkg/auth"
)

//go:generate mockgen -source=authservice.go -destination=mock_authservice.go -package=authservice

type Repo interface {
	FindByLogin(ctx context.Context, login string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

var (
	ErrLoginTaken         = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("only admins can create users")
	ErrUnknownRole        = errors.New("unknown role")
)

const defaultTokenTTL = 12 * time.Hour

type Service struct {
	userRepo    Repo
	hashService auth.HashServiceInterface
	jwtService  auth.JWTServiceInterface
	tokenTTL    time.Duration
}

func New(repo Repo, hashService auth.HashServiceInterface, jwtService auth.JWTServiceInterface, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &Service{
		userRepo:    repo,
		hashService: hashService,
		jwtService:  jwtService,
		tokenTTL:    tokenTTL,
	}
}

func (s *Service) create(ctx context.Context, user *domain.User, password string) (*domain.User, error) {
	if !user.Role.Valid() {
		return nil, ErrUnknownRole
	}
	existingUser, err := s.userRepo.FindByLogin(ctx, user.Login)
	if err != nil {
		zap.L().Error("can't find user", zap.Error(err))
		return nil, err
	}
	if existingUser != nil {
		zap.L().Info("user already exists", zap.String("login", user.Login))
		return nil, ErrLoginTaken
	}
	hashedPassword, err := s.hashService.HashPassword(password)
	if err != nil {
		zap.L().Error("can't hash password", zap.Error(err))
		return nil, err
	}
	user.PasswordHash = hashedPassword

	newUser, err := s.userRepo.Create(ctx, user)
	if err != nil {
		zap.L().Error("can't create user", zap.Error(err))
		return nil, err
	}
	zap.L().Info("user created", zap.String("login", newUser.Login), zap.String("role", string(newUser.Role)))
	return newUser, nil
}

// CreateUser adds a staff member. Only admins may call it.
func (s *Service) CreateUser(ctx context.Context, actor *domain.Actor, user *domain.User, password string) (*domain.User, error) {
	if actor == nil || actor.Role != domain.RoleAdmin {
		return nil, ErrForbidden
	}
	return s.create(ctx, user, password)
}

// EnsureAdmin creates the bootstrap admin unless that login already exists.
func (s *Service) EnsureAdmin(ctx context.Context, login, password string) error {
	if login == "" {
		return nil
	}
	_, err := s.create(ctx, &domain.User{Login: login, Role: domain.RoleAdmin}, password)
	if errors.Is(err, ErrLoginTaken) {
		return nil
	}
	return err
}

func (s *Service) Authenticate(ctx context.Context, login, password string) (*domain.User, error) {
	user, err := s.userRepo.FindByLogin(ctx, login)
	if err != nil || user == nil {
		zap.L().Warn("invalid credentials", zap.String("login", login), zap.Error(err))
		return nil, ErrInvalidCredentials
	}
	if ok := s.hashService.ComparePassword(user.PasswordHash, password); !ok {
		zap.L().Warn("invalid credentials", zap.String("login", login))
		return nil, ErrInvalidCredentials
	}
	zap.L().Info("user successfully authenticated", zap.String("login", login))
	return user, nil
}

func (s *Service) GenerateToken(user *domain.User) (string, error) {
	token, err := s.jwtService.GenerateJWT(user.ID, string(user.Role), time.Now().Add(s.tokenTTL))
	if err != nil {
		zap.L().Error("can't generate token", zap.Error(err))
		return "", err
	}
	return token, nil
}
