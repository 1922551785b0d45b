package user

import (
	"Food-Inventory-Backend/domain"
	"Food-Inventory-Backend/entities"
	"Food-Inventory-Backend/internal/metrics"
	"Food-Inventory-Backend/pkg/food"
	"Food-Inventory-Backend/pkg/jwt"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		Me(ctx context.Context, userID string) (domain.UserResponse, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		foodService    food.FoodService
		metrics        metrics.MetricsCollector
	}
)

func NewUserService(
	userRepository UserRepository,
	jwtService jwt.JWTService,
	foodService food.FoodService,
	collector metrics.MetricsCollector,
) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		foodService:    foodService,
		metrics:        collector,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return domain.UserResponse{}, domain.ErrEmailRequired
	}
	if req.Password == "" {
		return domain.UserResponse{}, domain.ErrPasswordRequired
	}

	exists, err := s.userRepository.CheckEmailExists(ctx, email)
	if err != nil {
		return domain.UserResponse{}, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}
	if exists {
		return domain.UserResponse{}, domain.ErrEmailAlreadyExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.UserResponse{}, fmt.Errorf("%w: %v", domain.ErrHashPassword, err)
	}

	user := &entities.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: string(hashed),
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.UserResponse{}, domain.ErrEmailAlreadyExists
		}
		return domain.UserResponse{}, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}

	return toUserResponse(user), nil
}

// Login verifies the credentials, issues an access token and brings the
// user's food item statuses up to date before answering. Individual status
// write failures are reported in the response and never fail the login.
func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		s.metrics.RecordLogin(metrics.LoginInvalidInput)
		return domain.LoginResponse{}, domain.ErrEmailRequired
	}
	if strings.TrimSpace(req.Password) == "" {
		s.metrics.RecordLogin(metrics.LoginInvalidInput)
		return domain.LoginResponse{}, domain.ErrPasswordRequired
	}

	user, err := s.userRepository.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metrics.RecordLogin(metrics.LoginUnknownUser)
			return domain.LoginResponse{}, domain.ErrUserNotFound
		}
		s.metrics.RecordLogin(metrics.LoginError)
		return domain.LoginResponse{}, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		s.metrics.RecordLogin(metrics.LoginBadPassword)
		return domain.LoginResponse{}, domain.ErrInvalidPassword
	}

	token, err := s.jwtService.GenerateTokenUser(user.ID.String())
	if err != nil {
		s.metrics.RecordLogin(metrics.LoginError)
		if errors.Is(err, domain.ErrGenerateToken) {
			return domain.LoginResponse{}, err
		}
		return domain.LoginResponse{}, fmt.Errorf("%w: %v", domain.ErrGenerateToken, err)
	}

	reconciled, err := s.foodService.ReconcileUserItems(ctx, user.ID.String())
	if err != nil {
		s.metrics.RecordLogin(metrics.LoginError)
		return domain.LoginResponse{}, err
	}

	s.metrics.RecordLogin(metrics.LoginSuccess)
	log.Infow("user logged in",
		"user_id", user.ID.String(),
		"items_checked", reconciled.StatusSync.Checked,
		"items_updated", reconciled.StatusSync.Updated,
	)

	return domain.LoginResponse{
		User:        toUserResponse(user),
		AccessToken: token,
		Items:       reconciled.Items,
		StatusSync:  reconciled.StatusSync,
	}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserResponse{}, domain.ErrUserNotFound
		}
		return domain.UserResponse{}, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}
	return toUserResponse(user), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserResponse(user *entities.User) domain.UserResponse {
	return domain.UserResponse{
		ID:        user.ID.String(),
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}
