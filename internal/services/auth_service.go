package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/kopdigital/koperasi-backend/internal/models"
	"github.com/kopdigital/koperasi-backend/internal/repositories"
	"github.com/kopdigital/koperasi-backend/internal/utils"
	"github.com/kopdigital/koperasi-backend/pkg/errutil"
	"github.com/kopdigital/koperasi-backend/pkg/jwt"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthServiceImpl handles member registration and login
type AuthServiceImpl struct {
	userRepo   repositories.UserRepository
	memberRepo repositories.MemberRepository
	tokens     *jwt.TokenService
	notifier   Notifier
	bcryptCost int
	now        func() time.Time
}

// NewAuthService creates a new AuthServiceImpl
func NewAuthService(
	userRepo repositories.UserRepository,
	memberRepo repositories.MemberRepository,
	tokens *jwt.TokenService,
	notifier Notifier,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		userRepo:   userRepo,
		memberRepo: memberRepo,
		tokens:     tokens,
		notifier:   notifier,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
}

// Register creates a login and a pending member record for it
func (s *AuthServiceImpl) Register(ctx context.Context, req *models.RegisterRequest) (*models.Member, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	phone, err := utils.NormalizePhone(req.Phone)
	if err != nil {
		return nil, errutil.ValidationFailed("invalid phone number", err, errutil.WithDetails(errutil.Detail{
			Field:   "phone",
			Message: "must be an Indonesian mobile number",
		}))
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, errutil.Conflict("email is already registered", nil)
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errutil.Internal("failed to check email", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, errutil.Internal("failed to hash password", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleMember,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, errutil.Conflict("email is already registered", nil)
		}
		return nil, errutil.Internal("failed to create user", err)
	}

	memberNumber, err := utils.GenerateMemberNumber(s.now())
	if err != nil {
		return nil, errutil.Internal("failed to generate member number", err)
	}

	member := &models.Member{
		UserID:       user.ID,
		KoperasiID:   strings.TrimSpace(req.KoperasiID),
		MemberNumber: memberNumber,
		FullName:     strings.TrimSpace(req.FullName),
		Phone:        phone,
		Address:      strings.TrimSpace(req.Address),
		Status:       models.MemberStatusPending,
	}
	if err := s.memberRepo.Create(ctx, member); err != nil {
		zap.L().Error("member insert failed after user was created",
			zap.String("user_id", user.ID.Hex()),
			zap.Error(err),
		)
		return nil, errutil.Internal("failed to create member", err)
	}

	s.notifier.Notify(member, models.NotificationWelcome, nil)
	return member, nil
}

// Login verifies credentials and issues an access token
func (s *AuthServiceImpl) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errutil.Unauthorized("invalid email or password", nil)
		}
		return nil, errutil.Internal("failed to load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errutil.Unauthorized("invalid email or password", nil)
	}

	token, err := s.tokens.GenerateToken(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return nil, errutil.Internal("failed to issue token", err)
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		zap.L().Warn("failed to record last login", zap.String("user_id", user.ID.Hex()), zap.Error(err))
	}

	return &models.LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(s.tokens.TTL().Seconds()),
		User:      user,
	}, nil
}
