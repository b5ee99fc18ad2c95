package usecase

import (
	"context"
	"strings"

	"wrenchway-api/config"
	"wrenchway-api/internal/converter"
	"wrenchway-api/internal/delivery/dto"
	"wrenchway-api/internal/domain/entity"
	"wrenchway-api/internal/domain/repository"
	"wrenchway-api/internal/service"
	"wrenchway-api/pkg/clock"
	"wrenchway-api/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type AuthUsecase interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, userID uuid.UUID, accessTokenID, refreshToken string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	EnsureAdmin(ctx context.Context, cfg config.AdminConfig) error
}

type authUsecase struct {
	log          *logrus.Logger
	tx           repository.Transactor
	userRepo     repository.UserRepository
	auditService service.AuditService
	jwtService   *jwt.JWTService
	tokenStore   service.TokenStore
	clock        clock.Clock
}

func NewAuthUsecase(
	log *logrus.Logger,
	tx repository.Transactor,
	userRepo repository.UserRepository,
	auditService service.AuditService,
	jwtService *jwt.JWTService,
	tokenStore service.TokenStore,
	clk clock.Clock,
) AuthUsecase {
	return &authUsecase{
		log:          log,
		tx:           tx,
		userRepo:     userRepo,
		auditService: auditService,
		jwtService:   jwtService,
		tokenStore:   tokenStore,
		clock:        clk,
	}
}

// Register creates a customer account. Technicians and admins are created
// by an admin.
func (u *authUsecase) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	user, err := u.createUser(ctx, req.Name, req.Email, req.Password, req.Phone, entity.RoleCustomer)
	if err != nil {
		return nil, err
	}

	u.log.Infof("User registered: id=%s", user.ID)
	return converter.UserToResponse(user), nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	tokens, err := u.issueTokens(ctx, user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	if err := u.auditService.LogEvent(ctx, &user.ID, entity.AuditActionUserLogin, entity.JSON{"email": user.Email}); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	tokens.User = converter.UserToResponse(user)
	return tokens, nil
}

// Logout revokes the access token of the current request and, when given,
// the refresh token issued with it.
func (u *authUsecase) Logout(ctx context.Context, userID uuid.UUID, accessTokenID, refreshToken string) error {
	if err := u.tokenStore.Revoke(ctx, jwt.AccessToken, userID, accessTokenID); err != nil {
		u.log.Warnf("Failed to delete access token: %+v", err)
		return err
	}

	if refreshToken != "" {
		claims, err := u.jwtService.ValidateToken(refreshToken)
		if err == nil && claims.TokenType == jwt.RefreshToken && claims.UserID == userID {
			if err := u.tokenStore.Revoke(ctx, jwt.RefreshToken, userID, claims.TokenID); err != nil {
				u.log.Warnf("Failed to delete refresh token: %+v", err)
				return err
			}
		}
	}

	if err := u.auditService.LogEvent(ctx, &userID, entity.AuditActionUserLogout, nil); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}
	return nil
}

// RefreshToken rotates a refresh token: the old one is revoked and a new
// pair is issued.
func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil || claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	exists, err := u.tokenStore.Exists(ctx, jwt.RefreshToken, claims.UserID, claims.TokenID)
	if err != nil {
		u.log.Warnf("Failed to check refresh token: %+v", err)
		return nil, err
	}
	if !exists {
		return nil, ErrTokenRevoked
	}

	if err := u.tokenStore.Revoke(ctx, jwt.RefreshToken, claims.UserID, claims.TokenID); err != nil {
		u.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, err
	}

	// The role may have changed since the token was issued.
	user, err := u.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidToken
	}

	return u.issueTokens(ctx, user.ID, user.Email, user.Role)
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

// UpdateProfile edits the caller's own name, email, phone or password.
// The role never changes here.
func (u *authUsecase) UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	var hashedPassword string
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			u.log.Warnf("Failed to hash password: %+v", err)
			return nil, err
		}
		hashedPassword = string(hashed)
	}

	var updated *entity.User
	err := u.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		user, err := u.userRepo.LockByID(txCtx, userID, true)
		if err != nil {
			u.log.Warnf("Failed to find user by ID: %+v", err)
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}

		oldValue := converter.UserToResponse(user)

		if req.Email != nil && normalizeEmail(*req.Email) != user.Email {
			email := normalizeEmail(*req.Email)
			taken, err := u.userRepo.FindByEmail(txCtx, email)
			if err != nil {
				return err
			}
			if taken != nil {
				return ErrEmailAlreadyExists
			}
			user.Email = email
		}
		if req.Name != nil {
			user.Name = *req.Name
		}
		if req.Phone != nil {
			user.Phone = *req.Phone
		}
		if hashedPassword != "" {
			user.Password = hashedPassword
		}
		user.UpdatedAt = u.clock.Now()

		if err := u.userRepo.Update(txCtx, user); err != nil {
			if isDuplicateKeyError(err, "email") {
				return ErrEmailAlreadyExists
			}
			u.log.Warnf("Failed to update user %s: %+v", userID, err)
			return err
		}

		if err := u.auditService.LogUpdate(txCtx, &userID, entity.AuditActionUserUpdate, "user",
			userID.String(), oldValue, converter.UserToResponse(user)); err != nil {
			return err
		}

		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("User profile updated: id=%s", userID)
	return converter.UserToResponse(updated), nil
}

// EnsureAdmin creates the configured admin account on first start. It does
// nothing when no admin is configured or the email is already taken.
func (u *authUsecase) EnsureAdmin(ctx context.Context, cfg config.AdminConfig) error {
	if cfg.Email == "" || cfg.Password == "" {
		return nil
	}

	existing, err := u.userRepo.FindByEmail(ctx, normalizeEmail(cfg.Email))
	if err != nil {
		u.log.Warnf("Failed to find admin account: %+v", err)
		return err
	}
	if existing != nil {
		return nil
	}

	admin, err := u.createUser(ctx, cfg.Name, cfg.Email, cfg.Password, "", entity.RoleAdmin)
	if err != nil {
		return err
	}

	u.log.Infof("Admin account created: id=%s, email=%s", admin.ID, admin.Email)
	return nil
}

func (u *authUsecase) createUser(ctx context.Context, name, email, password, phone string, role entity.Role) (*entity.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	now := u.clock.Now()
	user := &entity.User{
		ID:        uuid.New(),
		Name:      name,
		Email:     normalizeEmail(email),
		Password:  string(hashedPassword),
		Phone:     phone,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = u.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := u.userRepo.Create(txCtx, user); err != nil {
			if isDuplicateKeyError(err, "email") {
				return ErrEmailAlreadyExists
			}
			u.log.Warnf("Failed to create user: %+v", err)
			return err
		}

		return u.auditService.LogCreate(txCtx, &user.ID, entity.AuditActionUserRegister, "user", user.ID.String(), converter.UserToResponse(user))
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (u *authUsecase) issueTokens(ctx context.Context, userID uuid.UUID, email string, role entity.Role) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(userID, email, role.String())
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(userID, email, role.String())
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.tokenStore.Save(ctx, jwt.AccessToken, userID, accessTokenID, u.jwtService.GetAccessExpiry()); err != nil {
		u.log.Warnf("Failed to store access token: %+v", err)
		return nil, err
	}

	if err := u.tokenStore.Save(ctx, jwt.RefreshToken, userID, refreshTokenID, u.jwtService.GetRefreshExpiry()); err != nil {
		u.log.Warnf("Failed to store refresh token: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
