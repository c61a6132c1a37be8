package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/logiroute/internal/authz"
	"github.com/logiroute/internal/cache"
	"github.com/logiroute/internal/config"
	"github.com/logiroute/internal/constants"
	"github.com/logiroute/internal/logger"
	"github.com/logiroute/internal/models"
	"github.com/logiroute/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// UserAuthService 账号服务：注册、登录、会话与管理员开户
type UserAuthService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
	guard    *authz.Guard
}

// NewUserAuthService 创建账号服务
func NewUserAuthService(cfg *config.Config, userRepo repository.UserRepository, guard *authz.Guard) *UserAuthService {
	return &UserAuthService{
		cfg:      cfg,
		userRepo: userRepo,
		guard:    guard,
	}
}

// UserJWTClaims 用户 JWT 声明
type UserJWTClaims struct {
	UserID       uint   `json:"user_id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// AccountInput 开户载荷
// 自助注册时 Role 会被忽略
type AccountInput struct {
	Username string
	Password string
	FullName string
	Email    string
	Phone    string
	Role     string
}

// GenerateUserJWT 生成用户 JWT Token
func (s *UserAuthService) GenerateUserJWT(user *models.User) (string, time.Time, error) {
	hours := s.cfg.JWT.ExpireHours
	if hours <= 0 {
		hours = 24
	}
	now := time.Now()
	expiresAt := now.Add(time.Duration(hours) * time.Hour)
	claims := UserJWTClaims{
		UserID:       user.ID,
		Username:     user.Username,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.JWT.Issuer,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseUserJWT 解析用户 JWT Token
func (s *UserAuthService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Authenticate 校验 Token 并解析调用方身份
// Token 版本落后（已登出）视为失效
func (s *UserAuthService) Authenticate(ctx context.Context, tokenString string) (authz.Caller, error) {
	claims, err := s.ParseUserJWT(strings.TrimSpace(tokenString))
	if err != nil {
		return authz.Anonymous(), err
	}

	state, hit, err := cache.GetUserAuthState(ctx, claims.UserID)
	if err != nil {
		logger.Warnw("auth_state_cache_read_failed", "user_id", claims.UserID, "error", err)
	}
	if !hit || state == nil {
		user, err := s.userRepo.GetByID(claims.UserID)
		if err != nil {
			return authz.Anonymous(), err
		}
		if user == nil {
			return authz.Anonymous(), ErrInvalidToken
		}
		state = cache.BuildUserAuthState(user)
		if err := cache.SetUserAuthState(ctx, state); err != nil {
			logger.Warnw("auth_state_cache_write_failed", "user_id", user.ID, "error", err)
		}
	}
	if state.TokenVersion != claims.TokenVersion {
		return authz.Anonymous(), ErrInvalidToken
	}
	return authz.Caller{UserID: state.UserID, Role: state.Role}, nil
}

// Signup 自助注册，账号角色固定为 client
func (s *UserAuthService) Signup(input AccountInput) (*models.User, string, time.Time, error) {
	input.Role = constants.RoleClient
	user, err := s.createAccount(input)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	token, expiresAt, err := s.GenerateUserJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, expiresAt, nil
}

// Login 用户名密码登录
func (s *UserAuthService) Login(username, password string) (*models.User, string, time.Time, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateUserJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	now := time.Now()
	if err := s.userRepo.TouchLastLogin(user.ID, now); err != nil {
		logger.Warnw("user_touch_last_login_failed", "user_id", user.ID, "error", err)
	} else {
		user.LastLoginAt = &now
	}
	return user, token, expiresAt, nil
}

// Logout 使该用户所有已签发 Token 失效
func (s *UserAuthService) Logout(ctx context.Context, caller authz.Caller) error {
	if !caller.Authenticated() {
		return ErrUnauthenticated
	}
	if err := s.userRepo.BumpTokenVersion(caller.UserID); err != nil {
		return err
	}
	if err := cache.DelUserAuthState(ctx, caller.UserID); err != nil {
		logger.Warnw("auth_state_cache_delete_failed", "user_id", caller.UserID, "error", err)
	}
	return nil
}

// CurrentUser 获取当前登录用户
func (s *UserAuthService) CurrentUser(caller authz.Caller) (*models.User, error) {
	if !caller.Authenticated() {
		return nil, ErrUnauthenticated
	}
	user, err := s.userRepo.GetByID(caller.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// ProvisionUser 管理员开户（可指定任意角色）
func (s *UserAuthService) ProvisionUser(caller authz.Caller, input AccountInput) (*models.User, error) {
	if err := s.guard.Authorize(caller, authz.ResourceUsers, authz.ActionCreate, nil).Err(); err != nil {
		return nil, err
	}
	v := &ValidationError{}
	input.Role = checkEnum(v, "role", input.Role, userRoles...)
	if err := v.Err(); err != nil {
		return nil, err
	}
	return s.createAccount(input)
}

// ListUsers 用户列表（可按角色过滤）
func (s *UserAuthService) ListUsers(caller authz.Caller, filter repository.UserListFilter) ([]models.User, int64, error) {
	if err := s.guard.Authorize(caller, authz.ResourceUsers, authz.ActionList, nil).Err(); err != nil {
		return nil, 0, err
	}
	filter.Role = strings.ToLower(strings.TrimSpace(filter.Role))
	if filter.Role != "" {
		v := &ValidationError{}
		checkEnum(v, "role", filter.Role, userRoles...)
		if err := v.Err(); err != nil {
			return nil, 0, err
		}
	}
	return s.userRepo.List(filter)
}

func (s *UserAuthService) createAccount(input AccountInput) (*models.User, error) {
	v := &ValidationError{}
	username := requireText(v, "username", input.Username)
	if username != "" && !usernamePattern.MatchString(username) {
		v.Add("username", ReasonInvalid)
	}
	fullName := requireText(v, "full_name", input.FullName)
	checkMaxLength(v, "full_name", fullName, 120)
	email, ok := normalizeEmail(input.Email)
	if !ok {
		if strings.TrimSpace(input.Email) == "" {
			v.Add("email", ReasonRequired)
		} else {
			v.Add("email", ReasonInvalid)
		}
	}
	phone := checkPhone(v, "phone", input.Phone, false)
	if input.Password == "" {
		v.Add("password", ReasonRequired)
	} else if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
		var weak *WeakPasswordError
		if errors.As(err, &weak) {
			v.Add("password", weak.Reason)
		} else {
			v.Add("password", ReasonInvalid)
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	exist, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrUsernameTaken
	}
	exist, err = s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
		FullName:     fullName,
		Email:        email,
		Phone:        phone,
		Role:         input.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	logger.Infow("user_account_created", "user_id", user.ID, "username", user.Username, "role", user.Role)
	return user, nil
}
