package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/logiroute/internal/models"
)

const authStateTTL = 10 * time.Minute

// UserAuthState 鉴权所需的用户快照，登出时随 token_version 失效
type UserAuthState struct {
	UserID       uint   `json:"user_id"`
	Role         string `json:"role"`
	TokenVersion uint64 `json:"token_version"`
	CachedAt     int64  `json:"cached_at"`
}

func authStateKey(userID uint) []string {
	return []string{"auth", "user", strconv.FormatUint(uint64(userID), 10)}
}

// BuildUserAuthState 由用户记录生成快照
func BuildUserAuthState(user *models.User) *UserAuthState {
	if user == nil {
		return nil
	}
	return &UserAuthState{
		UserID:       user.ID,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		CachedAt:     time.Now().Unix(),
	}
}

// GetUserAuthState 读取快照，未命中返回 hit=false
func GetUserAuthState(ctx context.Context, userID uint) (*UserAuthState, bool, error) {
	if userID == 0 {
		return nil, false, nil
	}
	state := new(UserAuthState)
	hit, err := loadJSON(ctx, state, authStateKey(userID)...)
	if !hit {
		return nil, false, err
	}
	return state, true, err
}

// SetUserAuthState 写入快照
func SetUserAuthState(ctx context.Context, state *UserAuthState) error {
	if state == nil || state.UserID == 0 {
		return nil
	}
	return storeJSON(ctx, state, authStateTTL, authStateKey(state.UserID)...)
}

// DelUserAuthState 清除快照
func DelUserAuthState(ctx context.Context, userID uint) error {
	if userID == 0 {
		return nil
	}
	return evict(ctx, authStateKey(userID)...)
}
