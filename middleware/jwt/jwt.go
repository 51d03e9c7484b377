package jwt

import (
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token not yet valid")
)

// SessionClaims 会话 Cookie 中的声明，只携带会话 ID 和展示用的身份信息
type SessionClaims struct {
	SessionID string `json:"sid"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager 签发并校验 BFF 会话令牌 (HS256)
type TokenManager struct {
	secret    []byte
	expireDur time.Duration
	now       func() time.Time
}

func NewTokenManager(secret string, expire time.Duration) *TokenManager {
	return &TokenManager{
		secret:    []byte(secret),
		expireDur: expire,
		now:       time.Now,
	}
}

// TTL 令牌有效期
func (tm *TokenManager) TTL() time.Duration {
	return tm.expireDur
}

func (tm *TokenManager) GenerateToken(sessionID, username, role string) (string, error) {
	now := tm.now()

	claims := SessionClaims{
		SessionID: sessionID,
		Username:  username,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.expireDur)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

func (tm *TokenManager) ParseToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return tm.secret, nil
	}, jwt.WithTimeFunc(tm.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// BackendToken 后端登录 Cookie ("token") 中可读取的信息
type BackendToken struct {
	Username  string
	ExpiresAt time.Time // 零值表示令牌未声明过期时间
}

// Expired 判断后端令牌在 now 时刻是否已过期
func (b BackendToken) Expired(now time.Time) bool {
	return !b.ExpiresAt.IsZero() && !now.Before(b.ExpiresAt)
}

// InspectBackendToken 读取后端令牌的声明但不校验签名
// 客户端不持有后端密钥，这里只用来获取用户名和过期时间，真正的校验由后端完成
func InspectBackendToken(tokenString string) (BackendToken, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return BackendToken{}, ErrInvalidToken
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return BackendToken{}, ErrInvalidToken
	}

	var out BackendToken
	if name, ok := claims["username"].(string); ok && name != "" {
		out.Username = name
	} else if sub, err := claims.GetSubject(); err == nil {
		out.Username = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}
