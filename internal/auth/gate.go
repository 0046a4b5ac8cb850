// Package auth 后台登录：固定账号密码校验，登录后生成显式的 Session 对象
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/user/modelcatalog/internal/apperr"
	"golang.org/x/crypto/bcrypt"
)

// State 后台会话状态
type State int

const (
	LoggedOut State = iota
	LoggedIn
)

func (s State) String() string {
	if s == LoggedIn {
		return "LoggedIn"
	}
	return "LoggedOut"
}

// Session 一次登录的会话上下文，登录时创建，退出时丢弃
type Session struct {
	Username   string    `json:"username"`
	LoggedInAt time.Time `json:"loggedInAt"`
	Token      string    `json:"token,omitempty"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// Gate 固定账号的登录校验，不做锁定和重试限制
type Gate struct {
	username     string
	passwordHash []byte
	secret       []byte
	tokenTTL     time.Duration
	now          func() time.Time
}

// NewGate 密码在启动时做 bcrypt 哈希，内存中不保留明文
func NewGate(username, password, secret string, tokenTTL time.Duration) (*Gate, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("哈希管理员密码失败: %w", err)
	}
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Gate{
		username:     username,
		passwordHash: hash,
		secret:       []byte(secret),
		tokenTTL:     tokenTTL,
		now:          time.Now,
	}, nil
}

// Login 账号密码完全匹配时返回新会话，否则返回 apperr.ErrAuth
func (g *Gate) Login(username, password string) (*Session, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(g.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(g.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		return nil, apperr.ErrAuth
	}

	now := g.now()
	s := &Session{
		Username:   username,
		LoggedInAt: now,
		ExpiresAt:  now.Add(g.tokenTTL),
	}
	token, err := g.sign(s)
	if err != nil {
		return nil, err
	}
	s.Token = token
	return s, nil
}

// Issue 为配置的账号签发令牌，不校验密码。供本进程访问同一账号保护的远程资源
func (g *Gate) Issue() (*Session, error) {
	now := g.now()
	s := &Session{
		Username:   g.username,
		LoggedInAt: now,
		ExpiresAt:  now.Add(g.tokenTTL),
	}
	token, err := g.sign(s)
	if err != nil {
		return nil, err
	}
	s.Token = token
	return s, nil
}

// Token 签发一个新的 Bearer 令牌
func (g *Gate) Token(ctx context.Context) (string, error) {
	s, err := g.Issue()
	if err != nil {
		return "", err
	}
	return s.Token, nil
}

func (g *Gate) sign(s *Session) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   s.Username,
		IssuedAt:  jwt.NewNumericDate(s.LoggedInAt),
		ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("签发令牌失败: %w", err)
	}
	return token, nil
}

// Verify 校验 Bearer 令牌并还原会话
func (g *Gate) Verify(tokenString string) (*Session, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return g.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(g.now),
	)
	if err != nil || !token.Valid {
		if err == nil {
			err = errors.New("invalid token")
		}
		return nil, apperr.ErrAuth.WithMessage("invalid token").WithCause(err)
	}
	if claims.Subject != g.username {
		return nil, apperr.ErrAuth.WithMessage("invalid token")
	}

	s := &Session{Username: claims.Subject, Token: tokenString}
	if claims.IssuedAt != nil {
		s.LoggedInAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}
