// Package auth is the authentication backend: accounts with bcrypt hashes,
// HS256 access tokens and a Redis registry of live sessions.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Hunter-sfcb/iceapp/config"
	"github.com/Hunter-sfcb/iceapp/internal/model"
	"github.com/Hunter-sfcb/iceapp/internal/repository"
)

// Identity 已认证的账号
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Result 登录/注册成功后签发的会话
type Result struct {
	Identity  Identity
	Token     string
	ExpiresAt time.Time
}

// Provider 认证接口：注册、登录、登出、查询当前会话
type Provider interface {
	SignUp(ctx context.Context, email, password string) (*Result, error)
	SignIn(ctx context.Context, email, password string) (*Result, error)
	SignOut(ctx context.Context, token string) error
	CurrentSession(ctx context.Context, token string) (*Identity, error)
}

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type provider struct {
	accounts repository.AccountRepository
	tokens   TokenStore
	secret   []byte
	ttl      time.Duration
	issuer   string
	validate *validator.Validate
	now      func() time.Time
	cost     int
}

func NewProvider(accounts repository.AccountRepository, tokens TokenStore, cfg config.JWTConfig) Provider {
	return &provider{
		accounts: accounts,
		tokens:   tokens,
		secret:   []byte(cfg.Secret),
		ttl:      cfg.TTL,
		issuer:   cfg.Issuer,
		validate: validator.New(),
		now:      time.Now,
		cost:     bcrypt.DefaultCost,
	}
}

func normalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

func (p *provider) SignUp(ctx context.Context, email, password string) (*Result, error) {
	email = normalizeEmail(email)
	if err := p.validate.Var(email, "required,email"); err != nil {
		return nil, ErrInvalidEmail
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	account := &model.Account{Email: email, PasswordHash: string(hash)}
	if err := p.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return p.issue(ctx, account)
}

func (p *provider) SignIn(ctx context.Context, email, password string) (*Result, error) {
	account, err := p.accounts.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return p.issue(ctx, account)
}

func (p *provider) SignOut(ctx context.Context, token string) error {
	c, err := p.parse(token)
	if err != nil {
		return err
	}
	return p.tokens.Delete(ctx, c.ID)
}

func (p *provider) CurrentSession(ctx context.Context, token string) (*Identity, error) {
	c, err := p.parse(token)
	if err != nil {
		return nil, err
	}
	accountID, err := p.tokens.Lookup(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	if accountID == "" || accountID != c.Subject {
		return nil, ErrInvalidToken
	}
	return &Identity{ID: c.Subject, Email: c.Email}, nil
}

func (p *provider) issue(ctx context.Context, account *model.Account) (*Result, error) {
	now := p.now()
	exp := now.Add(p.ttl)
	jti := uuid.New().String()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: account.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   account.ID,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := token.SignedString(p.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	if err := p.tokens.Save(ctx, jti, account.ID, p.ttl); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &Result{
		Identity:  Identity{ID: account.ID, Email: account.Email},
		Token:     signed,
		ExpiresAt: exp,
	}, nil
}

func (p *provider) parse(token string) (*claims, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (interface{}, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(p.issuer),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return &c, nil
}
