// Package session holds the authentication state of one client: the identity,
// its resolved profile and the lifecycle hooks around them. A Session is
// created per caller and passed explicitly; there is no process-wide store.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/Hunter-sfcb/iceapp/internal/auth"
	"github.com/Hunter-sfcb/iceapp/internal/model"
	"github.com/Hunter-sfcb/iceapp/internal/repository"
	"github.com/Hunter-sfcb/iceapp/pkg/logger"
)

var (
	ErrPasswordMismatch  = errors.New("password and confirmation do not match")
	ErrPasswordTooShort  = errors.New("password must be at least 6 characters")
	ErrUsernameRequired  = errors.New("username is required")
	ErrDisplayNameNeeded = errors.New("display name is required")
	ErrNotSignedIn       = errors.New("not signed in")
)

const (
	// GenericAuthMessage 非预期失败时展示给用户的统一文案
	GenericAuthMessage = "something went wrong, please try again"
	// UsernameTakenMessage 用户名已被占用
	UsernameTakenMessage = "username is already taken"
)

// AuthError 登录/注册失败，Message 可直接展示
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }
func (e *AuthError) Unwrap() error { return e.Err }

// State 会话快照
type State struct {
	Identity  *auth.Identity `json:"identity"`
	Profile   *model.Profile `json:"profile"`
	Loading   bool           `json:"loading"`
	Token     string         `json:"-"`
	ExpiresAt time.Time      `json:"expires_at,omitempty"`
}

// SignedIn 是否存在已认证身份
func (s State) SignedIn() bool { return s.Identity != nil }

// SignUpInput 注册表单
type SignUpInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	Username        string
	DisplayName     string
}

// Validate 客户端校验，失败时不会发起任何远端调用
func (in SignUpInput) Validate() error {
	if in.Password != in.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if utf8.RuneCountInString(in.Password) < auth.MinPasswordLength {
		return ErrPasswordTooShort
	}
	if strings.TrimSpace(in.Username) == "" {
		return ErrUsernameRequired
	}
	if strings.TrimSpace(in.DisplayName) == "" {
		return ErrDisplayNameNeeded
	}
	return nil
}

// Session 单个客户端的认证上下文
type Session struct {
	provider auth.Provider
	profiles repository.ProfileRepository

	mu    sync.RWMutex
	state State

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(State)
}

// Factory 为每个调用方创建新的 Session
type Factory func() *Session

func NewFactory(provider auth.Provider, profiles repository.ProfileRepository) Factory {
	return func() *Session { return New(provider, profiles) }
}

func New(provider auth.Provider, profiles repository.ProfileRepository) *Session {
	return &Session{provider: provider, profiles: profiles, subs: make(map[int]func(State))}
}

// State 返回当前状态的副本
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) Profile() *model.Profile { return s.State().Profile }

// Subscribe 注册状态变更回调，返回取消函数
func (s *Session) Subscribe(fn func(State)) func() {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Session) notify() {
	st := s.State()
	s.subMu.Lock()
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(st)
	}
}

// Initialize 用已有 token 恢复会话并解析 Profile
func (s *Session) Initialize(ctx context.Context, token string) error {
	s.setLoading(true)
	id, err := s.provider.CurrentSession(ctx, token)
	if err != nil {
		s.reset()
		return err
	}
	return s.establish(ctx, id, token, time.Time{})
}

// SignIn 登录；失败时返回 *AuthError，原有状态保留
func (s *Session) SignIn(ctx context.Context, email, password string) error {
	s.setLoading(true)
	res, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		s.setLoading(false)
		return surface(err)
	}
	if err := s.establish(ctx, &res.Identity, res.Token, res.ExpiresAt); err != nil {
		return surface(err)
	}
	return nil
}

// SignUp 校验表单、注册账号并创建默认 Profile（未认证、非会员、无等级）
func (s *Session) SignUp(ctx context.Context, in SignUpInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	username := strings.TrimSpace(in.Username)

	s.setLoading(true)
	// 先查用户名，避免注册出没有 Profile 的账号
	_, err := s.profiles.GetByUsername(ctx, username)
	switch {
	case err == nil:
		s.setLoading(false)
		return &AuthError{Message: UsernameTakenMessage, Err: repository.ErrDuplicate}
	case !errors.Is(err, repository.ErrNotFound):
		s.setLoading(false)
		return surface(err)
	}

	res, err := s.provider.SignUp(ctx, in.Email, in.Password)
	if err != nil {
		s.setLoading(false)
		return surface(err)
	}

	profile := &model.Profile{
		ID:          res.Identity.ID,
		UserID:      res.Identity.ID,
		Username:    username,
		DisplayName: strings.TrimSpace(in.DisplayName),
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		// 并发抢注同名时仍可能走到这里；账号不回滚
		logger.Warn("profile creation failed after sign-up",
			zap.String("account", res.Identity.ID), zap.Error(err))
		s.setLoading(false)
		return surface(err)
	}
	if err := s.establish(ctx, &res.Identity, res.Token, res.ExpiresAt); err != nil {
		return surface(err)
	}
	return nil
}

// SignOut 注销远端会话并清空本地状态
func (s *Session) SignOut(ctx context.Context) error {
	st := s.State()
	if !st.SignedIn() {
		return ErrNotSignedIn
	}
	err := s.provider.SignOut(ctx, st.Token)
	s.reset()
	return err
}

// Refresh 重新解析当前身份的 Profile
func (s *Session) Refresh(ctx context.Context) error {
	st := s.State()
	if !st.SignedIn() {
		return ErrNotSignedIn
	}
	profile, err := s.resolveProfile(ctx, st.Identity.ID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.state.Profile = profile
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *Session) establish(ctx context.Context, id *auth.Identity, token string, exp time.Time) error {
	profile, err := s.resolveProfile(ctx, id.ID)
	if err != nil {
		s.reset()
		return err
	}
	s.mu.Lock()
	s.state = State{Identity: id, Profile: profile, Token: token, ExpiresAt: exp}
	s.mu.Unlock()
	s.notify()
	return nil
}

// resolveProfile 找不到 Profile 不算错误，返回 nil
func (s *Session) resolveProfile(ctx context.Context, userID string) (*model.Profile, error) {
	p, err := s.profiles.GetByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return p, err
}

func (s *Session) setLoading(loading bool) {
	s.mu.Lock()
	s.state.Loading = loading
	s.mu.Unlock()
	s.notify()
}

func (s *Session) reset() {
	s.mu.Lock()
	s.state = State{}
	s.mu.Unlock()
	s.notify()
}

func surface(err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrEmailTaken),
		errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, auth.ErrWeakPassword):
		return &AuthError{Message: err.Error(), Err: err}
	case errors.Is(err, repository.ErrDuplicate):
		return &AuthError{Message: UsernameTakenMessage, Err: err}
	default:
		return &AuthError{Message: GenericAuthMessage, Err: err}
	}
}
