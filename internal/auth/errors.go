package auth

import "errors"

// 这些错误的文案会原样展示给用户
var (
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrEmailTaken         = errors.New("user already registered")
	ErrInvalidEmail       = errors.New("unable to validate email address: invalid format")
	ErrWeakPassword       = errors.New("password should be at least 6 characters")
	ErrInvalidToken       = errors.New("invalid or expired session")
)

// MinPasswordLength 后端也会校验的最小密码长度
const MinPasswordLength = 6
