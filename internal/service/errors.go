package service

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("already exists")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("invalid credentials")
	ErrUnavailable    = errors.New("service unavailable")
	ErrUpstreamFailed = errors.New("upstream request failed")
)
