package game

import "errors"

var (
	ErrServerFull  = errors.New("server-full")
	ErrNameMissing = errors.New("name-missing")
)
