package internal

import "errors"

var (
	ErrNoTokens       = errors.New("stagewatch: no tokens to check")
	ErrAlreadyChecked = errors.New("stagewatch: token already checked")
	ErrForeignToken   = errors.New("stagewatch: token belongs to another registry")

	ErrNotLive = errors.New("stagewatch: resource is not live")
)
