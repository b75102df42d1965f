package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Service errors. Ownership failures are reported as ErrNotFound so that
// another user's ids are indistinguishable from missing ones.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrRejected     = errors.New("rejected")
)

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate")
}
