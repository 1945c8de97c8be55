// Package domain contains entities without logic, just meta-data
// and the validation rules attached to it.
package domain

import (
	"errors"
	"strings"
)

const (
	MaxNicknameLen = 16
	MaxRoomCodeLen = 50
)

var (
	ErrNicknameEmpty   = errors.New("nickname is required")
	ErrNicknameTooLong = errors.New("nickname too long")
	ErrRoomCodeEmpty   = errors.New("room code is required")
	ErrRoomCodeTooLong = errors.New("room code too long")
)

// ConnID is the transport-assigned identifier of a live connection.
// It is stable for the connection's lifetime and never reused.
type ConnID string

// NormalizeNickname trims and uppercases a raw nickname. All nickname
// comparisons and storage use the normalized form.
func NormalizeNickname(raw string) (string, error) {
	nick := strings.ToUpper(strings.TrimSpace(raw))
	if nick == "" {
		return "", ErrNicknameEmpty
	}
	if len(nick) > MaxNicknameLen {
		return "", ErrNicknameTooLong
	}
	return nick, nil
}
