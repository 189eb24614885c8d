// Package validate holds the input shape checks applied at the transport edge.
package validate

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	// RoomCodeLength is the fixed length of a room code
	RoomCodeLength = 4

	// RoomCodeCharset excludes characters that are easy to confuse (O/0, I/1)
	RoomCodeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	MaxNicknameLength = 20
	MaxCardLength     = 80
)

var (
	ErrInvalidNickname = errors.New("nickname must be 1-20 printable characters")
	ErrInvalidRoomCode = errors.New("room code must be 4 letters or digits")
	ErrInvalidID       = errors.New("invalid id")
	ErrInvalidCard     = errors.New("card text must be 1-80 printable characters")
)

// Nickname strips control characters, collapses whitespace and bounds length.
// It returns the cleaned nickname.
func Nickname(raw string) (string, error) {
	cleaned := sanitize(raw)
	if cleaned == "" || utf8.RuneCountInString(cleaned) > MaxNicknameLength {
		return "", ErrInvalidNickname
	}
	return cleaned, nil
}

// RoomCode normalizes a user-typed code to upper case and checks its shape
func RoomCode(raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if len(code) != RoomCodeLength {
		return "", ErrInvalidRoomCode
	}
	for _, c := range code {
		if !strings.ContainsRune(RoomCodeCharset, c) {
			return "", ErrInvalidRoomCode
		}
	}
	return code, nil
}

// ID checks that id is UUID-shaped
func ID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	return nil
}

// CardText cleans a free-text card value
func CardText(raw string) (string, error) {
	cleaned := sanitize(raw)
	if cleaned == "" || utf8.RuneCountInString(cleaned) > MaxCardLength {
		return "", ErrInvalidCard
	}
	return cleaned, nil
}

func sanitize(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r == '<' || r == '>':
			continue
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		case unicode.IsControl(r) || !unicode.IsPrint(r):
			continue
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
