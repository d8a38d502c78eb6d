package middleware

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Input validation for inspection requests

const (
	maxRoomLen    = 64
	maxCommentLen = 4000
)

var inspectorIDPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]{0,63}$`)

// ValidateInspectorID checks the tenant-style id used in URLs and auth keys
func ValidateInspectorID(id string) error {
	if !inspectorIDPattern.MatchString(id) {
		return fmt.Errorf("invalid inspector id: %q", id)
	}
	return nil
}

// ValidateRoom accepts the enumerated rooms and free-text extensions; it
// only rejects input no room label could be.
func ValidateRoom(room string) error {
	if strings.TrimSpace(room) == "" {
		return fmt.Errorf("room cannot be empty")
	}
	if len(room) > maxRoomLen {
		return fmt.Errorf("room name too long (max %d)", maxRoomLen)
	}
	for _, r := range room {
		if unicode.IsControl(r) {
			return fmt.Errorf("invalid characters in room name")
		}
	}
	return nil
}

// ValidateComment bounds comment size. Empty is fine: clearing the pending
// comment is a legal edit.
func ValidateComment(text string) error {
	if len(text) > maxCommentLen {
		return fmt.Errorf("comment too long (max %d)", maxCommentLen)
	}
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return fmt.Errorf("invalid characters in comment")
		}
	}
	return nil
}
