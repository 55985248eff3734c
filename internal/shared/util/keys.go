// Package util holds the naming rules for object-store keys.
package util

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

const (
	ownerHashLen   = 32
	maxSegmentLen  = 128
	segmentReplace = '_'
)

var ErrInvalidSegment = errors.New("invalid key segment")

// OwnerSegment maps a client id to a stable, opaque directory name. Ids are
// trimmed and lower-cased first so "C-1" and " c-1 " share a directory.
func OwnerSegment(clientID string) (string, error) {
	id := strings.ToLower(strings.TrimSpace(clientID))
	if id == "" {
		return "", ErrInvalidSegment
	}
	sum := sha256.Sum256([]byte(id))
	return hex.EncodeToString(sum[:])[:ownerHashLen], nil
}

// NameSegment cleans a result id for use as a file name. Characters outside
// [A-Za-z0-9._-] become '_'; traversal, empty and overlong names fail.
func NameSegment(name string) (string, error) {
	s := strings.TrimSpace(name)
	if s == "" || len(s) > maxSegmentLen || strings.Contains(s, "..") {
		return "", ErrInvalidSegment
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-', r == '_', r == '.':
			return r
		}
		return segmentReplace
	}, s), nil
}
