package utils

import (
	"errors"
	"regexp"
	"strings"

	"github.com/lib/pq"
)

// TablePrefix is prepended to a user ID to name that user's music table.
const TablePrefix = "_"

// Postgres truncates identifiers longer than this many bytes.
const maxIdentifierLength = 63

var ErrInvalidIdentifier = errors.New("invalid user identifier")

var (
	userIDPattern    = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	tableNamePattern = regexp.MustCompile(`^_[a-z0-9_-]+$`)
)

// TableNameForUser returns the lowercased table name that holds userID's tracks.
func TableNameForUser(userID string) (string, error) {
	if !userIDPattern.MatchString(userID) {
		return "", ErrInvalidIdentifier
	}
	name := strings.ToLower(TablePrefix + userID)
	if len(name) > maxIdentifierLength {
		return "", ErrInvalidIdentifier
	}
	return name, nil
}

// ValidTableName reports whether name has the shape produced by TableNameForUser.
func ValidTableName(name string) bool {
	return len(name) <= maxIdentifierLength && tableNamePattern.MatchString(name)
}

func QuoteIdentifier(name string) string {
	return pq.QuoteIdentifier(name)
}
