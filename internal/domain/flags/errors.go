package flags

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownFlag is returned when a flag key is not part of the catalog.
	ErrUnknownFlag = errors.New("flags: unknown flag")
	// ErrInvalidCatalog is returned when catalog validation fails.
	ErrInvalidCatalog = errors.New("flags: invalid catalog")
	// ErrStoreUnavailable wraps every failure of the player store.
	ErrStoreUnavailable = errors.New("flags: store unavailable")
)

// MissingDependenciesError reports every unmet direct dependency of a flag.
type MissingDependenciesError struct {
	Flag    string
	Missing []string
}

func (e *MissingDependenciesError) Error() string {
	return fmt.Sprintf("flags: %s is missing dependencies: %s", e.Flag, strings.Join(e.Missing, ", "))
}

func unknownFlag(key string) error {
	return fmt.Errorf("%w: %q", ErrUnknownFlag, key)
}

func invalidCatalog(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidCatalog, fmt.Sprintf(format, args...))
}
