package store

import (
	"fmt"
	"strings"
)

// OpenMedium builds the medium named by driver ("memory", "file" or "sqlite").
// A non-empty secret wraps it in a SealedMedium.
func OpenMedium(driver, path, secret string) (Medium, error) {
	var (
		m   Medium
		err error
	)
	switch strings.ToLower(driver) {
	case "", "memory":
		m = NewMemoryMedium()
	case "file":
		m, err = NewFileMedium(path)
	case "sqlite":
		m, err = NewSQLiteMedium(path)
	default:
		return nil, fmt.Errorf("store: unknown driver %q", driver)
	}
	if err != nil {
		return nil, err
	}

	if secret == "" {
		return m, nil
	}
	sealed, err := NewSealedMedium(m, secret)
	if err != nil {
		m.Close()
		return nil, err
	}
	return sealed, nil
}
