package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

const queryTimeout = 5 * time.Second

// ErrDuplicate is returned when a write violates a unique index.
var ErrDuplicate = errors.New("record violates a unique constraint")

func translateWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}
