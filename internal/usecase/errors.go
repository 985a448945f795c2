package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrLibrary = errors.New("library error")
	ErrStore   = errors.New("store error")
)

func wrapLibrary(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrLibrary, err)
}

func wrapStore(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrStore, err)
}
