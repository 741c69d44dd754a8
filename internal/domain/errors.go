package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDevice is returned by a DeckOpener when nothing compatible is connected
	ErrNoDevice = errors.New("no compatible device found")
	// ErrDeviceClosed is returned by pushes issued after the session ended
	ErrDeviceClosed = errors.New("device session closed")
)

// ProviderError is a failed media source query. It never leaves the provider.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("media provider %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// DecodeError is artwork that could not be decoded
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode artwork: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DeviceError is a failed push to one device region
type DeviceError struct {
	Region Region
	Err    error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("device push to %s region: %v", e.Region, e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }

// PersistenceError is a failed favorites log operation
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("favorites log %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
