// Package testutil provides testing utilities for stackscope.
//
// This package contains mock errors and fixture builders used across test
// files. It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors for testing purposes.
// These errors are used to simulate various failure scenarios in tests.
var (
	// ErrMockFileNotFound indicates a mock file was not found (used in tests).
	ErrMockFileNotFound = errors.New("file not found")

	// ErrMockDiskFull indicates a mock write failure (used in tests).
	ErrMockDiskFull = errors.New("disk full")

	// ErrMockDecodeFailed indicates a mock decode failure (used in tests).
	ErrMockDecodeFailed = errors.New("decode failed")
)
