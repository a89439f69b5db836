package main

import (
	"errors"

	"github.com/atvirokodosprendimai/liveforever-migrate/internal/application"
)

type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string {
	return e.err.Error()
}

func (e *cliError) Unwrap() error {
	return e.err
}

const (
	exitOK            = 0
	exitFailure       = 1
	exitUsage         = 2
	exitLegacyMissing = 3
	exitDatabase      = 4
)

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &cliError{code: code, err: err}
}

// classify maps service sentinels to exit codes.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, application.ErrDumpNotFound),
		errors.Is(err, application.ErrLegacyNotImported),
		errors.Is(err, application.ErrTreeNotFound):
		return withCode(exitLegacyMissing, err)
	default:
		return withCode(exitFailure, err)
	}
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	return exitFailure
}
