package convert

import (
	"errors"
	"fmt"
	"strings"
)

// UnsupportedOperationError reports an operation name missing from the catalog.
type UnsupportedOperationError struct {
	Name string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("unsupported operation: %q", e.Name)
}

// UnsupportedFileTypeError reports an input whose extension is not accepted
// by the requested operation.
type UnsupportedFileTypeError struct {
	Filename string
	Expected []string
}

func (e *UnsupportedFileTypeError) Error() string {
	return fmt.Sprintf("unsupported file type for %q, expected %s", e.Filename, strings.Join(e.Expected, ", "))
}

// MissingParameterError reports a required form parameter that was absent or empty.
type MissingParameterError struct {
	Name string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("missing required parameter: %s", e.Name)
}

// NoInputError reports a request carrying no files at all.
type NoInputError struct{}

func (e *NoInputError) Error() string { return "no files uploaded" }

// ConversionError wraps a delegated-capability failure. It is the only error
// kind originating after validation; everything else is client-caused.
type ConversionError struct {
	Operation string
	Err       error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("%s: conversion failed: %v", e.Operation, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// IsClientError reports whether err was detected before any codec call and
// is therefore attributable to the request, not the service.
func IsClientError(err error) bool {
	var (
		unsupOp   *UnsupportedOperationError
		unsupType *UnsupportedFileTypeError
		missing   *MissingParameterError
		noInput   *NoInputError
	)
	return errors.As(err, &unsupOp) ||
		errors.As(err, &unsupType) ||
		errors.As(err, &missing) ||
		errors.As(err, &noInput)
}
