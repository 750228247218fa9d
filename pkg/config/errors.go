package config

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigNotFound indicates the configuration file was not found.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrInvalidYAML indicates YAML parsing failed.
	ErrInvalidYAML = errors.New("invalid YAML syntax")

	// ErrLLMProviderNotFound indicates the provider key is not configured.
	ErrLLMProviderNotFound = errors.New("LLM provider not found")

	// ErrMissingRequiredField indicates a required field is missing.
	ErrMissingRequiredField = errors.New("missing required field")
)

// LoadError wraps file-level loading failures with the file name.
type LoadError struct {
	File string
	Err  error
}

// NewLoadError creates a LoadError.
func NewLoadError(file string, err error) *LoadError {
	return &LoadError{File: file, Err: err}
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.File, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ValidationError wraps validation failures with component context.
type ValidationError struct {
	Component string
	Field     string
	Err       error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: field '%s': %v", e.Component, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Component, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
