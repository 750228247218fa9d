package tools

import "fmt"

// InvalidArgumentsError marks a handler failure caused by the argument
// payload not matching the tool's contract (missing keys, wrong types).
// The dispatcher reports it distinctly from ordinary execution failures.
type InvalidArgumentsError struct {
	Reason string
}

func (e *InvalidArgumentsError) Error() string {
	return e.Reason
}

// ErrInvalidArguments builds an InvalidArgumentsError from a format string.
func ErrInvalidArguments(format string, args ...any) error {
	return &InvalidArgumentsError{Reason: fmt.Sprintf(format, args...)}
}

// RequireString extracts a mandatory string argument.
func RequireString(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok {
		return "", ErrInvalidArguments("missing required argument %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", ErrInvalidArguments("argument %q must be a string, got %T", key, v)
	}
	return s, nil
}

// OptionalString extracts a string argument, returning fallback when absent.
// A present value of the wrong type is still a contract violation.
func OptionalString(args map[string]any, key, fallback string) (string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return fallback, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", ErrInvalidArguments("argument %q must be a string, got %T", key, v)
	}
	return s, nil
}

// RequireBool extracts a mandatory boolean argument.
func RequireBool(args map[string]any, key string) (bool, error) {
	v, ok := args[key]
	if !ok {
		return false, ErrInvalidArguments("missing required argument %q", key)
	}
	b, ok := v.(bool)
	if !ok {
		return false, ErrInvalidArguments("argument %q must be a boolean, got %T", key, v)
	}
	return b, nil
}

// RequireStringSlice extracts a mandatory array-of-strings argument.
// JSON arrays decode as []any, so elements are checked individually.
func RequireStringSlice(args map[string]any, key string) ([]string, error) {
	v, ok := args[key]
	if !ok {
		return nil, ErrInvalidArguments("missing required argument %q", key)
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, ErrInvalidArguments("argument %q must be an array, got %T", key, v)
	}
	out := make([]string, 0, len(raw))
	for i, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, ErrInvalidArguments("argument %q[%d] must be a string, got %T", key, i, item)
		}
		out = append(out, s)
	}
	return out, nil
}

// RequireFloatSlice extracts a mandatory array-of-numbers argument.
func RequireFloatSlice(args map[string]any, key string) ([]float64, error) {
	v, ok := args[key]
	if !ok {
		return nil, ErrInvalidArguments("missing required argument %q", key)
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, ErrInvalidArguments("argument %q must be an array, got %T", key, v)
	}
	out := make([]float64, 0, len(raw))
	for i, item := range raw {
		f, ok := item.(float64)
		if !ok {
			return nil, ErrInvalidArguments("argument %q[%d] must be a number, got %T", key, i, item)
		}
		out = append(out, f)
	}
	return out, nil
}

// RequireObjectSlice extracts a mandatory array-of-objects argument, the
// shape used for chart data points and series.
func RequireObjectSlice(args map[string]any, key string) ([]map[string]any, error) {
	v, ok := args[key]
	if !ok {
		return nil, ErrInvalidArguments("missing required argument %q", key)
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, ErrInvalidArguments("argument %q must be an array, got %T", key, v)
	}
	out := make([]map[string]any, 0, len(raw))
	for i, item := range raw {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, ErrInvalidArguments("argument %q[%d] must be an object, got %T", key, i, item)
		}
		out = append(out, obj)
	}
	return out, nil
}
