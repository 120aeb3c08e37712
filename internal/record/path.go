package record

import (
	"errors"
	"fmt"
)

var ErrPath = errors.New("invalid record path")

// Path walks nested records (string keys) and lists (int indexes).
func (r *Record) Path(keys ...any) (any, error) {
	var current any = r
	for i, key := range keys {
		next, err := step(current, key)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrPath, formatPath(keys[:i+1]), err)
		}
		current = next
	}
	return current, nil
}

func (r *Record) PathRecord(keys ...any) (*Record, error) {
	value, err := r.Path(keys...)
	if err != nil {
		return nil, err
	}
	rec, ok := value.(*Record)
	if !ok || rec == nil {
		return nil, fmt.Errorf("%w: %s: expected object, got %T", ErrPath, formatPath(keys), value)
	}
	return rec, nil
}

func (r *Record) PathList(keys ...any) ([]any, error) {
	value, err := r.Path(keys...)
	if err != nil {
		return nil, err
	}
	list, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s: expected array, got %T", ErrPath, formatPath(keys), value)
	}
	return list, nil
}

// SetPath replaces the value at a nested location. The parent of the
// location must exist, the last key may be new when the parent is a record.
func (r *Record) SetPath(value any, keys ...any) error {
	if len(keys) == 0 {
		return fmt.Errorf("%w: empty path", ErrPath)
	}
	parent, err := r.Path(keys[:len(keys)-1]...)
	if err != nil {
		return err
	}

	last := keys[len(keys)-1]
	switch p := parent.(type) {
	case *Record:
		key, ok := last.(string)
		if !ok {
			return fmt.Errorf("%w: %s: object key must be a string", ErrPath, formatPath(keys))
		}
		p.Set(key, value)
		return nil
	case []any:
		idx, ok := last.(int)
		if !ok {
			return fmt.Errorf("%w: %s: array index must be an int", ErrPath, formatPath(keys))
		}
		if idx < 0 || idx >= len(p) {
			return fmt.Errorf("%w: %s: index out of range (len %d)", ErrPath, formatPath(keys), len(p))
		}
		p[idx] = value
		return nil
	}
	return fmt.Errorf("%w: %s: cannot set inside %T", ErrPath, formatPath(keys), parent)
}

func step(current any, key any) (any, error) {
	switch c := current.(type) {
	case *Record:
		k, ok := key.(string)
		if !ok {
			return nil, fmt.Errorf("object key must be a string, got %T", key)
		}
		if c == nil {
			return nil, fmt.Errorf("object is null")
		}
		value, ok := c.Get(k)
		if !ok {
			return nil, fmt.Errorf("missing key")
		}
		return value, nil
	case []any:
		idx, ok := key.(int)
		if !ok {
			return nil, fmt.Errorf("array index must be an int, got %T", key)
		}
		if idx < 0 || idx >= len(c) {
			return nil, fmt.Errorf("index out of range (len %d)", len(c))
		}
		return c[idx], nil
	}
	return nil, fmt.Errorf("cannot index into %T", current)
}

func formatPath(keys []any) string {
	out := ""
	for _, k := range keys {
		switch v := k.(type) {
		case int:
			out += fmt.Sprintf("[%d]", v)
		default:
			if out != "" {
				out += "."
			}
			out += fmt.Sprint(v)
		}
	}
	return out
}
