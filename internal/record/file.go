package record

import (
	"fmt"
	"os"
)

// ReadJSON reads and decodes any JSON document.
func ReadJSON(path string) (any, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	value, err := Decode(contents)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return value, nil
}

// ReadRecord reads a file holding a single JSON object.
func ReadRecord(path string) (*Record, error) {
	value, err := ReadJSON(path)
	if err != nil {
		return nil, err
	}
	rec, ok := value.(*Record)
	if !ok || rec == nil {
		return nil, fmt.Errorf("%s: expected a json object, got %T", path, value)
	}
	return rec, nil
}

// ReadRecords reads a file holding a JSON array of objects.
func ReadRecords(path string) ([]*Record, error) {
	value, err := ReadJSON(path)
	if err != nil {
		return nil, err
	}
	list, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected a json array, got %T", path, value)
	}
	out := make([]*Record, len(list))
	for i, elem := range list {
		rec, ok := elem.(*Record)
		if !ok || rec == nil {
			return nil, fmt.Errorf("%s: element %d is not an object", path, i)
		}
		out[i] = rec
	}
	return out, nil
}

// WriteJSON writes a value indented by two spaces.
func WriteJSON(path string, value any) error {
	encoded, err := EncodeIndent(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	encoded = append(encoded, '\n')
	return os.WriteFile(path, encoded, 0644)
}
