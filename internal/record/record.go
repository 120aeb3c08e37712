// Package record implements an ordered JSON object.
//
// Catalog entities and seed documents are handled as records instead of
// structs since every entity kind carries a different, partially overlapping
// set of fields, and filtered output has to list fields in the order of the
// filter key list.
package record

// Record is a JSON object that remembers key insertion order.
//
// Values are one of: nil, bool, string, int64, float64, []any or *Record.
// The zero value is not usable, use New.
type Record struct {
	keys   []string
	values map[string]any
}

func New() *Record {
	return &Record{values: map[string]any{}}
}

// FromPairs builds a record out of alternating keys and values,
// ex. FromPairs("name", "Hoth", "diameter", "7200").
func FromPairs(pairs ...any) *Record {
	if len(pairs)%2 != 0 {
		panic("record.FromPairs: odd number of arguments")
	}
	r := New()
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			panic("record.FromPairs: key is not a string")
		}
		r.Set(key, pairs[i+1])
	}
	return r
}

// Set updates the value of an existing key in place or appends a new key.
func (r *Record) Set(key string, value any) {
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

func (r *Record) Get(key string) (any, bool) {
	value, ok := r.values[key]
	return value, ok
}

func (r *Record) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

func (r *Record) Delete(key string) {
	if _, ok := r.values[key]; !ok {
		return
	}
	delete(r.values, key)
	for i, k := range r.keys {
		if k == key {
			r.keys = append(r.keys[:i:i], r.keys[i+1:]...)
			break
		}
	}
}

func (r *Record) Len() int {
	return len(r.keys)
}

// Keys returns a copy of the keys in insertion order.
func (r *Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Each calls fn for every key in insertion order.
func (r *Record) Each(fn func(key string, value any)) {
	for _, k := range r.keys {
		fn(k, r.values[k])
	}
}

// Clone returns a shallow copy, nested records and lists are shared.
func (r *Record) Clone() *Record {
	out := &Record{
		keys:   make([]string, len(r.keys)),
		values: make(map[string]any, len(r.values)),
	}
	copy(out.keys, r.keys)
	for k, v := range r.values {
		out.values[k] = v
	}
	return out
}

// DeepClone copies nested records and lists as well.
func (r *Record) DeepClone() *Record {
	out := r.Clone()
	for k, v := range out.values {
		out.values[k] = deepCopy(v)
	}
	return out
}

func deepCopy(value any) any {
	switch v := value.(type) {
	case *Record:
		if v == nil {
			return v
		}
		return v.DeepClone()
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = deepCopy(elem)
		}
		return out
	default:
		return v
	}
}

func (r *Record) String(key string) (string, bool) {
	v, ok := r.values[key].(string)
	return v, ok
}

func (r *Record) Record(key string) (*Record, bool) {
	v, ok := r.values[key].(*Record)
	return v, ok && v != nil
}

func (r *Record) List(key string) ([]any, bool) {
	v, ok := r.values[key].([]any)
	return v, ok
}
