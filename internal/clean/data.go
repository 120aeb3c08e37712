package clean

import "rebelintel/internal/record"

// FilterData returns a new record holding the subset of `data` named by
// `keys`, in the order of `keys`. Keys missing from `data` are skipped.
func FilterData(data *record.Record, keys []string) *record.Record {
	out := record.New()
	for _, k := range keys {
		value, ok := data.Get(k)
		if !ok {
			continue
		}
		out.Set(k, value)
	}
	return out
}

// CombineData creates a shallow copy of `defaults` then updates it with every
// key-value pair of `overrides`. Matching keys are overridden in place, new
// keys are appended.
func CombineData(defaults, overrides *record.Record) *record.Record {
	combined := defaults.Clone()
	overrides.Each(func(key string, value any) {
		combined.Set(key, value)
	})
	return combined
}

// CrewMember is one role assignment, ex. {"pilot", <person>}.
type CrewMember struct {
	Role   string
	Member any
}

// AssignCrew returns a shallow copy of the starship with every crew role
// added. Roles already present on the starship are left untouched.
func AssignCrew(starship *record.Record, crew ...CrewMember) *record.Record {
	out := starship.Clone()
	for _, c := range crew {
		if out.Has(c.Role) {
			continue
		}
		out.Set(c.Role, c.Member)
	}
	return out
}
