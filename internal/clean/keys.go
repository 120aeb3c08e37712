package clean

// Field lists kept for each kind of entity.
var (
	PersonKeys = []string{
		"url", "name", "mass", "hair_color", "skin_color", "eye_color", "birth_year",
		"gender", "homeworld", "species",
	}

	PlanetKeys = []string{
		"url", "name", "rotation_period", "orbital_period", "diameter", "climate",
		"gravity", "terrain", "surface_water", "population",
	}

	HothKeys = []string{
		"url", "name", "system_position", "natural_satelites", "rotation_period",
		"orbital_period", "diameter", "climate", "gravity", "terrain", "surface_water",
		"population", "indigenous_life_forms",
	}

	SpeciesKeys = []string{
		"url", "name", "classification", "average_height", "skin_colors", "hair_colors",
		"eye_colors", "average_lifespan", "language",
	}

	StarshipKeys = []string{
		"url", "starship_class", "name", "model", "manufacturer", "length", "width",
		"max_atmosphering_speed", "hyperdrive_rating", "crew", "passengers", "cargo_capacity",
		"consumables", "armament",
	}

	VehicleKeys = []string{
		"url", "vehicle_class", "name", "model", "manufacturer", "length", "max_atmosphering_speed",
		"crew", "passengers", "cargo_capacity", "consumables", "armament",
	}
)

type fieldKind int

const (
	fieldPassthrough fieldKind = iota
	fieldFloat
	fieldInt
	fieldList
	fieldHomeworld
	fieldSpecies
)

var fieldKinds = map[string]fieldKind{
	"gravity":           fieldFloat,
	"length":            fieldFloat,
	"width":             fieldFloat,
	"hyperdrive_rating": fieldFloat,

	"rotation_period":        fieldInt,
	"orbital_period":         fieldInt,
	"diameter":               fieldInt,
	"surface_water":          fieldInt,
	"population":             fieldInt,
	"height":                 fieldInt,
	"mass":                   fieldInt,
	"average_height":         fieldInt,
	"average_lifespan":       fieldInt,
	"max_atmosphering_speed": fieldInt,
	"MGLT":                   fieldInt,
	"crew":                   fieldInt,
	"passengers":             fieldInt,
	"cargo_capacity":         fieldInt,

	"hair_color":  fieldList,
	"skin_color":  fieldList,
	"climate":     fieldList,
	"terrain":     fieldList,
	"skin_colors": fieldList,
	"hair_colors": fieldList,
	"eye_colors":  fieldList,

	"homeworld": fieldHomeworld,
	"species":   fieldSpecies,
}

const listDelimiter = ", "
