package domain

// Catalog holds the fixed map and mode enumerations a room must draw from.
// The defaults mirror the five official maps and the community mode names;
// both lists are overridable from configuration.
type Catalog struct {
	Maps  []string
	Modes []string
}

func DefaultCatalog() Catalog {
	return Catalog{
		Maps:  []string{"The Skeld", "MIRA HQ", "Polus", "The Airship", "Fungle"},
		Modes: []string{"Классика", "Прятки", "Много ролей", "Моды", "Баг"},
	}
}

func (c Catalog) ValidMap(name string) bool {
	return contains(c.Maps, name)
}

func (c Catalog) ValidMode(name string) bool {
	return contains(c.Modes, name)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
