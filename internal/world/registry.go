package world

// Registry indexes a generated world for lookups by id.
type Registry struct {
	locations []Location
	byID      map[string]int
	ruins     map[string]int
}

func NewRegistry(locations []Location) *Registry {
	r := &Registry{
		locations: locations,
		byID:      make(map[string]int, len(locations)),
		ruins:     make(map[string]int),
	}
	for i, l := range locations {
		r.byID[l.ID] = i
		for _, ruin := range l.Encounters.Ruins {
			r.ruins[ruin.ID] = i
		}
	}
	return r
}

// Generate builds the world for cfg and indexes it.
func Generate(cfg Config) *Registry {
	return NewRegistry(NewGenerator(cfg).Generate())
}

func (r *Registry) Locations() []Location {
	return r.locations
}

func (r *Registry) Location(id string) (Location, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Location{}, false
	}
	return r.locations[i], true
}

// Ruin returns the ruin and the location that holds it.
func (r *Registry) Ruin(id string) (Ruin, Location, bool) {
	i, ok := r.ruins[id]
	if !ok {
		return Ruin{}, Location{}, false
	}
	loc := r.locations[i]
	for _, ruin := range loc.Encounters.Ruins {
		if ruin.ID == id {
			return ruin, loc, true
		}
	}
	return Ruin{}, Location{}, false
}

func (r *Registry) RuinIDs() []string {
	ids := make([]string, 0, len(r.ruins))
	for _, l := range r.locations {
		for _, ruin := range l.Encounters.Ruins {
			ids = append(ids, ruin.ID)
		}
	}
	return ids
}

func (r *Registry) RuinCount() int {
	return len(r.ruins)
}
