package characters

// Location is a named place. Only its display name is rendered.
type Location struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Typename string `json:"__typename,omitempty"`
}

// Character is one record of a fetch result. Values are snapshots and are
// not mutated after decoding.
type Character struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Species  string    `json:"species"`
	Image    *string   `json:"image,omitempty"`
	Origin   *Location `json:"origin,omitempty"`
	Location *Location `json:"location,omitempty"`
	Typename string    `json:"__typename,omitempty"`
}

// OriginName returns the origin's name, or "" when absent.
func (c Character) OriginName() string {
	if c.Origin == nil {
		return ""
	}
	return c.Origin.Name
}

// LocationName returns the current location's name, or "" when absent.
func (c Character) LocationName() string {
	if c.Location == nil {
		return ""
	}
	return c.Location.Name
}

// ImageURL returns the avatar URL, or "" when absent.
func (c Character) ImageURL() string {
	if c.Image == nil {
		return ""
	}
	return *c.Image
}
