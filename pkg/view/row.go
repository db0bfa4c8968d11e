package view

import "github.com/Sternrassler/character-table/pkg/characters"

// Row is one display row of the character table.
type Row struct {
	// Key is the character identifier, used as a stable row key.
	Key      string
	Name     string
	Species  string
	Origin   string
	Location string
	ImageURL string
}

// MapRow converts a character into a display row. Absent optional fields
// become empty cells.
func MapRow(c characters.Character) Row {
	return Row{
		Key:      c.ID,
		Name:     c.Name,
		Species:  c.Species,
		Origin:   c.OriginName(),
		Location: c.LocationName(),
		ImageURL: c.ImageURL(),
	}
}

// MapRows maps every character, preserving order.
func MapRows(list []characters.Character) []Row {
	rows := make([]Row, len(list))
	for i, c := range list {
		rows[i] = MapRow(c)
	}
	return rows
}

// Cells returns the row's column values in header order.
func (r Row) Cells() []string {
	return []string{r.Name, r.Species, r.Origin, r.Location}
}
