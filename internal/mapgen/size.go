package mapgen

// Dimensions is a grid size in rows and columns.
type Dimensions struct {
	Rows    int `json:"rows" yaml:"rows"`
	Columns int `json:"columns" yaml:"columns"`
}

// SizeTable maps a request size code to grid dimensions.
type SizeTable map[string]Dimensions

// DefaultSizes returns the small, medium and large boards.
func DefaultSizes() SizeTable {
	return SizeTable{
		"s": {Rows: 6, Columns: 6},
		"m": {Rows: 10, Columns: 10},
		"l": {Rows: 12, Columns: 12},
	}
}

// Lookup returns the dimensions for a size code.
func (t SizeTable) Lookup(code string) (Dimensions, bool) {
	d, ok := t[code]
	return d, ok
}

// Player counts accepted by the map endpoint.
const (
	MinPlayers = 2
	MaxPlayers = 4
)

// ValidPlayers reports whether n players can request a map.
func ValidPlayers(n int) bool {
	return n >= MinPlayers && n <= MaxPlayers
}
