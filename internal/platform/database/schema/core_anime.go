package schema

// CoreAnimeTable represents the 'core.anime' table
type CoreAnimeTable struct {
	Table string
	ID    string
	Name  string
}

// CoreAnime is the schema definition for core.anime
var CoreAnime = CoreAnimeTable{
	Table: "core.anime",
	ID:    "id",
	Name:  "name",
}

func (t CoreAnimeTable) Columns() []string { return []string{t.ID, t.Name} }

// LiteAnime is the SQLite counterpart of core.anime (SQLite has no schemas).
var LiteAnime = CoreAnimeTable{
	Table: "anime",
	ID:    "id",
	Name:  "name",
}
