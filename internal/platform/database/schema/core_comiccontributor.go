package schema

// CoreComicContributorTable represents the 'core.comiccontributor' table
type CoreComicContributorTable struct {
	Table    string
	ComicID  string
	Role     string
	Name     string
	Position string
}

// CoreComicContributor is the schema definition for core.comiccontributor
var CoreComicContributor = CoreComicContributorTable{
	Table:    "core.comiccontributor",
	ComicID:  "comicid",
	Role:     "role",
	Name:     "name",
	Position: "position",
}

func (t CoreComicContributorTable) Columns() []string {
	return []string{t.ComicID, t.Role, t.Name, t.Position}
}
