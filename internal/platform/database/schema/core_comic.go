package schema

// CoreComicTable represents the 'core.comic' table
type CoreComicTable struct {
	Table         string
	ID            string
	OwnerID       string
	SeriesID      string
	Title         string
	Subtitle      string
	Slug          string
	Description   string
	Genres        string
	Tags          string
	Status        string
	PublishStatus string
	PublishedAt   string
	ScheduledAt   string
	FileKey       string
	FileURL       string
	FileName      string
	FileSize      string
	FileType      string
	PageOrder     string
	ThumbnailKey  string
	ThumbnailURL  string
	AgreedAt      string
	CreatedAt     string
	UpdatedAt     string
	DeletedAt     string
}

// CoreComic is the schema definition for core.comic
var CoreComic = CoreComicTable{
	Table:         "core.comic",
	ID:            "id",
	OwnerID:       "ownerid",
	SeriesID:      "seriesid",
	Title:         "title",
	Subtitle:      "subtitle",
	Slug:          "slug",
	Description:   "description",
	Genres:        "genres",
	Tags:          "tags",
	Status:        "status",
	PublishStatus: "publishstatus",
	PublishedAt:   "publishedat",
	ScheduledAt:   "scheduledat",
	FileKey:       "filekey",
	FileURL:       "fileurl",
	FileName:      "filename",
	FileSize:      "filesize",
	FileType:      "filetype",
	PageOrder:     "pageorder",
	ThumbnailKey:  "thumbnailkey",
	ThumbnailURL:  "thumbnailurl",
	AgreedAt:      "agreedat",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
	DeletedAt:     "deletedat",
}

func (t CoreComicTable) Columns() []string {
	return []string{
		t.ID, t.OwnerID, t.SeriesID, t.Title, t.Subtitle, t.Slug,
		t.Description, t.Genres, t.Tags,
		t.Status, t.PublishStatus, t.PublishedAt, t.ScheduledAt,
		t.FileKey, t.FileURL, t.FileName, t.FileSize, t.FileType,
		t.PageOrder, t.ThumbnailKey, t.ThumbnailURL, t.AgreedAt,
		t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}
