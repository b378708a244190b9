package schema

// UserCreatorProfileTable represents the 'users.creatorprofile' table
type UserCreatorProfileTable struct {
	Table       string
	UserID      string
	DisplayName string
	Bio         string
	AvatarKey   string
	AvatarURL   string
	Links       string
	CreatedAt   string
	UpdatedAt   string
}

// UserCreatorProfile is the schema definition for users.creatorprofile
var UserCreatorProfile = UserCreatorProfileTable{
	Table:       "users.creatorprofile",
	UserID:      "userid",
	DisplayName: "displayname",
	Bio:         "bio",
	AvatarKey:   "avatarkey",
	AvatarURL:   "avatarurl",
	Links:       "links",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

func (t UserCreatorProfileTable) Columns() []string {
	return []string{
		t.UserID, t.DisplayName, t.Bio, t.AvatarKey, t.AvatarURL,
		t.Links, t.CreatedAt, t.UpdatedAt,
	}
}
