package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table             string
	ID                string
	Username          string
	Email             string
	PasswordHash      string
	Role              string
	IsCreator         string
	IsCreatorEnabled  string
	CreatorDisabledAt string
	CreatedAt         string
	UpdatedAt         string
	DeletedAt         string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:             "users.account",
	ID:                "id",
	Username:          "username",
	Email:             "email",
	PasswordHash:      "passwordhash",
	Role:              "role",
	IsCreator:         "iscreator",
	IsCreatorEnabled:  "iscreatorenabled",
	CreatorDisabledAt: "creatordisabledat",
	CreatedAt:         "createdat",
	UpdatedAt:         "updatedat",
	DeletedAt:         "deletedat",
}

func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.PasswordHash, t.Role,
		t.IsCreator, t.IsCreatorEnabled, t.CreatorDisabledAt,
		t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}
