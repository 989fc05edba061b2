package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table           string
	ID              string
	FirstName       string
	LastName        string
	Email           string
	Password        string
	Gender          string
	Birthday        string
	ProfileImageURL string
	Role            string
	Status          string
	CreatedAt       string
	UpdatedAt       string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:           "users.account",
	ID:              "id",
	FirstName:       "firstname",
	LastName:        "lastname",
	Email:           "email",
	Password:        "passwordhash",
	Gender:          "gender",
	Birthday:        "birthday",
	ProfileImageURL: "profileimageurl",
	Role:            "role",
	Status:          "status",
	CreatedAt:       "createdat",
	UpdatedAt:       "updatedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.FirstName, t.LastName, t.Email, t.Password, t.Gender,
		t.Birthday, t.ProfileImageURL, t.Role, t.Status, t.CreatedAt, t.UpdatedAt,
	}
}
