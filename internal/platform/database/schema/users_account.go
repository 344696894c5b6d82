package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table     string
	ID        string
	Username  string
	Password  string
	Role      string
	CreatedAt string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:     "users.account",
	ID:        "id",
	Username:  "username",
	Password:  "passwordhash",
	Role:      "role",
	CreatedAt: "createdat",
}

// LiteUserAccount is the SQLite counterpart of users.account.
var LiteUserAccount = UserAccountTable{
	Table:     "user_account",
	ID:        "id",
	Username:  "username",
	Password:  "passwordhash",
	Role:      "role",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{t.ID, t.Username, t.Password, t.Role, t.CreatedAt}
}
