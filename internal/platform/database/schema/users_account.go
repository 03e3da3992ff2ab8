package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table       string
	ID          string
	Email       string
	Password    string
	FirstName   string
	LastName    string
	Phone       string
	Role        string
	Status      string
	Address     string
	City        string
	State       string
	PostalCode  string
	Country     string
	LastLoginAt string
	CreatedAt   string
	UpdatedAt   string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:       "users.account",
	ID:          "id",
	Email:       "email",
	Password:    "passwordhash",
	FirstName:   "firstname",
	LastName:    "lastname",
	Phone:       "phone",
	Role:        "role",
	Status:      "status",
	Address:     "address",
	City:        "city",
	State:       "state",
	PostalCode:  "postalcode",
	Country:     "country",
	LastLoginAt: "lastloginat",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Email, t.Password, t.FirstName, t.LastName, t.Phone,
		t.Role, t.Status, t.Address, t.City, t.State, t.PostalCode,
		t.Country, t.LastLoginAt, t.CreatedAt, t.UpdatedAt,
	}
}
