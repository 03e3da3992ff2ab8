package schema

// UserSessionTable represents the 'users.session' table
type UserSessionTable struct {
	Table     string
	ID        string
	UserID    string
	Token     string
	ExpiresAt string
	IsActive  string
	UserAgent string
	IPAddress string
	CreatedAt string
	UpdatedAt string
}

// UserSession is the schema definition for users.session
var UserSession = UserSessionTable{
	Table:     "users.session",
	ID:        "id",
	UserID:    "userid",
	Token:     "token",
	ExpiresAt: "expiresat",
	IsActive:  "isactive",
	UserAgent: "useragent",
	IPAddress: "ipaddress",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t UserSessionTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.Token, t.ExpiresAt, t.IsActive, t.UserAgent, t.IPAddress, t.CreatedAt, t.UpdatedAt,
	}
}
