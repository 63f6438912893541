package models

// User represents an account record in the users collection.
// Password is stored as supplied; the API never hashes or validates it.
// Empty fields are omitted so a partial body is stored and echoed as sent.
type User struct {
	ID       int    `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty" gorm:"index"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role,omitempty"`
}

// TableName specifies the table name for User Model
func (User) TableName() string {
	return "users"
}

// RecordID returns the store-assigned identifier.
func (u User) RecordID() int {
	return u.ID
}

// WithID returns a copy of the user carrying the given id.
func (u User) WithID(id int) User {
	u.ID = id
	return u
}

// DefaultUsers is the seed dataset written when the users store is first created.
func DefaultUsers() []User {
	return []User{
		{ID: 1, Name: "Administrator", Username: "admin", Password: "admin123", Role: "admin"},
		{ID: 2, Name: "Max Mustermann", Username: "max", Password: "max123", Role: "user"},
		{ID: 3, Name: "Anna Schmidt", Username: "anna", Password: "anna123", Role: "user"},
	}
}
