package models

// User is an end user who files complaints.
// Username is nil when the user signed up without one.
type User struct {
	ID           int64
	Name         string
	Email        string
	Username     *string
	PasswordHash string
}

// Admin reviews complaints. Admins are seeded, never created through the API.
type Admin struct {
	ID           int64
	Username     string
	PasswordHash string
}
