// Package model defines the records exchanged with the remote database. The
// JSON tags match the PostgREST wire shapes of the `users` and `prescriptions`
// tables.
package model

// User is a registered account. Rows are created at registration and never
// mutated or deleted by this application.
type User struct {
	Id           int64  `json:"id,omitempty"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	Age          int    `json:"age"`
	PasswordHash string `json:"password_hash,omitempty"`
}

// Prescription is one uploaded image. ImageUrl is derived from ImagePath and
// is not independently trustworthy; CreatedAt is assigned by the provider.
type Prescription struct {
	Id               int64  `json:"id,omitempty"`
	UserId           int64  `json:"user_id"`
	PrescriptionDate string `json:"prescription_date"`
	ImagePath        string `json:"image_path"`
	ImageUrl         string `json:"image_url"`
	CreatedAt        string `json:"created_at,omitempty"`
}

// Uploader is the subset of user columns embedded into listing rows.
type Uploader struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Age      int    `json:"age"`
}

// PrescriptionItem is one row of the listing query: prescription columns
// joined with the owning user.
type PrescriptionItem struct {
	Id               int64    `json:"id"`
	PrescriptionDate string   `json:"prescription_date"`
	ImageUrl         string   `json:"image_url"`
	CreatedAt        string   `json:"created_at"`
	User             Uploader `json:"users"`
}
