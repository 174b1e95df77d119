package models

// Contact represents a single phonebook entry owned by a user.
// Every query against the contacts collection is filtered by Owner, so a
// contact is never visible outside the owning account.
type Contact struct {
	ID       string `json:"id" bson:"_id" validate:"omitempty,uuid"`
	Name     string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" bson:"email" validate:"required,email"`
	Phone    string `json:"phone" bson:"phone" validate:"required,number"`
	Favorite bool   `json:"favorite" bson:"favorite"`
	Owner    string `json:"owner" bson:"owner"`
}
