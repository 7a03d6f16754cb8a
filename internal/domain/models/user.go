package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account holder. The password hash is never serialized to JSON.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email          string             `bson:"email" json:"email"`
	EmailCI        string             `bson:"email_ci" json:"-"` // lowercase, diacritics-stripped
	PasswordHash   []byte             `bson:"password_hash" json:"-"`
	FirstName      string             `bson:"first_name" json:"first_name"`
	LastName       string             `bson:"last_name" json:"last_name"`
	DateOfBirth    *time.Time         `bson:"date_of_birth,omitempty" json:"date_of_birth,omitempty"`
	Bio            string             `bson:"bio,omitempty" json:"bio,omitempty"`
	ProfilePicture string             `bson:"profile_picture,omitempty" json:"profile_picture,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
