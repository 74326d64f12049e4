package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User account. User_type starts as GUEST or HOST_PENDING; an admin approval
// flips HOST_PENDING to HOST.
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	User_id       string             `bson:"user_id" json:"user_id"`
	First_name    *string            `bson:"first_name" json:"first_name" validate:"required,min=2,max=100"`
	Last_name     *string            `bson:"last_name" json:"last_name" validate:"required,min=2,max=100"`
	Email         *string            `bson:"email" json:"email" validate:"required,email"`
	Password      *string            `bson:"password" json:"password,omitempty" validate:"required,min=6"`
	User_type     *string            `bson:"user_type" json:"user_type" validate:"required,oneof=GUEST HOST_PENDING HOST ADMIN"`
	Photo_url     *string            `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	Token         *string            `bson:"token,omitempty" json:"token,omitempty"`
	Refresh_token *string            `bson:"refresh_token,omitempty" json:"refresh_token,omitempty"`
	Created_at    *time.Time         `bson:"created_at" json:"created_at"`
	Updated_at    *time.Time         `bson:"updated_at" json:"updated_at"`
}

// DisplayInfo is the snapshot a conversation captures for this user.
func (u *User) DisplayInfo() ParticipantInfo {
	info := ParticipantInfo{}
	if u.First_name != nil && u.Last_name != nil {
		info.Name = *u.First_name + " " + *u.Last_name
	}
	if u.Photo_url != nil {
		info.PhotoURL = *u.Photo_url
	}
	return info
}
