package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking statuses.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

// BookingReview is the guest's review, present once submitted.
type BookingReview struct {
	Rating  int    `bson:"rating" json:"rating" validate:"required,min=1,max=5"`
	Comment string `bson:"comment" json:"comment"`
}

// Booking is a guest's request for a host's dining experience. It exists here
// as the primary record the domain actions mutate; notification delivery is a
// side effect and never decides a booking's fate.
type Booking struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	GuestID        string             `bson:"guest_id" json:"guest_id" validate:"required"`
	HostID         string             `bson:"host_id" json:"host_id" validate:"required"`
	ExperienceID   string             `bson:"experience_id" json:"experience_id" validate:"required"`
	Details        string             `bson:"details" json:"details"`
	Status         string             `bson:"status" json:"status"`
	RescheduleNote *string            `bson:"reschedule_note,omitempty" json:"reschedule_note,omitempty"`
	Review         *BookingReview     `bson:"review,omitempty" json:"review,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}
