package models

import "time"

// Donor represents a registered donor profile. AuthUserID is the identity
// carried in the JWT; ID is the internal donor id referenced by donations.
type Donor struct {
	ID               string    `bson:"id" json:"id"`
	AuthUserID       string    `bson:"authUserId" json:"authUserId"`
	Name             string    `bson:"name" json:"name"`
	Email            string    `bson:"email" json:"email"`
	PasswordHash     string    `bson:"passwordHash" json:"-"`
	PhoneNumber      string    `bson:"phoneNumber" json:"phoneNumber,omitempty"`
	BloodGroup       string    `bson:"bloodGroup" json:"bloodGroup"`
	BloodGroupDocID  string    `bson:"bloodGroupDocId,omitempty" json:"bloodGroupDocId,omitempty"`
	LocationGeo      GeoPoint  `bson:"locationGeo" json:"locationGeo,omitzero"`
	FCMToken         string    `bson:"fcmToken,omitempty" json:"-"`
	LastDonationDate string    `bson:"lastDonationDate,omitempty" json:"lastDonationDate,omitempty"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt,omitzero"`
	UpdatedAt        time.Time `bson:"updatedAt" json:"updatedAt,omitzero"`
}

// DonorRegistration is the signup payload.
type DonorRegistration struct {
	Name        string  `json:"name" binding:"required"`
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=8"`
	PhoneNumber string  `json:"phoneNumber"`
	BloodGroup  string  `json:"bloodGroup" binding:"required"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}
