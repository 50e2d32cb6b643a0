package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WasteType is the category of a deposited waste batch. The set is closed.
type WasteType string

const (
	WasteTypeOrganic    WasteType = "organic"
	WasteTypePlastic    WasteType = "plastic"
	WasteTypePaper      WasteType = "paper"
	WasteTypeMetal      WasteType = "metal"
	WasteTypeGlass      WasteType = "glass"
	WasteTypeElectronic WasteType = "electronic"
)

// WasteTypes lists every accepted waste type.
var WasteTypes = []WasteType{
	WasteTypeOrganic,
	WasteTypePlastic,
	WasteTypePaper,
	WasteTypeMetal,
	WasteTypeGlass,
	WasteTypeElectronic,
}

// MaxWeightKg bounds any single recorded weight.
const MaxWeightKg = 10000.0

// Valid reports whether t is one of the accepted waste types.
func (t WasteType) Valid() bool {
	for _, wt := range WasteTypes {
		if wt == t {
			return true
		}
	}
	return false
}

// ContributionStatus is the state of a recorded contribution.
type ContributionStatus string

const (
	ContributionStatusPending   ContributionStatus = "pending"
	ContributionStatusCollected ContributionStatus = "collected"
	ContributionStatusVerified  ContributionStatus = "verified"
	ContributionStatusRejected  ContributionStatus = "rejected"
)

// Valid reports whether s is a known contribution status.
func (s ContributionStatus) Valid() bool {
	switch s {
	case ContributionStatusPending, ContributionStatusCollected, ContributionStatusVerified, ContributionStatusRejected:
		return true
	}
	return false
}

// WasteContribution is a single recorded deposit of waste. Rows are never
// updated after insert.
type WasteContribution struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	MemberID        primitive.ObjectID  `bson:"member_id" json:"member_id"`
	KoperasiID      string              `bson:"koperasi_id" json:"koperasi_id"`
	PickupRequestID *primitive.ObjectID `bson:"pickup_request_id,omitempty" json:"pickup_request_id,omitempty"`
	WasteType       WasteType           `bson:"waste_type" json:"waste_type"`
	WeightKg        float64             `bson:"weight_kg" json:"weight_kg"`
	PointsEarned    int64               `bson:"points_earned" json:"points_earned"`
	Status          ContributionStatus  `bson:"status" json:"status"`
	Description     string              `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt       time.Time           `bson:"created_at" json:"created_at"`
}

// CreateContributionRequest is the body of POST /contributions.
type CreateContributionRequest struct {
	WasteType       WasteType `json:"waste_type" binding:"required"`
	WeightKg        float64   `json:"weight_kg" binding:"required,gt=0,lte=10000"`
	PickupRequestID string    `json:"pickup_request_id"`
	Description     string    `json:"description" binding:"max=500"`
}

// ContributionQuery holds the list filters for GET /contributions.
type ContributionQuery struct {
	WasteType string `form:"waste_type"`
	Status    string `form:"status"`
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
}
