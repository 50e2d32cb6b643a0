package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PickupStatus is the lifecycle state of a pickup request.
type PickupStatus string

const (
	PickupStatusPending    PickupStatus = "pending"
	PickupStatusScheduled  PickupStatus = "scheduled"
	PickupStatusInProgress PickupStatus = "in_progress"
	PickupStatusCompleted  PickupStatus = "completed"
	PickupStatusCancelled  PickupStatus = "cancelled"
)

var pickupTransitions = map[PickupStatus][]PickupStatus{
	PickupStatusPending:    {PickupStatusScheduled, PickupStatusCancelled},
	PickupStatusScheduled:  {PickupStatusInProgress, PickupStatusCancelled},
	PickupStatusInProgress: {PickupStatusCompleted, PickupStatusCancelled},
}

// Valid reports whether s is a known pickup status.
func (s PickupStatus) Valid() bool {
	switch s {
	case PickupStatusPending, PickupStatusScheduled, PickupStatusInProgress, PickupStatusCompleted, PickupStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func (s PickupStatus) Terminal() bool {
	return s == PickupStatusCompleted || s == PickupStatusCancelled
}

// CanTransitionTo reports whether a pickup in status s may move to next.
func (s PickupStatus) CanTransitionTo(next PickupStatus) bool {
	for _, allowed := range pickupTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PickupRequest is a member's request to have waste collected from an address
type PickupRequest struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	MemberID        primitive.ObjectID `bson:"member_id" json:"member_id"`
	KoperasiID      string             `bson:"koperasi_id" json:"koperasi_id"`
	RequestedDate   time.Time          `bson:"requested_date" json:"requested_date"`
	PreferredTime   string             `bson:"preferred_time" json:"preferred_time"`
	Address         string             `bson:"address" json:"address"`
	EstimatedWeight float64            `bson:"estimated_weight" json:"estimated_weight"`
	ActualWeight    *float64           `bson:"actual_weight,omitempty" json:"actual_weight,omitempty"`
	WasteTypes      []WasteType        `bson:"waste_types" json:"waste_types"`
	Notes           string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Status          PickupStatus       `bson:"status" json:"status"`
	Fee             int64              `bson:"fee" json:"fee"`
	CompletedAt     *time.Time         `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

// CreatePickupRequest is the body of POST /pickup-requests.
type CreatePickupRequest struct {
	RequestedDate   string      `json:"requested_date" binding:"required"`
	PreferredTime   string      `json:"preferred_time" binding:"required"`
	Address         string      `json:"address" binding:"required"`
	EstimatedWeight float64     `json:"estimated_weight" binding:"required,gt=0,lte=10000"`
	WasteTypes      []WasteType `json:"waste_types" binding:"required,min=1"`
	Notes           string      `json:"notes" binding:"max=500"`
}

// PickupContributionItem is one itemised line recorded when a pickup completes.
type PickupContributionItem struct {
	WasteType   WasteType `json:"waste_type"`
	WeightKg    float64   `json:"weight_kg"`
	Description string    `json:"description"`
}

// UpdatePickupRequest is the body of PATCH /pickup-requests.
type UpdatePickupRequest struct {
	PickupRequestID    string                   `json:"pickup_request_id" binding:"required"`
	Status             *PickupStatus            `json:"status"`
	ActualWeight       *float64                 `json:"actual_weight"`
	WasteContributions []PickupContributionItem `json:"waste_contributions"`
}

// PickupQuery holds the list filters for GET /pickup-requests.
type PickupQuery struct {
	Status string `form:"status"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}
