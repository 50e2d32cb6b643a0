package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemberStatus is the lifecycle state of a koperasi membership.
type MemberStatus string

const (
	MemberStatusPending   MemberStatus = "pending"
	MemberStatusActive    MemberStatus = "active"
	MemberStatusInactive  MemberStatus = "inactive"
	MemberStatusSuspended MemberStatus = "suspended"
)

// Valid reports whether s is a known member status.
func (s MemberStatus) Valid() bool {
	switch s {
	case MemberStatusPending, MemberStatusActive, MemberStatusInactive, MemberStatusSuspended:
		return true
	}
	return false
}

// Member represents a person enrolled in a koperasi
type Member struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID       primitive.ObjectID `bson:"user_id" json:"user_id"`
	KoperasiID   string             `bson:"koperasi_id" json:"koperasi_id"`
	MemberNumber string             `bson:"member_number" json:"member_number"`
	FullName     string             `bson:"full_name" json:"full_name"`
	Phone        string             `bson:"phone" json:"phone"`
	Address      string             `bson:"address,omitempty" json:"address,omitempty"`
	Status       MemberStatus       `bson:"status" json:"status"`
	JoinedAt     *time.Time         `bson:"joined_at,omitempty" json:"joined_at,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// IsActive reports whether the member may use waste-bank features.
func (m *Member) IsActive() bool {
	return m != nil && m.Status == MemberStatusActive
}

// UpdateMemberStatusRequest is the body of the admin status change endpoint.
type UpdateMemberStatusRequest struct {
	Status MemberStatus `json:"status" binding:"required"`
}
