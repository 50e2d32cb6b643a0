package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PointTransactionEarned     = "earned"
	PointTransactionRedeemed   = "redeemed"
	PointTransactionAdjustment = "adjustment"

	PointStatusPending   = "pending"
	PointStatusCompleted = "completed"
	PointStatusCancelled = "cancelled"
)

// PointTransaction is an append-only ledger entry. Positive amounts credit the
// member, negative amounts are redemptions.
type PointTransaction struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	MemberID       primitive.ObjectID  `bson:"member_id" json:"member_id"`
	Amount         int64               `bson:"amount" json:"amount"`
	Type           string              `bson:"type" json:"type"`
	Status         string              `bson:"status" json:"status"`
	ContributionID *primitive.ObjectID `bson:"contribution_id,omitempty" json:"contribution_id,omitempty"`
	Description    string              `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt      time.Time           `bson:"created_at" json:"created_at"`
}
