package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Kind distinguishes money coming in from money going out.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Valid reports whether k is one of the two recognized kinds.
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Transaction is one recorded financial movement. Amounts are signed:
// positive for income, negative for expenses. Date carries no time-of-day
// meaning and is always stored at midnight UTC.
//
// A transaction is created once, after category resolution, and is never
// updated or deleted afterwards. ExternalMessageID is backed by a unique
// index so the same source message can be recorded at most once.
type Transaction struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Amount            float64            `bson:"amount" json:"amount"`
	Date              time.Time          `bson:"date" json:"date"`
	Kind              Kind               `bson:"kind" json:"kind"`
	Category          string             `bson:"category,omitempty" json:"category,omitempty"`
	Establishment     string             `bson:"establishment" json:"establishment"`
	ExternalMessageID string             `bson:"external_message_id" json:"external_message_id"`
	SubmittedBy       string             `bson:"submitted_by" json:"submitted_by"`
}

// Uncategorized reports whether category resolution left this transaction
// without a category. That is a valid, permanent state.
func (t *Transaction) Uncategorized() bool {
	return t.Category == ""
}
