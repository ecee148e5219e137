package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrorReportStatusNew is the status every report is created with. The
// errors collection is append-only; nothing in this codebase moves a
// report past New.
const ErrorReportStatusNew = "New"

// ErrorReport is an append-only record of an unrecoverable failure that
// surfaced to the user-facing layer, or of a problem the user reported.
type ErrorReport struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Description    string             `bson:"description" json:"description"`
	Classification string             `bson:"classification" json:"classification"`
	ReportedBy     string             `bson:"reported_by" json:"reported_by"`
	OccurredAt     time.Time          `bson:"occurred_at" json:"occurred_at"`
	Status         string             `bson:"status" json:"status"`
}
