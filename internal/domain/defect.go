package domain

import (
	"time"

	"github.com/google/uuid"
)

// Defect represents one entry in the master list of defect types.
// Identified by its unique business code; immutable once created.
type Defect struct {
	ID         uuid.UUID `json:"id"`
	DefectCode string    `json:"defect_code"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewDefect creates a new defect with immutable pattern
func NewDefect(defectCode string) Defect {
	return Defect{
		ID:         uuid.New(),
		DefectCode: defectCode,
		CreatedAt:  time.Now(),
	}
}

// Lot represents one manufacturing lot/batch.
// Identified by its unique business lot identifier; immutable once created.
type Lot struct {
	ID        uuid.UUID `json:"id"`
	LotID     string    `json:"lot_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewLot creates a new lot with immutable pattern
func NewLot(lotID string) Lot {
	return Lot{
		ID:        uuid.New(),
		LotID:     lotID,
		CreatedAt: time.Now(),
	}
}
