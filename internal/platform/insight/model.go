package insight

import (
	"time"

	"github.com/google/uuid"
)

// Insight is an AI-generated behavioral observation over a user's trade history
type Insight struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Content     string
	Model       string
	TradeCount  int
	GeneratedAt time.Time
}
