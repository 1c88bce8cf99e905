package call

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("call not found")

// Call is a logged outreach event. It carries no data beyond its timestamp.
type Call struct {
	ID   uuid.UUID
	Date time.Time
}
