package messaging

import "github.com/roomboardhq/roomboard/internal/domain"

type RoomEventData struct {
	Room   domain.Room `json:"room"`
	Reason string      `json:"reason,omitempty"`
}
