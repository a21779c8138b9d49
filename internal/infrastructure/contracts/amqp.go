package contracts

// AmqpMessage is the message structure for AMQP.
type AmqpMessage struct {
	Owner string `json:"owner"`
	Data  []byte `json:"data"`
}

// Routing keys for the room listing lifecycle.
const (
	EventRoomCreated  = "room.created"
	EventRoomDeleted  = "room.deleted"
	EventRoomExpired  = "room.expired"
	EventRoomExtended = "room.extended"
)
