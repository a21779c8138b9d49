package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/roomboardhq/roomboard/internal/domain"
	"github.com/roomboardhq/roomboard/internal/infrastructure/contracts"
	"github.com/roomboardhq/roomboard/internal/infrastructure/logging"
	"github.com/roomboardhq/roomboard/internal/infrastructure/messaging"
	"github.com/roomboardhq/roomboard/internal/registry"
)

const publishTimeout = 5 * time.Second

// RoomPublisher mirrors committed registry mutations onto the room topic
// exchange so external consumers (announcement bots, analytics) can follow
// the listing lifecycle. It observes the registry, so a publish failure can
// only be logged, never rolled back.
type RoomPublisher struct {
	rabbitmq *messaging.RabbitMQ
	logger   logging.Logger
}

func NewRoomPublisher(rabbitmq *messaging.RabbitMQ, logger logging.Logger) *RoomPublisher {
	return &RoomPublisher{
		rabbitmq: rabbitmq,
		logger:   logger,
	}
}

func (p *RoomPublisher) RoomCreated(room domain.Room) {
	p.publish(contracts.EventRoomCreated, room, "")
}

func (p *RoomPublisher) RoomRemoved(room domain.Room, reason registry.RemovalReason) {
	key := contracts.EventRoomDeleted
	if reason == registry.RemovedByExpiry {
		key = contracts.EventRoomExpired
	}
	p.publish(key, room, string(reason))
}

func (p *RoomPublisher) RoomExtended(room domain.Room) {
	p.publish(contracts.EventRoomExtended, room, "")
}

func (p *RoomPublisher) publish(routingKey string, room domain.Room, reason string) {
	payload, err := json.Marshal(messaging.RoomEventData{Room: room, Reason: reason})
	if err != nil {
		p.logger.Error(logging.RabbitMQ, logging.ExternalService, "encode room event",
			map[logging.ExtraKey]any{"error": err.Error()})
		return
	}

	msg, err := json.Marshal(contracts.AmqpMessage{Owner: room.Owner, Data: payload})
	if err != nil {
		p.logger.Error(logging.RabbitMQ, logging.ExternalService, "encode amqp message",
			map[logging.ExtraKey]any{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := p.rabbitmq.PublishMessage(ctx, routingKey, msg); err != nil {
		p.logger.Error(logging.RabbitMQ, logging.ExternalService, "publish room event",
			map[logging.ExtraKey]any{"routing_key": routingKey, "code": room.Code, "error": err.Error()})
	}
}
