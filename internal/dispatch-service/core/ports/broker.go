package ports

import (
	"context"

	messagebrokerdto "taxi-dispatch/internal/dispatch-service/core/domain/message_broker_dto"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// Routing keys on the dispatch_topic exchange.
	RoutingTripOffer      = "trip.offer.%s"      // per driver
	RoutingTripStatus     = "trip.status.%s"     // per status
	RoutingRatingRequest  = "rating.request.%s"  // per passenger
	RoutingDriverResponse = "driver.response.*"
)

type IDispatchBroker interface {
	Close() error
	PushTripOffer(ctx context.Context, msg messagebrokerdto.TripOffer) error
	PushTripStatus(ctx context.Context, msg messagebrokerdto.TripStatus) error
	PushRatingRequest(ctx context.Context, msg messagebrokerdto.RatingRequest) error

	Consume(ctx context.Context, routingKey string) (<-chan amqp.Delivery, error)
}
