package consumer

import (
	"context"
	"encoding/json"

	messagebrokerdto "taxi-dispatch/internal/dispatch-service/core/domain/message_broker_dto"
	"taxi-dispatch/internal/dispatch-service/core/ports"
	"taxi-dispatch/internal/mylogger"

	"github.com/rabbitmq/amqp091-go"
)

// Dispatch pulls driver accept/reject responses off the broker and feeds them
// into the trips service, mirroring what the HTTP respond endpoint does.
type Dispatch struct {
	ctx          context.Context
	mylog        mylogger.Logger
	broker       ports.IDispatchBroker
	tripsService ports.ITripsService
}

func New(
	ctx context.Context,
	mylog mylogger.Logger,
	broker ports.IDispatchBroker,
	tripsService ports.ITripsService,
) *Dispatch {
	return &Dispatch{
		ctx:          ctx,
		mylog:        mylog,
		broker:       broker,
		tripsService: tripsService,
	}
}

func (d *Dispatch) Run() error {
	chDriverResponse, err := d.broker.Consume(d.ctx, ports.RoutingDriverResponse)
	if err != nil {
		return err
	}

	go d.work(d.ctx, chDriverResponse, d.DriverResponse)

	return nil
}

func (d *Dispatch) work(
	ctx context.Context,
	ch <-chan amqp091.Delivery,
	Do func(msg amqp091.Delivery) error,
) {
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}

			if err := Do(msg); err != nil {
				d.mylog.Action("consume").Error("failed to handle message", err)
				continue
			}
		case <-ctx.Done():
			return
		}
	}
}

func (d *Dispatch) DriverResponse(msg amqp091.Delivery) error {
	m := messagebrokerdto.DriverResponse{}

	if err := json.Unmarshal(msg.Body, &m); err != nil {
		return err
	}

	_, err := d.tripsService.RespondToAssignment(d.ctx, m.DriverID, m.Accepted)
	return err
}
