package deletecontent

import (
	"encoding/json"
	"fmt"
	"sync"

	ci "github.com/masenocturnal/deletecontent/internal/common_interfaces"
	"github.com/masenocturnal/deletecontent/internal/metrics"
	"github.com/streadway/amqp"
)

const consumerTag = "deletecontentd"

// StartListener consumes step messages until the connection goes away.
// The error that ended the listener is sent on listenerError.
func (p *deleteContentPipeline) StartListener(listenerError chan error) {
	if p.consumer == nil {
		listenerError <- fmt.Errorf("RabbitMQ has not been configured")
		return
	}

	queue, err := p.consumer.Config.ConsumeQueue()
	if err != nil {
		listenerError <- err
		return
	}

	conn, err := p.consumer.Connect()
	if err != nil {
		listenerError <- err
		// goroutine will block forever if we don't return
		return
	}

	if conn == nil || conn.IsClosed() {
		listenerError <- fmt.Errorf("RabbitMQ Connection is in an unexpected state")
		return
	}

	// we want to know if the connection get's closed
	rabbitCloseError := make(chan *amqp.Error, 1)
	conn.NotifyClose(rabbitCloseError)

	p.log.Debug("Creating Channel")
	consumerCh, err := conn.Channel()
	if err != nil {
		p.log.Errorf("Unable to create Channel : %s ", err.Error())
		listenerError <- err
		return
	}

	p.log.Debug("Creating Exchanges and Queues")
	if err := p.consumer.Configure(consumerCh); err != nil {
		listenerError <- err
		return
	}

	if err := consumerCh.Qos(p.workers, 0, false); err != nil {
		listenerError <- err
		return
	}

	p.log.Infof("Opening Consumer Channel on %s with %d workers", queue, p.workers)
	firehose, err := consumerCh.Consume(
		queue,
		consumerTag,
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil)
	if err != nil {
		listenerError <- err
		return
	}

	var running sync.WaitGroup
	slots := make(chan struct{}, p.workers)
	shutdown := func(err *amqp.Error) {
		_ = consumerCh.Cancel(consumerTag, false)
		p.log.Warning("RabbitMQ Connection has gone away")
		running.Wait()
		if err == nil {
			listenerError <- amqp.ErrClosed
		} else {
			listenerError <- err
		}
		p.log.Info("Shutting Down Listener")
	}

	for {
		select {
		case err := <-rabbitCloseError:
			shutdown(err)
			return
		case msg, ok := <-firehose:
			if !ok {
				p.log.Warning("Consumer Channel has been closed")
				running.Wait()
				listenerError <- fmt.Errorf("Consumer channel on %s closed", queue)
				return
			}
			if err, closed := acquireSlot(slots, rabbitCloseError); closed {
				// the unacked message is redelivered by the broker
				shutdown(err)
				return
			}
			running.Add(1)
			go func(msg amqp.Delivery) {
				defer func() {
					<-slots
					running.Done()
				}()
				p.handleDelivery(msg)
			}(msg)
		}
	}
}

// acquireSlot waits for a free worker slot. It gives up when the connection closes first.
func acquireSlot(slots chan<- struct{}, closing <-chan *amqp.Error) (*amqp.Error, bool) {
	select {
	case slots <- struct{}{}:
		return nil, false
	case err := <-closing:
		return err, true
	}
}

// handleDelivery runs one message. Successful runs are acked, everything else is
// nacked without requeueing so a broken step can't loop.
func (p *deleteContentPipeline) handleDelivery(msg amqp.Delivery) {
	if len(msg.Body) < 2 {
		p.log.Warn("Received an empty message")
		metrics.RecordRejected()
		_ = msg.Reject(false)
		return
	}

	p.log.Debugf("Message [%s] Correlation ID: %s ", msg.Body, msg.CorrelationId)
	payload := ci.StepPayload{}
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		p.log.Errorf("Unable to unmarshall payload: %s", err.Error())
		metrics.RecordRejected()
		_ = msg.Reject(false)
		return
	}
	if payload.CorrelationID == "" {
		payload.CorrelationID = msg.CorrelationId
	}

	errList := p.Execute(payload)
	if len(errList) > 0 {
		p.log.Infof("Step %d of process %d Finished With Errors", payload.StepID, payload.ProcessID)
		for _, e := range errList {
			p.log.Errorf("%s ", e.Error())
		}
		// don't requeue at this stage
		_ = msg.Nack(false, false)
		return
	}
	p.log.Infof("Step %d of process %d Completed Successfully", payload.StepID, payload.ProcessID)
	_ = msg.Ack(false)
}
