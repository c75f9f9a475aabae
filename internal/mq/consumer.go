package mq

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

//BusConfig RabbitMQ configuration definition
type BusConfig struct {
	User      string           `json:"user" mapstructure:"user"`
	Password  string           `json:"password" mapstructure:"password"`
	Host      string           `json:"host" mapstructure:"host"`
	Port      string           `json:"port" mapstructure:"port"`
	Vhost     string           `json:"vhost" mapstructure:"vhost"`
	Exchanges []ExchangeConfig `json:"exchanges" mapstructure:"exchanges"`
	Queues    []QueueConfig    `json:"queues" mapstructure:"queues"`
}

//ExchangeConfig RabbbitMQ Exchange configuration
type ExchangeConfig struct {
	Name         string `json:"name" mapstructure:"name"`
	ExchangeType string `json:"type" mapstructure:"type"`
	Durable      bool   `json:"durable" mapstructure:"durable"`
}

//QueueConfig RabbitMQ Queue definition
type QueueConfig struct {
	Name           string          `json:"name" mapstructure:"name"`
	Durable        bool            `json:"durable" mapstructure:"durable"`
	DeleteOnUnused bool            `json:"deleteOnUnused" mapstructure:"deleteOnUnused"`
	Exclusive      bool            `json:"exclusive" mapstructure:"exclusive"`
	NoWait         bool            `json:"noWait" mapstructure:"noWait"`
	Bindings       []BindingConfig `json:"bindings" mapstructure:"bindings"`
}

//BindingConfig Queue/Exchange Bindings
type BindingConfig struct {
	RoutingKey string `json:"routingKey" mapstructure:"routingKey"`
	Exchange   string `json:"exchange" mapstructure:"exchange"`
}

//ConnectionString Format an AMQP Connection String
func (config BusConfig) ConnectionString() string {
	port := config.Port
	if port == "" {
		port = "5672"
	}
	return fmt.Sprintf("amqp://%s:%s@%s:%s/%s", config.User, config.Password, config.Host, port, config.Vhost)
}

// ConsumeQueue is the queue step messages are read from
func (config BusConfig) ConsumeQueue() (string, error) {
	if len(config.Queues) == 0 || config.Queues[0].Name == "" {
		return "", fmt.Errorf("No queue has been configured for the listener")
	}
	return config.Queues[0].Name, nil
}

//MessageConsumer owns the connection the listener consumes from
type MessageConsumer struct {
	Config BusConfig
	conn   *amqp.Connection
	log    *log.Entry
}

//NewConsumer creates a consumer that is not yet connected
func NewConsumer(config BusConfig, l *log.Entry) *MessageConsumer {
	return &MessageConsumer{
		Config: config,
		log:    l,
	}
}

//Connect dials the broker
func (c *MessageConsumer) Connect() (*amqp.Connection, error) {
	c.log.Debugf("Connecting to RabbitMQ %s:%s/%s as %s", c.Config.Host, c.Config.Port, c.Config.Vhost, c.Config.User)
	conn, err := amqp.Dial(c.Config.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("Unable to connect to RabbitMQ: %s", err.Error())
	}
	c.conn = conn
	return conn, nil
}

//Configure declares the exchanges and queues and binds them
func (c *MessageConsumer) Configure(ch *amqp.Channel) error {
	for _, ex := range c.Config.Exchanges {
		err := ch.ExchangeDeclare(
			ex.Name,         // name
			ex.ExchangeType, // type
			ex.Durable,      // durable
			false,           // auto-deleted
			false,           // internal
			false,           // no-wait
			nil,             // arguments
		)
		if err != nil {
			return fmt.Errorf("Unable to declare exchange %s: %s", ex.Name, err.Error())
		}
	}

	for _, qConfig := range c.Config.Queues {
		q, err := ch.QueueDeclare(
			qConfig.Name,           // name
			qConfig.Durable,        // durable
			qConfig.DeleteOnUnused, // delete when unused
			qConfig.Exclusive,      // exclusive
			qConfig.NoWait,         // no-wait
			nil,                    // arguments
		)
		if err != nil {
			return fmt.Errorf("Unable to declare queue %s: %s", qConfig.Name, err.Error())
		}

		for _, bindingConfig := range qConfig.Bindings {
			err := ch.QueueBind(
				q.Name,                   // queue name
				bindingConfig.RoutingKey, // routing key
				bindingConfig.Exchange,   // exchange
				false,
				nil)
			if err != nil {
				return fmt.Errorf("Unable to bind queue %s to %s: %s", q.Name, bindingConfig.Exchange, err.Error())
			}
		}
	}
	return nil
}

//Close closes the connection if one is open
func (c *MessageConsumer) Close() error {
	if c.conn == nil || c.conn.IsClosed() {
		return nil
	}
	return c.conn.Close()
}
