package rabbitmq_producer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"moderation-console/pkg/rabbitmq/rabbitmq_common"
)

// PublisherConfig конфигурация для производителя
type PublisherConfig struct {
	rabbitmq_common.Config
	ExchangeName       string // Пустая строка - default exchange
	ExchangeType       string // direct, fanout, topic, headers
	DurableExchange    bool
	AutoDeleteExchange bool
	InternalExchange   bool
	ExchangeArgs       amqp.Table

	// Если false, обменник должен уже существовать.
	DeclareExchangeIfMissing bool

	Logger rabbitmq_common.Logger
}

func (c PublisherConfig) Validate() error {
	if err := c.Config.Validate(); err != nil {
		return fmt.Errorf("invalid base config: %w", err)
	}
	if c.DeclareExchangeIfMissing && (c.ExchangeName == "") != (c.ExchangeType == "") {
		return fmt.Errorf("producer: exchange name and type must be set together when DeclareExchangeIfMissing is true")
	}
	return nil
}

// amqpChannel - часть *amqp.Channel, которой пользуется производитель.
type amqpChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

// channelSource открывает новый канал на текущем соединении менеджера.
type channelSource func() (amqpChannel, error)

// Publisher публикует сообщения в один обменник через канал общего соединения.
// Если соединение было потеряно и менеджер переподключился, канал
// открывается заново при следующей публикации.
type Publisher struct {
	config  PublisherConfig
	mu      sync.Mutex
	open    channelSource
	channel amqpChannel
	closed  bool

	Logger rabbitmq_common.Logger
}

// NewPublisher создает нового производителя
func NewPublisher(cfg PublisherConfig, connManager *rabbitmq_common.ConnectionManager) (*Publisher, error) {
	if connManager == nil {
		return nil, fmt.Errorf("producer: connection manager is required")
	}
	return newPublisher(cfg, func() (amqpChannel, error) {
		_, ch, err := connManager.GetChannel()
		if err != nil {
			return nil, err
		}
		return ch, nil
	})
}

func newPublisher(cfg PublisherConfig, open channelSource) (*Publisher, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = rabbitmq_common.NewNoopLogger()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Publisher{
		config: cfg,
		open:   open,
		Logger: logger,
	}
	if err := p.reopenLocked(); err != nil {
		return nil, err
	}
	p.Logger.Debug("Producer channel opened", "exchange", cfg.ExchangeName)
	return p, nil
}

// reopenLocked берет новый канал у менеджера и объявляет обменник, если это
// задано конфигурацией. Вызывается под p.mu.
func (p *Publisher) reopenLocked() error {
	if p.channel != nil {
		_ = p.channel.Close()
		p.channel = nil
	}

	ch, err := p.open()
	if err != nil {
		return fmt.Errorf("producer: failed to get channel from manager: %w", err)
	}

	if p.config.DeclareExchangeIfMissing {
		p.Logger.Debug("Declaring exchange", "name", p.config.ExchangeName, "type", p.config.ExchangeType)
		err = ch.ExchangeDeclare(
			p.config.ExchangeName,
			p.config.ExchangeType,
			p.config.DurableExchange,
			p.config.AutoDeleteExchange,
			p.config.InternalExchange,
			false, // no-wait
			p.config.ExchangeArgs,
		)
		if err != nil {
			_ = ch.Close()
			return fmt.Errorf("producer: failed to declare exchange '%s': %w", p.config.ExchangeName, err)
		}
	}
	p.channel = ch
	return nil
}

// Publish публикует сообщение. Канал amqp не потокобезопасен для публикации,
// поэтому вызовы сериализуются. Закрытый канал переоткрывается, а публикация,
// упавшая на закрытом канале, повторяется один раз.
func (p *Publisher) Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return fmt.Errorf("producer: publisher is closed")
	}
	if p.channel == nil || p.channel.IsClosed() {
		p.Logger.Warn("Producer channel is closed, reopening", "exchange", p.config.ExchangeName)
		if err := p.reopenLocked(); err != nil {
			return err
		}
	}

	err := p.publishLocked(ctx, routingKey, msg)
	if err != nil && (errors.Is(err, amqp.ErrClosed) || p.channel.IsClosed()) {
		p.Logger.Warn("Publish hit a closed channel, retrying once", "exchange", p.config.ExchangeName)
		if reopenErr := p.reopenLocked(); reopenErr != nil {
			return reopenErr
		}
		err = p.publishLocked(ctx, routingKey, msg)
	}
	if err != nil {
		return fmt.Errorf("producer: failed to publish message: %w", err)
	}
	return nil
}

func (p *Publisher) publishLocked(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	return p.channel.PublishWithContext(
		ctx,
		p.config.ExchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		msg,
	)
}

// Close закрывает канал производителя, соединение принадлежит менеджеру.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	if p.channel == nil {
		return nil
	}
	err := p.channel.Close()
	p.channel = nil
	if err != nil {
		p.Logger.Error(err, "Error closing channel")
		return err
	}
	p.Logger.Info("Producer closed.")
	return nil
}
