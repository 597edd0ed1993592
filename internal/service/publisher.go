// Package service holds outbound integrations of the booking flow.
package service

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "sync"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/tailor-booking/internal/model"
    "github.com/iliyamo/tailor-booking/internal/queue"
)

var (
    // ErrPublisherBusy is returned while another call is dialling the broker.
    // The event is dropped.
    ErrPublisherBusy = errors.New("publisher busy: broker dial in progress")
    // ErrPublisherClosed is returned after Close.
    ErrPublisherClosed = errors.New("publisher closed")
)

// defaultDialTimeout bounds TCP connect plus AMQP handshake when the caller's
// context has no deadline.
const defaultDialTimeout = 5 * time.Second

// Publisher announces committed bookings on RabbitMQ.  The connection is
// opened lazily and re-dialled after any failure, so a broker outage only
// costs the events published while it lasts.  p.mu guards state only; it is
// never held across network I/O.
type Publisher struct {
    URL         string
    DialTimeout time.Duration

    mu      sync.Mutex
    conn    *amqp.Connection
    ch      *amqp.Channel
    dialing bool
    closed  bool
}

func NewPublisher(url string) *Publisher {
    return &Publisher{URL: url, DialTimeout: defaultDialTimeout}
}

// BookingCreated publishes a persistent booking.created message for b.  The
// dial, when one is needed, ends by ctx's deadline.
func (p *Publisher) BookingCreated(ctx context.Context, b *model.Booking) error {
    body, err := json.Marshal(queue.NewBookingCreatedEvent(b))
    if err != nil {
        return fmt.Errorf("marshal event: %w", err)
    }

    ch, err := p.channel(ctx)
    if err != nil {
        return err
    }
    err = ch.PublishWithContext(ctx, "", queue.BookingCreatedQueue, false, false, amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    })
    if err != nil {
        p.discard(ch)
        return fmt.Errorf("publish: %w", err)
    }
    return nil
}

// channel returns the open channel or dials a new one.  Only one call dials
// at a time; the others get ErrPublisherBusy instead of waiting.
func (p *Publisher) channel(ctx context.Context) (*amqp.Channel, error) {
    if err := ctx.Err(); err != nil {
        return nil, err
    }

    p.mu.Lock()
    switch {
    case p.closed:
        p.mu.Unlock()
        return nil, ErrPublisherClosed
    case p.ch != nil && !p.ch.IsClosed():
        ch := p.ch
        p.mu.Unlock()
        return ch, nil
    case p.dialing:
        p.mu.Unlock()
        return nil, ErrPublisherBusy
    }
    p.dialing = true
    p.reset()
    p.mu.Unlock()

    conn, ch, err := p.dial(ctx)

    p.mu.Lock()
    defer p.mu.Unlock()
    p.dialing = false
    if err != nil {
        return nil, err
    }
    if p.closed {
        _ = ch.Close()
        _ = conn.Close()
        return nil, ErrPublisherClosed
    }
    p.conn, p.ch = conn, ch
    return ch, nil
}

// dialTimeout is the smaller of p.DialTimeout and the time left on ctx.
func (p *Publisher) dialTimeout(ctx context.Context) (time.Duration, error) {
    timeout := p.DialTimeout
    if timeout <= 0 {
        timeout = defaultDialTimeout
    }
    if dl, ok := ctx.Deadline(); ok {
        left := time.Until(dl)
        if left <= 0 {
            return 0, context.DeadlineExceeded
        }
        if left < timeout {
            timeout = left
        }
    }
    return timeout, nil
}

// dial connects and declares the durable queue.
func (p *Publisher) dial(ctx context.Context) (*amqp.Connection, *amqp.Channel, error) {
    timeout, err := p.dialTimeout(ctx)
    if err != nil {
        return nil, nil, fmt.Errorf("dial: %w", err)
    }
    // DefaultDial sets a deadline on the socket that also covers the handshake.
    conn, err := amqp.DialConfig(p.URL, amqp.Config{
        Heartbeat: 10 * time.Second,
        Locale:    "en_US",
        Dial:      amqp.DefaultDial(timeout),
    })
    if err != nil {
        return nil, nil, fmt.Errorf("dial: %w", err)
    }
    ch, err := conn.Channel()
    if err != nil {
        _ = conn.Close()
        return nil, nil, fmt.Errorf("channel: %w", err)
    }
    if _, err := ch.QueueDeclare(queue.BookingCreatedQueue, true, false, false, false, nil); err != nil {
        _ = ch.Close()
        _ = conn.Close()
        return nil, nil, fmt.Errorf("queue declare: %w", err)
    }
    return conn, ch, nil
}

// discard drops ch after a failed publish unless another call replaced it.
func (p *Publisher) discard(ch *amqp.Channel) {
    p.mu.Lock()
    defer p.mu.Unlock()
    if p.ch == ch {
        p.reset()
    }
}

// reset closes the connection.  Callers hold p.mu.
func (p *Publisher) reset() {
    if p.ch != nil {
        _ = p.ch.Close()
    }
    if p.conn != nil {
        _ = p.conn.Close()
    }
    p.conn, p.ch = nil, nil
}

// Close releases the broker connection.  Later publishes fail with
// ErrPublisherClosed.
func (p *Publisher) Close() error {
    p.mu.Lock()
    defer p.mu.Unlock()
    p.closed = true
    p.reset()
    return nil
}
