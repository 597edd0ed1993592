package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "log/slog"
    "os"
    "path/filepath"
    "sync"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultLogPath is where the consumer appends one line per booking.
var DefaultLogPath = filepath.Join("logs", "booking.log")

const maxBackoff = 30 * time.Second

// Consumer drains booking.created into an append-only log.
type Consumer struct {
    URL     string
    LogPath string

    mu sync.Mutex // serializes writes to LogPath
}

func NewConsumer(url string) *Consumer {
    return &Consumer{URL: url, LogPath: DefaultLogPath}
}

// Run dials the broker and consumes until ctx is cancelled, reconnecting
// with exponential backoff (capped at 30s) whenever the connection drops.
func (c *Consumer) Run(ctx context.Context) error {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(c.URL)
        if err == nil {
            backoff = time.Second
            err = c.consume(ctx, conn)
            _ = conn.Close()
            if ctx.Err() != nil {
                return ctx.Err()
            }
        }
        slog.Warn("booking consumer: broker unavailable", "err", err, "retry_in", backoff)

        select {
        case <-ctx.Done():
            return ctx.Err()
        case <-time.After(backoff):
        }
        backoff = nextBackoff(backoff)
    }
}

func nextBackoff(d time.Duration) time.Duration {
    d *= 2
    if d > maxBackoff {
        d = maxBackoff
    }
    return d
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        slog.Warn("booking consumer: qos", "err", err)
    }
    if _, err := ch.QueueDeclare(BookingCreatedQueue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    msgs, err := ch.ConsumeWithContext(ctx, BookingCreatedQueue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("consume: %w", err)
    }

    for d := range msgs {
        if err := c.Handle(d.Body); err != nil {
            slog.Error("booking consumer: drop message", "err", err)
            _ = d.Nack(false, false)
            continue
        }
        _ = d.Ack(false)
    }
    return errors.New("delivery channel closed")
}

// Handle decodes one message body and appends it to LogPath.  Malformed
// bodies are returned as errors so the caller can reject them.
func (c *Consumer) Handle(body []byte) error {
    var ev BookingCreatedEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if ev.BookingID == 0 {
        return errors.New("event without booking_id")
    }

    c.mu.Lock()
    defer c.mu.Unlock()

    if err := os.MkdirAll(filepath.Dir(c.LogPath), 0o755); err != nil {
        return fmt.Errorf("mkdir: %w", err)
    }
    f, err := os.OpenFile(c.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log: %w", err)
    }
    defer f.Close()
    return writeLine(f, ev)
}

func writeLine(w io.Writer, ev BookingCreatedEvent) error {
    _, err := fmt.Fprintf(w,
        "[%s] Booking created | booking_id=%d | tailor_id=%d | tailor=%q | design_id=%d | customer=%q | email=%s | appointment=%s %s\n",
        ev.CreatedAt, ev.BookingID, ev.TailorID, ev.TailorName, ev.DesignID,
        ev.CustomerName, ev.CustomerEmail, ev.AppointmentDate, ev.AppointmentTime)
    return err
}
