package notify

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Notifier delivers an OTP code to an identity.
type Notifier interface {
	SendOTP(ctx context.Context, identity, code string) error
}

// NoOpNotifier discards deliveries. Useful when delivery is handled outside
// the engine (the code can be read back from the caller's own transport).
type NoOpNotifier struct{}

func (NoOpNotifier) SendOTP(context.Context, string, string) error { return nil }

// Delivery is the line format written by WriterNotifier.
type Delivery struct {
	Timestamp time.Time `json:"timestamp"`
	Identity  string    `json:"identity"`
	Code      string    `json:"code"`
}

// WriterNotifier writes one JSON delivery per line. Intended for development
// consoles and log-based delivery pipelines.
type WriterNotifier struct {
	writer io.Writer
	mu     sync.Mutex
}

func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{
		writer: w,
	}
}

func (n *WriterNotifier) SendOTP(_ context.Context, identity, code string) error {
	data, err := json.Marshal(Delivery{
		Timestamp: time.Now().UTC(),
		Identity:  identity,
		Code:      code,
	})
	if err != nil {
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if _, err := n.writer.Write(data); err != nil {
		return err
	}
	_, err = n.writer.Write([]byte("\n"))
	return err
}

// ChannelNotifier pushes deliveries into a buffered channel. Test double.
type ChannelNotifier struct {
	deliveries chan Delivery
}

func NewChannelNotifier(buffer int) *ChannelNotifier {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelNotifier{
		deliveries: make(chan Delivery, buffer),
	}
}

func (n *ChannelNotifier) SendOTP(ctx context.Context, identity, code string) error {
	d := Delivery{
		Timestamp: time.Now().UTC(),
		Identity:  identity,
		Code:      code,
	}
	select {
	case n.deliveries <- d:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (n *ChannelNotifier) Deliveries() <-chan Delivery {
	return n.deliveries
}
