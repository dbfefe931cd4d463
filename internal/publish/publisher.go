package publish

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/specialistvlad/paintworklet/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// EventName is the socket.io event every image is emitted as.
const EventName = "paint_image"

// Event describes one painted image.
type Event struct {
	Worklet  string
	Paint    string
	Key      string
	Fallback bool
	Width    uint32
	Height   uint32
	// Location is where the encoded image was stored, if anywhere.
	Location string
	// PNG is the encoded image.
	PNG []byte
}

// Options configures Connect.
type Options struct {
	Namespace          string
	InsecureSkipVerify bool
	ConnectTimeout     time.Duration
}

// Publisher emits paint events over a connected socket.io client.
type Publisher struct {
	io *socket.Socket
}

// Connect dials rawURL and waits for the connection to be established.
func Connect(ctx context.Context, rawURL string, opts Options) (*Publisher, error) {
	logger := ctxlog.FromContext(ctx).With("publisher", "socketio", "url", rawURL)
	logger.Info("Connecting publisher...")

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("publish URL %q must be absolute", rawURL)
	}
	if opts.Namespace == "" {
		opts.Namespace = "/"
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 15 * time.Second
	}

	sockOpts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		sockOpts.SetPath(parsedURL.Path)
	}
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		sockOpts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sockOpts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, sockOpts)
	io := manager.Socket(opts.Namespace, sockOpts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Publisher connected", "sid", io.Id())
		select {
		case connectChan <- nil:
		default:
		}
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		logger.Debug("Publisher connect_error", "error", err)
		select {
		case connectChan <- err:
		default:
		}
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return &Publisher{io: io}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(opts.ConnectTimeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", opts.ConnectTimeout)
	}
}

// Publish emits ev.
func (p *Publisher) Publish(ctx context.Context, ev Event) error {
	if !p.io.Connected() {
		return errors.New("publisher is not connected")
	}
	ctxlog.FromContext(ctx).Debug("Publishing paint image.", "sid", p.io.Id(), "worklet", ev.Worklet, "paint", ev.Paint, "fallback", ev.Fallback)
	p.io.Emit(EventName, ev.payload())
	return nil
}

// Close disconnects the client.
func (p *Publisher) Close() error {
	p.io.Disconnect()
	return nil
}

func (ev Event) payload() map[string]any {
	m := map[string]any{
		"worklet":  ev.Worklet,
		"paint":    ev.Paint,
		"key":      ev.Key,
		"fallback": ev.Fallback,
		"width":    ev.Width,
		"height":   ev.Height,
	}
	if ev.Location != "" {
		m["location"] = ev.Location
	}
	if len(ev.PNG) > 0 {
		m["png"] = ev.PNG
	}
	return m
}
