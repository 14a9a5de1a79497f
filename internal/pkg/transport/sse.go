package transport

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
)

// SSE event names understood by the reader. Frames without an event name
// are treated as log frames.
const (
	sseEventLog     = "log"
	sseEventMessage = "message"
	sseEventEnd     = "end"
	sseEventError   = "error"
)

// errStreamError wraps the payload of an "error" event sent by the server.
var errStreamError = errors.New("stream error")

// SSEDialer connects to a text/event-stream endpoint whose "log" events each
// carry one JSON event in their data field.
type SSEDialer struct {
	URL        string
	Header     http.Header
	HTTPClient *http.Client
}

// Name returns the dialer name.
func (d *SSEDialer) Name() string {
	return "sse"
}

// Dial issues the streaming request and validates the response.
func (d *SSEDialer) Dial(ctx context.Context) (Conn, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.URL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("sse %s: %w", d.URL, err)
	}
	for k, v := range d.Header {
		req.Header[k] = v
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	client := d.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	//nolint:bodyclose // the body is owned by the returned Conn
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sse %s: %w", d.URL, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("sse %s: unexpected status %s", d.URL, resp.Status)
	}

	if mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type")); mediaType != "text/event-stream" {
		resp.Body.Close()
		return nil, fmt.Errorf("sse %s: unexpected content type %q", d.URL, resp.Header.Get("Content-Type"))
	}

	return &sseConn{body: resp.Body, reader: bufio.NewReader(resp.Body)}, nil
}

type sseConn struct {
	body   io.ReadCloser
	reader *bufio.Reader
}

// Read returns the data of the next log event. Comments, named events other
// than log frames, and keep-alives are skipped.
func (c *sseConn) Read(_ context.Context) ([]byte, error) {
	for {
		event, data, err := c.next()
		if err != nil {
			return nil, err
		}

		switch event {
		case "", sseEventLog, sseEventMessage:
			if len(data) == 0 {
				continue
			}
			return data, nil
		case sseEventEnd:
			return nil, io.EOF
		case sseEventError:
			return nil, fmt.Errorf("%w: %s", errStreamError, data)
		}
	}
}

// next reads one dispatched event.
func (c *sseConn) next() (string, []byte, error) {
	var (
		event string
		data  bytes.Buffer
		seen  bool
	)

	for {
		line, err := c.reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) && line == "" {
				return "", nil, io.EOF
			}
			if !errors.Is(err, io.EOF) {
				return "", nil, err
			}
		}
		line = strings.TrimRight(line, "\r\n")

		if line == "" {
			if seen {
				return event, data.Bytes(), nil
			}
			if err != nil {
				return "", nil, io.EOF
			}
			continue
		}

		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")

		switch field {
		case "event":
			event = value
			seen = true
		case "data":
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(value)
			seen = true
		}

		if err != nil {
			// stream ended without a terminating blank line
			return "", nil, io.EOF
		}
	}
}

func (c *sseConn) Close() error {
	return c.body.Close()
}
