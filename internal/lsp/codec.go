package lsp

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrMissingContentLength indicates a frame header without a Content-Length
// field. The session cannot resynchronize after this and must be torn down.
var ErrMissingContentLength = errors.New("missing Content-Length header")

// EncodeMessage serializes msg to UTF-8 JSON and prefixes the wire header.
// Exactly one header field is emitted.
func EncodeMessage(msg any) ([]byte, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	var buf []byte
	buf = append(buf, fmt.Sprintf("Content-Length: %d\r\n\r\n", len(body))...)
	buf = append(buf, body...)
	return buf, nil
}

// ReadMessage reads one framed message body from r. Header field names are
// matched case-insensitively. A stream that ends before a complete header or
// body is a framing error, fatal for the current session.
func ReadMessage(r *bufio.Reader) ([]byte, error) {
	contentLength := -1
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("failed to read frame header: %w", err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		name, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			contentLength, err = strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %w", err)
			}
		}
	}

	if contentLength < 0 {
		return nil, ErrMissingContentLength
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("failed to read frame body: %w", err)
	}

	return body, nil
}
