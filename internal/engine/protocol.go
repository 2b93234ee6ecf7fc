package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"docktop/internal/errors"
)

// The daemon's API is plain HTTP over a local unix socket, one connection
// per request. Requests are framed by hand: the upgrade dance used by the
// streaming endpoints is not expressible through an HTTP client library.

const responseSnippetLen = 200

type header struct {
	key   string
	value string
}

// buildRequest assembles a minimal HTTP/1.0 request.
func buildRequest(method, path string, extra []header, body []byte) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%s %s HTTP/1.0\r\n", method, path)
	b.WriteString("Host: localhost\r\n")
	for _, h := range extra {
		fmt.Fprintf(&b, "%s: %s\r\n", h.key, h.value)
	}
	if len(body) > 0 {
		fmt.Fprintf(&b, "Content-Length: %d\r\n", len(body))
	}
	b.WriteString("\r\n")
	b.Write(body)
	return b.Bytes()
}

// parseResponse splits a full response on the first header/body delimiter
// and returns the body. Responses without a delimiter are accepted only for
// status codes that legitimately carry no body; anything else is a protocol
// error carrying a snippet of the raw response for diagnosis.
func parseResponse(raw []byte) ([]byte, error) {
	idx := bytes.Index(raw, []byte("\r\n\r\n"))
	if idx < 0 {
		switch statusCode(raw) {
		case 200, 204, 304:
			return nil, nil
		}
		return nil, errors.NewWithDetails(errors.ErrProtocol, "invalid response from daemon", snippet(raw))
	}

	body := raw[idx+4:]
	if code := statusCode(raw); code >= 400 {
		return nil, errors.NewWithDetails(errors.ErrDaemonStatus,
			fmt.Sprintf("daemon returned status %d", code), daemonMessage(body))
	}
	return body, nil
}

// statusCode extracts the numeric status from a response's first line.
// Returns 0 when the line does not look like a status line.
func statusCode(raw []byte) int {
	line := raw
	if idx := bytes.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	fields := strings.Fields(string(line))
	if len(fields) < 2 || !strings.HasPrefix(fields[0], "HTTP/") {
		return 0
	}
	code, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0
	}
	return code
}

// daemonMessage extracts the daemon's error message from a response body.
// Error bodies are normally {"message": "..."}; anything else is surfaced
// as a raw snippet.
func daemonMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(body), &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return snippet(body)
}

// snippet truncates raw response bytes for inclusion in an error.
func snippet(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if len(s) > responseSnippetLen {
		s = s[:responseSnippetLen]
	}
	return s
}

// decodeJSON unmarshals a response body, classifying failures as decode
// errors so callers can tell them apart from transport failures.
func decodeJSON(body []byte, v interface{}) error {
	if err := json.Unmarshal(body, v); err != nil {
		return errors.Wrap(errors.ErrDecode, "failed to decode daemon response", err)
	}
	return nil
}
