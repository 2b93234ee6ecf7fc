package engine

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docktop/internal/errors"
)

func TestBuildRequest(t *testing.T) {
	t.Run("minimal GET", func(t *testing.T) {
		req := string(buildRequest("GET", "/containers/json?all=true", nil, nil))

		assert.True(t, strings.HasPrefix(req, "GET /containers/json?all=true HTTP/1.0\r\n"))
		assert.Contains(t, req, "Host: localhost\r\n")
		assert.True(t, strings.HasSuffix(req, "\r\n\r\n"))
		assert.NotContains(t, req, "Content-Length")
	})

	t.Run("POST with body sets content length", func(t *testing.T) {
		body := []byte(`{"Image":"nginx"}`)
		req := string(buildRequest("POST", "/containers/create", []header{
			{"Content-Type", "application/json"},
		}, body))

		assert.Contains(t, req, "Content-Type: application/json\r\n")
		assert.Contains(t, req, fmt.Sprintf("Content-Length: %d\r\n", len(body)))
		assert.True(t, strings.HasSuffix(req, "\r\n\r\n"+string(body)))
	})
}

func TestParseResponse(t *testing.T) {
	t.Run("body after delimiter", func(t *testing.T) {
		raw := []byte("HTTP/1.0 200 OK\r\nContent-Type: application/json\r\n\r\n[{\"Id\":\"abc\"}]")
		body, err := parseResponse(raw)

		require.NoError(t, err)
		assert.Equal(t, `[{"Id":"abc"}]`, string(body))
	})

	t.Run("no-body status without delimiter is accepted", func(t *testing.T) {
		for _, code := range []int{200, 204, 304} {
			raw := []byte(fmt.Sprintf("HTTP/1.0 %d whatever", code))
			body, err := parseResponse(raw)

			require.NoError(t, err, "status %d", code)
			assert.Nil(t, body)
		}
	})

	t.Run("garbage without delimiter is a protocol error", func(t *testing.T) {
		_, err := parseResponse([]byte("not http at all"))

		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrProtocol))
		assert.Contains(t, err.Error(), "not http at all")
	})

	t.Run("error snippet is truncated", func(t *testing.T) {
		raw := []byte(strings.Repeat("x", 5000))
		_, err := parseResponse(raw)

		require.Error(t, err)
		assert.LessOrEqual(t, len(err.Error()), responseSnippetLen+100)
	})

	t.Run("daemon error status surfaces message", func(t *testing.T) {
		raw := []byte("HTTP/1.0 404 Not Found\r\n\r\n{\"message\":\"No such container: abc\"}")
		_, err := parseResponse(raw)

		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrDaemonStatus))
		assert.Contains(t, err.Error(), "404")
		assert.Contains(t, err.Error(), "No such container: abc")
	})

	t.Run("daemon error status with non-JSON body", func(t *testing.T) {
		raw := []byte("HTTP/1.0 500 Internal Server Error\r\n\r\nboom")
		_, err := parseResponse(raw)

		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrDaemonStatus))
		assert.Contains(t, err.Error(), "boom")
	})
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, 200, statusCode([]byte("HTTP/1.0 200 OK\r\n")))
	assert.Equal(t, 404, statusCode([]byte("HTTP/1.1 404 Not Found")))
	assert.Equal(t, 0, statusCode([]byte("garbage")))
	assert.Equal(t, 0, statusCode([]byte("")))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "0123456789ab", ShortID("0123456789abcdef0123"))
	assert.Equal(t, "short", ShortID("short"))
}
