package engine

import (
	"bytes"
	"context"
	"net"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docktop/internal/errors"
)

// fakeDaemon returns a dial func whose connections are served by an
// in-memory peer: it consumes one request, replies with response, and
// closes. Requests are recorded for assertions.
type fakeDaemon struct {
	mu       sync.Mutex
	response string
	requests []string
}

func (f *fakeDaemon) dial(ctx context.Context) (net.Conn, error) {
	client, server := net.Pipe()
	go func() {
		defer server.Close()
		buf := make([]byte, 4096)
		var req []byte
		for !bytes.Contains(req, []byte("\r\n\r\n")) {
			n, err := server.Read(buf)
			if err != nil {
				return
			}
			req = append(req, buf[:n]...)
		}
		f.mu.Lock()
		f.requests = append(f.requests, string(req))
		f.mu.Unlock()
		server.Write([]byte(f.response))
	}()
	return client, nil
}

func (f *fakeDaemon) lastRequest() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return ""
	}
	return f.requests[len(f.requests)-1]
}

func newTestClient(daemon *fakeDaemon) *Client {
	c := NewClient("")
	c.dial = daemon.dial
	return c
}

func TestListContainers(t *testing.T) {
	daemon := &fakeDaemon{response: "HTTP/1.0 200 OK\r\n\r\n" +
		`[{"Id":"0123456789abcdef","Names":["/web"],"Image":"nginx","State":"running","Status":"Up 2 hours"}]`}
	client := newTestClient(daemon)

	containers, err := client.ListContainers(context.Background())
	require.NoError(t, err)
	require.Len(t, containers, 1)
	assert.Equal(t, "web", containers[0].Name())
	assert.Equal(t, "running", containers[0].State)
	assert.True(t, strings.HasPrefix(daemon.lastRequest(), "GET /containers/json?all=true HTTP/1.0\r\n"))
	assert.Contains(t, daemon.lastRequest(), "Connection: close\r\n")
}

func TestStartContainerDaemonError(t *testing.T) {
	daemon := &fakeDaemon{response: "HTTP/1.0 404 Not Found\r\n\r\n" +
		`{"message":"No such container: nope"}`}
	client := newTestClient(daemon)

	err := client.StartContainer(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrDaemonStatus))
	assert.Contains(t, err.Error(), "No such container: nope")
	assert.True(t, strings.HasPrefix(daemon.lastRequest(), "POST /containers/nope/start HTTP/1.0\r\n"))
}

func TestStopContainerNoContent(t *testing.T) {
	daemon := &fakeDaemon{response: "HTTP/1.0 204 No Content"}
	client := newTestClient(daemon)

	require.NoError(t, client.StopContainer(context.Background(), "abc"))
}

func TestContainerStatsRequestShape(t *testing.T) {
	daemon := &fakeDaemon{response: "HTTP/1.0 200 OK\r\n\r\n" +
		`{"cpu_stats":{"cpu_usage":{"total_usage":100},"system_cpu_usage":1000,"online_cpus":2},"memory_stats":{"usage":512,"limit":1024}}`}
	client := newTestClient(daemon)

	stats, err := client.ContainerStats(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, uint64(100), stats.CPUStats.CPUUsage.TotalUsage)
	assert.Equal(t, uint64(512), stats.MemoryStats.Usage)
	assert.Equal(t, uint32(2), stats.CPUStats.OnlineCPUs)
	assert.True(t, strings.HasPrefix(daemon.lastRequest(), "GET /containers/abc/stats?stream=false HTTP/1.0\r\n"))
}

func TestListVolumesDanglingFilter(t *testing.T) {
	daemon := &fakeDaemon{response: "HTTP/1.0 200 OK\r\n\r\n" +
		`{"Volumes":[{"Name":"orphan"}]}`}
	client := newTestClient(daemon)

	volumes, err := client.ListVolumes(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, volumes, 1)
	assert.Equal(t, "orphan", volumes[0].Name)
	assert.Contains(t, daemon.lastRequest(), "filters=")
	assert.Contains(t, daemon.lastRequest(), "dangling")
}

func TestCreateContainer(t *testing.T) {
	daemon := &fakeDaemon{response: "HTTP/1.0 201 Created\r\n\r\n" +
		`{"Id":"deadbeef01234567","Warnings":[]}`}
	client := newTestClient(daemon)

	id, err := client.CreateContainer(context.Background(), "web", CreateConfig{Image: "nginx"})
	require.NoError(t, err)
	assert.Equal(t, "deadbeef01234567", id)

	req := daemon.lastRequest()
	assert.True(t, strings.HasPrefix(req, "POST /containers/create?name=web HTTP/1.0\r\n"))
	assert.Contains(t, req, "Content-Type: application/json\r\n")
	assert.Contains(t, req, `"Image":"nginx"`)
}

func TestOpenLogStreamUpgrade(t *testing.T) {
	client, server := net.Pipe()
	c := NewClient("")
	c.dial = func(ctx context.Context) (net.Conn, error) { return client, nil }

	requestCh := make(chan string, 1)
	go func() {
		buf := make([]byte, 4096)
		var req []byte
		for !bytes.Contains(req, []byte("\r\n\r\n")) {
			n, err := server.Read(buf)
			if err != nil {
				return
			}
			req = append(req, buf[:n]...)
		}
		requestCh <- string(req)
		server.Write([]byte("HTTP/1.0 101 UPGRADED\r\nConnection: Upgrade\r\nUpgrade: tcp\r\n\r\n"))
		server.Write(frame(1, "hello\n"))
		server.Close()
	}()

	conn, err := c.OpenLogStream(context.Background(), "abc", 100)
	require.NoError(t, err)
	defer conn.Close()

	req := <-requestCh
	assert.True(t, strings.HasPrefix(req, "GET /containers/abc/logs?"), req)
	assert.Contains(t, req, "follow=true")
	assert.Contains(t, req, "tail=100")
	assert.Contains(t, req, "Connection: Upgrade\r\n")
	assert.Contains(t, req, "Upgrade: tcp\r\n")

	// The payload must still be on the conn, untouched by header parsing.
	dec := NewLogDecoder(conn)
	line, err := dec.Next()
	require.NoError(t, err)
	assert.Equal(t, "hello", line)
}
