// Package engine implements the protocol client for the local container
// engine daemon: request framing over the control socket, typed response
// parsing, streamed pull/build output, and the log/event stream plumbing.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/url"

	"docktop/internal/errors"
)

// DefaultSocketPath is where the daemon listens on most hosts.
const DefaultSocketPath = "/var/run/docker.sock"

// Client talks to the daemon over its unix control socket. Each call dials
// a fresh connection; the daemon treats non-streaming calls as one
// request/response per connection.
type Client struct {
	socketPath string
	dial       func(ctx context.Context) (net.Conn, error)
}

// NewClient creates a client for the daemon socket at the given path.
// An empty path selects the default socket.
func NewClient(socketPath string) *Client {
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}
	c := &Client{socketPath: socketPath}
	c.dial = func(ctx context.Context) (net.Conn, error) {
		var d net.Dialer
		return d.DialContext(ctx, "unix", c.socketPath)
	}
	return c
}

// roundTrip performs a one-shot call: dial, write the request, read the
// full response, split headers from body.
func (c *Client) roundTrip(ctx context.Context, method, path string, extra []header, body []byte) ([]byte, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrTransport, "failed to connect to daemon socket", err)
	}
	defer conn.Close()

	req := buildRequest(method, path, append([]header{{"Connection", "close"}}, extra...), body)
	if _, err := conn.Write(req); err != nil {
		return nil, errors.Wrap(errors.ErrTransport, "failed to write request", err)
	}

	raw, err := io.ReadAll(conn)
	if err != nil {
		return nil, errors.Wrap(errors.ErrTransport, "failed to read response", err)
	}

	return parseResponse(raw)
}

// ListContainers returns every container the daemon knows about, running
// or not.
func (c *Client) ListContainers(ctx context.Context) ([]Container, error) {
	body, err := c.roundTrip(ctx, "GET", "/containers/json?all=true", nil, nil)
	if err != nil {
		return nil, err
	}

	var containers []Container
	if err := decodeJSON(body, &containers); err != nil {
		return nil, err
	}
	return containers, nil
}

// ContainerStats takes a single resource sample for a container.
func (c *Client) ContainerStats(ctx context.Context, id string) (*Stats, error) {
	path := fmt.Sprintf("/containers/%s/stats?stream=false", url.PathEscape(id))
	body, err := c.roundTrip(ctx, "GET", path, nil, nil)
	if err != nil {
		return nil, err
	}

	var stats Stats
	if err := decodeJSON(body, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// InspectContainer fetches the detailed metadata for a container.
func (c *Client) InspectContainer(ctx context.Context, id string) (*Inspection, error) {
	path := fmt.Sprintf("/containers/%s/json", url.PathEscape(id))
	body, err := c.roundTrip(ctx, "GET", path, nil, nil)
	if err != nil {
		return nil, err
	}

	var inspection Inspection
	if err := decodeJSON(body, &inspection); err != nil {
		return nil, err
	}
	return &inspection, nil
}

// StartContainer starts a stopped container.
func (c *Client) StartContainer(ctx context.Context, id string) error {
	path := fmt.Sprintf("/containers/%s/start", url.PathEscape(id))
	_, err := c.roundTrip(ctx, "POST", path, nil, nil)
	return err
}

// StopContainer stops a running container.
func (c *Client) StopContainer(ctx context.Context, id string) error {
	path := fmt.Sprintf("/containers/%s/stop", url.PathEscape(id))
	_, err := c.roundTrip(ctx, "POST", path, nil, nil)
	return err
}

// RestartContainer restarts a container.
func (c *Client) RestartContainer(ctx context.Context, id string) error {
	path := fmt.Sprintf("/containers/%s/restart", url.PathEscape(id))
	_, err := c.roundTrip(ctx, "POST", path, nil, nil)
	return err
}

// RemoveContainer removes a container, optionally killing it first.
func (c *Client) RemoveContainer(ctx context.Context, id string, force bool) error {
	path := fmt.Sprintf("/containers/%s?force=%t", url.PathEscape(id), force)
	_, err := c.roundTrip(ctx, "DELETE", path, nil, nil)
	return err
}

// ListImages lists images, optionally restricted to dangling ones.
func (c *Client) ListImages(ctx context.Context, danglingOnly bool) ([]ImageSummary, error) {
	path := "/images/json"
	if danglingOnly {
		path += "?filters=" + url.QueryEscape(`{"dangling":["true"]}`)
	}
	body, err := c.roundTrip(ctx, "GET", path, nil, nil)
	if err != nil {
		return nil, err
	}

	var images []ImageSummary
	if err := decodeJSON(body, &images); err != nil {
		return nil, err
	}
	return images, nil
}

// ListVolumes lists volumes, optionally restricted to dangling ones.
func (c *Client) ListVolumes(ctx context.Context, danglingOnly bool) ([]Volume, error) {
	path := "/volumes"
	if danglingOnly {
		path += "?filters=" + url.QueryEscape(`{"dangling":["true"]}`)
	}
	body, err := c.roundTrip(ctx, "GET", path, nil, nil)
	if err != nil {
		return nil, err
	}

	var list volumeListResponse
	if err := decodeJSON(body, &list); err != nil {
		return nil, err
	}
	return list.Volumes, nil
}

// RemoveImage deletes an image by id.
func (c *Client) RemoveImage(ctx context.Context, id string) error {
	path := fmt.Sprintf("/images/%s", url.PathEscape(id))
	_, err := c.roundTrip(ctx, "DELETE", path, nil, nil)
	return err
}

// RemoveVolume deletes a volume by name.
func (c *Client) RemoveVolume(ctx context.Context, name string) error {
	path := fmt.Sprintf("/volumes/%s", url.PathEscape(name))
	_, err := c.roundTrip(ctx, "DELETE", path, nil, nil)
	return err
}

// CreateContainer creates a container and returns its id. The name is
// optional; the daemon generates one when it is empty.
func (c *Client) CreateContainer(ctx context.Context, name string, cfg CreateConfig) (string, error) {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return "", errors.Wrap(errors.ErrDecode, "failed to encode create config", err)
	}

	path := "/containers/create"
	if name != "" {
		path += "?name=" + url.QueryEscape(name)
	}

	body, err := c.roundTrip(ctx, "POST", path, []header{{"Content-Type", "application/json"}}, payload)
	if err != nil {
		return "", err
	}

	var created createContainerResponse
	if err := decodeJSON(body, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// PullImage pulls an image, forwarding each distinct status line to
// progress. Identical consecutive statuses are deduplicated; layer-level
// byte counters would otherwise flood the results channel.
func (c *Client) PullImage(ctx context.Context, ref string, progress func(string)) error {
	path := "/images/create?fromImage=" + url.QueryEscape(ref)
	conn, headerBytes, err := c.openStream(ctx, "POST", path, false)
	if err != nil {
		return err
	}
	defer conn.Close()
	stop := closeOnDone(ctx, conn)
	defer stop()

	if code := statusCode(headerBytes); code >= 400 {
		return errors.NewWithDetails(errors.ErrDaemonStatus,
			fmt.Sprintf("daemon returned status %d", code), "image pull rejected")
	}

	last := ""
	return scanStreamLines(conn, func(line []byte) error {
		var p pullProgress
		if err := json.Unmarshal(line, &p); err != nil {
			return nil // progress lines are advisory, skip what we cannot read
		}
		if p.Error != "" {
			return errors.NewWithDetails(errors.ErrDaemonStatus, "image pull failed", p.Error)
		}
		if p.Status != "" && p.Status != last {
			last = p.Status
			if progress != nil {
				progress(p.Status)
			}
		}
		return nil
	})
}

// BuildImage builds an image from a tar-encoded context, forwarding build
// output lines to progress.
func (c *Client) BuildImage(ctx context.Context, tag string, contextTar []byte, progress func(string)) error {
	path := "/build?t=" + url.QueryEscape(tag) + "&rm=true"
	extra := []header{
		{"Connection", "close"},
		{"Content-Type", "application/x-tar"},
	}

	conn, err := c.dial(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrTransport, "failed to connect to daemon socket", err)
	}
	defer conn.Close()
	stop := closeOnDone(ctx, conn)
	defer stop()

	if _, err := conn.Write(buildRequest("POST", path, extra, contextTar)); err != nil {
		return errors.Wrap(errors.ErrTransport, "failed to write build request", err)
	}

	headerBytes, err := readStreamHeaders(conn)
	if err != nil {
		return err
	}
	if code := statusCode(headerBytes); code >= 400 {
		return errors.NewWithDetails(errors.ErrDaemonStatus,
			fmt.Sprintf("daemon returned status %d", code), "image build rejected")
	}

	return scanStreamLines(conn, func(line []byte) error {
		var out buildOutput
		if err := json.Unmarshal(line, &out); err != nil {
			return nil
		}
		if out.Error != "" {
			return errors.NewWithDetails(errors.ErrDaemonStatus, "image build failed", out.Error)
		}
		if s := trimLine(out.Stream); s != "" && progress != nil {
			progress(s)
		}
		return nil
	})
}

// OpenLogStream opens a following log stream for a container, tailing the
// most recent lines first. The returned connection delivers raw (possibly
// multiplexed) bytes; feed it to a LogDecoder. The caller owns the
// connection and aborts the stream by closing it.
func (c *Client) OpenLogStream(ctx context.Context, id string, tail int) (net.Conn, error) {
	path := fmt.Sprintf("/containers/%s/logs?stdout=true&stderr=true&tail=%d&follow=true",
		url.PathEscape(id), tail)
	conn, headerBytes, err := c.openStream(ctx, "GET", path, true)
	if err != nil {
		return nil, err
	}

	if code := statusCode(headerBytes); code >= 400 {
		conn.Close()
		return nil, errors.NewWithDetails(errors.ErrDaemonStatus,
			fmt.Sprintf("daemon returned status %d", code), "log stream rejected")
	}
	return conn, nil
}

// OpenEventStream opens the daemon's event feed, filtered to container
// events. The connection stays open until the daemon goes away or the
// caller closes it.
func (c *Client) OpenEventStream(ctx context.Context) (net.Conn, error) {
	path := "/events?filters=" + url.QueryEscape(`{"type":["container"]}`)
	conn, headerBytes, err := c.openStream(ctx, "GET", path, false)
	if err != nil {
		return nil, err
	}

	if code := statusCode(headerBytes); code >= 400 {
		conn.Close()
		return nil, errors.NewWithDetails(errors.ErrDaemonStatus,
			fmt.Sprintf("daemon returned status %d", code), "event stream rejected")
	}
	return conn, nil
}

// closeOnDone closes conn when ctx is cancelled, unblocking any pending
// read. The returned stop function releases the watcher.
func closeOnDone(ctx context.Context, conn net.Conn) func() {
	stopCh := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stopCh:
		}
	}()
	return func() { close(stopCh) }
}
