package engine

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"net"
	"strings"

	"docktop/internal/errors"
)

// maxFramePayload is the sanity ceiling for one multiplexed log frame.
// A length above this means the stream is corrupt, not that a container
// wrote a 10 MB line.
const maxFramePayload = 10 * 1024 * 1024

// openStream dials the daemon and writes a streaming request. The response
// headers are consumed byte by byte so not a single payload byte is
// buffered away from the caller; the live connection is returned together
// with the raw header bytes.
func (c *Client) openStream(ctx context.Context, method, path string, upgrade bool) (net.Conn, []byte, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrTransport, "failed to connect to daemon socket", err)
	}

	extra := []header{{"Connection", "close"}}
	if upgrade {
		extra = []header{{"Connection", "Upgrade"}, {"Upgrade", "tcp"}}
	}

	if _, err := conn.Write(buildRequest(method, path, extra, nil)); err != nil {
		conn.Close()
		return nil, nil, errors.Wrap(errors.ErrTransport, "failed to write request", err)
	}

	headerBytes, err := readStreamHeaders(conn)
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	return conn, headerBytes, nil
}

// readStreamHeaders consumes bytes one at a time until the header/body
// delimiter has been seen, and returns everything read so far.
func readStreamHeaders(conn net.Conn) ([]byte, error) {
	var headers []byte
	buf := make([]byte, 1)
	for {
		if _, err := io.ReadFull(conn, buf); err != nil {
			return nil, errors.Wrap(errors.ErrTransport, "failed to read response headers", err)
		}
		headers = append(headers, buf[0])
		if len(headers) >= 4 && bytes.Equal(headers[len(headers)-4:], []byte("\r\n\r\n")) {
			return headers, nil
		}
	}
}

// scanStreamLines reads newline-delimited chunks from a streamed response
// body until EOF, invoking fn for each non-empty line. fn returning an
// error ends the scan.
func scanStreamLines(r io.Reader, fn func(line []byte) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(errors.ErrTransport, "stream read failed", err)
	}
	return nil
}

func trimLine(s string) string {
	return strings.TrimRight(s, "\r\n")
}

// LogDecoder turns a container log stream into lines. The daemon normally
// multiplexes stdout and stderr into frames with an 8-byte header: a
// stream-kind byte (0, 1, or 2), three zero bytes, then a big-endian
// payload length. TTY containers and some daemon configurations send raw
// bytes instead, so the first 8 bytes decide the mode: if they do not look
// like a frame header, the decoder falls back to raw line splitting for
// the life of the stream.
//
// The check is a heuristic, not a protocol discriminator: a raw stream
// whose first bytes happen to match the pattern would be misread. It
// matches what the real daemon emits.
type LogDecoder struct {
	r           io.Reader
	pending     bytes.Buffer
	checked     bool
	multiplexed bool
	chunk       []byte
}

// NewLogDecoder wraps a raw log stream.
func NewLogDecoder(r io.Reader) *LogDecoder {
	return &LogDecoder{r: r, chunk: make([]byte, 4096)}
}

// Next returns the next complete log line. At stream end a trailing
// unterminated line is returned once before io.EOF.
func (d *LogDecoder) Next() (string, error) {
	for {
		if line, ok := d.popLine(); ok {
			return line, nil
		}
		if err := d.fill(); err != nil {
			if d.pending.Len() > 0 {
				line := trimLine(d.pending.String())
				d.pending.Reset()
				if line != "" {
					return line, nil
				}
			}
			return "", err
		}
	}
}

// popLine cuts one newline-terminated line off the pending buffer.
func (d *LogDecoder) popLine() (string, bool) {
	data := d.pending.Bytes()
	idx := bytes.IndexByte(data, '\n')
	if idx < 0 {
		return "", false
	}
	line := trimLine(string(data[:idx]))
	d.pending.Next(idx + 1)
	return line, true
}

// fill reads more payload into the pending buffer: one frame in
// multiplexed mode, one chunk in raw mode.
func (d *LogDecoder) fill() error {
	if !d.checked {
		return d.detectMode()
	}

	if d.multiplexed {
		var head [8]byte
		if _, err := io.ReadFull(d.r, head[:]); err != nil {
			if err == io.ErrUnexpectedEOF {
				return io.EOF
			}
			return err
		}
		return d.readFrame(head)
	}

	n, err := d.r.Read(d.chunk)
	if n > 0 {
		d.pending.Write(d.chunk[:n])
		return nil
	}
	return err
}

// detectMode reads the first 8 bytes and decides between frame and raw
// decoding. A stream shorter than 8 bytes is trivially raw.
func (d *LogDecoder) detectMode() error {
	var head [8]byte
	n, err := io.ReadFull(d.r, head[:])
	d.checked = true

	if err != nil {
		d.pending.Write(head[:n])
		if n > 0 {
			return nil
		}
		if err == io.ErrUnexpectedEOF {
			return io.EOF
		}
		return err
	}

	if isFrameHeader(head) {
		d.multiplexed = true
		return d.readFrame(head)
	}

	d.pending.Write(head[:])
	return nil
}

// readFrame reads the payload a frame header announces.
func (d *LogDecoder) readFrame(head [8]byte) error {
	length := binary.BigEndian.Uint32(head[4:])
	if length > maxFramePayload {
		return errors.NewWithDetails(errors.ErrStreamCorrupt, "log frame exceeds sanity ceiling", "")
	}
	if length == 0 {
		return nil
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(d.r, payload); err != nil {
		if err == io.ErrUnexpectedEOF {
			return io.EOF // torn frame at stream end, drop it
		}
		return err
	}
	d.pending.Write(payload)
	return nil
}

// isFrameHeader reports whether 8 bytes look like a multiplexed frame
// header: stream kind 0 (stdin), 1 (stdout), or 2 (stderr), then three
// zero bytes.
func isFrameHeader(head [8]byte) bool {
	return head[0] <= 2 && head[1] == 0 && head[2] == 0 && head[3] == 0
}
