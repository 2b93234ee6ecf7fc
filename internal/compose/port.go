package compose

import (
	"fmt"
	"net"
	"os/exec"
	"strconv"
	"strings"
)

// PortStatus reports whether a host port can be published.
type PortStatus int

const (
	PortStatusNone PortStatus = iota
	PortStatusAvailable
	PortStatusOccupied
	PortStatusInvalid
)

// CheckPort probes the host side of a port spec ("8080" or "8080:80").
// When the port is taken, holder names the process when lsof can identify
// it.
func CheckPort(spec string) (status PortStatus, holder string) {
	if spec == "" {
		return PortStatusNone, ""
	}

	portPart := spec
	if i := strings.IndexByte(spec, ':'); i >= 0 {
		portPart = spec[:i]
	}
	port, err := strconv.ParseUint(portPart, 10, 16)
	if err != nil {
		return PortStatusInvalid, ""
	}

	ln, err := net.Listen("tcp", fmt.Sprintf("0.0.0.0:%d", port))
	if err == nil {
		ln.Close()
		return PortStatusAvailable, ""
	}
	return PortStatusOccupied, portHolder(port)
}

// portHolder asks lsof who owns the port. Best effort; returns a generic
// label when the tools are missing or say nothing.
func portHolder(port uint64) string {
	out, err := exec.Command("lsof", "-i", fmt.Sprintf(":%d", port), "-t").Output()
	if err != nil || len(out) == 0 {
		return "Unknown Process"
	}

	pidStr := strings.TrimSpace(string(out))
	if i := strings.IndexByte(pidStr, '\n'); i >= 0 {
		pidStr = pidStr[:i]
	}
	if _, err := strconv.Atoi(pidStr); err != nil {
		return "Unknown Process"
	}

	psOut, err := exec.Command("ps", "-p", pidStr, "-o", "comm=").Output()
	if err != nil {
		return fmt.Sprintf("PID: %s", pidStr)
	}
	name := strings.TrimSpace(string(psOut))
	if name == "" {
		return fmt.Sprintf("PID: %s", pidStr)
	}
	return fmt.Sprintf("%s (PID: %s)", name, pidStr)
}
