package action

import (
	"fmt"
	"strconv"
	"strings"

	"docktop/internal/engine"
	"docktop/internal/errors"
)

// buildCreateConfig turns the free-text fields of a Create command into a
// daemon create payload. Any malformed field aborts the whole create.
func buildCreateConfig(c Create) (engine.CreateConfig, error) {
	exposed, bindings, err := parsePortSpec(c.Ports)
	if err != nil {
		return engine.CreateConfig{}, err
	}
	nanoCPUs, err := parseCPUSpec(c.CPU)
	if err != nil {
		return engine.CreateConfig{}, err
	}
	memory, err := parseMemorySpec(c.Memory)
	if err != nil {
		return engine.CreateConfig{}, err
	}

	cfg := engine.CreateConfig{
		Image:        c.Image,
		ExposedPorts: exposed,
		HostConfig: &engine.HostConfig{
			PortBindings: bindings,
			NanoCPUs:     nanoCPUs,
			Memory:       memory,
		},
	}
	if c.Env != "" {
		cfg.Env = strings.Fields(c.Env)
	}
	if policy := parseRestartPolicy(c.Restart); policy != "" {
		cfg.HostConfig.RestartPolicy = &engine.RestartPolicy{Name: policy}
	}
	return cfg, nil
}

// parsePortSpec parses a list of "host:container" pairs separated by
// spaces or commas. A bare port publishes the same port on both sides. All
// ports are TCP.
func parsePortSpec(spec string) (map[string]struct{}, map[string][]engine.PortBinding, error) {
	parts := strings.FieldsFunc(spec, func(r rune) bool {
		return r == ',' || r == ' '
	})
	if len(parts) == 0 {
		return nil, nil, nil
	}

	exposed := make(map[string]struct{}, len(parts))
	bindings := make(map[string][]engine.PortBinding, len(parts))
	for _, part := range parts {
		host, container := part, part
		if i := strings.IndexByte(part, ':'); i >= 0 {
			host, container = part[:i], part[i+1:]
		}
		if _, err := strconv.ParseUint(host, 10, 16); err != nil {
			return nil, nil, errors.New(errors.ErrInvalidSpec, fmt.Sprintf("invalid host port %q", host))
		}
		if _, err := strconv.ParseUint(container, 10, 16); err != nil {
			return nil, nil, errors.New(errors.ErrInvalidSpec, fmt.Sprintf("invalid container port %q", container))
		}

		key := container + "/tcp"
		exposed[key] = struct{}{}
		bindings[key] = append(bindings[key], engine.PortBinding{
			HostIP:   "0.0.0.0",
			HostPort: host,
		})
	}
	return exposed, bindings, nil
}

// parseCPUSpec converts a fractional core count ("0.5") into the daemon's
// NanoCpus unit. Empty means no limit.
func parseCPUSpec(spec string) (int64, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return 0, nil
	}
	cores, err := strconv.ParseFloat(spec, 64)
	if err != nil || cores < 0 {
		return 0, errors.New(errors.ErrInvalidSpec, fmt.Sprintf("invalid cpu limit %q", spec))
	}
	return int64(cores * 1e9), nil
}

// parseMemorySpec converts "512m" style sizes into bytes. Suffixes k, m
// and g are case-insensitive; no suffix means bytes. Empty means no limit.
func parseMemorySpec(spec string) (int64, error) {
	spec = strings.ToLower(strings.TrimSpace(spec))
	if spec == "" {
		return 0, nil
	}

	mult := int64(1)
	switch spec[len(spec)-1] {
	case 'k':
		mult = 1024
		spec = spec[:len(spec)-1]
	case 'm':
		mult = 1024 * 1024
		spec = spec[:len(spec)-1]
	case 'g':
		mult = 1024 * 1024 * 1024
		spec = spec[:len(spec)-1]
	}

	value, err := strconv.ParseInt(strings.TrimSpace(spec), 10, 64)
	if err != nil || value < 0 {
		return 0, errors.New(errors.ErrInvalidSpec, fmt.Sprintf("invalid memory limit %q", spec))
	}
	return value * mult, nil
}

// parseRestartPolicy maps a policy token to the daemon's spelling. An
// empty token means no policy; unknown tokens fall back to "no" rather
// than failing the create.
func parseRestartPolicy(spec string) string {
	switch strings.ToLower(strings.TrimSpace(spec)) {
	case "":
		return ""
	case "always":
		return "always"
	case "unless-stopped", "unless_stopped":
		return "unless-stopped"
	case "on-failure", "on_failure":
		return "on-failure"
	default:
		return "no"
	}
}
