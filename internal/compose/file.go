// Package compose reads and writes the slice of docker-compose files the
// dashboard cares about: service inventories for progress reporting, and
// generated override/scaffold files that `docker compose up` consumes.
package compose

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// File represents a docker-compose.yaml file.
type File struct {
	Version  string              `yaml:"version,omitempty"`
	Services map[string]*Service `yaml:"services"`
}

// Service is the subset of a compose service definition the dashboard
// reads and generates.
type Service struct {
	Image         string        `yaml:"image,omitempty"`
	Build         string        `yaml:"build,omitempty"`
	Ports         []string      `yaml:"ports,omitempty"`
	Environment   yaml.Node     `yaml:"environment,omitempty"`
	Restart       string        `yaml:"restart,omitempty"`
	DependsOn     []string      `yaml:"depends_on,omitempty"`
	Deploy        *DeployConfig `yaml:"deploy,omitempty"`
	ContainerName string        `yaml:"container_name,omitempty"`
}

// DeployConfig carries the deploy.resources.limits block used by the
// generated override file.
type DeployConfig struct {
	Resources *Resources `yaml:"resources,omitempty"`
}

// Resources represents resource constraints.
type Resources struct {
	Limits *ResourceLimits `yaml:"limits,omitempty"`
}

// ResourceLimits represents resource limits.
type ResourceLimits struct {
	CPUs   string `yaml:"cpus,omitempty"`
	Memory string `yaml:"memory,omitempty"`
}

// ParseFile reads and parses a compose file.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read compose file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse compose file: %w", err)
	}
	return &f, nil
}

// ServiceNames returns the file's service names, sorted.
func (f *File) ServiceNames() []string {
	names := make([]string, 0, len(f.Services))
	for name := range f.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
