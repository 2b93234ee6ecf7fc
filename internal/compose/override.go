package compose

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// OverrideFileName is the transient override file dropped next to a
// project's compose file and removed once compose up finishes.
const OverrideFileName = ".docktop-override.yml"

const overrideHeader = "# Generated by DockTop\n"

// GenerateOverride writes an override file next to composePath that caps
// the given services at the given resource limits. Empty cpu or memory
// leaves that limit out. Returns the override file's path.
func GenerateOverride(composePath string, services []string, cpu, memory string) (string, error) {
	f := &File{
		Version:  "3.8",
		Services: make(map[string]*Service, len(services)),
	}
	for _, name := range services {
		f.Services[name] = &Service{
			Deploy: &DeployConfig{
				Resources: &Resources{
					Limits: &ResourceLimits{CPUs: cpu, Memory: memory},
				},
			},
		}
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("failed to marshal override: %w", err)
	}

	overridePath := filepath.Join(filepath.Dir(composePath), OverrideFileName)
	if err := os.WriteFile(overridePath, append([]byte(overrideHeader), data...), 0644); err != nil {
		return "", fmt.Errorf("failed to write override file: %w", err)
	}
	return overridePath, nil
}

// GenerateScaffold writes a fresh docker-compose.yml into dir for a new
// project: an app service built from the local Dockerfile plus any of the
// known sidecar services (mysql, postgres, redis, nginx).
func GenerateScaffold(dir string, sidecars []string, cpu, memory string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	app := &Service{
		Build:   ".",
		Ports:   []string{"80:80"},
		Restart: "always",
	}
	if cpu != "" || memory != "" {
		app.Deploy = &DeployConfig{
			Resources: &Resources{
				Limits: &ResourceLimits{CPUs: cpu, Memory: memory},
			},
		}
	}

	f := &File{
		Version:  "3.8",
		Services: map[string]*Service{"app": app},
	}
	for _, sidecar := range sidecars {
		name, svc := sidecarService(sidecar)
		if svc != nil {
			f.Services[name] = svc
		}
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal compose file: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, "docker-compose.yml"), append([]byte(overrideHeader), data...), 0644)
}

func sidecarService(name string) (string, *Service) {
	switch name {
	case "mysql", "MySQL":
		return "mysql", &Service{
			Image: "mysql:8.0",
			Environment: envNode(map[string]string{
				"MYSQL_ROOT_PASSWORD": "root",
				"MYSQL_DATABASE":      "app_db",
			}),
			Ports: []string{"3306:3306"},
		}
	case "postgres", "PostgreSQL":
		return "postgres", &Service{
			Image: "postgres:15",
			Environment: envNode(map[string]string{
				"POSTGRES_USER":     "user",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "app_db",
			}),
			Ports: []string{"5432:5432"},
		}
	case "redis", "Redis":
		return "redis", &Service{
			Image: "redis:alpine",
			Ports: []string{"6379:6379"},
		}
	case "nginx", "Nginx":
		return "nginx", &Service{
			Image:     "nginx:latest",
			Ports:     []string{"8080:80"},
			DependsOn: []string{"app"},
		}
	default:
		return "", nil
	}
}

func envNode(env map[string]string) yaml.Node {
	var node yaml.Node
	// Encode never fails for a plain string map.
	_ = node.Encode(env)
	return node
}

// CalculateAutoResources suggests per-app resource limits from host
// totals: 40% of 80% of memory for the app, a quarter of the cores with a
// 0.5 floor.
func CalculateAutoResources(totalMemory uint64, totalCPUs int) (cpu, memory string) {
	available := uint64(float64(totalMemory) * 0.8)
	appMemory := uint64(float64(available) * 0.4)

	if appMemory > 1024*1024*1024 {
		memory = fmt.Sprintf("%dG", appMemory/(1024*1024*1024))
	} else {
		memory = fmt.Sprintf("%dM", appMemory/(1024*1024))
	}

	cores := float64(totalCPUs) * 0.25
	if cores < 0.5 {
		cores = 0.5
	}
	cpu = fmt.Sprintf("%.1f", cores)
	return cpu, memory
}
