package compose

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// Framework is a detected project type, used to pick a Dockerfile
// template.
type Framework string

const (
	FrameworkLaravel Framework = "laravel"
	FrameworkNextJS  Framework = "nextjs"
	FrameworkNuxtJS  Framework = "nuxtjs"
	FrameworkNode    Framework = "node"
	FrameworkGo      Framework = "go"
	FrameworkPython  Framework = "python"
	FrameworkDjango  Framework = "django"
	FrameworkRails   Framework = "rails"
	FrameworkRust    Framework = "rust"
	FrameworkJava    Framework = "java"
	FrameworkStatic  Framework = "static"
	FrameworkManual  Framework = "manual"
)

// DetectFramework inspects a project directory and guesses its framework
// and runtime version. Detection is ordered: the first matching marker
// file wins.
func DetectFramework(dir string) (Framework, string) {
	if content, err := os.ReadFile(filepath.Join(dir, "composer.json")); err == nil {
		if strings.Contains(string(content), "laravel/framework") {
			return FrameworkLaravel, phpVersion(content)
		}
	}

	if content, err := os.ReadFile(filepath.Join(dir, "package.json")); err == nil {
		version := nodeVersion(content)
		s := string(content)
		if strings.Contains(s, `"next"`) {
			return FrameworkNextJS, version
		}
		if strings.Contains(s, `"nuxt"`) {
			return FrameworkNuxtJS, version
		}
		return FrameworkNode, version
	}

	if content, err := os.ReadFile(filepath.Join(dir, "go.mod")); err == nil {
		for _, line := range strings.Split(string(content), "\n") {
			if strings.HasPrefix(line, "go ") {
				return FrameworkGo, strings.TrimSpace(strings.TrimPrefix(line, "go "))
			}
		}
		return FrameworkGo, "1.21"
	}

	if content, err := os.ReadFile(filepath.Join(dir, "requirements.txt")); err == nil {
		if strings.Contains(strings.ToLower(string(content)), "django") {
			return FrameworkDjango, "3.11"
		}
		return FrameworkPython, "3.11"
	}

	if content, err := os.ReadFile(filepath.Join(dir, "Gemfile")); err == nil {
		if strings.Contains(string(content), "rails") {
			return FrameworkRails, "3.2"
		}
	}

	if fileExists(filepath.Join(dir, "Cargo.toml")) {
		return FrameworkRust, "latest"
	}
	if fileExists(filepath.Join(dir, "pom.xml")) || fileExists(filepath.Join(dir, "build.gradle")) {
		return FrameworkJava, "17"
	}
	if fileExists(filepath.Join(dir, "index.html")) {
		return FrameworkStatic, "latest"
	}

	return FrameworkManual, "latest"
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// phpVersion pulls the numeric php constraint out of composer.json,
// defaulting to 8.2.
func phpVersion(content []byte) string {
	var doc struct {
		Require map[string]string `json:"require"`
	}
	if err := json.Unmarshal(content, &doc); err != nil {
		return "8.2"
	}
	if v := leadingVersion(doc.Require["php"], true); v != "" {
		return v
	}
	return "8.2"
}

// nodeVersion pulls the major node version from the engines field,
// defaulting to 18.
func nodeVersion(content []byte) string {
	var doc struct {
		Engines struct {
			Node string `json:"node"`
		} `json:"engines"`
	}
	if err := json.Unmarshal(content, &doc); err != nil {
		return "18"
	}
	if v := leadingVersion(doc.Engines.Node, false); v != "" {
		return v
	}
	return "18"
}

// leadingVersion strips constraint operators ("^8.1", ">=18") down to the
// leading version number. Dots are kept only when wantDots is set.
func leadingVersion(constraint string, wantDots bool) string {
	start := -1
	for i, r := range constraint {
		if r >= '0' && r <= '9' {
			start = i
			break
		}
	}
	if start < 0 {
		return ""
	}

	end := start
	for end < len(constraint) {
		c := constraint[end]
		if c >= '0' && c <= '9' || (wantDots && c == '.') {
			end++
			continue
		}
		break
	}
	return constraint[start:end]
}
