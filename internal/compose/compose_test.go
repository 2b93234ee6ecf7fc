package compose

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestParseFileAndServiceNames(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docker-compose.yml")
	writeFile(t, path, `
version: "3.8"
services:
  web:
    image: nginx:latest
    ports:
      - "8080:80"
  db:
    image: postgres:15
    environment:
      POSTGRES_DB: app
  worker:
    build: .
    depends_on:
      - db
`)

	f, err := ParseFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"db", "web", "worker"}, f.ServiceNames())
	assert.Equal(t, "nginx:latest", f.Services["web"].Image)
	assert.Equal(t, []string{"8080:80"}, f.Services["web"].Ports)
	assert.Equal(t, ".", f.Services["worker"].Build)
	assert.Equal(t, []string{"db"}, f.Services["worker"].DependsOn)
}

func TestParseFileErrors(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yml")
	writeFile(t, path, "services: [not: a: map\n")
	_, err = ParseFile(path)
	assert.Error(t, err)
}

func TestGenerateOverride(t *testing.T) {
	dir := t.TempDir()
	composePath := filepath.Join(dir, "docker-compose.yml")

	overridePath, err := GenerateOverride(composePath, []string{"web", "db"}, "0.5", "512M")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, OverrideFileName), overridePath)

	raw, err := os.ReadFile(overridePath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "# Generated by DockTop\n"))

	f, err := ParseFile(overridePath)
	require.NoError(t, err)
	require.Len(t, f.Services, 2)
	for _, name := range []string{"web", "db"} {
		svc := f.Services[name]
		require.NotNil(t, svc, "service %s", name)
		require.NotNil(t, svc.Deploy)
		require.NotNil(t, svc.Deploy.Resources)
		require.NotNil(t, svc.Deploy.Resources.Limits)
		assert.Equal(t, "0.5", svc.Deploy.Resources.Limits.CPUs)
		assert.Equal(t, "512M", svc.Deploy.Resources.Limits.Memory)
	}
}

func TestGenerateScaffold(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "newproj")

	require.NoError(t, GenerateScaffold(dir, []string{"postgres", "redis", "bogus"}, "1.0", "1G"))

	f, err := ParseFile(filepath.Join(dir, "docker-compose.yml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"app", "postgres", "redis"}, f.ServiceNames())

	app := f.Services["app"]
	assert.Equal(t, ".", app.Build)
	assert.Equal(t, []string{"80:80"}, app.Ports)
	assert.Equal(t, "always", app.Restart)
	require.NotNil(t, app.Deploy)
	assert.Equal(t, "1G", app.Deploy.Resources.Limits.Memory)

	pg := f.Services["postgres"]
	assert.Equal(t, "postgres:15", pg.Image)
	var env map[string]string
	require.NoError(t, pg.Environment.Decode(&env))
	assert.Equal(t, "app_db", env["POSTGRES_DB"])
}

func TestCalculateAutoResources(t *testing.T) {
	cpu, memory := CalculateAutoResources(16*1024*1024*1024, 8)
	assert.Equal(t, "2.0", cpu)
	assert.Equal(t, "5G", memory)

	cpu, memory = CalculateAutoResources(2*1024*1024*1024, 1)
	assert.Equal(t, "0.5", cpu)
	assert.Equal(t, "655M", memory)
}

func TestDetectFramework(t *testing.T) {
	t.Run("laravel with php version", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "composer.json"),
			`{"require": {"php": "^8.1", "laravel/framework": "^10.0"}}`)
		fw, version := DetectFramework(dir)
		assert.Equal(t, FrameworkLaravel, fw)
		assert.Equal(t, "8.1", version)
	})

	t.Run("nextjs with engines", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "package.json"),
			`{"dependencies": {"next": "14.0.0"}, "engines": {"node": ">=20"}}`)
		fw, version := DetectFramework(dir)
		assert.Equal(t, FrameworkNextJS, fw)
		assert.Equal(t, "20", version)
	})

	t.Run("plain node defaults to 18", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "package.json"), `{"dependencies": {"express": "4"}}`)
		fw, version := DetectFramework(dir)
		assert.Equal(t, FrameworkNode, fw)
		assert.Equal(t, "18", version)
	})

	t.Run("go module", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "go.mod"), "module example\n\ngo 1.22\n")
		fw, version := DetectFramework(dir)
		assert.Equal(t, FrameworkGo, fw)
		assert.Equal(t, "1.22", version)
	})

	t.Run("django beats plain python", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "requirements.txt"), "Django==4.2\npsycopg2\n")
		fw, _ := DetectFramework(dir)
		assert.Equal(t, FrameworkDjango, fw)
	})

	t.Run("rails", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "Gemfile"), `gem "rails", "~> 7.0"`)
		fw, _ := DetectFramework(dir)
		assert.Equal(t, FrameworkRails, fw)
	})

	t.Run("rust and java and static", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "Cargo.toml"), "[package]\nname = \"app\"\n")
		fw, _ := DetectFramework(dir)
		assert.Equal(t, FrameworkRust, fw)

		dir = t.TempDir()
		writeFile(t, filepath.Join(dir, "pom.xml"), "<project/>")
		fw, _ = DetectFramework(dir)
		assert.Equal(t, FrameworkJava, fw)

		dir = t.TempDir()
		writeFile(t, filepath.Join(dir, "index.html"), "<html></html>")
		fw, _ = DetectFramework(dir)
		assert.Equal(t, FrameworkStatic, fw)
	})

	t.Run("empty directory is manual", func(t *testing.T) {
		fw, version := DetectFramework(t.TempDir())
		assert.Equal(t, FrameworkManual, fw)
		assert.Equal(t, "latest", version)
	})
}

func TestDockerfileContent(t *testing.T) {
	got := dockerfileContent(FrameworkGo, "1.22", "80")
	assert.Contains(t, got, "FROM golang:1.22-alpine")
	assert.Contains(t, got, "EXPOSE 80")

	got = dockerfileContent(FrameworkLaravel, "8.2", "8000")
	assert.Contains(t, got, "FROM php:8.2-fpm")
	assert.Contains(t, got, "php artisan serve")

	got = dockerfileContent(FrameworkStatic, "latest", "80")
	assert.Contains(t, got, "FROM nginx:alpine")

	got = dockerfileContent(FrameworkManual, "latest", "3000")
	assert.Contains(t, got, "FROM alpine")
	assert.Contains(t, got, "EXPOSE 3000")
}

func TestWriteDockerfile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteDockerfile(dir, FrameworkNode, "18", "3000"))

	raw, err := os.ReadFile(filepath.Join(dir, "Dockerfile"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "FROM node:18-alpine")
}
