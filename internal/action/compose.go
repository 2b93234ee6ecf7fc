package action

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"docktop/internal/compose"
	"docktop/internal/logger"
)

// runComposeUp shells out to the compose CLI. The daemon API has no
// compose endpoint; the CLI owns that orchestration. The override file, if
// any, is deleted whether or not the run succeeds.
func (e *Executor) runComposeUp(ctx context.Context, c ComposeUp) string {
	e.emit("Running docker compose up...")

	workDir, mainFile := splitComposePath(c.Path)
	if cf, err := compose.ParseFile(filepath.Join(workDir, mainFile)); err == nil {
		if names := cf.ServiceNames(); len(names) > 0 {
			e.emit(fmt.Sprintf("Starting %d services: %s", len(names), strings.Join(names, ", ")))
		}
	}

	args := []string{"compose", "-f", mainFile}
	if c.OverridePath != "" {
		args = append(args, "-f", filepath.Base(c.OverridePath))
	}
	args = append(args, "up", "-d")

	out, err := e.composeRunner(ctx, workDir, args)

	if c.OverridePath != "" {
		if rmErr := os.Remove(c.OverridePath); rmErr != nil && !os.IsNotExist(rmErr) {
			logger.WithError(rmErr).Warn("failed to remove compose override file")
		}
	}

	if err != nil {
		if len(out) > 0 {
			return fmt.Sprintf("Compose Failed: %s", strings.TrimSpace(string(out)))
		}
		return fmt.Sprintf("Failed to run compose: %v", err)
	}
	return "Compose Up Successful"
}

// splitComposePath resolves a compose target into a working directory and
// a file name relative to it. A directory target implies the default
// docker-compose.yml inside it.
func splitComposePath(path string) (workDir, mainFile string) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return path, "docker-compose.yml"
	}
	return filepath.Dir(path), filepath.Base(path)
}

// runComposeCLI is the production compose runner. Combined output comes
// back for the failure message.
func runComposeCLI(ctx context.Context, dir string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "docker", args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}
