package action

import (
	"archive/tar"
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"docktop/internal/compose"
	"docktop/internal/engine"
	"docktop/internal/errors"
)

// runBuild packs the build directory into a tar, builds it into an image
// tagged c.Tag, then runs a container from the result. With Mount set the
// source directory is bind-mounted at /app inside the container.
func (e *Executor) runBuild(ctx context.Context, c Build) string {
	e.emit(fmt.Sprintf("Building %s...", c.Tag))

	// Projects without a Dockerfile get one scaffolded from their
	// detected framework.
	if _, err := os.Stat(filepath.Join(c.Path, "Dockerfile")); os.IsNotExist(err) {
		framework, version := compose.DetectFramework(c.Path)
		e.emit(fmt.Sprintf("No Dockerfile found, generating one for %s", framework))
		if err := compose.WriteDockerfile(c.Path, framework, version, "80"); err != nil {
			return fmt.Sprintf("Failed to generate Dockerfile: %v", err)
		}
	}

	contextTar, err := packBuildContext(c.Path)
	if err != nil {
		return fmt.Sprintf("Failed to pack context: %v", err)
	}
	if err := e.engine.BuildImage(ctx, c.Tag, contextTar, e.emit); err != nil {
		return fmt.Sprintf("Failed to build: %v", err)
	}

	e.emit(fmt.Sprintf("Running %s...", c.Tag))
	cfg := engine.CreateConfig{Image: c.Tag}
	if c.Mount {
		if abs, err := filepath.Abs(c.Path); err == nil {
			cfg.HostConfig = &engine.HostConfig{Binds: []string{abs + ":/app"}}
		}
	}
	id, err := e.engine.CreateContainer(ctx, "", cfg)
	if err != nil {
		return fmt.Sprintf("Failed to create: %v", err)
	}
	if err := e.engine.StartContainer(ctx, id); err != nil {
		return fmt.Sprintf("Failed to start: %v", err)
	}
	return fmt.Sprintf("Built and started %s", engine.ShortID(id))
}

// packBuildContext tars the directory rooted at dir, with paths relative
// to the root so the Dockerfile sits at the archive top level.
func packBuildContext(dir string) ([]byte, error) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		link := ""
		if info.Mode()&fs.ModeSymlink != 0 {
			if link, err = os.Readlink(path); err != nil {
				return err
			}
		}
		hdr, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if d.IsDir() {
			hdr.Name += "/"
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrBuildContext, "failed to pack build context", err)
	}
	if err := tw.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrBuildContext, "failed to finalize build context", err)
	}
	return buf.Bytes(), nil
}
