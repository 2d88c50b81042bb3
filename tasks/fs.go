package tasks

import (
	"context"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/kbukum/start/errors"
	"github.com/kbukum/start/runner"
)

// File is a file read into memory.
type File struct {
	Path string
	Data []byte
}

// Files expands the glob patterns (with ** support) and returns the sorted,
// de-duplicated matches. Patterns that match nothing contribute nothing.
func Files(patterns ...string) runner.Step {
	return runner.Task("files", func(_ context.Context, _ any, log runner.LogFunc, _ runner.Reporter) (any, error) {
		matches, err := expand(patterns)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			log(m)
		}
		return matches, nil
	})
}

func expand(patterns []string) ([]string, error) {
	var out []string
	for _, p := range patterns {
		matches, err := doublestar.FilepathGlob(p)
		if err != nil {
			return nil, errors.InvalidConfig("bad glob pattern " + p).WithCause(err)
		}
		out = append(out, matches...)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

// Clean removes every path in its []string input, recursively.
func Clean() runner.Step {
	return runner.Task("clean", func(_ context.Context, input any, log runner.LogFunc, _ runner.Reporter) (any, error) {
		paths, err := stringsInput("clean", input)
		if err != nil {
			return nil, err
		}
		for _, p := range paths {
			if err := os.RemoveAll(p); err != nil {
				return nil, errors.IO("remove", p, err)
			}
			log(p)
		}
		return paths, nil
	})
}

// Read loads every path in its []string input. Directories are skipped.
func Read() runner.Step {
	return runner.Task("read", func(_ context.Context, input any, log runner.LogFunc, _ runner.Reporter) (any, error) {
		paths, err := stringsInput("read", input)
		if err != nil {
			return nil, err
		}
		files := make([]File, 0, len(paths))
		for _, p := range paths {
			info, err := os.Stat(p)
			if err != nil {
				if os.IsNotExist(err) {
					return nil, errors.NotFound("file", p)
				}
				return nil, errors.IO("stat", p, err)
			}
			if info.IsDir() {
				continue
			}
			data, err := os.ReadFile(p)
			if err != nil {
				return nil, errors.IO("read", p, err)
			}
			log(p)
			files = append(files, File{Path: p, Data: data})
		}
		return files, nil
	})
}

// Write stores each File of its []File input as outDir/<base name>, creating
// outDir if needed, and returns the written paths.
func Write(outDir string) runner.Step {
	return runner.Task("write", func(_ context.Context, input any, log runner.LogFunc, _ runner.Reporter) (any, error) {
		files, ok := input.([]File)
		if !ok {
			return nil, errors.InvalidInput("write", "[]tasks.File", input)
		}
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return nil, errors.IO("mkdir", outDir, err)
		}
		written := make([]string, 0, len(files))
		for _, f := range files {
			target := filepath.Join(outDir, filepath.Base(f.Path))
			if err := os.WriteFile(target, f.Data, 0o644); err != nil {
				return nil, errors.IO("write", target, err)
			}
			log(target)
			written = append(written, target)
		}
		return written, nil
	})
}

func stringsInput(task string, input any) ([]string, error) {
	switch v := input.(type) {
	case []string:
		return v, nil
	case string:
		return []string{v}, nil
	case nil:
		return nil, nil
	default:
		return nil, errors.InvalidInput(task, "[]string", input)
	}
}
