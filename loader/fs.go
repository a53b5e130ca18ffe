/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"dirpx.dev/uix/apis"
)

// FS loads raw template bytes from an fs.FS. For a path "UI/Inventory" it
// tries "UI/Inventory.cbor" (each configured extension in order), then the
// bare path.
type FS struct {
	fsys fs.FS
	exts []string
	log  *slog.Logger
}

// Ensure FS implements apis.Loader.
var _ apis.Loader = (*FS)(nil)

// NewFS returns a loader reading from fsys.
func NewFS(fsys fs.FS, opts ...Option) *FS {
	o := newOptions(opts)
	return &FS{fsys: fsys, exts: o.exts, log: o.log}
}

// Load reads path on a new goroutine. The asset is a []byte.
func (l *FS) Load(ctx context.Context, path string) apis.Operation {
	op := NewOperation()
	go func() {
		data, err := l.read(ctx, path)
		op.Complete(data, err)
	}()
	return op
}

func (l *FS) read(ctx context.Context, path string) ([]byte, error) {
	p := cleanPath(path)
	if p == "" {
		return nil, ErrEmptyPath
	}
	candidates := make([]string, 0, len(l.exts)+1)
	for _, e := range l.exts {
		candidates = append(candidates, p+e)
	}
	candidates = append(candidates, p)

	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := fs.ReadFile(l.fsys, c)
		switch {
		case err == nil:
			l.log.Debug("Loaded resource.", "path", path, "file", c, "bytes", len(data))
			return data, nil
		case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrInvalid):
			continue
		default:
			return nil, fmt.Errorf("read %s: %w", c, err)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
}
