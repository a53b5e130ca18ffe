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
	"fmt"
	"log/slog"

	"go.etcd.io/bbolt"

	"dirpx.dev/uix/apis"
)

// Bolt loads template blobs stored in a bbolt bucket, keyed by path.
type Bolt struct {
	db     *bbolt.DB
	bucket []byte
	log    *slog.Logger
}

// Ensure Bolt implements apis.Loader.
var _ apis.Loader = (*Bolt)(nil)

// NewBolt returns a loader reading from db. The database stays owned by the caller.
func NewBolt(db *bbolt.DB, opts ...Option) *Bolt {
	o := newOptions(opts)
	return &Bolt{db: db, bucket: []byte(o.bucket), log: o.log}
}

// PutTemplate stores data under path, creating the bucket on demand.
func (l *Bolt) PutTemplate(path string, data []byte) error {
	p := cleanPath(path)
	if p == "" {
		return ErrEmptyPath
	}
	return l.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(l.bucket)
		if err != nil {
			return fmt.Errorf("create bucket %s: %w", l.bucket, err)
		}
		return b.Put([]byte(p), data)
	})
}

// Load reads path on a new goroutine. The asset is a []byte copied out of
// the read transaction.
func (l *Bolt) Load(ctx context.Context, path string) apis.Operation {
	op := NewOperation()
	go func() {
		data, err := l.read(ctx, path)
		op.Complete(data, err)
	}()
	return op
}

func (l *Bolt) read(ctx context.Context, path string) ([]byte, error) {
	p := cleanPath(path)
	if p == "" {
		return nil, ErrEmptyPath
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var (
		data  []byte
		found bool
	)
	err := l.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(l.bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(p)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
			found = true
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	l.log.Debug("Loaded resource.", "path", path, "bucket", string(l.bucket), "bytes", len(data))
	return data, nil
}
