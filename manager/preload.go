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

package manager

import (
	"context"
	"reflect"

	"golang.org/x/sync/errgroup"
)

// Preload resolves types in parallel without showing them and waits for all
// of them. It returns the first failure. With a dispatch.Queue, the queue
// must be drained by another goroutine while Preload waits.
func (m *Manager) Preload(ctx context.Context, types ...reflect.Type) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, t := range types {
		g.Go(func() error {
			_, err := m.preload(t).Wait(gctx)
			return err
		})
	}
	return g.Wait()
}
