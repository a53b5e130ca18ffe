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

package apis

import "context"

// Loader loads resources asynchronously by path.
type Loader interface {
	// Load starts loading path and returns immediately.
	Load(ctx context.Context, path string) Operation
}

// Operation is a pending load.
type Operation interface {
	// Done is closed once the load has finished, successfully or not.
	Done() <-chan struct{}
	// IsDone reports whether Done is closed.
	IsDone() bool
	// Asset returns the loaded template; nil until done or on failure.
	Asset() any
	// Err returns the load failure, if any; nil until done.
	Err() error
}

// Instantiator materializes loaded templates.
type Instantiator interface {
	// Instantiate creates exactly one object from asset under parent.
	Instantiate(asset any, parent Container) (any, error)
	// DestroyInstance releases an object created by Instantiate.
	DestroyInstance(obj any) error
}

// Container is the parent under which instantiated objects are placed.
type Container interface {
	Attach(child any) error
	Detach(child any)
}
