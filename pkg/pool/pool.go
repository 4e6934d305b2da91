// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package pool runs a fixed number of worker tasks concurrently and
// assigns each a stable slot index in [0,N), joining on first error.
package pool

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Task is the unit of work handed to a worker slot.  slot is stable for the
// lifetime of the Run call: a given goroutine sees the same slot on every
// call it makes into shared per-slot state during that pass.
type Task func(ctx context.Context, slot int) error

// Run launches one goroutine per slot in [0,n), each invoked with its own
// stable slot index, and blocks until all have returned.  The first error
// encountered is returned; ctx passed to still-running tasks is cancelled
// as soon as that error occurs.  For n <= 1 the task runs inline on the
// calling goroutine with slot 0.  Slot assignment needs no runtime
// bookkeeping: the task closure captures its slot directly.
func Run(ctx context.Context, n int, task Task) error {
	if n <= 1 {
		return task(ctx, 0)
	}
	g, gctx := errgroup.WithContext(ctx)
	for slot := 0; slot < n; slot++ {
		slot := slot
		g.Go(func() error {
			return task(gctx, slot)
		})
	}
	return g.Wait()
}
