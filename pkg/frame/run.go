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

package frame

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/branchframe/branchframe/pkg/pool"
	"github.com/branchframe/branchframe/pkg/source"
	"github.com/branchframe/branchframe/pkg/util"
)

// ensureRun drives the root's single shared pass if it has not yet
// completed successfully, blocking concurrent callers until the pass in
// progress (if any) finishes. A failed pass leaves the root in the
// booking state so a later Observe can retry after the cause is fixed;
// it does not clear already-booked nodes or actions.
func (root *Root) ensureRun() error {
	root.mu.Lock()
	defer root.mu.Unlock()
	if root.state == stateReady {
		return nil
	}
	root.state = stateRunning
	err := root.runLocked()
	if err != nil {
		root.state = stateBooking
		return err
	}
	root.state = stateReady
	root.actions = nil
	return nil
}

// runLocked executes exactly one pass over the source, driving either the
// single-threaded loop or the parallel executor depending on the
// process-wide mode flags, then finalises every booked action. Caller
// must hold root.mu.
func (root *Root) runLocked() error {
	passID := uuid.New()
	n := numWorkers()
	root.log.WithFields(map[string]any{
		"pass":        passID.String(),
		"workers":     n,
		"height":      root.src.Height(),
		"fingerprint": fmt.Sprintf("%016x", source.Fingerprint(root.src)),
	}).Debug("pass starting")

	root.initSlots(n)

	stats := util.NewPerfStats()

	var err error
	if n <= 1 {
		err = root.runSingleThreaded()
	} else {
		err = root.runParallel(n)
	}
	if err != nil {
		root.log.WithField("pass", passID.String()).WithError(err).Warn("pass aborted")
		return err
	}

	for _, b := range root.actions {
		b.result, b.err = b.act.finalize()
		b.ready = true
	}

	stats.Log("pass " + passID.String())
	return nil
}

// initSlots (re)allocates per-node caches, per-named-filter counters, and
// per-action accumulators for a fresh attempt at the pass, sized to n
// worker slots.
func (root *Root) initSlots(n int) {
	root.slots = make([]slotState, n)
	for i := range root.slots {
		root.slots[i].cache = make([]cacheEntry, len(root.nodes))
	}
	for _, nd := range root.nodes {
		if nd.kind == kindFilter && nd.filterName != "" {
			nd.accept = make([]int64, n)
			nd.reject = make([]int64, n)
		}
	}
	for _, b := range root.actions {
		b.act.initSlots(n)
	}
}

func (root *Root) runSingleThreaded() error {
	cur, err := root.src.Cursor()
	if err != nil {
		return err
	}
	return root.drive(cur, 0)
}

func (root *Root) runParallel(n int) error {
	cursors, err := root.src.Partitions(n)
	if err != nil {
		return err
	}
	return pool.Run(context.Background(), n, func(_ context.Context, slot int) error {
		return root.drive(cursors[slot], slot)
	})
}

// drive runs the single-threaded row algorithm over cur, attributing
// every evaluated node and every accepted action to slot.
func (root *Root) drive(cur source.Cursor, slot int) error {
	rv := &RowView{root: root, cur: cur, slot: slot}
	for cur.Next() {
		for _, b := range root.actions {
			ok, err := b.parent.passes(rv)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			if err := b.act.ingest(rv, slot); err != nil {
				return err
			}
		}
	}
	return nil
}
