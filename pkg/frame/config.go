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

import "go.uber.org/atomic"

// enableImplicitMT and workerCount are the process-wide mode flags every
// pass consults exactly once, at the moment it starts. Changing them
// mid-pass has no effect on a pass already under way, matching the
// read-once contract of the global mode flag described for this engine.
var (
	enableImplicitMT = atomic.NewBool(false)
	workerCount      = atomic.NewInt32(4)
)

// EnableImplicitMT turns process-wide parallel execution on or off. It
// takes effect starting with the next pass driven by any Root.
func EnableImplicitMT(enabled bool) {
	enableImplicitMT.Store(enabled)
}

// SetWorkerCount sets the number of worker slots a parallel pass uses. It
// is clamped to 1 if given a non-positive value.
func SetWorkerCount(n int) {
	if n < 1 {
		n = 1
	}
	workerCount.Store(int32(n))
}

// numWorkers returns how many slots the next pass should use: 1 when
// implicit parallelism is disabled, otherwise the configured worker
// count.
func numWorkers() int {
	if !enableImplicitMT.Load() {
		return 1
	}
	n := int(workerCount.Load())
	if n < 1 {
		return 1
	}
	return n
}
