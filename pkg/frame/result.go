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

import "github.com/vmihailenco/msgpack/v5"

// ResultHandle is a future-like reference to one booked action's
// finalised value. The first Observe call on any handle sharing this
// root triggers its single pass; once that pass has completed
// successfully, every later Observe, on this handle or any other issued
// against the same root, returns the already-finalised value without
// re-running anything. A failed pass is attempted again by the next
// Observe.
type ResultHandle[T any] struct {
	root    *Root
	binding *actionBinding
}

func newResultHandle[T any](root *Root, binding *actionBinding) *ResultHandle[T] {
	return &ResultHandle[T]{root: root, binding: binding}
}

// Observe triggers the root's pass if it has not yet run, then returns
// this handle's finalised value.
func (h *ResultHandle[T]) Observe() (T, error) {
	var zero T
	if err := h.root.ensureRun(); err != nil {
		return zero, err
	}
	if h.binding.err != nil {
		return zero, h.binding.err
	}
	v, ok := h.binding.result.(T)
	if !ok {
		return zero, errTypeMismatch("<action result>", zero, h.binding.result)
	}
	return v, nil
}

// Export triggers the pass if needed and msgpack-encodes the finalised
// value, for handing a result to a process boundary (a file, a message
// queue) without round-tripping it through JSON.
func (h *ResultHandle[T]) Export() ([]byte, error) {
	v, err := h.Observe()
	if err != nil {
		return nil, err
	}
	return msgpack.Marshal(v)
}
