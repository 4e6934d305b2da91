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

// action is the accumulate/merge/finalise contract every booked action
// implements. initSlots is called once at the start of a pass with the
// slot count for that pass; ingest is called once per accepted row per
// slot; finalize is called once, single-threaded, after every worker has
// joined.
type action interface {
	initSlots(n int)
	ingest(rv *RowView, slot int) error
	finalize() (any, error)
}
