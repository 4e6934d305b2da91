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

package pool

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_EachSlotVisitedExactlyOnce(t *testing.T) {
	const n = 8
	var mu sync.Mutex
	seen := make(map[int]int)

	err := Run(context.Background(), n, func(_ context.Context, slot int) error {
		mu.Lock()
		seen[slot]++
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)
	require.Len(t, seen, n)
	for slot, count := range seen {
		require.Equal(t, 1, count, "slot %d", slot)
	}
}

func TestRun_SingleSlotRunsInline(t *testing.T) {
	var ranSlot = -1
	err := Run(context.Background(), 1, func(_ context.Context, slot int) error {
		ranSlot = slot
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 0, ranSlot)
}

func TestRun_PropagatesFirstError(t *testing.T) {
	boom := errors.New("boom")
	err := Run(context.Background(), 4, func(_ context.Context, slot int) error {
		if slot == 2 {
			return boom
		}
		return nil
	})
	require.ErrorIs(t, err, boom)
}

func TestRun_CancelsSiblingsOnError(t *testing.T) {
	boom := errors.New("boom")

	err := Run(context.Background(), 4, func(ctx context.Context, slot int) error {
		if slot == 0 {
			return boom
		}
		<-ctx.Done()
		return ctx.Err()
	})
	require.ErrorIs(t, err, boom)
}
