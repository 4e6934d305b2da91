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

// Define1 books a derived column of type Out computed from a single
// named input of type A. inputs may be omitted (nil) to fall back to the
// first entry of the root's default column list. An error returned by fn
// aborts the pass that triggered it as a user-callable failure.
func Define1[A, Out any](f Frame, name string, inputs []string, fn func(A) (Out, error)) (Frame, error) {
	cols, err := resolveInputs(inputs, 1, f.root.defaultCols)
	if err != nil {
		return Frame{}, err
	}
	compute := func(rv *RowView) (any, error) {
		a, err := get[A](rv, cols[0])
		if err != nil {
			return nil, err
		}
		out, err := fn(a)
		if err != nil {
			return nil, errUserCallable(err)
		}
		return out, nil
	}
	n, err := f.root.addDefine(f.node, name, cols, compute)
	if err != nil {
		return Frame{}, err
	}
	return Frame{root: f.root, node: n}, nil
}

// Define2 books a derived column computed from two named inputs.
func Define2[A, B, Out any](f Frame, name string, inputs []string, fn func(A, B) (Out, error)) (Frame, error) {
	cols, err := resolveInputs(inputs, 2, f.root.defaultCols)
	if err != nil {
		return Frame{}, err
	}
	compute := func(rv *RowView) (any, error) {
		a, err := get[A](rv, cols[0])
		if err != nil {
			return nil, err
		}
		b, err := get[B](rv, cols[1])
		if err != nil {
			return nil, err
		}
		out, err := fn(a, b)
		if err != nil {
			return nil, errUserCallable(err)
		}
		return out, nil
	}
	n, err := f.root.addDefine(f.node, name, cols, compute)
	if err != nil {
		return Frame{}, err
	}
	return Frame{root: f.root, node: n}, nil
}

// Define3 books a derived column computed from three named inputs.
func Define3[A, B, C, Out any](f Frame, name string, inputs []string, fn func(A, B, C) (Out, error)) (Frame, error) {
	cols, err := resolveInputs(inputs, 3, f.root.defaultCols)
	if err != nil {
		return Frame{}, err
	}
	compute := func(rv *RowView) (any, error) {
		a, err := get[A](rv, cols[0])
		if err != nil {
			return nil, err
		}
		b, err := get[B](rv, cols[1])
		if err != nil {
			return nil, err
		}
		c, err := get[C](rv, cols[2])
		if err != nil {
			return nil, err
		}
		out, err := fn(a, b, c)
		if err != nil {
			return nil, errUserCallable(err)
		}
		return out, nil
	}
	n, err := f.root.addDefine(f.node, name, cols, compute)
	if err != nil {
		return Frame{}, err
	}
	return Frame{root: f.root, node: n}, nil
}

// Define4 books a derived column computed from four named inputs.
func Define4[A, B, C, D, Out any](f Frame, name string, inputs []string, fn func(A, B, C, D) (Out, error)) (Frame, error) {
	cols, err := resolveInputs(inputs, 4, f.root.defaultCols)
	if err != nil {
		return Frame{}, err
	}
	compute := func(rv *RowView) (any, error) {
		a, err := get[A](rv, cols[0])
		if err != nil {
			return nil, err
		}
		b, err := get[B](rv, cols[1])
		if err != nil {
			return nil, err
		}
		c, err := get[C](rv, cols[2])
		if err != nil {
			return nil, err
		}
		d, err := get[D](rv, cols[3])
		if err != nil {
			return nil, err
		}
		out, err := fn(a, b, c, d)
		if err != nil {
			return nil, errUserCallable(err)
		}
		return out, nil
	}
	n, err := f.root.addDefine(f.node, name, cols, compute)
	if err != nil {
		return Frame{}, err
	}
	return Frame{root: f.root, node: n}, nil
}
