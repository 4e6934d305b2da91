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

// Filter1 books an anonymous boolean predicate over a single named
// input. An error returned by fn aborts the pass as a user-callable
// failure.
func Filter1[A any](f Frame, inputs []string, fn func(A) (bool, error)) (Frame, error) {
	return namedFilter1[A](f, "", inputs, fn)
}

// NamedFilter1 books a predicate over a single named input, indexed
// under name for cutflow reporting.
func NamedFilter1[A any](f Frame, name string, inputs []string, fn func(A) (bool, error)) (Frame, error) {
	return namedFilter1[A](f, name, inputs, fn)
}

func namedFilter1[A any](f Frame, name string, inputs []string, fn func(A) (bool, error)) (Frame, error) {
	cols, err := resolveInputs(inputs, 1, f.root.defaultCols)
	if err != nil {
		return Frame{}, err
	}
	compute := func(rv *RowView) (any, error) {
		a, err := get[A](rv, cols[0])
		if err != nil {
			return nil, err
		}
		ok, err := fn(a)
		if err != nil {
			return nil, errUserCallable(err)
		}
		return ok, nil
	}
	n, err := f.root.addFilter(f.node, name, cols, compute)
	if err != nil {
		return Frame{}, err
	}
	return Frame{root: f.root, node: n}, nil
}

// Filter2 books an anonymous boolean predicate over two named inputs.
func Filter2[A, B any](f Frame, inputs []string, fn func(A, B) (bool, error)) (Frame, error) {
	return namedFilter2[A, B](f, "", inputs, fn)
}

// NamedFilter2 books a predicate over two named inputs, indexed under
// name for cutflow reporting.
func NamedFilter2[A, B any](f Frame, name string, inputs []string, fn func(A, B) (bool, error)) (Frame, error) {
	return namedFilter2[A, B](f, name, inputs, fn)
}

func namedFilter2[A, B any](f Frame, name string, inputs []string, fn func(A, B) (bool, error)) (Frame, error) {
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
		ok, err := fn(a, b)
		if err != nil {
			return nil, errUserCallable(err)
		}
		return ok, nil
	}
	n, err := f.root.addFilter(f.node, name, cols, compute)
	if err != nil {
		return Frame{}, err
	}
	return Frame{root: f.root, node: n}, nil
}

// Filter3 books an anonymous boolean predicate over three named inputs.
func Filter3[A, B, C any](f Frame, inputs []string, fn func(A, B, C) (bool, error)) (Frame, error) {
	return namedFilter3[A, B, C](f, "", inputs, fn)
}

// NamedFilter3 books a predicate over three named inputs, indexed under
// name for cutflow reporting.
func NamedFilter3[A, B, C any](f Frame, name string, inputs []string, fn func(A, B, C) (bool, error)) (Frame, error) {
	return namedFilter3[A, B, C](f, name, inputs, fn)
}

func namedFilter3[A, B, C any](f Frame, name string, inputs []string, fn func(A, B, C) (bool, error)) (Frame, error) {
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
		ok, err := fn(a, b, c)
		if err != nil {
			return nil, errUserCallable(err)
		}
		return ok, nil
	}
	n, err := f.root.addFilter(f.node, name, cols, compute)
	if err != nil {
		return Frame{}, err
	}
	return Frame{root: f.root, node: n}, nil
}

// Filter4 books an anonymous boolean predicate over four named inputs.
func Filter4[A, B, C, D any](f Frame, inputs []string, fn func(A, B, C, D) (bool, error)) (Frame, error) {
	return namedFilter4[A, B, C, D](f, "", inputs, fn)
}

// NamedFilter4 books a predicate over four named inputs, indexed under
// name for cutflow reporting.
func NamedFilter4[A, B, C, D any](f Frame, name string, inputs []string, fn func(A, B, C, D) (bool, error)) (Frame, error) {
	return namedFilter4[A, B, C, D](f, name, inputs, fn)
}

func namedFilter4[A, B, C, D any](f Frame, name string, inputs []string, fn func(A, B, C, D) (bool, error)) (Frame, error) {
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
		ok, err := fn(a, b, c, d)
		if err != nil {
			return nil, errUserCallable(err)
		}
		return ok, nil
	}
	n, err := f.root.addFilter(f.node, name, cols, compute)
	if err != nil {
		return Frame{}, err
	}
	return Frame{root: f.root, node: n}, nil
}
