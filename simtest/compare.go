// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package simtest provides utility functions for testing package definitions.
//
package simtest

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	ls "github.com/db47h/logicsim"
)

// maxExhaustive is the maximum input count for which all input combinations
// are tested.
const maxExhaustive = 12

func randBool(rnd *rand.Rand) bool {
	return rnd.Int63()&(1<<62) != 0
}

func errString(names []string, inputs []bool, oname string, ex, got bool) string {
	var b strings.Builder
	for i, n := range names {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%v", n, inputs[i])
	}
	return fmt.Sprintf("\nExpected %s => %s=%v\nGot %v", b.String(), oname, ex, got)
}

// CompareDefinitions instantiates the definitions id1 and id2 from reg and
// checks that they produce the same outputs given the same inputs. Both
// definitions must have the same number of inputs and outputs.
//
// Input combinations are tested exhaustively for up to 12 inputs, otherwise
// 4096 random combinations are tested. Inputs are applied in sequence to the
// same instances, so stateful definitions are compared along the same input
// history.
//
func CompareDefinitions(t *testing.T, reg *ls.Registry, id1, id2 string) {
	t.Helper()

	d1, ok := reg.Definition(id1)
	if !ok {
		t.Fatalf("no definition %q", id1)
	}
	d2, ok := reg.Definition(id2)
	if !ok {
		t.Fatalf("no definition %q", id2)
	}
	if len(d1.Inputs) != len(d2.Inputs) {
		t.Fatalf("%s has %d inputs, %s has %d", id1, len(d1.Inputs), id2, len(d2.Inputs))
	}
	if len(d1.Outputs) != len(d2.Outputs) {
		t.Fatalf("%s has %d outputs, %s has %d", id1, len(d1.Outputs), id2, len(d2.Outputs))
	}

	i1, err := reg.Instantiate(id1, ls.InstanceOptions{})
	if err != nil {
		t.Fatal(err)
	}
	i2, err := reg.Instantiate(id2, ls.InstanceOptions{})
	if err != nil {
		t.Fatal(err)
	}

	inputs := make([]bool, len(d1.Inputs))
	cmp := func() {
		t.Helper()
		o1, o2 := i1.Evaluate(inputs), i2.Evaluate(inputs)
		for o := range o1 {
			if o1[o] != o2[o] {
				t.Fatal(errString(d1.Inputs, inputs, d1.Outputs[o], o1[o], o2[o]))
			}
		}
	}

	start := time.Now()
	count := 0
	if len(inputs) <= maxExhaustive {
		for i := 0; i < 1<<uint(len(inputs)); i++ {
			for bit := range inputs {
				inputs[len(inputs)-bit-1] = i&(1<<uint(bit)) != 0
			}
			cmp()
			count++
		}
	} else {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		for i := 0; i < 1<<maxExhaustive; i++ {
			for in := range inputs {
				inputs[in] = randBool(rnd)
			}
			cmp()
			count++
		}
	}
	t.Logf("%s vs %s: %d input combinations in %v", id1, id2, count, time.Since(start))
}
