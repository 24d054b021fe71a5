// Copyright © 2024 The ELPS authors

package interp_test

import (
	"testing"

	"github.com/luthersystems/plist/plisttest"
)

func TestStorageKinds(t *testing.T) {
	tests := plisttest.TestSuite{
		{"empty list", plisttest.TestSequence{
			{"x = []", "None", ""},
			{"kind(x)", "'empty'", ""},
			{"capacity(x)", "0", ""},
			{"x.append(1)", "None", ""},
			{"kind(x)", "'int64'", ""},
			{"x.pop()", "1", ""},
			{"kind(x)", "'int64'", ""},
			{"x.clear()", "None", ""},
			{"kind(x)", "'empty'", ""},
		}},
		{"int to generic", plisttest.TestSequence{
			{"x = [1, 2, 3]", "None", ""},
			{"x[0] = 10", "None", ""},
			{"kind(x)", "'int64'", ""},
			{"x[1] = 'b'", "None", ""},
			{"kind(x)", "'generic'", ""},
			{"x", "[10, 'b', 3]", ""},
			{"x[1] = 2", "None", ""},
			{"kind(x)", "'generic'", ""},
		}},
		{"float", plisttest.TestSequence{
			{"x = [1.5]", "None", ""},
			{"x.extend([2.5, 3.0])", "None", ""},
			{"kind(x)", "'float64'", ""},
			{"x.insert(0, 1)", "None", ""},
			{"kind(x)", "'generic'", ""},
			{"x", "[1, 1.5, 2.5, 3.0]", ""},
		}},
		{"nested", plisttest.TestSequence{
			{"x = [[1], [2, 3]]", "None", ""},
			{"kind(x)", "'list'", ""},
			{"x[0].append(5)", "None", ""},
			{"x", "[[1, 5], [2, 3]]", ""},
			{"kind(x[0])", "'int64'", ""},
			{"x.append((1,))", "None", ""},
			{"kind(x)", "'generic'", ""},
			{"y = [(1, 2), ()]", "None", ""},
			{"kind(y)", "'tuple'", ""},
		}},
		{"big ints are generic", plisttest.TestSequence{
			{"x = [1]", "None", ""},
			{"x.append(99999999999999999999)", "None", ""},
			{"kind(x)", "'generic'", ""},
			{"x", "[1, 99999999999999999999]", ""},
			{"bool(x)", "True", ""},
		}},
		{"bools are generic", plisttest.TestSequence{
			{"kind([True])", "'generic'", ""},
			{"x = [1, 2]", "None", ""},
			{"x[True]", "2", ""},
			{"x.append(False)", "None", ""},
			{"x", "[1, 2, False]", ""},
			{"kind(x)", "'generic'", ""},
		}},
		{"identity", plisttest.TestSequence{
			{"x = [1]", "None", ""},
			{"y = x", "None", ""},
			{"y.append('z')", "None", ""},
			{"x", "[1, 'z']", ""},
			{"kind(x)", "'generic'", ""},
		}},
	}
	plisttest.RunTestSuite(t, tests)
}

func TestSlices(t *testing.T) {
	tests := plisttest.TestSuite{
		{"get", plisttest.TestSequence{
			{"x = [0, 1, 2, 3, 4, 5]", "None", ""},
			{"x[1:4]", "[1, 2, 3]", ""},
			{"x[::2]", "[0, 2, 4]", ""},
			{"x[::-2]", "[5, 3, 1]", ""},
			{"x[-2:]", "[4, 5]", ""},
			{"x[10:]", "[]", ""},
			{"x[4:1]", "[]", ""},
			{"x[-100:2]", "[0, 1]", ""},
			{"kind(x[1:1])", "'empty'", ""},
			{"kind(x[1:2])", "'int64'", ""},
			{"x[None:2]", "[0, 1]", ""},
			{"x[::0]", "ValueError: slice step cannot be zero", ""},
			{"x['a':]", "TypeError: slice indices must be integers or None or have an __index__ method", ""},
		}},
		{"set", plisttest.TestSequence{
			{"x = [0, 1, 2, 3]", "None", ""},
			{"x[1:3] = []", "None", ""},
			{"x", "[0, 3]", ""},
			{"x[1:1] = ['a', 'b']", "None", ""},
			{"x", "[0, 'a', 'b', 3]", ""},
			{"kind(x)", "'generic'", ""},
			{"x[:] = (7, 8)", "None", ""},
			{"x", "[7, 8]", ""},
			{"x[5:] = [9]", "None", ""},
			{"x", "[7, 8, 9]", ""},
			{"x[::-1] = [1, 2, 3]", "None", ""},
			{"x", "[3, 2, 1]", ""},
			{"x[::2] = [0]", "ValueError: attempt to assign sequence of size 1 to extended slice of size 2", ""},
			{"x[0:1] = 5", "TypeError: can only assign an iterable", ""},
		}},
		{"self assignment", plisttest.TestSequence{
			{"x = [1, 2, 3]", "None", ""},
			{"x[1:2] = x", "None", ""},
			{"x", "[1, 1, 2, 3, 3]", ""},
			{"x[::-1] = x", "None", ""},
			{"x", "[3, 3, 2, 1, 1]", ""},
		}},
		{"delete", plisttest.TestSequence{
			{"x = [0, 1, 2, 3, 4, 5, 6]", "None", ""},
			{"del x[1::3]", "None", ""},
			{"x", "[0, 2, 3, 5, 6]", ""},
			{"del x[::-2]", "None", ""},
			{"x", "[2, 5]", ""},
			{"del x[:]", "None", ""},
			{"x", "[]", ""},
			{"del x[5:]", "None", ""},
		}},
	}
	plisttest.RunTestSuite(t, tests)
}

func TestMethods(t *testing.T) {
	tests := plisttest.TestSuite{
		{"insert", plisttest.TestSequence{
			{"x = []", "None", ""},
			{"x.insert(5, 'a')", "None", ""},
			{"x.insert(0, 'b')", "None", ""},
			{"x.insert(-1, 'c')", "None", ""},
			{"x", "['b', 'c', 'a']", ""},
			{"x.insert(1.0, 'd')", "TypeError: 'float' object cannot be interpreted as an integer", ""},
		}},
		{"pop", plisttest.TestSequence{
			{"x = [1, 2, 3]", "None", ""},
			{"x.pop(-3)", "1", ""},
			{"x.pop(5)", "IndexError: pop index out of range", ""},
			{"x.pop('a')", "TypeError: integer argument expected, got str", ""},
			{"x", "[2, 3]", ""},
		}},
		{"index and count", plisttest.TestSequence{
			{"x = [1, 2.0, 'a', [1], 2]", "None", ""},
			{"x.index(2)", "1", ""},
			{"x.index(2, 2)", "4", ""},
			{"x.index(2, -1)", "4", ""},
			{"x.index('a', 0, 2)", "ValueError: x not in list", ""},
			{"x.index([1])", "3", ""},
			{"x.count(2)", "2", ""},
			{"x.count([1])", "1", ""},
			{"x.count(None)", "0", ""},
		}},
		{"remove", plisttest.TestSequence{
			{"x = [1.0, 2.0, 1.0]", "None", ""},
			{"x.remove(1)", "None", ""},
			{"x", "[2.0, 1.0]", ""},
			{"kind(x)", "'float64'", ""},
			{"x.remove('a')", "ValueError: list.remove(x): x not in list", ""},
		}},
		{"extend", plisttest.TestSequence{
			{"x = [1]", "None", ""},
			{"x.extend(x)", "None", ""},
			{"x", "[1, 1]", ""},
			{"x.extend(range(2, 4))", "None", ""},
			{"x", "[1, 1, 2, 3]", ""},
			{"kind(x)", "'int64'", ""},
			{"x.extend('ab')", "None", ""},
			{"x", "[1, 1, 2, 3, 'a', 'b']", ""},
			{"x.extend(1)", "TypeError: 'int' object is not iterable", ""},
		}},
		{"reverse and copy", plisttest.TestSequence{
			{"x = [1, 'a', 2.5]", "None", ""},
			{"y = x.copy()", "None", ""},
			{"x.reverse()", "None", ""},
			{"x", "[2.5, 'a', 1]", ""},
			{"y", "[1, 'a', 2.5]", ""},
			{"kind(y)", "'generic'", ""},
		}},
	}
	plisttest.RunTestSuite(t, tests)
}

func TestOperators(t *testing.T) {
	tests := plisttest.TestSuite{
		{"concatenation", plisttest.TestSequence{
			{"x = [1, 2]", "None", ""},
			{"y = x + [3.5]", "None", ""},
			{"kind(y)", "'generic'", ""},
			{"kind(x + [3])", "'int64'", ""},
			{"kind([] + [])", "'empty'", ""},
			{"x + 'a'", `TypeError: can only concatenate list (not "str") to list`, ""},
			{"x += 'ab'", "None", ""},
			{"x", "[1, 2, 'a', 'b']", ""},
			{"(1,) + [2]", `TypeError: can only concatenate tuple (not "list") to tuple`, ""},
		}},
		{"repetition", plisttest.TestSequence{
			{"x = [1, 2]", "None", ""},
			{"x * 0", "[]", ""},
			{"x * -1", "[]", ""},
			{"x * True", "[1, 2]", ""},
			{"[[0]] * 2", "[[0], [0]]", ""},
			{"x *= 2", "None", ""},
			{"x", "[1, 2, 1, 2]", ""},
			{"x * 99999999999999999999", "MemoryError: repetition exceeds the limit of 67108864 elements", ""},
		}},
		{"comparison", plisttest.TestSequence{
			{"[1, 2] < [1, 2, 0]", "True", ""},
			{"[2] > [1, 9]", "True", ""},
			{"[1, 2] <= [1, 2]", "True", ""},
			{"[1, 'a'] == [1, 'a']", "True", ""},
			{"[1, 'a'] < [1, 2]", "TypeError: '<' not supported between instances of 'str' and 'int'", ""},
			{"[1, 'a'] < [2, 'b']", "True", ""},
			{"[1] == 1", "False", ""},
			{"[1] != 1", "True", ""},
			{"(1, 2) < (1, 3)", "True", ""},
			{"x = [1]", "None", ""},
			{"x.append(x)", "None", ""},
			{"x == x", "True", ""},
			{"x == [1, x]", "True", ""},
		}},
		{"membership", plisttest.TestSequence{
			{"1.0 in [1, 2]", "True", ""},
			{"[1] in [[1], [2]]", "True", ""},
			{"'b' in 'abc'", "True", ""},
			{"1 in 'abc'", "TypeError: 'in <string>' requires string as left operand, not int", ""},
			{"1 in 5", "TypeError: argument of type 'int' is not iterable", ""},
		}},
		{"arithmetic", plisttest.TestSequence{
			{"1 + 2 * 3", "7", ""},
			{"(1 + 2) * 3", "9", ""},
			{"1 - 2.5", "-1.5", ""},
			{"True + True", "2", ""},
			{"'a' + 'b'", "'ab'", ""},
			{"'a' + 1", `TypeError: can only concatenate str (not "int") to str`, ""},
			{"'ab' * 2", "'abab'", ""},
			{"2 * 'ab'", "'abab'", ""},
			{"'ab' * 1.5", "TypeError: can't multiply sequence by non-int of type 'float'", ""},
		}},
	}
	plisttest.RunTestSuite(t, tests)
}

func TestScripts(t *testing.T) {
	r := &plisttest.Runner{}
	r.RunTestFile(t, "testdata/lists.pl")
}

func BenchmarkAppend(b *testing.B) {
	plisttest.RunBenchmark(b, `
x = []
x.extend(range(1000))
y = x * 10
y.append('a')
y.reverse()
`)
}
