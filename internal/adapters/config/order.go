package config

import (
	"cmp"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2/unstable"
)

const pathSeparator = "\x00"

// keyOrder records the position at which every table and key first appears in the document.
// Decoding into maps loses that order, so it is recovered from the expression stream.
type keyOrder struct {
	index map[string]int
}

func scanKeyOrder(data []byte) (*keyOrder, error) {
	o := &keyOrder{index: make(map[string]int)}

	p := unstable.Parser{}
	p.Reset(data)

	var current []string
	for p.NextExpression() {
		expr := p.Expression()
		switch expr.Kind {
		case unstable.Table, unstable.ArrayTable:
			current = keyParts(expr.Key())
			o.record(current)
		case unstable.KeyValue:
			o.recordKeyValue(current, expr)
		}
	}
	if err := p.Error(); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *keyOrder) recordKeyValue(parent []string, kv *unstable.Node) {
	path := append(slices.Clone(parent), keyParts(kv.Key())...)
	o.record(path)

	value := kv.Value()
	if value.Kind != unstable.InlineTable {
		return
	}
	children := value.Children()
	for children.Next() {
		child := children.Node()
		if child.Kind == unstable.KeyValue {
			o.recordKeyValue(path, child)
		}
	}
}

func (o *keyOrder) record(path []string) {
	for i := 1; i <= len(path); i++ {
		key := strings.Join(path[:i], pathSeparator)
		if _, seen := o.index[key]; !seen {
			o.index[key] = len(o.index)
		}
	}
}

func keyParts(it unstable.Iterator) []string {
	var parts []string
	for it.Next() {
		parts = append(parts, string(it.Node().Data))
	}
	return parts
}

// orderedKeys returns the keys of m in document order.
// Keys that were never recorded sort last, by name.
func orderedKeys[V any](o *keyOrder, m map[string]V, path ...string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	position := func(k string) (int, bool) {
		if o == nil {
			return 0, false
		}
		i, ok := o.index[strings.Join(append(slices.Clone(path), k), pathSeparator)]
		return i, ok
	}

	slices.SortFunc(keys, func(a, b string) int {
		ia, okA := position(a)
		ib, okB := position(b)
		switch {
		case okA && okB:
			return cmp.Compare(ia, ib)
		case okA:
			return -1
		case okB:
			return 1
		default:
			return strings.Compare(a, b)
		}
	})
	return keys
}
