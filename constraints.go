package treecodec

import "fmt"

// constraintsToTree adds "fixed" and "bounds" maps for parameters that
// deviate from the default. A key is omitted entirely when every
// parameter is at its default, so an absent key reads back as
// all-defaults.
func constraintsToTree(m Model, t *Tree) {
	fixed := m.Fixed()
	var fixedTree *Tree
	for _, p := range m.Parameters() {
		if fixed[p.Name] {
			if fixedTree == nil {
				fixedTree = NewTree()
			}
			fixedTree.Set(p.Name, true)
		}
	}
	if fixedTree != nil {
		t.Set("fixed", fixedTree)
	}

	bounds := m.Bounds()
	var boundsTree *Tree
	for _, p := range m.Parameters() {
		if b, ok := bounds[p.Name]; ok && !b.IsDefault() {
			if boundsTree == nil {
				boundsTree = NewTree()
			}
			boundsTree.Set(p.Name, boundValue(b))
		}
	}
	if boundsTree != nil {
		t.Set("bounds", boundsTree)
	}
}

// constraintsFromTree restores whatever "fixed"/"bounds" entries are
// present; parameters absent from the maps keep their defaults.
func constraintsFromTree(t *Tree, m Model) error {
	if ft, ok := t.Subtree("fixed"); ok {
		fixed := make(map[string]bool, ft.Len())
		for _, k := range ft.Keys() {
			v, ok := ft.Bool(k)
			if !ok {
				return fmt.Errorf("fixed entry %q is not a boolean", k)
			}
			fixed[k] = v
		}
		m.SetFixed(fixed)
	}

	if bt, ok := t.Subtree("bounds"); ok {
		bounds := make(map[string]Bound, bt.Len())
		for _, k := range bt.Keys() {
			pair, ok := bt.Seq(k)
			if !ok || len(pair) != 2 {
				return fmt.Errorf("bounds entry %q is not a [low, high] pair", k)
			}
			b, err := parseBound(pair)
			if err != nil {
				return fmt.Errorf("bounds entry %q: %w", k, err)
			}
			bounds[k] = b
		}
		m.SetBounds(bounds)
	}

	return nil
}

// boundValue renders a bound as a [low, high] pair with nil for an absent
// side.
func boundValue(b Bound) []any {
	pair := make([]any, 2)
	if b.Low != nil {
		pair[0] = *b.Low
	}
	if b.High != nil {
		pair[1] = *b.High
	}
	return pair
}

func parseBound(pair []any) (Bound, error) {
	var b Bound
	if pair[0] != nil {
		lo, _, ok := numericValue(pair[0])
		if !ok {
			return Bound{}, fmt.Errorf("low bound is not a number")
		}
		b.Low = &lo
	}
	if pair[1] != nil {
		hi, _, ok := numericValue(pair[1])
		if !ok {
			return Bound{}, fmt.Errorf("high bound is not a number")
		}
		b.High = &hi
	}
	return b, nil
}
