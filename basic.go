package treecodec

import (
	"context"
	"fmt"
)

// addBaseMembers augments a core tree fragment with the attributes shared
// by the transform family: user inverse, name, bounding box, assignable
// labels, and non-default constraints.
func addBaseMembers(ctx context.Context, s *Session, m Model, t *Tree, c Codec) error {
	if inv := m.UserInverse(); inv != nil {
		it, err := s.Encode(ctx, inv)
		if err != nil {
			return err
		}
		t.Set("inverse", it)
	}

	if m.Name() != "" {
		t.Set("name", m.Name())
	}

	if box, ok := m.BoundingBox(); ok {
		if m.NInputs() == 1 {
			t.Set("bounding_box", []any{box[0].Low, box[0].High})
		} else {
			pairs := make([]any, len(box))
			for i, iv := range box {
				pairs[i] = []any{iv.Low, iv.High}
			}
			t.Set("bounding_box", pairs)
		}
	}

	if c.Traits().LabelsAssignable {
		t.Set("inputs", labelValue(m.Inputs()))
		t.Set("outputs", labelValue(m.Outputs()))
	}

	if !c.Traits().Composite {
		constraintsToTree(m, t)
	}

	return nil
}

// applyBaseMembers restores shared attributes onto a bare model, mirroring
// addBaseMembers. The inverse is deliberately not handled here; it
// resolves in the second decode phase.
func applyBaseMembers(t *Tree, m Model, c Codec) error {
	if name, ok := t.String("name"); ok {
		m.SetName(name)
	}

	if raw, ok := t.Get("bounding_box"); ok {
		box, err := parseBoundingBox(raw, m.NInputs())
		if err != nil {
			return newTreeError(ErrMalformedTree, c.Name(), "bounding_box", err.Error())
		}
		if err := m.SetBoundingBox(box); err != nil {
			return newTreeError(ErrMalformedTree, c.Name(), "bounding_box", err.Error())
		}
	}

	if raw, ok := t.Get("inputs"); ok {
		labels, err := parseLabels(raw, m.NInputs())
		if err != nil {
			return newTreeError(ErrMalformedTree, c.Name(), "inputs", err.Error())
		}
		if err := m.SetInputs(labels); err != nil {
			return newTreeError(ErrMalformedTree, c.Name(), "inputs", err.Error())
		}
	}

	if raw, ok := t.Get("outputs"); ok {
		labels, err := parseLabels(raw, m.NOutputs())
		if err != nil {
			return newTreeError(ErrMalformedTree, c.Name(), "outputs", err.Error())
		}
		if err := m.SetOutputs(labels); err != nil {
			return newTreeError(ErrMalformedTree, c.Name(), "outputs", err.Error())
		}
	}

	if err := constraintsFromTree(t, m); err != nil {
		return newTreeError(ErrMalformedTree, c.Name(), "", err.Error())
	}

	return nil
}

// labelValue stores arity-1 label sequences as a bare string.
func labelValue(labels []string) any {
	if len(labels) == 1 {
		return labels[0]
	}
	seq := make([]any, len(labels))
	for i, l := range labels {
		seq[i] = l
	}
	return seq
}

// parseLabels accepts both the bare-string arity-1 form and the list form.
func parseLabels(raw any, n int) ([]string, error) {
	switch v := raw.(type) {
	case string:
		if n != 1 {
			return nil, fmt.Errorf("single label for arity %d", n)
		}
		return []string{v}, nil
	case []any:
		labels := make([]string, len(v))
		for i, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("label %d is not a string", i)
			}
			labels[i] = s
		}
		return labels, nil
	}
	return nil, fmt.Errorf("unexpected label value %T", raw)
}

// parseBoundingBox accepts the unwrapped arity-1 pair or a list of pairs.
func parseBoundingBox(raw any, n int) ([]Interval, error) {
	seq, ok := raw.([]any)
	if !ok || len(seq) == 0 {
		return nil, fmt.Errorf("unexpected bounding box value %T", raw)
	}

	if _, nested := seq[0].([]any); !nested {
		if n != 1 {
			return nil, fmt.Errorf("single interval for arity %d", n)
		}
		iv, err := parseInterval(seq)
		if err != nil {
			return nil, err
		}
		return []Interval{iv}, nil
	}

	box := make([]Interval, len(seq))
	for i, e := range seq {
		pair, ok := e.([]any)
		if !ok {
			return nil, fmt.Errorf("interval %d is not a pair", i)
		}
		iv, err := parseInterval(pair)
		if err != nil {
			return nil, err
		}
		box[i] = iv
	}
	return box, nil
}

func parseInterval(pair []any) (Interval, error) {
	if len(pair) != 2 {
		return Interval{}, fmt.Errorf("interval has %d elements", len(pair))
	}
	lo, _, okLo := numericValue(pair[0])
	hi, _, okHi := numericValue(pair[1])
	if !okLo || !okHi {
		return Interval{}, fmt.Errorf("interval bounds are not numbers")
	}
	return Interval{Low: lo, High: hi}, nil
}
