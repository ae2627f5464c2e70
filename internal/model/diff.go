package model

import (
	"fmt"
	"math"
)

// ChangeType represents the kind of difference between two analyses.
type ChangeType string

const (
	ChangeAdded   ChangeType = "added"
	ChangeRemoved ChangeType = "removed"
	ChangeChanged ChangeType = "changed"
)

// rateEpsilon is the smallest tap-success-rate change reported.
const rateEpsilon = 1e-6

// ElementChange is one difference between two analyses of the same page.
type ElementChange struct {
	Type    ChangeType           `yaml:"type"              json:"type"`
	Before  int                  `yaml:"before"            json:"before"` // index in the earlier result, -1 if added
	After   int                  `yaml:"after"             json:"after"`  // index in the later result, -1 if removed
	Element Element              `yaml:"element"           json:"element"`
	Changes map[string][2]string `yaml:"changes,omitempty" json:"changes,omitempty"` // field -> [before, after]
}

// boundsKey identifies an element by its position rounded to whole CSS
// pixels, which is stable across captures of an unchanged layout.
type boundsKey [4]int64

func keyOf(el Element) boundsKey {
	return boundsKey{
		int64(math.Round(el.Left)),
		int64(math.Round(el.Top)),
		int64(math.Round(el.Width)),
		int64(math.Round(el.Height)),
	}
}

// DiffElements compares two element lists. Elements are matched by their
// rounded bounds; elements sharing bounds are paired in detection order.
// Changes are listed in the later result's order, then removals in the
// earlier result's order.
func DiffElements(before, after []Element) []ElementChange {
	pending := make(map[boundsKey][]int, len(before))
	for i, el := range before {
		k := keyOf(el)
		pending[k] = append(pending[k], i)
	}
	matched := make([]bool, len(before))

	var changes []ElementChange
	for j, el := range after {
		k := keyOf(el)
		queue := pending[k]
		if len(queue) == 0 {
			changes = append(changes, ElementChange{Type: ChangeAdded, Before: -1, After: j, Element: el})
			continue
		}
		i := queue[0]
		pending[k] = queue[1:]
		matched[i] = true
		if diffs := diffProperties(before[i], el); len(diffs) > 0 {
			changes = append(changes, ElementChange{Type: ChangeChanged, Before: i, After: j, Element: el, Changes: diffs})
		}
	}

	for i, el := range before {
		if !matched[i] {
			changes = append(changes, ElementChange{Type: ChangeRemoved, Before: i, After: -1, Element: el})
		}
	}
	return changes
}

// diffProperties compares two matched elements and returns changed fields.
func diffProperties(prev, curr Element) map[string][2]string {
	diffs := make(map[string][2]string)

	if math.Abs(prev.TapSuccessRate-curr.TapSuccessRate) > rateEpsilon {
		diffs["tapSuccessRate"] = [2]string{
			fmt.Sprintf("%.4f", prev.TapSuccessRate),
			fmt.Sprintf("%.4f", curr.TapSuccessRate),
		}
	}
	if pt, ct := Classify(prev.TapSuccessRate), Classify(curr.TapSuccessRate); pt != ct {
		diffs["tier"] = [2]string{string(pt), string(ct)}
	}
	prevMm := fmt.Sprintf("%.1f x %.1f", prev.WidthMm, prev.HeightMm)
	currMm := fmt.Sprintf("%.1f x %.1f", curr.WidthMm, curr.HeightMm)
	if prevMm != currMm {
		diffs["sizeMm"] = [2]string{prevMm, currMm}
	}

	if len(diffs) == 0 {
		return nil
	}
	return diffs
}
