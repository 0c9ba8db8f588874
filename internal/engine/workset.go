package engine

import (
	"slices"
	"strings"

	"nestedset/internal/domain"
)

// workNode tracks one row from its read value to the value to be written.
type workNode struct {
	id   string
	orig domain.Bounds
	cur  domain.Bounds
}

// workset holds every row a mutator may touch. The shift steps run against
// it in order, so each step sees the bounds the previous one produced, and
// only the net change per row is written.
type workset struct {
	nodes   []*workNode
	byID    map[string]*workNode
	removed map[string]bool
}

func newWorkset(nodes []domain.Node) *workset {
	ws := &workset{
		nodes:   make([]*workNode, 0, len(nodes)),
		byID:    make(map[string]*workNode, len(nodes)),
		removed: make(map[string]bool),
	}
	for _, n := range nodes {
		wn := &workNode{id: n.ID, orig: n.Bounds, cur: n.Bounds}
		ws.nodes = append(ws.nodes, wn)
		ws.byID[n.ID] = wn
	}
	return ws
}

func (ws *workset) get(id string) (domain.Bounds, bool) {
	wn, ok := ws.byID[id]
	if !ok || ws.removed[id] {
		return domain.Bounds{}, false
	}
	return wn.cur, true
}

func (ws *workset) live(fn func(*workNode)) {
	for _, wn := range ws.nodes {
		if !ws.removed[wn.id] {
			fn(wn)
		}
	}
}

// shift adds delta to every left >= first and every right >= first. A
// positive delta opens a gap at first, a negative one closes the gap below it.
func (ws *workset) shift(first, delta int) {
	ws.live(func(wn *workNode) {
		if wn.cur.Left >= first {
			wn.cur.Left += delta
		}
		if wn.cur.Right >= first {
			wn.cur.Right += delta
		}
	})
}

// rangeShift adds delta to every bound inside [lo, hi]. Applied to a whole
// subtree interval it relocates the subtree.
func (ws *workset) rangeShift(lo, hi, delta int) {
	ws.live(func(wn *workNode) {
		if wn.cur.Left >= lo && wn.cur.Left <= hi {
			wn.cur.Left += delta
		}
		if wn.cur.Right >= lo && wn.cur.Right <= hi {
			wn.cur.Right += delta
		}
	})
}

// addDepth adds delta to the depth of every node inside [lo, hi], bounds
// included.
func (ws *workset) addDepth(lo, hi, delta int) {
	if delta == 0 {
		return
	}
	ws.live(func(wn *workNode) {
		if wn.cur.Left >= lo && wn.cur.Right <= hi {
			wn.cur.Depth += delta
		}
	})
}

// move relocates the subtree of id so that it starts at dest (a position in
// the current numbering) and changes its depth by depthDelta. The destination
// gap is opened before the source gap is closed.
func (ws *workset) move(id string, dest, depthDelta int) {
	cur, _ := ws.get(id)
	width := cur.Width()

	ws.shift(dest, width)
	cur, _ = ws.get(id)

	ws.addDepth(cur.Left, cur.Right, depthDelta)
	ws.rangeShift(cur.Left, cur.Right, dest-cur.Left)
	ws.shift(cur.Right+1, -width)
}

// dissolve removes id from the tree. Its descendants move up one level into
// its place and every bound after it closes the two-unit gap.
func (ws *workset) dissolve(id string) {
	cur, ok := ws.get(id)
	if !ok {
		return
	}
	ws.removed[id] = true
	if !cur.IsLeaf() {
		ws.addDepth(cur.Left+1, cur.Right-1, -1)
		ws.rangeShift(cur.Left+1, cur.Right-1, -1)
	}
	ws.shift(cur.Right+1, -2)
}

type change struct {
	id    string
	patch domain.Patch
}

// changes returns the net patch of every live row except skip, ordered by id.
func (ws *workset) changes(skip string) []change {
	var out []change
	ws.live(func(wn *workNode) {
		if wn.id == skip {
			return
		}
		if p := domain.Diff(wn.orig, wn.cur); !p.IsZero() {
			out = append(out, change{id: wn.id, patch: p})
		}
	})
	slices.SortFunc(out, func(a, b change) int { return strings.Compare(a.id, b.id) })
	return out
}
