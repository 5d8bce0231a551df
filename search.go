package galois

// frame is the scratch state of one search depth: the extent being refined
// and the intent collected for it so far.
type frame struct {
	extent []int
	intent []int
	seq    int
}

// discovery is a finished frame, stored at its sequence index.
type discovery struct {
	extent []int
	intent []int
}

// search is one InClose enumeration. Frames form an arena addressed by depth,
// allocated once: depth never exceeds the attribute count because every
// descent strictly advances the attribute cursor. A search is owned by a single
// goroutine.
type search struct {
	relation Matrix
	attrs    int
	frames   []frame
	found    []discovery
	stats    Stats
}

func newSearch(relation Matrix) *search {
	attrs := relation.Cols()
	return &search{
		relation: relation,
		attrs:    attrs,
		frames:   make([]frame, attrs+2),
	}
}

// run seeds depth 0 with (extent, intent) and closes it from attribute y.
// The seed receives sequence index 0 of this search.
func (s *search) run(extent, intent []int, y int) {
	root := &s.frames[0]
	root.extent = append(root.extent[:0], extent...)
	root.intent = append(root.intent[:0], intent...)
	root.seq = s.discover()

	s.descend(0, y)
	s.finish(0)
}

// descend scans attributes y..m-1 against the frame at depth r.
func (s *search) descend(r, y int) {
	parent := &s.frames[r]
	child := &s.frames[r+1]

	for j := y; j < s.attrs; j++ {
		s.stats.Candidates++

		child.extent = child.extent[:0]
		for _, i := range parent.extent {
			if s.relation[i][j] {
				child.extent = append(child.extent, i)
			}
		}

		switch {
		case len(child.extent) == 0:
			s.stats.Empty++
		case len(child.extent) == len(parent.extent):
			// Every object of the parent has j: it belongs to the parent's intent.
			parent.intent = append(parent.intent, j)
			s.stats.Implied++
		case !s.canonical(parent.intent, child.extent, j-1):
			s.stats.Rejected++
		default:
			child.intent = append(child.intent[:0], parent.intent...)
			child.intent = append(child.intent, j)
			child.seq = s.discover()
			s.descend(r+1, j+1)
			s.finish(r + 1)
		}
	}
}

// canonical reports whether no attribute below y+1 outside intent is shared
// by every object of extent. Intent must be ascending. Attributes are tested
// from high to low: each gap between consecutive intent members from the top
// down, then the range below the smallest member.
func (s *search) canonical(intent, extent []int, y int) bool {
	for k := len(intent) - 1; k >= 0; k-- {
		for j := y; j > intent[k]; j-- {
			if s.sharedBy(extent, j) {
				return false
			}
		}
		y = intent[k] - 1
	}
	for j := y; j >= 0; j-- {
		if s.sharedBy(extent, j) {
			return false
		}
	}
	return true
}

func (s *search) sharedBy(extent []int, j int) bool {
	for _, i := range extent {
		if !s.relation[i][j] {
			return false
		}
	}
	return true
}

func (s *search) discover() int {
	s.found = append(s.found, discovery{})
	s.stats.Frames++
	return len(s.found) - 1
}

// finish records the frame at depth r once its intent is complete.
func (s *search) finish(r int) {
	f := &s.frames[r]
	s.found[f.seq] = discovery{
		extent: append([]int(nil), f.extent...),
		intent: append([]int(nil), f.intent...),
	}
}

// concepts converts the discoveries with a non-empty extent and intent into
// concepts, numbering them from offset.
func (s *search) concepts(offset int) []*Concept {
	out := make([]*Concept, 0, len(s.found))
	for seq, d := range s.found {
		if len(d.extent) == 0 || len(d.intent) == 0 {
			continue
		}
		out = append(out, &Concept{
			extent:   Extent{NewIndexSet(d.extent...)},
			intent:   Intent{NewIndexSet(d.intent...)},
			kind:     FormalConcept,
			sequence: offset + seq,
		})
	}
	return out
}
