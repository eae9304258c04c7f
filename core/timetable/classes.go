package timetable

// ClassRef identifies a distinct class of one track, e.g. for substitution requests.
type ClassRef struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
	Type Track  `json:"type"`
}

type ClassList struct {
	Theory []ClassRef `json:"theory"`
	Lab    []ClassRef `json:"lab"`
}

// All returns theory classes followed by lab classes.
func (cl ClassList) All() []ClassRef {
	all := make([]ClassRef, 0, len(cl.Theory)+len(cl.Lab))
	all = append(all, cl.Theory...)
	return append(all, cl.Lab...)
}

// Classes lists the distinct class codes of each track in order of first appearance
// (day order, then slot order).
func Classes(t *Timetable) ClassList {
	return ClassList{
		Theory: distinct(t, TrackTheory),
		Lab:    distinct(t, TrackLab),
	}
}

func distinct(t *Timetable, tr Track) []ClassRef {
	refs := make([]ClassRef, 0)
	if t == nil {
		return refs
	}
	seen := make(map[string]bool)
	for _, d := range t.Days {
		for _, c := range d.Cells(tr) {
			if c == nil || seen[c.Code] {
				continue
			}
			seen[c.Code] = true
			refs = append(refs, ClassRef{
				ID:   string(tr) + "-" + c.Code,
				Code: c.Code,
				Name: c.Code,
				Type: tr,
			})
		}
	}
	return refs
}
