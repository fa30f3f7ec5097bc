package roster

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/drewzambelli/wtml/lib/textutil"

	"github.com/antzucaro/matchr"
)

// minimum similarity before a fuzzy match is trusted
const matchThreshold = 0.92

// Reconciler resolves the member names found in travel filings back
// to roster members. filings spell names their own way ("Last, First",
// initials, dropped middle names) so matching runs in tiers: exact
// folded name, then last name plus first initial, then best
// similarity above the threshold.
type Reconciler struct {
	members   []Member
	normNames []string
	initials  []byte
	byName    map[string][]int
	byLast    map[string][]int
}

func NewReconciler(members []Member) *Reconciler {
	r := &Reconciler{
		members:   members,
		normNames: make([]string, len(members)),
		initials:  make([]byte, len(members)),
		byName:    make(map[string][]int),
		byLast:    make(map[string][]int),
	}
	for i, m := range members {
		norm := textutil.NormalizeName(m.FullName)
		r.normNames[i] = norm
		r.byName[norm] = append(r.byName[norm], i)

		first, last := splitParts(nameParts(m.FullName))
		if first != "" {
			r.initials[i] = first[0]
		}
		if last != "" {
			r.byLast[last] = append(r.byLast[last], i)
		}
	}
	return r
}

// Match resolves a filing's member name. ok is false when no roster
// member is close enough, the caller keeps the report without a
// member reference.
func (r *Reconciler) Match(fullName, state, district string) (Member, bool) {
	norm := textutil.NormalizeName(fullName)
	if norm == "" {
		return Member{}, false
	}

	if idxs := r.byName[norm]; len(idxs) > 0 {
		return r.members[r.pickBest(idxs, norm, state, district)], true
	}

	first, last := splitParts(nameParts(fullName))
	if last != "" && first != "" {
		var idxs []int
		for _, i := range r.byLast[last] {
			if r.initials[i] == first[0] {
				idxs = append(idxs, i)
			}
		}
		if len(idxs) > 0 {
			return r.members[r.pickBest(idxs, norm, state, district)], true
		}
	}

	bestIdx := -1
	var bestSim float64
	var bestAgrees bool
	for i := range r.members {
		sim := matchr.JaroWinkler(norm, r.normNames[i], false)
		if sim < matchThreshold {
			continue
		}
		agrees := sameState(state, r.members[i].State)
		better := false
		switch {
		case bestIdx == -1:
			better = true
		case agrees != bestAgrees:
			// a slightly worse name from the right state beats a
			// slightly better one from the wrong state
			better = agrees
		default:
			better = sim > bestSim
		}
		if better {
			bestIdx, bestSim, bestAgrees = i, sim, agrees
		}
	}
	if bestIdx >= 0 {
		return r.members[bestIdx], true
	}
	return Member{}, false
}

// picks between same-name candidates, geography first and name
// similarity as the tiebreaker
func (r *Reconciler) pickBest(idxs []int, norm, state, district string) int {
	if len(idxs) == 1 {
		return idxs[0]
	}
	best := idxs[0]
	bestScore := -1.0
	for _, i := range idxs {
		score := matchr.JaroWinkler(norm, r.normNames[i], false)
		if sameState(state, r.members[i].State) {
			score += 1
		}
		if sameDistrict(district, r.members[i].District) {
			score += 0.5
		}
		if score > bestScore {
			bestScore = score
			best = i
		}
	}
	return best
}

var nameSuffixes = map[string]struct{}{
	"jr": {}, "sr": {}, "ii": {}, "iii": {}, "iv": {},
}

// nameParts folds a display name down to bare lowercase words
func nameParts(name string) []string {
	folded := textutil.StripHonorifics(textutil.FoldASCII(name))
	var parts []string
	for _, f := range strings.Fields(strings.ToLower(folded)) {
		f = strings.Trim(f, `.,'"`)
		if f != "" {
			parts = append(parts, f)
		}
	}
	return parts
}

// splitParts pulls the first and last name out of the word list,
// skipping generational suffixes
func splitParts(parts []string) (first, last string) {
	if len(parts) == 0 {
		return "", ""
	}
	first = parts[0]
	for i := len(parts) - 1; i > 0; i-- {
		if _, suffix := nameSuffixes[parts[i]]; suffix {
			continue
		}
		return first, parts[i]
	}
	if len(parts) == 1 {
		return "", parts[0]
	}
	return first, ""
}

var districtNumberRegex = regexp.MustCompile(`\d+`)

// filings carry district numbers ("05"), the directory spells them
// out ("5th District"), compare the numbers
func sameDistrict(filing, directory string) bool {
	a := districtNumberRegex.FindString(filing)
	b := districtNumberRegex.FindString(directory)
	if a == "" || b == "" {
		return false
	}
	na, _ := strconv.Atoi(a)
	nb, _ := strconv.Atoi(b)
	return na == nb
}
