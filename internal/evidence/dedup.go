package evidence

import (
	"strings"

	"github.com/ppiankov/evidentia/internal/model"
)

// DedupeByTitle drops records whose lower-cased title was already seen.
// Records without a real title are always kept.
func DedupeByTitle(records []model.EvidenceRecord) []model.EvidenceRecord {
	seen := make(map[string]bool)
	out := make([]model.EvidenceRecord, 0, len(records))
	for _, r := range records {
		key := dedupKey(r.Title)
		if key != "" {
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		out = append(out, r)
	}
	return out
}

// Dedupe collapses records describing the same work. A record is dropped when
// its identifier, title or link matches the same field of an earlier kept record.
// Order of first appearance wins.
func Dedupe(records []model.EvidenceRecord) []model.EvidenceRecord {
	seen := newWorkIndex()
	out := make([]model.EvidenceRecord, 0, len(records))
	for _, r := range records {
		if seen.admit(r.Identifier, r.Title, r.Link) {
			out = append(out, r)
		}
	}
	return out
}

// DedupeContradictions applies Dedupe semantics to contradiction records
func DedupeContradictions(records []model.ContradictionRecord) []model.ContradictionRecord {
	seen := newWorkIndex()
	out := make([]model.ContradictionRecord, 0, len(records))
	for _, c := range records {
		if seen.admit(c.Identifier, c.Title, c.Link) {
			out = append(out, c)
		}
	}
	return out
}

// workIndex remembers the keys of accepted works, one set per field
type workIndex struct {
	ids, titles, links map[string]bool
}

func newWorkIndex() *workIndex {
	return &workIndex{ids: map[string]bool{}, titles: map[string]bool{}, links: map[string]bool{}}
}

// admit registers the work and reports whether none of its keys was seen before
func (w *workIndex) admit(identifier, title, link string) bool {
	id, t, l := dedupKey(identifier), dedupKey(title), dedupKey(link)
	if (id != "" && w.ids[id]) || (t != "" && w.titles[t]) || (l != "" && w.links[l]) {
		return false
	}
	if id != "" {
		w.ids[id] = true
	}
	if t != "" {
		w.titles[t] = true
	}
	if l != "" {
		w.links[l] = true
	}
	return true
}

// dedupKey lower-cases a field; placeholders count as missing
func dedupKey(value string) string {
	if model.IsPlaceholder(value) {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(value))
}
