package migrate

import "context"

// History is an insertion-ordered set of migration records keyed by name,
// the flat rendering of the server's migration DAG. It is rebuilt from
// scratch on every read and never mutated afterwards.
type History struct {
	names  []string
	byName map[string]Migration
}

func newHistory() *History {
	return &History{byName: map[string]Migration{}}
}

func (h *History) insert(m Migration) {
	if _, ok := h.byName[m.Name]; ok {
		return
	}
	h.names = append(h.names, m.Name)
	h.byName[m.Name] = m
}

// Len reports the number of records.
func (h *History) Len() int {
	return len(h.names)
}

// Names returns record names in linearized order.
func (h *History) Names() []string {
	names := make([]string, len(h.names))
	copy(names, h.names)
	return names
}

// Get looks up a record by name.
func (h *History) Get(name string) (Migration, bool) {
	m, ok := h.byName[name]
	return m, ok
}

// Last returns the record at the tip of the linearized history.
func (h *History) Last() (Migration, bool) {
	if len(h.names) == 0 {
		return Migration{}, false
	}
	return h.byName[h.names[len(h.names)-1]], true
}

// Linearize orders migration records into a single deterministic sequence
// in which every record appears after at least one of its parents.
//
// The traversal is depth-first over an explicit stack: roots are seeded in
// input order, the record discovered most recently is visited first, and a
// record reachable through several parents is emitted once, at its first
// visit. That stack discipline, not any set ordering, fully determines the
// output for a given input order. Parents naming records absent from the
// input are ignored, and records unreachable from any root are silently
// dropped; malformed graphs degrade to partial output rather than failing.
func Linearize(records []Migration) *History {
	byParent := map[string][]Migration{}
	for _, m := range records {
		for _, parent := range m.ParentNames {
			byParent[parent] = append(byParent[parent], m)
		}
	}
	var stack []Migration
	for _, m := range records {
		if len(m.ParentNames) == 0 {
			stack = append(stack, m)
		}
	}
	out := newHistory()
	for len(stack) > 0 {
		m := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := out.byName[m.Name]; ok {
			continue
		}
		out.insert(m)
		children := byParent[m.Name]
		delete(byParent, m.Name)
		for _, child := range children {
			if _, ok := out.byName[child.Name]; !ok {
				stack = append(stack, child)
			}
		}
	}
	return out
}

const readAllQuery = `
SELECT schema::Migration {
    name,
    script := .script if <bool>$0 else "",
    parent_names := .parents.name,
    generated_by,
}
FILTER
    <bool>$1
    OR .generated_by ?!= schema::MigrationGeneratedBy.DevMode
`

// ReadAll fetches every migration record the server knows about and
// linearizes it. Scripts can be large, so they are only fetched when
// fetchScript is set. Records generated by dev mode are filtered out unless
// includeDevMode is set.
func ReadAll(ctx context.Context, conn Connection, fetchScript, includeDevMode bool) (*History, error) {
	var records []Migration
	err := conn.Query(ctx, readAllQuery, &records, fetchScript, includeDevMode)
	if err != nil {
		return nil, err
	}
	return Linearize(records), nil
}

const findByPrefixQuery = `
SELECT schema::Migration {
    name,
    script,
    parent_names := .parents.name,
    generated_by,
}
FILTER .name LIKE <str>$0
`

// FindByPrefix returns the single migration record whose name matches
// prefix, nil when nothing matches, and an AmbiguousPrefixError when the
// prefix is not unique.
func FindByPrefix(ctx context.Context, conn Connection, prefix string) (*Migration, error) {
	var similar []Migration
	err := conn.Query(ctx, findByPrefixQuery, &similar, prefix+"%")
	if err != nil {
		return nil, err
	}
	switch len(similar) {
	case 0:
		return nil, nil
	case 1:
		m := similar[0]
		return &m, nil
	default:
		return nil, &AmbiguousPrefixError{Prefix: prefix}
	}
}
