// Package patch applies a batch of edits to one account's save directory.
//
// Each edit is independent: a failure is reported against its own category and
// the batch carries on.  Nothing is rolled back, so a partly applied batch is a
// normal outcome and the Report says exactly which parts landed.
package patch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"

	"oaredit/arrayprop"
	"oaredit/dupnames"
	"oaredit/placeholder"
	"oaredit/tables"
	"oaredit/types"
)

type Status int

const (
	STATUS_APPLIED   Status = iota
	STATUS_UNCHANGED        // nothing to do, e.g. the map was already there
	STATUS_FAILED
)

func (s Status) String() string {
	switch s {
	case STATUS_APPLIED:
		return "applied"
	case STATUS_UNCHANGED:
		return "unchanged"
	case STATUS_FAILED:
		return "failed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Edit is one requested change.
type Edit struct {
	Category types.Category
	// Value is used by numeric categories and must fit in an int32.
	Value int64
	// Map is the short map name for array categories.
	Map string
	// File overrides the array category's target (default: the live save).
	File string
}

type Result struct {
	Category types.Category
	Status   Status
	// Paths lists the files actually written, in write order.
	Paths []string
	Err   error
}

type Report []Result

// Failed reports whether any category failed.
func (r Report) Failed() bool {
	for _, res := range r {
		if res.Status == STATUS_FAILED {
			return true
		}
	}
	return false
}

// Applied counts categories that wrote something.
func (r Report) Applied() int {
	n := 0
	for _, res := range r {
		if res.Status == STATUS_APPLIED {
			n++
		}
	}
	return n
}

// Patcher knows the category table and where the templates live.
type Patcher struct {
	table     types.Table
	templates string
	log       hclog.Logger
}

func New(table types.Table, template_dir string, log hclog.Logger) *Patcher {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Patcher{table: table, templates: template_dir, log: log}
}

// Template is the template path for a category.
func (p *Patcher) Template(ci types.CategoryInfo) string {
	return filepath.Join(p.templates, ci.FileType+tables.SAVE_EXT)
}

// Session is a Patcher bound to one identifier and save directory.  Duplicate
// names are worked out once here; switching account means a new Session.
type Session struct {
	p          *Patcher
	identifier string
	dir        string
	duplicates map[string]string
	log        hclog.Logger
}

// ValidIdentifier checks that id is a non-empty string of ASCII digits.
func ValidIdentifier(id string) error {
	if id == "" {
		return errors.Wrap(types.ErrInvalidIdentifier, "identifier is empty")
	}
	for _, c := range id {
		if c < '0' || c > '9' {
			return errors.Wrapf(types.ErrInvalidIdentifier, "%q must be a number", id)
		}
	}
	return nil
}

func (p *Patcher) Session(identifier, dir string) (*Session, error) {
	if err := ValidIdentifier(identifier); err != nil {
		return nil, err
	}
	if dir == "" {
		return nil, errors.Wrap(types.ErrNotFound, "no save directory")
	}
	s := &Session{
		p:          p,
		identifier: identifier,
		dir:        dir,
		duplicates: dupnames.Resolve(identifier, dir, p.table.DuplicateKeys()),
		log:        p.log.With("id", identifier),
	}
	return s, nil
}

func (s *Session) Identifier() string { return s.identifier }
func (s *Session) Dir() string        { return s.dir }

// Duplicates returns duplicate key -> path.  The map is a copy.
func (s *Session) Duplicates() map[string]string {
	out := make(map[string]string, len(s.duplicates))
	for k, v := range s.duplicates {
		out[k] = v
	}
	return out
}

// Primary is the live file for a category: {dir}/{id}{FileType}.sav
func (s *Session) Primary(ci types.CategoryInfo) string {
	return filepath.Join(s.dir, s.identifier+ci.FileType+tables.SAVE_EXT)
}

// Apply runs the edits in order, one category at a time.
func (s *Session) Apply(edits ...Edit) Report {
	s.log.Info("applying changes", "edits", len(edits), "dir", s.dir)

	report := make(Report, 0, len(edits))
	for _, e := range edits {
		res := s.apply(e)
		switch res.Status {
		case STATUS_FAILED:
			s.log.Error("edit failed", "category", res.Category, "error", res.Err)
		case STATUS_UNCHANGED:
			s.log.Info("nothing to change", "category", res.Category, "reason", res.Err)
		}
		report = append(report, res)
	}

	if report.Applied() > 0 {
		s.log.Info("changes applied", "applied", report.Applied(), "of", len(report))
	} else {
		s.log.Info("no changes were made")
	}
	return report
}

func (s *Session) apply(e Edit) Result {
	res := Result{Category: e.Category}
	fail := func(err error) Result {
		res.Status = STATUS_FAILED
		res.Err = err
		return res
	}

	ci, ok := s.p.table.Get(e.Category)
	if !ok {
		return fail(errors.Wrapf(types.ErrNotFound, "unknown category %q", e.Category))
	}

	switch ci.Kind {
	case types.KIND_IDENTIFIER, types.KIND_NUMERIC:
		return s.apply_template(ci, e, res)
	case types.KIND_ARRAY:
		return s.apply_array(ci, e, res)
	}
	return fail(errors.Errorf("category %q has unknown kind %v", ci.Category, ci.Kind))
}

func (s *Session) apply_template(ci types.CategoryInfo, e Edit, res Result) Result {
	bindings := []placeholder.Binding{placeholder.Identifier(ci.IdentifierSentinel, s.identifier)}

	// Range check comes before anything is read or substituted
	if ci.Kind == types.KIND_NUMERIC {
		b, err := placeholder.Int32(ci.ValueSentinel, e.Value)
		if err != nil {
			res.Status, res.Err = STATUS_FAILED, errors.Wrap(err, string(ci.Category))
			return res
		}
		bindings = append(bindings, b)
		s.log.Info("editing", "category", ci.Category, "value", e.Value)
	} else {
		s.log.Info("unlocking", "category", ci.Category)
	}

	template, err := read(s.p.Template(ci), "template")
	if err != nil {
		res.Status, res.Err = STATUS_FAILED, err
		return res
	}

	out, counts := placeholder.Apply(template, bindings...)
	if counts[0] == 0 {
		s.log.Warn("identifier sentinel not in template", "template", s.p.Template(ci))
	}
	if ci.Kind == types.KIND_NUMERIC && counts[1] == 0 {
		res.Status = STATUS_FAILED
		res.Err = errors.Wrapf(types.ErrNotFound, "value sentinel %q not in %v", ci.ValueSentinel, s.p.Template(ci))
		return res
	}
	for i, b := range bindings {
		if counts[i] > 0 && b.Resizes() {
			s.log.Warn("substitution changes file size",
				"category", ci.Category,
				"sentinel", string(b.Sentinel),
				"delta", counts[i]*(len(b.Replacement)-len(b.Sentinel)))
		}
	}

	primary := s.Primary(ci)
	if err := s.write(primary, out); err != nil {
		res.Status, res.Err = STATUS_FAILED, err
		return res
	}
	res.Paths = append(res.Paths, primary)

	if ci.HasDuplicate() {
		dup := s.duplicates[ci.DuplicateKey]
		if st, err := os.Stat(filepath.Dir(dup)); err != nil || !st.IsDir() {
			s.log.Debug("duplicate directory missing, skipped", "path", dup)
		} else {
			if err := s.write(dup, out); err != nil {
				res.Status, res.Err = STATUS_FAILED, err
				return res
			}
			res.Paths = append(res.Paths, dup)
		}
	}

	res.Status = STATUS_APPLIED
	return res
}

func (s *Session) apply_array(ci types.CategoryInfo, e Edit, res Result) Result {
	if e.Map == "" {
		res.Status, res.Err = STATUS_FAILED, errors.Wrap(types.ErrMalformed, "no map name given")
		return res
	}
	target := e.File
	if target == "" {
		target = s.Primary(ci)
	}
	element := types.MapElement(e.Map)
	s.log.Info("adding map", "map", e.Map, "file", target)

	blob, err := read(target, "save file")
	if err != nil {
		res.Status, res.Err = STATUS_FAILED, err
		return res
	}

	out, prop, err := arrayprop.Append(blob, ci.ArrayTag, element)
	if errors.Is(err, types.ErrDuplicateElement) {
		res.Status, res.Err = STATUS_UNCHANGED, err
		return res
	}
	if err != nil {
		res.Status, res.Err = STATUS_FAILED, errors.Wrap(err, target)
		return res
	}
	s.log.Debug("array grown", "count", prop.Count(), "byte_size", prop.ByteSize)

	if err := s.write(target, out); err != nil {
		res.Status, res.Err = STATUS_FAILED, err
		return res
	}
	res.Paths = append(res.Paths, target)
	res.Status = STATUS_APPLIED
	return res
}

// Maps decodes the array behind an array category.  path == "" means the live save.
func (s *Session) Maps(c types.Category, path string) (*arrayprop.Property, error) {
	ci, ok := s.p.table.Get(c)
	if !ok || ci.Kind != types.KIND_ARRAY {
		return nil, errors.Wrapf(types.ErrNotFound, "%q is not an array category", c)
	}
	if path == "" {
		path = s.Primary(ci)
	}
	blob, err := read(path, "save file")
	if err != nil {
		return nil, err
	}
	prop, err := arrayprop.Decode(blob, ci.ArrayTag)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return prop, nil
}

func read(path string, what string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrapf(types.ErrNotFound, "%v %v", what, path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read %v", path)
	}
	return b, nil
}

// write replaces the whole file in one go.
func (s *Session) write(path string, contents []byte) error {
	if err := os.WriteFile(path, contents, 0644); err != nil {
		// Keep both ErrWrite and the OS error in the chain
		return fmt.Errorf("%v: %w: %w", path, types.ErrWrite, err)
	}
	s.log.Info("save file written", "path", path, "bytes", len(contents))
	return nil
}
