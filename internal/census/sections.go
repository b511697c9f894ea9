package census

import (
	"errors"
	"maps"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/csg33k/household-census/internal/domain"
)

var (
	ErrSectionNotFound     = errors.New("section not found")
	ErrRemovalNotConfirmed = errors.New("section removal not confirmed")
	ErrUnknownGroup        = errors.New("unknown conditional group")
	ErrNotChildSection     = errors.New("age is only derived for child sections")
)

// Household form inputs.
const (
	InputBlockName = "block_name"
	InputAddress   = "address"
	InputContactNo = "contact_no"
)

// Section is one repeatable Member or Child sub-form. Ordinal is a display
// label only; it is fixed when the section is added.
type Section struct {
	ID      string
	Kind    SectionKind
	Ordinal int
	Values  map[string]string
}

// InputName is the form name of the section's input for key.
func (s Section) InputName(key string) string { return s.ID + "." + key }

func (s Section) Schema() Schema { return SchemaFor(s.Kind) }

func (s Section) Value(key string) string { return s.Values[key] }

func (s Section) GroupVisible(g Group) bool { return GroupVisible(s.Values[g.Trigger.Key]) }

func (s *Section) clone() Section {
	c := *s
	c.Values = maps.Clone(s.Values)
	return c
}

// Draft is the server-side state of one census form page. Methods are safe
// for concurrent use and return copies.
type Draft struct {
	mu       sync.Mutex
	sections []*Section
}

// NewDraft returns a draft holding a single Member section.
func NewDraft() *Draft {
	d := &Draft{}
	d.add(KindMember)
	return d
}

func (d *Draft) AddMember() Section { return d.Add(KindMember) }

func (d *Draft) AddChild() Section { return d.Add(KindChild) }

func (d *Draft) Add(kind SectionKind) Section {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.add(kind).clone()
}

// add labels the new section with the count of present sections of its
// kind plus one. Earlier removals can therefore repeat a label.
func (d *Draft) add(kind SectionKind) *Section {
	n := 0
	for _, s := range d.sections {
		if s.Kind == kind {
			n++
		}
	}
	s := &Section{
		ID:      uuid.NewString(),
		Kind:    kind,
		Ordinal: n + 1,
		Values:  map[string]string{},
	}
	d.sections = append(d.sections, s)
	return s
}

// Remove deletes a section once the user has confirmed. Remaining sections
// keep their labels.
func (d *Draft) Remove(id string, confirmed bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.index(id)
	if i < 0 {
		return ErrSectionNotFound
	}
	if !confirmed {
		return ErrRemovalNotConfirmed
	}
	d.sections = append(d.sections[:i], d.sections[i+1:]...)
	return nil
}

// Toggle records the companion select value of a conditional group and
// reports whether the group is now visible.
func (d *Draft) Toggle(id, group, value string) (Section, Group, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.index(id)
	if i < 0 {
		return Section{}, Group{}, false, ErrSectionNotFound
	}
	s := d.sections[i]
	g, ok := s.Schema().Group(group)
	if !ok {
		return Section{}, Group{}, false, ErrUnknownGroup
	}
	s.Values[g.Trigger.Key] = value
	return s.clone(), g, GroupVisible(value), nil
}

// SetDateOfBirth stores a child's date of birth and its derived age as of
// today. An invalid or future date clears the age.
func (d *Draft) SetDateOfBirth(id, dob string, today time.Time) (Section, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.index(id)
	if i < 0 {
		return Section{}, ErrSectionNotFound
	}
	s := d.sections[i]
	if s.Kind != KindChild {
		return Section{}, ErrNotChildSection
	}
	s.Values[domain.KeyDateOfBirth] = dob
	s.Values[domain.KeyAge] = AgeText(dob, today)
	return s.clone(), nil
}

func (d *Draft) Section(id string) (Section, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.index(id)
	if i < 0 {
		return Section{}, false
	}
	return d.sections[i].clone(), true
}

// Sections returns the present sections of kind in form order.
func (d *Draft) Sections(kind SectionKind) []Section {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []Section
	for _, s := range d.sections {
		if s.Kind == kind {
			out = append(out, s.clone())
		}
	}
	return out
}

// Sync records posted section inputs so re-rendered fragments keep what
// the user typed. Names that do not match a section input are ignored.
func (d *Draft) Sync(form url.Values) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for name, v := range form {
		id, key, ok := strings.Cut(name, ".")
		if !ok || len(v) == 0 {
			continue
		}
		i := d.index(id)
		if i < 0 || !slices.Contains(d.sections[i].Schema().Keys(), key) {
			continue
		}
		d.sections[i].Values[key] = v[0]
	}
}

// Reset empties the draft and adds back one Member section.
func (d *Draft) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sections = nil
	d.add(KindMember)
}

func (d *Draft) index(id string) int {
	for i, s := range d.sections {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Collect builds the write payload from posted form values: the household
// from its three named inputs, then one mapping per present section in form
// order with every tagged input of that section. Inputs missing from the
// post fall back to what the draft recorded, then to "".
func (d *Draft) Collect(form url.Values) *domain.Payload {
	d.mu.Lock()
	defer d.mu.Unlock()

	p := &domain.Payload{
		Household: domain.Fields{
			{Key: domain.KeyBlockName, Value: form.Get(InputBlockName)},
			{Key: domain.KeyAddress, Value: form.Get(InputAddress)},
			{Key: domain.KeyContactNo, Value: form.Get(InputContactNo)},
		},
		Members:  []domain.Fields{},
		Children: []domain.Fields{},
	}
	for _, s := range d.sections {
		f := collectSection(s, form)
		if s.Kind == KindChild {
			p.Children = append(p.Children, f)
		} else {
			p.Members = append(p.Members, f)
		}
	}
	return p
}

func collectSection(s *Section, form url.Values) domain.Fields {
	keys := s.Schema().Keys()
	f := make(domain.Fields, 0, len(keys))
	for _, k := range keys {
		name := s.InputName(k)
		v, posted := form[name]
		val := s.Values[k]
		if posted && len(v) > 0 {
			val = v[0]
		}
		f = append(f, domain.Field{Key: k, Value: val})
	}
	return f
}
