// Package form holds the single draft a manager edits, projects it through
// a mode-dependent mask and turns a submission into a request descriptor.
package form

import (
	"errors"
	"fmt"
	"maps"

	"github.com/dmitrijs2005/donadmin/internal/client/models"
)

var (
	// ErrGuest is returned when a guest tries a mutating action.
	ErrGuest = errors.New("sign in to do that")
	// ErrInvalid is returned when client-side validation fails; see Errors.
	ErrInvalid = errors.New("form has invalid fields")
	// ErrHidden is returned when editing a field the mode does not show.
	ErrHidden = errors.New("field is not part of this form")
)

// Form holds the draft record and field errors of one detail view.
type Form[T models.Record[T]] struct {
	table      Table
	path       string
	template   T
	draft      T
	mode       Mode
	validators map[string]Validator
	errors     map[string]string
}

// New returns a form over the collection at path whose draft starts as
// template.
func New[T models.Record[T]](table Table, path string, template T) *Form[T] {
	return &Form[T]{
		table:      table,
		path:       path,
		template:   template,
		draft:      template,
		validators: map[string]Validator{},
		errors:     map[string]string{},
	}
}

// WithValidator registers a check run on Set and before submission.
func (f *Form[T]) WithValidator(field string, v Validator) *Form[T] {
	f.validators[field] = v
	return f
}

func (f *Form[T]) Mode() Mode { return f.mode }

func (f *Form[T]) SetMode(m Mode) { f.mode = m }

func (f *Form[T]) Draft() T { return f.draft }

// Load replaces the draft, e.g. with the record of the detail view.
func (f *Form[T]) Load(rec T) {
	f.draft = rec
	clear(f.errors)
}

// Reset puts the template back as the draft.
func (f *Form[T]) Reset() {
	f.Load(f.template)
}

func (f *Form[T]) Template() T { return f.template }

// Set edits one field of the draft. Validation failures are recorded
// against the field but the value is kept, as a text input would.
func (f *Form[T]) Set(field, text string) error {
	if !f.visible(field) {
		return fmt.Errorf("%w: %s", ErrHidden, field)
	}
	next, err := f.draft.With(field, text)
	if err != nil {
		return err
	}
	f.draft = next
	f.check(field, text)
	return nil
}

func (f *Form[T]) visible(field string) bool {
	for _, k := range f.table.For(f.mode) {
		if k == field {
			return true
		}
	}
	return false
}

func (f *Form[T]) check(field, text string) bool {
	v, ok := f.validators[field]
	if !ok {
		return true
	}
	if msg := v(text); msg != "" {
		f.errors[field] = msg
		return false
	}
	delete(f.errors, field)
	return true
}

// Validate runs every validator of a visible field against the draft.
func (f *Form[T]) Validate() error {
	valid := true
	for field := range f.validators {
		if !f.visible(field) {
			continue
		}
		text, _ := f.draft.Value(field).(string)
		if !f.check(field, text) {
			valid = false
		}
	}
	if !valid {
		return ErrInvalid
	}
	return nil
}

// Errors returns field annotations from the last Set or Validate.
func (f *Form[T]) Errors() map[string]string {
	return maps.Clone(f.errors)
}

// Mask is the visibility of fields and actions for the current mode.
func (f *Form[T]) Mask(authenticated bool) Mask {
	return Compute(f.table, f.mode, authenticated)
}

// Submit checks the draft can be sent and returns where to send it.
// Guests get ErrGuest for anything but a login; invalid drafts get
// ErrInvalid and never reach the network.
func (f *Form[T]) Submit(authenticated bool) (Descriptor, error) {
	d := Action(f.mode, f.path, f.draft.GetID())
	if err := f.allowed(d.Name, authenticated); err != nil {
		return Descriptor{}, err
	}
	if err := f.Validate(); err != nil {
		return Descriptor{}, err
	}
	return d, nil
}

// Destroy returns the delete request for the draft.
func (f *Form[T]) Destroy(authenticated bool) (Descriptor, error) {
	if err := f.allowed(ActionDestroy, authenticated); err != nil {
		return Descriptor{}, err
	}
	return DestroyAction(f.path, f.draft.GetID()), nil
}

func (f *Form[T]) allowed(action string, authenticated bool) error {
	shown, ok := f.Mask(authenticated)[action]
	switch {
	case !ok:
		return fmt.Errorf("%w: %s", ErrHidden, action)
	case !shown:
		return ErrGuest
	}
	return nil
}
