package form

import "net/http"

// Mode is what a form is opened for.
type Mode int

const (
	Create Mode = iota
	Edit
	Login
)

func (m Mode) String() string {
	switch m {
	case Create:
		return "create"
	case Edit:
		return "edit"
	case Login:
		return "login"
	}
	return "unknown"
}

// Action names that can appear in a mask next to field names.
const (
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionDestroy = "destroy"
	ActionLogin   = "login"
)

// Mutating reports whether action changes server state.
func Mutating(action string) bool {
	switch action {
	case ActionCreate, ActionUpdate, ActionDestroy:
		return true
	}
	return false
}

// Table is the static visibility table of one entity: the field and
// action names shown in each mode.
type Table struct {
	Create []string
	Edit   []string
	Login  []string
}

func (t Table) For(m Mode) []string {
	switch m {
	case Create:
		return t.Create
	case Edit:
		return t.Edit
	case Login:
		return t.Login
	}
	return nil
}

var (
	AdTable = Table{
		Create: []string{"gender", "bodyPart", "type", "title", "description", "photo", ActionCreate},
		Edit:   []string{"id", "gender", "bodyPart", "type", "title", "description", "isGiven", "photo", ActionUpdate, ActionDestroy},
	}
	UserTable = Table{
		Create: []string{"email", "password", "name", ActionCreate},
		Edit:   []string{"id", "email", "password", "name", ActionUpdate, ActionDestroy},
		Login:  []string{"email", "password", ActionLogin},
	}
)

// Mask maps field and action names to visibility.
type Mask map[string]bool

// Compute builds the mask of mode. Guests never get a mutating action.
func Compute(t Table, m Mode, authenticated bool) Mask {
	mask := Mask{}
	for _, key := range t.For(m) {
		mask[key] = authenticated || !Mutating(key)
	}
	return mask
}

// Actions lists the visible actions of the mask in a stable order.
func (m Mask) Actions() []string {
	var out []string
	for _, a := range []string{ActionCreate, ActionUpdate, ActionDestroy, ActionLogin} {
		if m[a] {
			out = append(out, a)
		}
	}
	return out
}

// Descriptor is the request a submission turns into.
type Descriptor struct {
	Name string
	Path string
	Verb string
}

// SessionPath is where logins are posted.
const SessionPath = "/userSession"

// Action returns the submit request of mode for the collection at path.
func Action(m Mode, path, id string) Descriptor {
	switch m {
	case Create:
		return Descriptor{Name: ActionCreate, Path: path, Verb: http.MethodPost}
	case Edit:
		return Descriptor{Name: ActionUpdate, Path: path + "/" + id, Verb: http.MethodPut}
	case Login:
		return Descriptor{Name: ActionLogin, Path: SessionPath, Verb: http.MethodPost}
	}
	return Descriptor{}
}

// DestroyAction is the request deleting record id.
func DestroyAction(path, id string) Descriptor {
	return Descriptor{Name: ActionDestroy, Path: path + "/" + id, Verb: http.MethodDelete}
}
