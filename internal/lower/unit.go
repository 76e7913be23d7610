package lower

import (
	"fmt"
	"strconv"

	"declower/internal/decl"
	"declower/internal/rt"
	"declower/internal/trace"
)

// FileUnit is one lowered unit bound to a namespace path ("" is the root).
type FileUnit struct {
	Path      string
	Members   *MemberTable
	Actions   []Action
	Public    *PublicSurface
	Accessors []rt.Entry
}

// Assemble binds a classification result to path.
func Assemble(path string, res *Result) *FileUnit {
	return &FileUnit{
		Path:      path,
		Members:   res.Members,
		Actions:   res.Actions,
		Public:    res.Public,
		Accessors: res.Accessors,
	}
}

// Lower classifies decls and assembles the unit for path.
func Lower(path string, decls []decl.Declaration, opts Options) (*FileUnit, error) {
	span := trace.Begin(opts.Tracer, trace.ScopeUnit, "lower:"+path, opts.Parent)
	res, err := Classify(decls, opts)
	if err != nil {
		span.End("failed")
		return nil, err
	}
	u := Assemble(path, res)
	span.WithExtra("members", strconv.Itoa(u.Members.Len())).
		WithExtra("actions", strconv.Itoa(len(u.Actions))).
		WithExtra("public", strconv.Itoa(u.Public.Len())).
		End("")
	return u, nil
}

// Initializer returns the unit's initializer, or nil when there is nothing
// to run. A nil initializer installs the unit without first-use work.
func (u *FileUnit) Initializer() rt.Initializer {
	if len(u.Actions) == 0 {
		return nil
	}
	actions := u.Actions
	return func(r *rt.Runtime, ns *rt.Namespace) error {
		for _, a := range actions {
			if err := a.run(r, ns); err != nil {
				return err
			}
		}
		return nil
	}
}

// Entries returns everything the unit binds in its namespace: the member
// table followed by property accessors.
func (u *FileUnit) Entries() []rt.Entry {
	entries := u.Members.Entries()
	return append(entries, u.Accessors...)
}

// Install adds the unit to r as one package part.
func (u *FileUnit) Install(r *rt.Runtime) (*rt.Part, error) {
	p, err := r.AddPackagePart(u.Path, u.Entries(), u.Initializer())
	if err != nil {
		return nil, fmt.Errorf("install %q: %w", u.Path, err)
	}
	return p, nil
}
