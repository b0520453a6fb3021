package holder

import (
	"fmt"
	"strings"
)

// RefKind says what kind of document a Ref points at.
type RefKind int

const (
	RefActor RefKind = iota
	RefToken
)

func (k RefKind) String() string {
	switch k {
	case RefActor:
		return "actor"
	case RefToken:
		return "token"
	default:
		return fmt.Sprintf("RefKind(%d)", int(k))
	}
}

// Ref points at something that can hold items: an actor directly, or a
// token standing in for one. Its text form is "actor:<id>" or
// "token:<id>".
type Ref struct {
	Kind RefKind
	Id   string
}

func ActorRef(id string) Ref {
	return Ref{Kind: RefActor, Id: id}
}

func TokenRef(id string) Ref {
	return Ref{Kind: RefToken, Id: id}
}

func ParseRef(s string) (Ref, error) {
	var r Ref
	err := r.UnmarshalText([]byte(s))
	return r, err
}

func (r Ref) String() string {
	return fmt.Sprintf("%s:%s", r.Kind, r.Id)
}

func (r Ref) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Ref) UnmarshalText(text []byte) error {
	kind, id, ok := strings.Cut(string(text), ":")
	if !ok || id == "" {
		return fmt.Errorf("invalid holder reference %q", text)
	}

	switch kind {
	case "actor":
		r.Kind = RefActor
	case "token":
		r.Kind = RefToken
	default:
		return fmt.Errorf("unknown holder kind: %s", kind)
	}
	r.Id = id
	return nil
}
