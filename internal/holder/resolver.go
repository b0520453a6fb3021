package holder

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/pixil98/item-piles/internal/storage"
)

var ErrHolderNotFound = errors.New("holder not found")

// TokenHandle is a token that needs its display refreshed when the
// holder changes.
type TokenHandle struct {
	Id    string
	Token *Token
}

// Holder is the canonical owner of persistent item and attribute state.
// Actor is a private copy; changes are written back through a committer.
type Holder struct {
	// Ref is canonical: an actor, or an unlinked token
	Ref    Ref
	Actor  *Actor
	Tokens []TokenHandle
}

// Key identifies the holder for locking and event subjects.
func (h *Holder) Key() string {
	return h.Ref.String()
}

// Synthetic reports whether the state lives on an unlinked token.
func (h *Holder) Synthetic() bool {
	return h.Ref.Kind == RefToken
}

// Resolver turns any holder reference into its canonical holder.
type Resolver struct {
	actors storage.Storer[*Actor]
	tokens storage.Storer[*Token]
}

func NewResolver(actors storage.Storer[*Actor], tokens storage.Storer[*Token]) *Resolver {
	return &Resolver{actors: actors, tokens: tokens}
}

// Canonical returns the reference of the document that owns the state
// behind ref: the actor for actors and linked tokens, the token itself for
// unlinked tokens.
func (r *Resolver) Canonical(ref Ref) (Ref, error) {
	switch ref.Kind {
	case RefActor:
		if r.actors.Get(ref.Id) == nil {
			return Ref{}, fmt.Errorf("%w: %s", ErrHolderNotFound, ref)
		}
		return ref, nil
	case RefToken:
		tok := r.tokens.Get(ref.Id)
		if tok == nil {
			return Ref{}, fmt.Errorf("%w: %s", ErrHolderNotFound, ref)
		}
		if tok.ActorLink {
			return r.Canonical(ActorRef(tok.Actor.Key()))
		}
		return ref, nil
	default:
		return Ref{}, fmt.Errorf("unknown holder kind: %s", ref.Kind)
	}
}

// Resolve returns the canonical holder behind ref along with every token
// that displays it.
func (r *Resolver) Resolve(ref Ref) (*Holder, error) {
	canon, err := r.Canonical(ref)
	if err != nil {
		return nil, err
	}

	if canon.Kind == RefActor {
		return &Holder{
			Ref:    canon,
			Actor:  r.actors.Get(canon.Id).Clone(),
			Tokens: r.linkedTokens(canon.Id),
		}, nil
	}

	tok := r.tokens.Get(canon.Id)
	actor := tok.Delta
	if actor == nil {
		base := r.actors.Get(tok.Actor.Key())
		if base == nil {
			return nil, fmt.Errorf("%w: actor %q of %s", ErrHolderNotFound, tok.Actor.Key(), canon)
		}
		actor = base
	}

	return &Holder{
		Ref:    canon,
		Actor:  actor.Clone(),
		Tokens: []TokenHandle{{Id: canon.Id, Token: tok}},
	}, nil
}

// Refs returns every canonical holder: all actors followed by all
// unlinked tokens, each group sorted by id.
func (r *Resolver) Refs() []Ref {
	var actors, tokens []Ref
	for id := range r.actors.GetAll() {
		actors = append(actors, ActorRef(id.String()))
	}
	for id, tok := range r.tokens.GetAll() {
		if !tok.ActorLink {
			tokens = append(tokens, TokenRef(id.String()))
		}
	}
	slices.SortFunc(actors, compareRefs)
	slices.SortFunc(tokens, compareRefs)
	return append(actors, tokens...)
}

func compareRefs(a, b Ref) int {
	return strings.Compare(a.Id, b.Id)
}

func (r *Resolver) linkedTokens(actorId string) []TokenHandle {
	var out []TokenHandle
	for id, tok := range r.tokens.GetAll() {
		if tok.ActorLink && tok.Actor.Key() == actorId {
			out = append(out, TokenHandle{Id: id.String(), Token: tok})
		}
	}
	slices.SortFunc(out, func(a, b TokenHandle) int {
		return strings.Compare(a.Id, b.Id)
	})
	return out
}
