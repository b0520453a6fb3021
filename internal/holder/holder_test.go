package holder

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/pixil98/go-testutil"
	"github.com/pixil98/item-piles/internal/record"
	"github.com/pixil98/item-piles/internal/storage"
)

// mockStore implements storage.Storer for testing
type mockStore[T storage.ValidatingSpec] struct {
	docs map[string]T
}

func (m *mockStore[T]) Get(id string) T {
	return m.docs[id]
}

func (m *mockStore[T]) GetAll() map[storage.Identifier]T {
	out := make(map[storage.Identifier]T, len(m.docs))
	for k, v := range m.docs {
		out[storage.Identifier(k)] = v
	}
	return out
}

func (m *mockStore[T]) Save(id string, v T) error {
	m.docs[id] = v
	return nil
}

func (m *mockStore[T]) Delete(id string) error {
	delete(m.docs, id)
	return nil
}

func TestRef_Text(t *testing.T) {
	tests := map[string]struct {
		text   string
		expRef Ref
		expErr string
	}{
		"actor": {
			text:   "actor:chest-1",
			expRef: ActorRef("chest-1"),
		},
		"token": {
			text:   "token:tok-9",
			expRef: TokenRef("tok-9"),
		},
		"unknown kind": {
			text:   "scene:abc",
			expErr: "unknown holder kind: scene",
		},
		"missing id": {
			text:   "actor:",
			expErr: "invalid holder reference",
		},
		"no separator": {
			text:   "chest-1",
			expErr: "invalid holder reference",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ref, err := ParseRef(tt.text)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "ref", ref, tt.expRef)
			testutil.AssertEqual(t, "string", ref.String(), tt.text)
		})
	}
}

func TestRef_JSON(t *testing.T) {
	var body struct {
		Holder Ref `json:"holder"`
	}
	if err := json.Unmarshal([]byte(`{"holder":"token:t1"}`), &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "ref", body.Holder, TokenRef("t1"))

	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "json", string(b), `{"holder":"token:t1"}`)
}

func newTestResolver() (*Resolver, *mockStore[*Actor], *mockStore[*Token]) {
	chest := &Actor{
		Name:       "Chest",
		Items:      []record.Record{{"_id": "i1", "name": "Torch"}},
		Attributes: record.Record{},
		Token:      Appearance{Name: "Chest", Img: "chest.png", Scale: 1},
	}
	goblin := &Actor{Name: "Goblin", Attributes: record.Record{}}

	actors := &mockStore[*Actor]{docs: map[string]*Actor{"chest": chest, "goblin": goblin}}
	tokens := &mockStore[*Token]{docs: map[string]*Token{
		"tok-b":   {Actor: storage.NewResolvedSmartIdentifier("chest", chest), ActorLink: true},
		"tok-a":   {Actor: storage.NewResolvedSmartIdentifier("chest", chest), ActorLink: true},
		"gob-1":   {Actor: storage.NewResolvedSmartIdentifier("goblin", goblin)},
		"gob-2":   {Actor: storage.NewResolvedSmartIdentifier("goblin", goblin), Delta: &Actor{Name: "Goblin", Items: []record.Record{{"_id": "g1", "name": "Dagger"}}}},
		"orphan":  {Actor: storage.NewSmartIdentifier[*Actor]("missing")},
		"dangler": {Actor: storage.NewSmartIdentifier[*Actor]("missing"), ActorLink: true},
	}}
	return NewResolver(actors, tokens), actors, tokens
}

func TestResolver_Resolve(t *testing.T) {
	tests := map[string]struct {
		ref       Ref
		expRef    Ref
		expTokens []string
		expItems  int
		expErr    error
	}{
		"actor with linked tokens": {
			ref:       ActorRef("chest"),
			expRef:    ActorRef("chest"),
			expTokens: []string{"tok-a", "tok-b"},
			expItems:  1,
		},
		"linked token resolves to actor": {
			ref:       TokenRef("tok-b"),
			expRef:    ActorRef("chest"),
			expTokens: []string{"tok-a", "tok-b"},
			expItems:  1,
		},
		"unlinked token without delta uses base actor": {
			ref:       TokenRef("gob-1"),
			expRef:    TokenRef("gob-1"),
			expTokens: []string{"gob-1"},
			expItems:  0,
		},
		"unlinked token with delta": {
			ref:       TokenRef("gob-2"),
			expRef:    TokenRef("gob-2"),
			expTokens: []string{"gob-2"},
			expItems:  1,
		},
		"actor without tokens": {
			ref:      ActorRef("goblin"),
			expRef:   ActorRef("goblin"),
			expItems: 0,
		},
		"missing actor": {
			ref:    ActorRef("nope"),
			expErr: ErrHolderNotFound,
		},
		"missing token": {
			ref:    TokenRef("nope"),
			expErr: ErrHolderNotFound,
		},
		"unlinked token of missing actor": {
			ref:    TokenRef("orphan"),
			expErr: ErrHolderNotFound,
		},
		"linked token of missing actor": {
			ref:    TokenRef("dangler"),
			expErr: ErrHolderNotFound,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r, _, _ := newTestResolver()

			h, err := r.Resolve(tt.ref)
			if tt.expErr != nil {
				if !errors.Is(err, tt.expErr) {
					t.Fatalf("expected %v, got %v", tt.expErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			testutil.AssertEqual(t, "ref", h.Ref, tt.expRef)
			testutil.AssertEqual(t, "synthetic", h.Synthetic(), tt.expRef.Kind == RefToken)
			testutil.AssertEqual(t, "items", len(h.Actor.Items), tt.expItems)
			testutil.AssertEqual(t, "token count", len(h.Tokens), len(tt.expTokens))
			for i, id := range tt.expTokens {
				testutil.AssertEqual(t, "token", h.Tokens[i].Id, id)
			}
		})
	}
}

func TestResolver_ResolveReturnsCopy(t *testing.T) {
	r, actors, _ := newTestResolver()

	h, err := r.Resolve(ActorRef("chest"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h.Actor.Items[0]["name"] = "Changed"
	h.Actor.Attributes.Set("data.gp", 3)

	testutil.AssertEqual(t, "stored name", actors.docs["chest"].Items[0].Name(), "Torch")
	testutil.AssertEqual(t, "stored attrs", actors.docs["chest"].Attributes.Has("data.gp"), false)
}

func TestActor_Validate(t *testing.T) {
	tests := map[string]struct {
		actor  *Actor
		expErr string
	}{
		"valid": {
			actor: &Actor{Name: "Chest", Items: []record.Record{{"_id": "a"}, {"_id": "b"}}},
		},
		"missing name": {
			actor:  &Actor{},
			expErr: "actor name is required",
		},
		"item without id": {
			actor:  &Actor{Name: "Chest", Items: []record.Record{{"name": "Torch"}}},
			expErr: "item 0: _id is required",
		},
		"duplicate ids": {
			actor:  &Actor{Name: "Chest", Items: []record.Record{{"_id": "a"}, {"_id": "a"}}},
			expErr: `item 1: duplicate _id "a"`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.actor.Validate()
			if tt.expErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			testutil.AssertErrorContains(t, err, tt.expErr)
		})
	}
}

func TestActor_UnmarshalDefaults(t *testing.T) {
	var a Actor
	if err := json.Unmarshal([]byte(`{"name":"Chest","token":{"img":"chest.png"}}`), &a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "attributes", a.Attributes != nil, true)
	testutil.AssertEqual(t, "scale", a.Token.Scale, 1.0)
	testutil.AssertEqual(t, "img", a.Token.Img, "chest.png")
}

func TestResolver_Refs(t *testing.T) {
	r, _, _ := newTestResolver()

	got := r.Refs()
	exp := []Ref{
		ActorRef("chest"),
		ActorRef("goblin"),
		TokenRef("gob-1"),
		TokenRef("gob-2"),
		TokenRef("orphan"),
	}
	if len(got) != len(exp) {
		t.Fatalf("refs: got %v, expected %v", got, exp)
	}
	for i := range exp {
		testutil.AssertEqual(t, "ref", got[i], exp[i])
	}
}
