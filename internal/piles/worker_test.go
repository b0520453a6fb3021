package piles

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
	"github.com/pixil98/item-piles/internal/record"
)

// fakeServer implements RequestServer for testing
type fakeServer struct {
	mu       sync.Mutex
	ready    chan struct{}
	handlers map[string]func([]byte) []byte
	active   chan struct{}
}

func newFakeServer() *fakeServer {
	s := &fakeServer{
		ready:    make(chan struct{}),
		handlers: map[string]func([]byte) []byte{},
		active:   make(chan struct{}, 16),
	}
	close(s.ready)
	return s
}

func (s *fakeServer) Ready() <-chan struct{} {
	return s.ready
}

func (s *fakeServer) Handle(subject string, h func([]byte) []byte) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[subject] = h
	s.active <- struct{}{}
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.handlers, subject)
	}, nil
}

func (s *fakeServer) request(t *testing.T, subject string, body string) Response {
	t.Helper()

	s.mu.Lock()
	h, ok := s.handlers[subject]
	s.mu.Unlock()
	if !ok {
		t.Fatalf("no handler for %s", subject)
	}

	var resp Response
	if err := json.Unmarshal(h([]byte(body)), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return resp
}

func startWorker(t *testing.T, f *fixture) *fakeServer {
	t.Helper()

	srv := newFakeServer()
	w := NewWorker(f.manager, srv)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	for i := 0; i < 6; i++ {
		select {
		case <-srv.active:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for subscriptions")
		}
	}
	return srv
}

func TestWorker_Requests(t *testing.T) {
	tests := map[string]struct {
		subject  string
		body     string
		expErr   string
		expType  string
		expTorch int
		expGold  int
	}{
		"add items": {
			subject:  SubjectAddItems,
			body:     `{"holder":"actor:chest","items":[{"item":{"name":"Torch","type":"loot"},"quantity":3}]}`,
			expType:  "items.added",
			expTorch: 5,
			expGold:  10,
		},
		"remove items": {
			subject:  SubjectRemoveItems,
			body:     `{"holder":"token:chest-tok","items":[{"_id":"torch","quantity":1}]}`,
			expType:  "items.removed",
			expTorch: 1,
			expGold:  10,
		},
		"add attributes": {
			subject:  SubjectAddAttributes,
			body:     `{"holder":"actor:chest","attributes":{"data.currency.gp":5}}`,
			expType:  "attributes.added",
			expTorch: 2,
			expGold:  15,
		},
		"remove attributes": {
			subject:  SubjectRemoveAttributes,
			body:     `{"holder":"actor:chest","attributes":{"data.currency.gp":4}}`,
			expType:  "attributes.removed",
			expTorch: 2,
			expGold:  6,
		},
		"transfer": {
			subject:  SubjectTransfer,
			body:     `{"source":"actor:chest","target":"actor:aria","items":[{"_id":"torch","quantity":2}],"attributes":{"data.currency.gp":3}}`,
			expType:  "transfer",
			expTorch: 0,
			expGold:  7,
		},
		"transfer all": {
			subject:  SubjectTransferAll,
			body:     `{"source":"actor:chest","target":"actor:aria"}`,
			expType:  "transfer",
			expTorch: 0,
			expGold:  0,
		},
		"bad holder": {
			subject: SubjectAddItems,
			body:    `{"holder":"scene:x","items":[]}`,
			expErr:  "decoding request",
		},
		"unknown holder": {
			subject: SubjectRemoveAttributes,
			body:    `{"holder":"actor:nobody","attributes":{"data.currency.gp":1}}`,
			expErr:  "holder not found",
		},
		"negative quantity": {
			subject: SubjectRemoveItems,
			body:    `{"holder":"actor:chest","items":[{"_id":"torch","quantity":-1}]}`,
			expErr:  "quantity must not be negative",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, enabled())
			srv := startWorker(t, f)

			resp := srv.request(t, tt.subject, tt.body)
			if tt.expErr != "" {
				if resp.Error == "" {
					t.Fatalf("expected error containing %q", tt.expErr)
				}
				testutil.AssertEqual(t, "errors published", len(f.pub.errors), 1)
				var fail failure
				if err := json.Unmarshal(f.pub.errors[0], &fail); err != nil {
					t.Fatalf("decoding failure: %v", err)
				}
				testutil.AssertEqual(t, "failure subject", fail.Subject, tt.subject)
				testutil.AssertEqual(t, "failure error", fail.Error, resp.Error)
				if !strings.Contains(resp.Error, tt.expErr) {
					t.Errorf("error %q does not contain %q", resp.Error, tt.expErr)
				}
				return
			}
			if resp.Error != "" {
				t.Fatalf("unexpected error: %s", resp.Error)
			}

			testutil.AssertEqual(t, "type", resp.Change.Type, tt.expType)

			chest := f.actors.Get("chest")
			torch := 0
			if it := chest.Item("torch"); it != nil {
				torch = record.GetQuantity(it, qtyPath)
			}
			testutil.AssertEqual(t, "torch", torch, tt.expTorch)
			testutil.AssertEqual(t, "gold", record.GetQuantity(chest.Attributes, "data.currency.gp"), tt.expGold)
		})
	}
}
