package piles

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/pixil98/item-piles/internal/holder"
	"github.com/pixil98/item-piles/internal/reconcile"
)

// Request subjects
const (
	SubjectAddItems         = "piles.items.add"
	SubjectRemoveItems      = "piles.items.remove"
	SubjectAddAttributes    = "piles.attributes.add"
	SubjectRemoveAttributes = "piles.attributes.remove"
	SubjectTransfer         = "piles.transfer"
	SubjectTransferAll      = "piles.transfer.all"
)

// RequestServer is the transport requests arrive on.
type RequestServer interface {
	Ready() <-chan struct{}
	Handle(subject string, handler func(data []byte) []byte) (func(), error)
}

type addItemsRequest struct {
	Holder holder.Ref           `json:"holder"`
	Items  []reconcile.Incoming `json:"items"`
}

type removeItemsRequest struct {
	Holder holder.Ref          `json:"holder"`
	Items  []reconcile.Removal `json:"items"`
}

type attributesRequest struct {
	Holder     holder.Ref     `json:"holder"`
	Attributes map[string]int `json:"attributes"`
}

type transferRequest struct {
	Source     holder.Ref          `json:"source"`
	Target     holder.Ref          `json:"target"`
	Items      []reconcile.Removal `json:"items"`
	Attributes map[string]int      `json:"attributes"`
}

// Response is the reply to every request.
type Response struct {
	Change *Change `json:"change,omitempty"`
	Error  string  `json:"error,omitempty"`
}

// failure is published on the error subject.
type failure struct {
	Subject string `json:"subject"`
	Error   string `json:"error"`
}

// Worker serves PileManager operations over a RequestServer.
type Worker struct {
	manager *PileManager
	server  RequestServer
}

func NewWorker(m *PileManager, s RequestServer) *Worker {
	return &Worker{manager: m, server: s}
}

// Start subscribes to every request subject and serves until ctx is
// cancelled.
func (w *Worker) Start(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return nil
	case <-w.server.Ready():
	}

	handlers := map[string]func(context.Context, []byte) (*Change, error){
		SubjectAddItems:         w.addItems,
		SubjectRemoveItems:      w.removeItems,
		SubjectAddAttributes:    w.addAttributes,
		SubjectRemoveAttributes: w.removeAttributes,
		SubjectTransfer:         w.transfer,
		SubjectTransferAll:      w.transferAll,
	}

	var unsubs []func()
	defer func() {
		for _, u := range unsubs {
			u()
		}
	}()

	for subject, h := range handlers {
		unsub, err := w.server.Handle(subject, w.wrap(ctx, subject, h))
		if err != nil {
			return fmt.Errorf("subscribing to %s: %w", subject, err)
		}
		unsubs = append(unsubs, unsub)
	}

	slog.InfoContext(ctx, "pile worker ready", "subjects", len(handlers))

	<-ctx.Done()
	return nil
}

func (w *Worker) wrap(ctx context.Context, subject string, h func(context.Context, []byte) (*Change, error)) func([]byte) []byte {
	return func(data []byte) []byte {
		change, err := h(ctx, data)

		resp := Response{Change: change}
		if err != nil {
			resp.Error = err.Error()
			slog.WarnContext(ctx, "request failed", "subject", subject, "error", err)
			w.publishFailure(ctx, subject, err)
		}

		out, merr := json.Marshal(resp)
		if merr != nil {
			slog.ErrorContext(ctx, "marshalling response", "subject", subject, "error", merr)
			return []byte(`{"error":"internal error"}`)
		}
		return out
	}
}

func (w *Worker) publishFailure(ctx context.Context, subject string, err error) {
	if w.manager.publisher == nil {
		return
	}
	data, merr := json.Marshal(failure{Subject: subject, Error: err.Error()})
	if merr != nil {
		return
	}
	if perr := w.manager.publisher.PublishError(data); perr != nil {
		slog.WarnContext(ctx, "publishing failure", "subject", subject, "error", perr)
	}
}

func decode(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding request: %w", err)
	}
	return nil
}

func (w *Worker) addItems(ctx context.Context, data []byte) (*Change, error) {
	var req addItemsRequest
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	return w.manager.AddItems(ctx, req.Holder, req.Items)
}

func (w *Worker) removeItems(ctx context.Context, data []byte) (*Change, error) {
	var req removeItemsRequest
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	return w.manager.RemoveItems(ctx, req.Holder, req.Items)
}

func (w *Worker) addAttributes(ctx context.Context, data []byte) (*Change, error) {
	var req attributesRequest
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	return w.manager.AddAttributes(ctx, req.Holder, req.Attributes)
}

func (w *Worker) removeAttributes(ctx context.Context, data []byte) (*Change, error) {
	var req attributesRequest
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	return w.manager.RemoveAttributes(ctx, req.Holder, req.Attributes)
}

func (w *Worker) transfer(ctx context.Context, data []byte) (*Change, error) {
	var req transferRequest
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	return w.manager.Transfer(ctx, req.Source, req.Target, req.Items, req.Attributes)
}

func (w *Worker) transferAll(ctx context.Context, data []byte) (*Change, error) {
	var req transferRequest
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	return w.manager.TransferEverything(ctx, req.Source, req.Target)
}
