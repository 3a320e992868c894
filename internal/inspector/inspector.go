// Package inspector serves a development view of a live reconciler: the
// current virtual tree, recent patch batches, prometheus metrics and a
// websocket feed of batches as they are applied.
//
//	in := inspector.New(inspector.Options{Gatherer: reg})
//	r := native.NewReconciler(tk, native.WithObserver(in.Observe))
//	http.ListenAndServe(addr, in.Handler())
//
// Routes:
//
//	GET /tree          current tree as JSON, or YAML with ?format=yaml
//	GET /render        current tree drawn as text, when a renderer is set
//	GET /batches       recent batches, oldest first
//	GET /batches/{id}  one batch by id
//	GET /metrics       prometheus exposition
//	GET /ws            websocket feed, replaying recent batches first
package inspector

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/native/internal/treefile"
	"github.com/vango-dev/native/pkg/native"
	"github.com/vango-dev/native/pkg/vdom"
)

// Options configures an Inspector.
type Options struct {
	Logger *slog.Logger

	// Gatherer backs /metrics. Defaults to prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer

	// History is the number of batches kept for replay. Defaults to 64.
	History int

	// Render draws a tree as text for /render.
	Render func(*vdom.VNode) []string
}

// Inspector records reconciler batches and serves them over HTTP.
type Inspector struct {
	log      *slog.Logger
	gatherer prometheus.Gatherer
	render   func(*vdom.VNode) []string
	feed     *feed

	mu      sync.Mutex
	tree    *vdom.VNode
	seq     uint64
	history []Message
	limit   int
}

// New creates an Inspector.
func New(opts Options) *Inspector {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "inspector")
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	if opts.History <= 0 {
		opts.History = 64
	}
	return &Inspector{
		log:      log,
		gatherer: opts.Gatherer,
		render:   opts.Render,
		feed:     newFeed(log),
		limit:    opts.History,
	}
}

// SetTree records a freshly mounted tree and tells feed clients about it.
func (in *Inspector) SetTree(tree *vdom.VNode) {
	in.publish(MessageTree, native.Batch{Next: tree})
}

// Observe records a batch. Pass it to native.WithObserver.
func (in *Inspector) Observe(b native.Batch) {
	in.publish(MessageBatch, b)
}

func (in *Inspector) publish(t MessageType, b native.Batch) {
	in.mu.Lock()
	in.seq++
	msg := newMessage(t, in.seq, b)
	if b.Err == nil {
		in.tree = b.Next
	}
	in.history = append(in.history, msg)
	if len(in.history) > in.limit {
		in.history = in.history[len(in.history)-in.limit:]
	}
	in.mu.Unlock()

	in.log.Debug("batch recorded", "seq", msg.Seq, "patches", len(msg.Patches), "error", msg.Error)
	in.feed.broadcast(msg)
}

// History returns the recorded batches, oldest first.
func (in *Inspector) History() []Message {
	in.mu.Lock()
	defer in.mu.Unlock()
	out := make([]Message, len(in.history))
	copy(out, in.history)
	return out
}

// Tree returns the last tree the native side is known to match.
func (in *Inspector) Tree() *vdom.VNode {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.tree
}

// Clients returns the number of connected feed clients.
func (in *Inspector) Clients() int {
	return in.feed.count()
}

// Close disconnects all feed clients.
func (in *Inspector) Close() {
	in.feed.close()
}

// Handler returns the inspector's routes.
func (in *Inspector) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/tree", in.handleTree)
	r.Get("/render", in.handleRender)
	r.Route("/batches", func(r chi.Router) {
		r.Get("/", in.handleBatches)
		r.Get("/{id}", in.handleBatch)
	})
	r.Handle("/metrics", promhttp.HandlerFor(in.gatherer, promhttp.HandlerOpts{}))
	r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
		in.feed.serve(w, req, in.History)
	})
	return r
}

func (in *Inspector) handleTree(w http.ResponseWriter, r *http.Request) {
	tree := in.Tree()
	if tree == nil {
		http.Error(w, "no tree mounted", http.StatusNotFound)
		return
	}
	if r.URL.Query().Get("format") == "yaml" {
		data, err := treefile.Encode(tree)
		if err != nil {
			in.log.Error("encode tree", "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(data)
		return
	}
	in.writeJSON(w, toJSON(tree))
}

func (in *Inspector) handleRender(w http.ResponseWriter, r *http.Request) {
	tree := in.Tree()
	if in.render == nil || tree == nil {
		http.Error(w, "nothing to render", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(strings.Join(in.render(tree), "\n") + "\n"))
}

func (in *Inspector) handleBatches(w http.ResponseWriter, r *http.Request) {
	in.writeJSON(w, in.History())
}

func (in *Inspector) handleBatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	for _, msg := range in.History() {
		if msg.ID == id {
			in.writeJSON(w, msg)
			return
		}
	}
	http.Error(w, "batch not found", http.StatusNotFound)
}

func (in *Inspector) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		in.log.Debug("write response", "error", err)
	}
}

// NodeJSON is the JSON form of a virtual node served by /tree.
type NodeJSON struct {
	Text     string            `json:"text,omitempty"`
	Tag      string            `json:"tag,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Children []NodeJSON        `json:"children,omitempty"`
}

func toJSON(v *vdom.VNode) NodeJSON {
	if v.IsText() {
		return NodeJSON{Text: v.Text}
	}
	n := NodeJSON{Tag: v.Tag.String()}
	for _, a := range vdom.EffectiveAttrs(v.Attrs) {
		if n.Attrs == nil {
			n.Attrs = make(map[string]string)
		}
		n.Attrs[a.Key.String()] = attrText(a)
	}
	for _, c := range v.Children {
		if c != nil {
			n.Children = append(n.Children, toJSON(c))
		}
	}
	return n
}
