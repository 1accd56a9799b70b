// Package logging configures the process-wide slog logger.
package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"sync"

	"github.com/fatih/color"
)

type PrettyHandlerOptions struct {
	SlogOpts slog.HandlerOptions
}

// PrettyHandler writes one line per record: time, coloured level, message,
// then the attributes as dimmed JSON.
type PrettyHandler struct {
	opts   PrettyHandlerOptions
	out    io.Writer
	mu     *sync.Mutex
	attrs  []groupedAttr
	groups []string
}

type groupedAttr struct {
	groups []string
	attr   slog.Attr
}

func NewPrettyHandler(out io.Writer, opts PrettyHandlerOptions) *PrettyHandler {
	return &PrettyHandler{opts: opts, out: out, mu: &sync.Mutex{}}
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	min := slog.LevelInfo
	if h.opts.SlogOpts.Level != nil {
		min = h.opts.SlogOpts.Level.Level()
	}
	return level >= min
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	level := r.Level.String() + ":"
	switch {
	case r.Level >= slog.LevelError:
		level = color.RedString(level)
	case r.Level >= slog.LevelWarn:
		level = color.YellowString(level)
	case r.Level >= slog.LevelInfo:
		level = color.BlueString(level)
	default:
		level = color.MagentaString(level)
	}

	fields := make(map[string]any, r.NumAttrs()+len(h.attrs))
	for _, ga := range h.attrs {
		addAttr(scopeOf(fields, ga.groups), ga.attr)
	}
	if r.NumAttrs() > 0 {
		scope := scopeOf(fields, h.groups)
		r.Attrs(func(a slog.Attr) bool {
			addAttr(scope, a)
			return true
		})
	}

	line := fmt.Sprintf("%s %s %s", r.Time.Format("[15:04:05.000]"), level, color.CyanString(r.Message))
	if len(fields) > 0 {
		b, err := json.Marshal(fields)
		if err != nil {
			return err
		}
		line += " " + color.WhiteString(string(b))
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintln(h.out, line)
	return err
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	next := *h
	next.attrs = append([]groupedAttr{}, h.attrs...)
	for _, a := range attrs {
		next.attrs = append(next.attrs, groupedAttr{groups: h.groups, attr: a})
	}
	return &next
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.groups = append(append([]string{}, h.groups...), name)
	return &next
}

// scopeOf returns the nested map for a group path, creating it as needed.
func scopeOf(fields map[string]any, groups []string) map[string]any {
	scope := fields
	for _, g := range groups {
		next, ok := scope[g].(map[string]any)
		if !ok {
			next = map[string]any{}
			scope[g] = next
		}
		scope = next
	}
	return scope
}

func addAttr(dst map[string]any, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		group := map[string]any{}
		for _, ga := range a.Value.Group() {
			addAttr(group, ga)
		}
		if a.Key == "" {
			for k, v := range group {
				dst[k] = v
			}
			return
		}
		dst[a.Key] = group
		return
	}
	switch v := a.Value.Any().(type) {
	case error:
		dst[a.Key] = v.Error()
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			dst[a.Key] = strconv.FormatFloat(v, 'g', -1, 64)
			return
		}
		dst[a.Key] = v
	default:
		dst[a.Key] = v
	}
}
