// Package telemetry bridges log/slog records to the loader's serial
// text sink and, for failures, to the border-color flash described in
// ui's error-handling design — plus an optional best-effort MQTT
// boot-event beacon (see beacon.go). Unlike the teacher's telemetry
// package, there is no background sender: this target is
// single-threaded and cooperative (§5), so there is no queue to drain
// on a timer, only a text sink written synchronously and a beacon
// published once, at the two points the boot sequence ends.
package telemetry

import (
	"context"
	"io"
	"log/slog"
)

// BorderFlasher is the narrowest hook Handler needs to make an error
// visible off-device without a terminal attached: set the border to
// a fixed palette index. Implementations come from package ui
// (ui.HaltPrimitive satisfies a superset of this).
type BorderFlasher interface {
	SetBorder(color byte)
}

// Handler is a slog.Handler that always writes to a text sink
// (typically the host's UART) and, for records at Error level or above
// carrying an "err" attribute, also flashes the border through
// colorFor. Modelled on
// the teacher's SlogHandler, minus the OTLP log queue and background
// sender: those existed to batch records for network delivery, which
// this target has no spare cycles or heap to do continuously. A
// boot-event summary is still delivered, just once, via PublishBoot.
type Handler struct {
	text      slog.Handler
	flash     BorderFlasher
	colorFor  func(error) byte
	attrs     []slog.Attr
	group     string
}

// NewHandler wraps w in a slog.TextHandler and adds the border-flash
// bridge. flash may be nil (fake/test builds with no hardware border
// to set); colorFor maps an attached error to a palette index and may
// also be nil, in which case records are never flashed regardless of
// level.
func NewHandler(w io.Writer, opts *slog.HandlerOptions, flash BorderFlasher, colorFor func(error) byte) *Handler {
	return &Handler{
		text:     slog.NewTextHandler(w, opts),
		flash:    flash,
		colorFor: colorFor,
	}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.text.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	err := h.text.Handle(ctx, r)

	if h.flash != nil && h.colorFor != nil && r.Level >= slog.LevelError {
		r.Attrs(func(a slog.Attr) bool {
			if a.Key != "err" {
				return true
			}
			if e, ok := a.Value.Any().(error); ok {
				h.flash.SetBorder(h.colorFor(e))
			}
			return false
		})
	}

	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)
	return &Handler{
		text:     h.text.WithAttrs(attrs),
		flash:    h.flash,
		colorFor: h.colorFor,
		attrs:    newAttrs,
		group:    h.group,
	}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	newGroup := name
	if h.group != "" {
		newGroup = h.group + "." + name
	}
	return &Handler{
		text:     h.text.WithGroup(name),
		flash:    h.flash,
		colorFor: h.colorFor,
		attrs:    h.attrs,
		group:    newGroup,
	}
}
