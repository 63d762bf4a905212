package logging

import (
	"context"
	"log/slog"
)

// componentLevelHandler applies logging.component_levels. A logger tagged
// with a configured component filters at that component's level; any other
// logger filters at the default level. next is opened at the most verbose
// level in use.
type componentLevelHandler struct {
	next   slog.Handler
	levels map[string]slog.Level
	def    slog.Level
	min    slog.Level
}

func withComponentLevels(next slog.Handler, def slog.Level, levels map[string]string) slog.Handler {
	if len(levels) == 0 {
		return next
	}
	parsed := make(map[string]slog.Level, len(levels))
	for component, level := range levels {
		parsed[component] = parseLevel(level)
	}
	return &componentLevelHandler{next: next, levels: parsed, def: def, min: def}
}

// levelFloor returns the most verbose of def and every component level.
func levelFloor(def slog.Level, levels map[string]string) slog.Level {
	floor := def
	for _, value := range levels {
		if level := parseLevel(value); level < floor {
			floor = level
		}
	}
	return floor
}

func (h *componentLevelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.min && h.next.Enabled(ctx, level)
}

func (h *componentLevelHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level < h.min {
		return nil
	}
	return h.next.Handle(ctx, record)
}

// WithAttrs retargets the filter when attrs name a component. The innermost
// component wins, so a nested component without an entry drops back to the
// default level.
func (h *componentLevelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	min := h.min
	for _, attr := range attrs {
		if attr.Key != FieldComponent {
			continue
		}
		min = h.def
		if level, ok := h.levels[attr.Value.String()]; ok {
			min = level
		}
	}
	return &componentLevelHandler{next: h.next.WithAttrs(attrs), levels: h.levels, def: h.def, min: min}
}

func (h *componentLevelHandler) WithGroup(name string) slog.Handler {
	return &componentLevelHandler{next: h.next.WithGroup(name), levels: h.levels, def: h.def, min: h.min}
}
