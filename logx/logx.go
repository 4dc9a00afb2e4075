// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logx configures structured logging for pipeline tools,
// with a user-settable level and terminal-aware colored levels.
package logx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/muesli/termenv"
)

// UserLevel is the verbosity level of logging for the end user.
// It defaults to Info, Debug under the debug build tag,
// and Warn under the release build tag.
var UserLevel = new(slog.LevelVar)

func init() {
	UserLevel.Set(defaultUserLevel)
}

// SetLevel sets [UserLevel] from a level name
// (debug, info, warn, error), case-insensitively.
func SetLevel(name string) error {
	var lv slog.Level
	if err := lv.UnmarshalText([]byte(strings.ToUpper(name))); err != nil {
		return fmt.Errorf("logx.SetLevel: invalid level %q", name)
	}
	UserLevel.Set(lv)
	return nil
}

// NewHandler returns a text [slog.Handler] writing to w at [UserLevel],
// with level names colored when w is a color-capable terminal.
func NewHandler(w io.Writer) slog.Handler {
	out := termenv.NewOutput(w)
	opts := &slog.HandlerOptions{
		Level: UserLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 || a.Key != slog.LevelKey {
				return a
			}
			lv, ok := a.Value.Any().(slog.Level)
			if !ok {
				return a
			}
			return slog.String(a.Key, ColorLevel(out, lv))
		},
	}
	return slog.NewTextHandler(w, opts)
}

// ColorLevel renders the level name with the color conventionally
// used for it. Outputs without color support get the plain name.
func ColorLevel(out *termenv.Output, lv slog.Level) string {
	s := lv.String()
	var code string
	switch {
	case lv >= slog.LevelError:
		code = "1"
	case lv >= slog.LevelWarn:
		code = "3"
	case lv >= slog.LevelInfo:
		code = "4"
	default:
		code = "8"
	}
	return out.String(s).Foreground(out.Color(code)).String()
}

// Install sets the default slog logger to one using [NewHandler] on w.
func Install(w io.Writer) {
	slog.SetDefault(slog.New(NewHandler(w)))
}

// Enabled reports whether logging at the given level is currently enabled.
func Enabled(lv slog.Level) bool {
	return slog.Default().Enabled(context.Background(), lv)
}
