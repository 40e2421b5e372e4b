package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
)

// uiMode is the --ui flag. It validates on Set so a bad value fails during
// flag parsing, before any file is read.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

var _ pflag.Value = (*uiMode)(nil)

func (m *uiMode) String() string { return string(*m) }
func (m *uiMode) Type() string   { return "auto|on|off" }

func (m *uiMode) Set(value string) error {
	switch v := uiMode(strings.ToLower(strings.TrimSpace(value))); v {
	case "":
		*m = uiModeAuto
	case uiModeAuto, uiModeOn, uiModeOff:
		*m = v
	default:
		return fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
	return nil
}

func addUIFlag(flags *pflag.FlagSet) {
	mode := uiModeAuto
	flags.Var(&mode, "ui", "progress UI for directory input")
}

func uiModeFlag(flags *pflag.FlagSet) uiMode {
	if f := flags.Lookup("ui"); f != nil {
		if m, ok := f.Value.(*uiMode); ok {
			return *m
		}
	}
	return uiModeAuto
}

// wantsTUI decides whether the progress UI should run. Auto mode needs a
// terminal on the other end of out.
func (m uiMode) wantsTUI(out io.Writer) bool {
	switch m {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	}
	f, ok := out.(*os.File)
	return ok && isTerminal(f)
}
