package main

import (
	"fmt"
	"strconv"
	"strings"
)

// choiceFlag repeatable -opt id=index
type choiceFlag map[string]int

func (f choiceFlag) String() string {
	parts := make([]string, 0, len(f))
	for id, idx := range f {
		parts = append(parts, fmt.Sprintf("%s=%d", id, idx))
	}
	return strings.Join(parts, ",")
}

func (f choiceFlag) Set(v string) error {
	id, raw, ok := strings.Cut(v, "=")
	if !ok || id == "" {
		return fmt.Errorf("expected id=index, got %q", v)
	}
	idx, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("option %s: %w", id, err)
	}
	f[id] = idx
	return nil
}

// extraFlag repeatable -extra id or -extra id=false
type extraFlag map[string]bool

func (f extraFlag) String() string {
	parts := make([]string, 0, len(f))
	for id, on := range f {
		parts = append(parts, fmt.Sprintf("%s=%t", id, on))
	}
	return strings.Join(parts, ",")
}

func (f extraFlag) Set(v string) error {
	id, raw, ok := strings.Cut(v, "=")
	if id == "" {
		return fmt.Errorf("empty extra id")
	}
	if !ok {
		f[id] = true
		return nil
	}
	on, err := strconv.ParseBool(raw)
	if err != nil {
		return fmt.Errorf("extra %s: %w", id, err)
	}
	f[id] = on
	return nil
}

// optionalFloat -miles; nil until set
type optionalFloat struct {
	v *float64
}

func (f *optionalFloat) String() string {
	if f.v == nil {
		return ""
	}
	return strconv.FormatFloat(*f.v, 'f', -1, 64)
}

func (f *optionalFloat) Set(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	f.v = &v
	return nil
}
