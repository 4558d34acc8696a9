package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	if cmd.Use != "olxcrawl" {
		t.Errorf("Use = %q, want olxcrawl", cmd.Use)
	}

	want := map[string]bool{"list": false, "detail": false, "version": false}
	for _, sub := range cmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}

	for _, flag := range []string{"verbose", "proxy", "render", "headless", "keywords", "config", "timeout", "report", "progress"} {
		if cmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag %q not registered", flag)
		}
	}
}

func TestExitErrorUnwrap(t *testing.T) {
	t.Parallel()

	inner := errors.New("three pages failed")
	err := &exitError{code: exitPartial, err: inner}
	if !errors.Is(err, inner) {
		t.Error("errors.Is() does not see the wrapped error")
	}
	if err.Error() != inner.Error() {
		t.Errorf("Error() = %q, want %q", err.Error(), inner.Error())
	}
}

func TestRootCmdHelp(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute(--help) error: %v", err)
	}
	for _, want := range []string{"list", "detail", "version"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("help output missing %q", want)
		}
	}
}

func TestVersionCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute(version) error: %v", err)
	}
	if !strings.Contains(out.String(), "olxcrawl version") {
		t.Errorf("version output = %q", out.String())
	}
}

func TestListCmdRejectsBadURL(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"list", "ftp://example.com/x"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("Execute() error = nil, want invalid start URL error")
	}
}

func TestListCmdRequiresURL(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"list"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("Execute() error = nil, want missing argument error")
	}
}

func TestDetailCmdRejectsBadArgURL(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"detail", "not-a-url"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("Execute() error = nil, want invalid URL error")
	}
}
