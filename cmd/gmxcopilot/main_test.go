package main

import (
	"context"
	"errors"
	"testing"

	"github.com/chatmol/gromacs-copilot/internal/app"
)

type fakeRunner struct {
	ran bool
	err error
}

func (f *fakeRunner) Run(ctx context.Context) error {
	f.ran = true
	return f.err
}

func TestRun_Success(t *testing.T) {
	fr := &fakeRunner{}
	oldCtor := appCtor
	oldFatalf := fatalf
	t.Cleanup(func() { appCtor = oldCtor; fatalf = oldFatalf })
	appCtor = func(opts app.Options) (runner, error) { return fr, nil }

	calledFatal := false
	fatalf = func(format string, v ...any) { calledFatal = true }

	run(context.Background(), app.Options{})

	if !fr.ran {
		t.Fatalf("expected runner.Run to be called")
	}
	if calledFatal {
		t.Fatalf("did not expect fatalf to be called")
	}
}

func TestRun_FatalOnCtorError(t *testing.T) {
	oldCtor := appCtor
	oldFatalf := fatalf
	t.Cleanup(func() { appCtor = oldCtor; fatalf = oldFatalf })

	appCtor = func(opts app.Options) (runner, error) { return nil, errors.New("boom") }

	calledFatal := false
	fatalf = func(format string, v ...any) { calledFatal = true }

	run(context.Background(), app.Options{})

	if !calledFatal {
		t.Fatalf("expected fatalf to be called on ctor error")
	}
}

func TestRun_FatalOnRunError(t *testing.T) {
	fr := &fakeRunner{err: errors.New("oops")}
	oldCtor := appCtor
	oldFatalf := fatalf
	t.Cleanup(func() { appCtor = oldCtor; fatalf = oldFatalf })

	appCtor = func(opts app.Options) (runner, error) { return fr, nil }

	calledFatal := false
	fatalf = func(format string, v ...any) { calledFatal = true }

	run(context.Background(), app.Options{})

	if !calledFatal {
		t.Fatalf("expected fatalf to be called on run error")
	}
}

func TestRun_OptionsPassedThrough(t *testing.T) {
	oldCtor := appCtor
	oldFatalf := fatalf
	t.Cleanup(func() { appCtor = oldCtor; fatalf = oldFatalf })

	var got app.Options
	appCtor = func(opts app.Options) (runner, error) {
		got = opts
		return &fakeRunner{}, nil
	}
	fatalf = func(format string, v ...any) {}

	run(context.Background(), app.Options{Workspace: "ws", Mode: "agent", Model: "gpt-4o"})

	if got.Workspace != "ws" || got.Mode != "agent" || got.Model != "gpt-4o" {
		t.Fatalf("options not passed through: %+v", got)
	}
}
