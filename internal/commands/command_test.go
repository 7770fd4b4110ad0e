package commands

import (
	"errors"
	"testing"

	"github.com/sandeepkv93/pomo/internal/model"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/add pay rent", TypeAdd},
		{"done 2", TypeDone},
		{"/focus 1", TypeFocus},
		{"/rm 3", TypeRemove},
		{"/delete 3", TypeRemove},
		{"/mode break", TypeMode},
		{"/timers 25 5 15", TypeTimers},
		{"/clear", TypeClear},
		{"/ADD Shout", TypeAdd},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseAddTokens(t *testing.T) {
	cmd, err := Parse("/add Draft chapter two !high #Book -- remember the outline")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	a := cmd.Add
	if a.Title != "Draft chapter two" || a.Priority != model.PriorityHigh || a.Project != "Book" {
		t.Fatalf("unexpected add args: %+v", a)
	}
	if a.Note != "remember the outline" {
		t.Fatalf("unexpected note %q", a.Note)
	}

	cmd, err = Parse("/add plain task")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Add.Priority != model.PriorityMedium || cmd.Add.Project != "" || cmd.Add.Note != "" {
		t.Fatalf("unexpected defaults: %+v", cmd.Add)
	}
}

func TestParseArgumentErrors(t *testing.T) {
	inputs := []string{
		"/add",
		"/add !high #Work",
		"/add task !urgent",
		"/done",
		"/focus 1 2",
		"/mode nap",
		"/timers 25 5",
		"/timers 25 x 15",
		"/timers 25 5:75 15",
		"/timers -1 5 15",
	}
	for _, in := range inputs {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
			t.Fatalf("parse %q: expected invalid argument, got %v", in, err)
		}
	}
}

func TestParseEmptyInput(t *testing.T) {
	for _, in := range []string{"", "   ", "/"} {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeEmptyInput {
			t.Fatalf("parse %q: expected empty input error, got %v", in, err)
		}
	}
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse("/unknown do x")
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestParseTimers(t *testing.T) {
	cmd, err := Parse("/timers 50 10:30 0:45")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	want := model.Durations{Focus: 3000, Break: 630, FreeWrite: 45}
	if cmd.Timers.Durations != want {
		t.Fatalf("got %+v, want %+v", cmd.Timers.Durations, want)
	}
}

func TestParseClock(t *testing.T) {
	cases := map[string]int{"25": 1500, "0": 0, "04:30": 270, "0:05": 5, "90:00": 5400}
	for in, want := range cases {
		got, err := ParseClock(in)
		if err != nil || got != want {
			t.Fatalf("ParseClock(%q) = %d, %v; want %d", in, got, err, want)
		}
	}
	for _, bad := range []string{"", "abc", "1:2", "1:60", "-3", "1:-1"} {
		if _, err := ParseClock(bad); err == nil {
			t.Fatalf("ParseClock(%q) expected error", bad)
		}
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/add write docs")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Add: func(a AddArgs) (Result, error) {
			called = true
			if a.Title != "write docs" {
				t.Fatalf("unexpected title: %q", a.Title)
			}
			return Result{Message: "ok"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Message != "ok" {
		t.Fatalf("dispatch failed, called=%v res=%+v", called, res)
	}
}

func TestExecuteRoutesTargets(t *testing.T) {
	var got []string
	record := func(name string) func(TargetArgs) (Result, error) {
		return func(a TargetArgs) (Result, error) {
			got = append(got, name+":"+a.Ref)
			return Result{}, nil
		}
	}
	h := Handlers{Done: record("done"), Focus: record("focus"), Remove: record("rm")}
	for _, in := range []string{"/done 1", "/focus abc", "/rm 2"} {
		cmd, err := Parse(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if _, err := Execute(cmd, h); err != nil {
			t.Fatalf("execute %q: %v", in, err)
		}
	}
	if len(got) != 3 || got[0] != "done:1" || got[1] != "focus:abc" || got[2] != "rm:2" {
		t.Fatalf("unexpected routing %v", got)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("/clear")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected missing handler error, got %v", err)
	}
}
