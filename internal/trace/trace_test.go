package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"", LevelOff, false},
		{"off", LevelOff, false},
		{"ERROR", LevelError, false},
		{"phase", LevelPhase, false},
		{"detail", LevelDetail, false},
		{"debug", LevelDebug, false},
		{"verbose", LevelOff, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseLevel(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestShouldEmit(t *testing.T) {
	node := &Event{Scope: ScopeNode}
	phase := &Event{Scope: ScopePhase}
	sym := &Event{Scope: ScopeSymbol}
	failed := &Event{Scope: ScopeSession, Failed: true}

	if LevelOff.ShouldEmit(failed) {
		t.Error("off must drop everything")
	}
	if LevelError.ShouldEmit(phase) || !LevelError.ShouldEmit(failed) {
		t.Error("error level must keep only failed events")
	}
	if !LevelPhase.ShouldEmit(phase) || LevelPhase.ShouldEmit(sym) {
		t.Error("phase level must stop at phases")
	}
	if !LevelDetail.ShouldEmit(sym) || LevelDetail.ShouldEmit(node) {
		t.Error("detail level must include symbols but not nodes")
	}
	if !LevelDebug.ShouldEmit(node) {
		t.Error("debug level must include nodes")
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatText)

	root := Begin(tr, ScopeSession, "session.evaluate", 0)
	child := Begin(tr, ScopePhase, "parse", root.ID())
	Point(tr, ScopeNode, "node", child.ID(), "BinaryOp")
	child.WithExtra("nodes", "3").End("")
	root.End("ok")

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "\u2192 session.evaluate") {
		t.Errorf("first line = %q", lines[0])
	}
	if !strings.Contains(lines[2], "\u2022 node (BinaryOp)") {
		t.Errorf("point line = %q", lines[2])
	}
	if !strings.Contains(lines[3], "{nodes=3}") {
		t.Errorf("extra not rendered: %q", lines[3])
	}
	if !strings.Contains(lines[4], "\u2190 session.evaluate [") || !strings.HasSuffix(lines[4], "(ok)") {
		t.Errorf("last line = %q", lines[4])
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatNDJSON)

	span := Begin(tr, ScopePhase, "eval", 0)
	span.Fail(errors.New("division by zero"))

	dec := json.NewDecoder(&buf)
	var kinds []string
	for dec.More() {
		var m map[string]any
		if err := dec.Decode(&m); err != nil {
			t.Fatalf("decode: %v", err)
		}
		kinds = append(kinds, m["kind"].(string))
		if m["kind"] == "end" {
			if m["failed"] != true || m["detail"] != "division by zero" {
				t.Errorf("end event = %v", m)
			}
		}
	}
	if strings.Join(kinds, ",") != "begin,end" {
		t.Errorf("kinds = %v", kinds)
	}
}

func TestLevelFiltersSpans(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)

	span := Begin(tr, ScopeNode, "node", 0)
	span.End("")
	Point(tr, ScopeNode, "node", 0, "")
	if buf.Len() != 0 {
		t.Errorf("node events leaked at phase level: %q", buf.String())
	}
	if span.ID() != 0 {
		t.Errorf("filtered span must have zero ID, got %d", span.ID())
	}
}

func TestErrorLevelKeepsOnlyFailures(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelError, FormatText)

	Begin(tr, ScopeSession, "ok", 0).End("")
	Begin(tr, ScopeSession, "bad", 0).Fail(errors.New("boom"))

	out := strings.TrimSpace(buf.String())
	if strings.Count(out, "\n") != 0 || !strings.Contains(out, "\u2190 bad [") || !strings.HasSuffix(out, "(error: boom)") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestRingTracerWraps(t *testing.T) {
	tr := NewRingTracer(3, LevelDebug)
	for i := 0; i < 5; i++ {
		Point(tr, ScopeNode, "p", 0, string(rune('a'+i)))
	}
	snap := tr.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("len = %d, want 3", len(snap))
	}
	var got []string
	for _, ev := range snap {
		got = append(got, ev.Detail)
	}
	if strings.Join(got, "") != "cde" {
		t.Errorf("ring order = %v, want c d e", got)
	}
	for i := 1; i < len(snap); i++ {
		if snap[i].Seq <= snap[i-1].Seq {
			t.Errorf("sequence not increasing: %d then %d", snap[i-1].Seq, snap[i].Seq)
		}
	}

	var buf bytes.Buffer
	if err := tr.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 3 {
		t.Errorf("dump = %q", buf.String())
	}
}

func TestMultiTracerFanOut(t *testing.T) {
	var buf bytes.Buffer
	stream := NewStreamTracer(&buf, LevelDebug, FormatText)
	ring := NewRingTracer(8, LevelDebug)
	multi := NewMultiTracer(LevelDebug, stream, ring)

	Begin(multi, ScopePhase, "lex", 0).End("")
	if got := len(ring.Snapshot()); got != 2 {
		t.Errorf("ring got %d events, want 2", got)
	}
	if strings.Count(buf.String(), "\n") != 2 {
		t.Errorf("stream output = %q", buf.String())
	}
	if r, ok := multi.Ring(); !ok || r != ring {
		t.Error("Ring did not find the ring tracer")
	}
}

func TestNewConfig(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr != Nop {
		t.Fatalf("off config must yield Nop, got %v %v", tr, err)
	}

	var buf bytes.Buffer
	tr, err = New(Config{Level: LevelPhase, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := tr.(*StreamTracer); !ok {
		t.Errorf("default mode must be stream, got %T", tr)
	}

	tr, err = New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := tr.(*MultiTracer); !ok {
		t.Errorf("both mode must be multi, got %T", tr)
	}

	if _, err := ParseMode("disk"); err == nil {
		t.Error("ParseMode accepted an unknown mode")
	}
	if f, _ := ParseFormat("json"); f != FormatNDJSON {
		t.Errorf("json must alias ndjson, got %v", f)
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	if FromContext(ctx) != Nop {
		t.Error("empty context must yield Nop")
	}
	ring := NewRingTracer(4, LevelDebug)
	ctx = WithTracer(ctx, ring)
	if FromContext(ctx) != Tracer(ring) {
		t.Error("tracer not propagated")
	}
	span := Begin(ring, ScopeSession, "batch", 0)
	ctx = WithParent(ctx, span)
	if ParentFromContext(ctx) != span.ID() {
		t.Error("parent span not propagated")
	}
}

func TestConcurrentEmit(t *testing.T) {
	tr := NewRingTracer(1024, LevelDebug)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				Point(tr, ScopeNode, "p", 0, "")
			}
		}()
	}
	wg.Wait()
	if got := len(tr.Snapshot()); got != 400 {
		t.Errorf("got %d events, want 400", got)
	}
}
