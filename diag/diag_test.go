package diag

import (
	"bytes"
	"testing"
)

func TestLoggerStatus(t *testing.T) {
	l := NewLogger()
	if l.Status() != Info {
		t.Error("initial status should be Info")
	}
	l.Warningf("w%d", 1)
	if l.Status() != Warning {
		t.Error("status should be Warning: ", l.Status())
	}
	l.Errorf("e")
	l.Warningf("w2")
	l.Infof("i")
	if l.Status() != Error {
		t.Error("status must not go down: ", l.Status())
	}
	if l.Count(Warning) != 2 || l.Count(Error) != 1 || len(l.Messages()) != 4 {
		t.Error("messages: ", l.Messages())
	}
	if l.Messages()[0].Text != "w1" {
		t.Error("message order: ", l.Messages())
	}
}

func TestLoggerMerge(t *testing.T) {
	l := NewLogger()
	l.Infof("first")
	c := l.Child()
	c.Warningf("child")
	if len(l.Messages()) != 1 {
		t.Error("child messages must not leak before Merge")
	}
	l.Merge(c)
	if l.Status() != Warning || l.Messages()[1].Text != "child" {
		t.Error("merge: ", l.Messages())
	}

	var buf bytes.Buffer
	if _, err := l.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "Info: first\nWarning: child\n" {
		t.Errorf("WriteTo: %q", buf.String())
	}
}
