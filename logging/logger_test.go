package logging

import (
	"bytes"
	"strings"
	"testing"
)

func Test_NewLogger(t *testing.T) {
	t.Setenv("OAREDIT_JSON_LOG", "")
	buf := &bytes.Buffer{}
	log := NewLogger("oaredit", "warn", buf)
	log.Info("hidden")
	log.Warn("shown", "path", "x.sav")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info logged at warn level")
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "path=x.sav") {
		t.Errorf("unexpected output %q", out)
	}
}

func Test_Valid(t *testing.T) {
	for _, l := range []string{"trace", "debug", "info", "warn", "error"} {
		if !Valid(l) {
			t.Errorf("%v rejected", l)
		}
	}
	if Valid("chatty") {
		t.Error("chatty accepted")
	}
}
