package buildinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	s := String()
	for _, want := range []string{"version: " + Version, "commit: " + Commit, "built: " + Date} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q: %s", want, s)
		}
	}
}

func TestTemplate(t *testing.T) {
	if !strings.HasPrefix(Template(), "{{.Name}} "+Version) {
		t.Errorf("Template() = %q", Template())
	}
	if UserAgent() != "pcoview/"+Version {
		t.Errorf("UserAgent() = %q", UserAgent())
	}
}
