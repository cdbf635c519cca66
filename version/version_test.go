package version

import (
	"bytes"
	"strings"
	"testing"
)

func TestInfoString(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{"bare", Info{Version: "v1.0.0", Commit: unknown, Date: unknown}, "v1.0.0"},
		{"commit", Info{Version: "v1.0.0", Commit: "0123456789abcdef", Date: unknown}, "v1.0.0 (0123456)"},
		{"dated", Info{Version: "v1.0.0", Commit: "0123456789abcdef", Date: "2026-01-02"}, "v1.0.0 (0123456, built 2026-01-02)"},
		{"dirty", Info{Version: "dev", Commit: "abc", Modified: true}, "dev (abc-dirty)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInjectedValuesWin(t *testing.T) {
	oldV, oldC, oldD := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })

	Version, Commit, Date = "v9.9.9", "feedfacecafebeef", "2026-10-01T00:00:00Z"
	info := GetInfo()
	if info.Version != "v9.9.9" || info.Commit != "feedfacecafebeef" || info.Date != "2026-10-01T00:00:00Z" {
		t.Errorf("GetInfo() = %+v", info)
	}

	var buf bytes.Buffer
	if err := Write(&buf, "dhid"); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "dhid version v9.9.9 (feedfac") {
		t.Errorf("Write output = %q", buf.String())
	}
}
