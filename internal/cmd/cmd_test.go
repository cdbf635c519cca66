package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dendrascience/dendra-hid/archive"
	"github.com/dendrascience/dendra-hid/config"
	"github.com/dendrascience/dendra-hid/digest"
	"github.com/dendrascience/dendra-hid/hid"
)

// run executes the root command with args and returns what it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvVar, "")
	root := NewRootCmd()
	var out, stderr bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("dhid %s failed: %v", strings.Join(args, " "), err)
	}
	return out
}

func pack(t *testing.T, format archive.Format, files ...[2]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := archive.NewWriter(&buf, format)
	if err != nil {
		t.Fatal(err)
	}
	stamp := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, f := range files {
		if err := w.AddBytes(f[0], stamp, []byte(f[1])); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// fixture writes plain.txt and bundle.zip{a.txt, inner.tgz{c.txt}}.
func fixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	inner := pack(t, archive.TarGzip, [2]string{"c.txt", "gamma"})
	bundle := pack(t, archive.Zip, [2]string{"a.txt", "alpha"}, [2]string{"inner.tgz", string(inner)})
	for name, data := range map[string][]byte{
		"plain.txt":  []byte("plain"),
		"bundle.zip": bundle,
	} {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestHIDCommands(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"parent", []string{"hid", "parent", "zip:file:///a/b.zip#/x/y.txt"}, "zip:file:///a/b.zip#/x\n"},
		{"container", []string{"hid", "container", "zip:file:///a/b.zip#/x/y.txt"}, "file:///a/b.zip\n"},
		{"root", []string{"hid", "root", "zip:file:///a/b.zip#/x/y.txt"}, "zip:file:///a/b.zip#/\n"},
		{"resolve", []string{"hid", "resolve", "zip:file:///a/b.zip#/x", "../z"}, "zip:file:///a/b.zip#/z\n"},
		{"nest", []string{"hid", "resolve", "--nest", "tgz", "zip:file:///a/b.zip#/i.tgz", "/c.txt"}, "tgz:zip:file:///a/b.zip#/i.tgz#/c.txt\n"},
		{"rebase", []string{"hid", "rebase", "file:///data/a/b.txt", "file:///data", "file:///backup"}, "file:///backup/a/b.txt\n"},
		{"compare", []string{"hid", "compare", "file:///a", "file:///a/b"}, "-1\tA is an ancestor of B\n"},
		{"equal", []string{"hid", "compare", "file:///a/./b", "file:///a/b"}, "0\tequal\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustRun(t, tt.args...); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHIDInspect(t *testing.T) {
	out := mustRun(t, "hid", "inspect", "zip:file:///a/b.zip#/x/y.txt")
	for _, want := range []string{"nesting:  1", "name:     y.txt", "level 0:  file /a/b.zip", "level 1:  zip", "segments: x | y.txt"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output missing %q:\n%s", want, out)
		}
	}

	if _, err := run(t, "hid", "parent", "file:///"); !errors.Is(err, hid.ErrNoParent) {
		t.Errorf("parent of the root = %v, want ErrNoParent", err)
	}
}

func TestLs(t *testing.T) {
	dir := fixture(t)

	got := strings.Split(strings.TrimSpace(mustRun(t, "ls", dir)), "\n")
	if diff := cmp.Diff([]string{"bundle.zip//", "plain.txt"}, got); diff != "" {
		t.Errorf("ls mismatch (-want +got):\n%s", diff)
	}

	got = strings.Split(strings.TrimSpace(mustRun(t, "ls", "-r", dir)), "\n")
	want := []string{
		"bundle.zip//",
		"bundle.zip//a.txt",
		"bundle.zip//inner.tgz//",
		"bundle.zip//inner.tgz//c.txt",
		"plain.txt",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ls -r mismatch (-want +got):\n%s", diff)
	}

	long := mustRun(t, "ls", "-l", filepath.Join(dir, "bundle.zip"))
	if !strings.Contains(long, "a.txt") || !strings.Contains(long, "5 B") {
		t.Errorf("ls -l output = %q", long)
	}
}

func TestCat(t *testing.T) {
	dir := fixture(t)
	bundle, err := hid.FromPath(filepath.Join(dir, "bundle.zip"))
	if err != nil {
		t.Fatal(err)
	}
	inner, _ := bundle.Nest("zip", "", "/inner.tgz")
	c, _ := inner.Nest("tgz", "", "/c.txt")

	if got := mustRun(t, "cat", c.String(), filepath.Join(dir, "plain.txt")); got != "gammaplain" {
		t.Errorf("cat = %q, want %q", got, "gammaplain")
	}
	missing, _ := bundle.Nest("zip", "", "/nope.txt")
	if _, err := run(t, "cat", missing.String()); !errors.Is(err, archive.ErrNotFound) {
		t.Errorf("cat missing = %v, want ErrNotFound", err)
	}
}

func TestCount(t *testing.T) {
	dir := fixture(t)
	out := mustRun(t, "count", dir)
	for _, want := range []string{"Files:       5", "Directories: 0", "Archives:    2"} {
		if !strings.Contains(out, want) {
			t.Errorf("count output missing %q:\n%s", want, out)
		}
	}
	out = mustRun(t, "count", "--limit", "2", dir)
	if !strings.Contains(out, "more than 2") {
		t.Errorf("count --limit output = %q", out)
	}
}

func TestDigest(t *testing.T) {
	dir := fixture(t)
	plain := filepath.Join(dir, "plain.txt")
	want, err := digest.FromBytes(digest.SHA256, []byte("plain"))
	if err != nil {
		t.Fatal(err)
	}

	out := mustRun(t, "digest", plain)
	if out != want.String()+"  "+plain+"\n" {
		t.Errorf("digest output = %q", out)
	}
	if out := mustRun(t, "digest", "--verify", want.String(), plain); !strings.HasSuffix(out, ": OK\n") {
		t.Errorf("verify output = %q", out)
	}

	other, _ := digest.FromBytes(digest.SHA256, []byte("other"))
	if _, err := run(t, "digest", "--verify", other.String(), plain); !errors.Is(err, digest.ErrMismatch) {
		t.Errorf("verify with wrong digest = %v, want ErrMismatch", err)
	}
	if _, err := run(t, "digest", "-a", "crc32", plain); !errors.Is(err, digest.ErrUnknownAlgorithm) {
		t.Errorf("unknown algorithm = %v, want ErrUnknownAlgorithm", err)
	}
}

func TestIndexAndValidate(t *testing.T) {
	dir := fixture(t)
	for _, name := range []string{"index.json", "index.cbor"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			mustRun(t, "index", "build", "-a", "blake3", "-o", path, dir)

			out := mustRun(t, "index", "info", "--json", path)
			var m archive.Metadata
			if err := json.Unmarshal([]byte(out), &m); err != nil {
				t.Fatalf("index info --json: %v\n%s", err, out)
			}
			if m.Files != 5 || m.Containers != 2 || m.Algorithm != "blake3" {
				t.Errorf("metadata = %+v", m)
			}

			out = mustRun(t, "index", "find", "--below", path, filepath.Join(dir, "bundle.zip"))
			if n := strings.Count(out, "\n"); n != 3 {
				t.Errorf("find --below listed %d entries, want 3:\n%s", n, out)
			}

			if out := mustRun(t, "validate", path); !strings.HasPrefix(out, "All 5 files match") {
				t.Errorf("validate output = %q", out)
			}
		})
	}

	path := filepath.Join(t.TempDir(), "index.json")
	mustRun(t, "index", "build", "-o", path, dir)
	if err := os.WriteFile(filepath.Join(dir, "plain.txt"), []byte("PLAIN"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "validate", path)
	if err == nil {
		t.Fatal("validate succeeded after a file changed")
	}
	if !strings.Contains(out, "plain.txt") {
		t.Errorf("validate did not name the changed file:\n%s", out)
	}
}

func TestSeed(t *testing.T) {
	dir := t.TempDir()
	out := mustRun(t, "seed", "-o", dir, "-c", "5", "-d", "3", "--seed", "7")
	if !strings.Contains(out, "level0.zip") {
		t.Errorf("seed output = %q", out)
	}
	out = mustRun(t, "count", filepath.Join(dir, "level0.zip"))
	for _, want := range []string{"Files:       18", "Archives:    3"} {
		if !strings.Contains(out, want) {
			t.Errorf("count of seeded tree missing %q:\n%s", want, out)
		}
	}
}

func TestSeedIsReproducible(t *testing.T) {
	read := func(seed string) []byte {
		dir := t.TempDir()
		mustRun(t, "seed", "-o", dir, "-c", "8", "-d", "5", "--seed", seed)
		data, err := os.ReadFile(filepath.Join(dir, "level0.zip"))
		if err != nil {
			t.Fatal(err)
		}
		return data
	}

	first, second := read("7"), read("7")
	if !bytes.Equal(first, second) {
		t.Error("two runs with --seed 7 wrote different archives")
	}
	if bytes.Equal(first, read("8")) {
		t.Error("--seed 7 and --seed 8 wrote identical archives")
	}
}

func TestUtilityCommands(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bytes", []string{"bytes", "1536"}, "1536\t1.5 KiB\n"},
		{"bytes decimal", []string{"bytes", "--units", "decimal", "1.5 kB"}, "1500\t1.5 kB\n"},
		{"bytes to", []string{"bytes", "--to", "KiB", "2 MiB"}, "2048 KiB\n"},
		{"content type", []string{"header", "content-type", "Text/HTML;", "charset=utf-8"}, "text/html; charset=utf-8\n  media type: text/html\n  charset = \"utf-8\"\n"},
		{"products", []string{"header", "products", "curl/8.5.0"}, "curl/8.5.0\n  curl/8.5.0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustRun(t, tt.args...); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfigFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dhid.yaml")
	if err := os.WriteFile(path, []byte("color: never\nunits: decimal\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := mustRun(t, "--config", path, "config")
	for _, want := range []string{"color: never", "units: decimal", "digest: sha256"} {
		if !strings.Contains(out, want) {
			t.Errorf("config output missing %q:\n%s", want, out)
		}
	}
	if got := mustRun(t, "--config", path, "bytes", "1500"); got != "1500\t1.5 kB\n" {
		t.Errorf("bytes with decimal config = %q", got)
	}

	if err := os.WriteFile(path, []byte("formats: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "--config", path, "config"); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("empty formats = %v, want ErrInvalid", err)
	}
}

func TestSessionFallsBackToDefaults(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("color: sometimes\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(config.EnvVar, bad)

	cmd := NewBytesCmd()
	var out, stderr bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"1536"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("bytes without the root command failed: %v", err)
	}
	if out.String() != "1536\t1.5 KiB\n" {
		t.Errorf("output = %q", out.String())
	}
	if !strings.Contains(stderr.String(), "using default configuration") {
		t.Errorf("no warning about the unusable config:\n%s", stderr.String())
	}

	if _, err := run(t, "--config", bad, "bytes", "1"); err == nil {
		t.Error("root command accepted an invalid --config file")
	}
}

func TestVersionCmd(t *testing.T) {
	if out := mustRun(t, "version"); !strings.HasPrefix(out, "dhid version ") {
		t.Errorf("version output = %q", out)
	}
}

func TestPaint(t *testing.T) {
	plain := &lister{}
	if got := plain.paint(archive.Zip, "a.zip//"); got != "a.zip//" {
		t.Errorf("uncolored paint = %q", got)
	}

	colored := &lister{color: true}
	zip1 := colored.paint(archive.Zip, "a.zip//")
	zip2 := colored.paint(archive.Zip, "b.zip//")
	if !strings.HasPrefix(zip1, "\x1b[") || !strings.Contains(zip1, "a.zip//") {
		t.Errorf("colored paint = %q", zip1)
	}
	if zip1[:strings.Index(zip1, "a.zip")] != zip2[:strings.Index(zip2, "b.zip")] {
		t.Errorf("same format painted differently: %q vs %q", zip1, zip2)
	}
}

func TestRelativeName(t *testing.T) {
	root := hid.MustParse("file:///data")
	bundle := hid.MustParse("file:///data/bundle.zip")
	deep := hid.MustParse("tgz:zip:file:///data/bundle.zip#/x/inner.tgz#/c.txt")

	tests := []struct {
		root, id hid.HID
		want     string
	}{
		{root, bundle, "bundle.zip"},
		{root, deep, "bundle.zip//x/inner.tgz//c.txt"},
		{bundle, deep, "x/inner.tgz//c.txt"},
	}
	for _, tt := range tests {
		if got := relativeName(tt.root, tt.id); got != tt.want {
			t.Errorf("relativeName(%s, %s) = %q, want %q", tt.root, tt.id, got, tt.want)
		}
	}
}
