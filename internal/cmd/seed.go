package cmd

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dendrascience/dendra-hid/archive"
)

// NewSeedCmd creates and returns the seed subcommand for the dhid CLI.
// It generates archives nested inside each other for trying out the other
// commands.
func NewSeedCmd() *cobra.Command {
	var (
		outputPath string
		fileCount  int
		depth      int
		seed       uint64
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate nested test archives",
		Long: `Generate a directory of archives nested inside each other.

Each archive holds fileCount small files in a YYYY/MM/DD layout plus the
next archive down, cycling through every container format. Files contain
a UUID drawn from a small pool, so the same content shows up many times.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if depth < 1 || fileCount < 1 {
				return fmt.Errorf("--depth and --count must be positive")
			}
			if seed == 0 {
				seed = uint64(time.Now().UnixNano())
			}
			g := newSeeder(seed, fileCount)
			if err := os.MkdirAll(outputPath, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			name, err := g.writeTree(outputPath, depth)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s with %d nested archives of %d files each\n",
				filepath.Join(outputPath, name), depth, fileCount)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Path to output directory (required)")
	cmd.Flags().IntVarP(&fileCount, "count", "c", 100, "Files per archive")
	cmd.Flags().IntVarP(&depth, "depth", "d", 3, "Number of nested archives")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed (default time based)")

	cmd.MarkFlagRequired("output")

	return cmd
}

// seedPool is the number of distinct file contents.
const seedPool = 50

type seeder struct {
	rnd   *rand.Rand
	pool  []string
	count int
	base  time.Time
}

func newSeeder(seed uint64, count int) *seeder {
	g := &seeder{
		rnd:   rand.New(rand.NewPCG(seed, seed>>1|1)),
		pool:  make([]string, seedPool),
		count: count,
		base:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	src := seededReader{g.rnd}
	for i := range g.pool {
		id, err := uuid.NewRandomFromReader(src)
		if err != nil {
			panic(err) // seededReader never fails
		}
		g.pool[i] = id.String()
	}
	return g
}

// seededReader adapts a seeded generator to io.Reader so UUIDs repeat
// across runs with the same --seed.
type seededReader struct{ rnd *rand.Rand }

func (r seededReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.rnd.Uint32())
	}
	return len(p), nil
}

// writeTree writes the outermost archive into dir and returns its name.
func (g *seeder) writeTree(dir string, depth int) (string, error) {
	formats := archive.Formats.Values()
	var inner []byte
	var innerName string
	for level := depth - 1; level >= 0; level-- {
		f := formats[level%len(formats)]
		name := fmt.Sprintf("level%d.%s", level, f.Scheme())
		data, err := g.archive(f, innerName, inner)
		if err != nil {
			return "", fmt.Errorf("build %s: %w", name, err)
		}
		inner, innerName = data, name
	}
	if err := os.WriteFile(filepath.Join(dir, innerName), inner, 0o644); err != nil {
		return "", err
	}
	return innerName, nil
}

func (g *seeder) archive(f archive.Format, innerName string, inner []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := archive.NewWriter(&buf, f)
	if err != nil {
		return nil, err
	}
	for i := 0; i < g.count; i++ {
		t := g.base.Add(time.Duration(g.rnd.Int64N(int64(365 * 24 * time.Hour))))
		ext := ".json"
		if g.rnd.IntN(2) == 1 {
			ext = ".txt"
		}
		name := fmt.Sprintf("%04d/%02d/%02d/%08x%s", t.Year(), t.Month(), t.Day(), g.rnd.Uint32(), ext)
		content := g.pool[g.rnd.IntN(len(g.pool))] + "\n"
		if err := w.AddBytes(name, t, []byte(content)); err != nil {
			return nil, err
		}
	}
	if inner != nil {
		if err := w.AddBytes(innerName, g.base, inner); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
