package archive

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/dendrascience/dendra-hid/digest"
	"github.com/dendrascience/dendra-hid/hid"
	"github.com/dendrascience/dendra-hid/version"
)

type (
	IndexEntry struct {
		ID       hid.HID       `json:"id" cbor:"1,keyasint"`
		Size     int64         `json:"size" cbor:"2,keyasint"`
		Modified time.Time     `json:"modified" cbor:"3,keyasint"`
		Digest   digest.Digest `json:"digest" cbor:"4,keyasint"`
	}
	// Index lists the files below Root with their digests. Entries are kept
	// in HID pre-order once sorted, so an entry's descendants follow it
	// directly.
	Index struct {
		Root      hid.HID
		Algorithm digest.Algorithm
		Created   time.Time
		entries   []IndexEntry
		sorted    bool
	}
	// indexFile is the serialized form of an Index.
	indexFile struct {
		Version   string           `json:"version" cbor:"1,keyasint"`
		Root      hid.HID          `json:"root" cbor:"2,keyasint"`
		Algorithm digest.Algorithm `json:"algorithm" cbor:"3,keyasint"`
		Created   time.Time        `json:"created" cbor:"4,keyasint"`
		Entries   []IndexEntry     `json:"entries" cbor:"5,keyasint"`
	}
)

// NewIndex returns an empty index of the files below root.
func NewIndex(root hid.HID, alg digest.Algorithm) *Index {
	return &Index{Root: root, Algorithm: alg, Created: time.Now().UTC()}
}

func (x *Index) Add(e IndexEntry) {
	x.sorted = false
	x.entries = append(x.entries, e)
}

func (x *Index) Len() int { return len(x.entries) }

// Entries iterates over the entries in their current order.
func (x *Index) Entries(yield func(IndexEntry) bool) {
	for _, e := range x.entries {
		if !yield(e) {
			return
		}
	}
}

// Sort puts the entries in HID pre-order.
func (x *Index) Sort() {
	if x.sorted {
		return
	}
	slices.SortFunc(x.entries, func(a, b IndexEntry) int { return hid.Compare(a.ID, b.ID) })
	x.sorted = true
}

// Find returns the entry for id.
func (x *Index) Find(id hid.HID) (IndexEntry, bool) {
	x.Sort()
	i, ok := slices.BinarySearchFunc(x.entries, id, func(e IndexEntry, id hid.HID) int {
		return hid.Compare(e.ID, id)
	})
	if !ok {
		return IndexEntry{}, false
	}
	return x.entries[i], true
}

// Below returns the entries strictly below id, in pre-order.
func (x *Index) Below(id hid.HID) []IndexEntry {
	x.Sort()
	i, _ := slices.BinarySearchFunc(x.entries, id, func(e IndexEntry, id hid.HID) int {
		return hid.Compare(e.ID, id)
	})
	var out []IndexEntry
	for ; i < len(x.entries); i++ {
		e := x.entries[i]
		if e.ID.Equal(id) {
			continue
		}
		if !id.IsAncestor(e.ID) {
			break
		}
		out = append(out, e)
	}
	return out
}

func (x *Index) TotalSize() int64 {
	var total int64
	for e := range x.Entries {
		total += e.Size
	}
	return total
}

// Oldest returns the earliest modification time, or the zero time for an
// empty index.
func (x *Index) Oldest() time.Time {
	var oldest time.Time
	for e := range x.Entries {
		if oldest.IsZero() || e.Modified.Before(oldest) {
			oldest = e.Modified
		}
	}
	return oldest
}

func (x *Index) Newest() time.Time {
	var newest time.Time
	for e := range x.Entries {
		if e.Modified.After(newest) {
			newest = e.Modified
		}
	}
	return newest
}

// UniqueContents returns the number of distinct digests.
func (x *Index) UniqueContents() int {
	seen := make(map[digest.Digest]struct{}, len(x.entries))
	for e := range x.Entries {
		seen[e.Digest] = struct{}{}
	}
	return len(seen)
}

// Containers returns the number of distinct containers holding entries.
// Entries at the filesystem level are not counted.
func (x *Index) Containers() int {
	seen := make(map[string]struct{})
	for e := range x.Entries {
		if c, ok := e.ID.TryContainer(); ok {
			seen[c.String()] = struct{}{}
		}
	}
	return len(seen)
}

type Metadata struct {
	Version        string    `json:"version"`
	Root           string    `json:"root"`
	Algorithm      string    `json:"algorithm"`
	Files          int       `json:"files"`
	UniqueContents int       `json:"unique_contents"`
	Containers     int       `json:"containers"`
	TotalSize      int64     `json:"total_size"`
	Oldest         time.Time `json:"oldest"`
	Newest         time.Time `json:"newest"`
}

// Metadata summarizes the index.
func (x *Index) Metadata() Metadata {
	return Metadata{
		Version:        version.GetVersion(),
		Root:           x.Root.String(),
		Algorithm:      x.Algorithm.String(),
		Files:          x.Len(),
		UniqueContents: x.UniqueContents(),
		Containers:     x.Containers(),
		TotalSize:      x.TotalSize(),
		Oldest:         x.Oldest(),
		Newest:         x.Newest(),
	}
}

func (x *Index) file() indexFile {
	x.Sort()
	return indexFile{
		Version:   version.GetVersion(),
		Root:      x.Root,
		Algorithm: x.Algorithm,
		Created:   x.Created,
		Entries:   x.entries,
	}
}

func (x *Index) load(f indexFile) error {
	if f.Root.IsZero() {
		return fmt.Errorf("%w: missing root", ErrCorruptIndex)
	}
	for i, e := range f.Entries {
		if e.ID.IsZero() || e.Digest.IsZero() {
			return fmt.Errorf("%w: entry %d incomplete", ErrCorruptIndex, i)
		}
	}
	*x = Index{
		Root:      f.Root,
		Algorithm: f.Algorithm,
		Created:   f.Created,
		entries:   f.Entries,
	}
	x.Sort()
	return nil
}

func (x *Index) MarshalJSON() ([]byte, error) {
	return json.Marshal(x.file())
}

func (x *Index) UnmarshalJSON(data []byte) error {
	var f indexFile
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	return x.load(f)
}

var (
	cborEnc cbor.EncMode
	cborDec cbor.DecMode
)

func init() {
	opts := cbor.CoreDetEncOptions()
	opts.TextMarshaler = cbor.TextMarshalerTextString
	opts.Time = cbor.TimeRFC3339Nano
	var err error
	if cborEnc, err = opts.EncMode(); err != nil {
		panic("archive: CBOR encoder initialization failed: " + err.Error())
	}
	cborDec, err = cbor.DecOptions{
		TextUnmarshaler: cbor.TextUnmarshalerTextString,
	}.DecMode()
	if err != nil {
		panic("archive: CBOR decoder initialization failed: " + err.Error())
	}
}

func (x *Index) MarshalCBOR() ([]byte, error) {
	return cborEnc.Marshal(x.file())
}

func (x *Index) UnmarshalCBOR(data []byte) error {
	var f indexFile
	if err := cborDec.Unmarshal(data, &f); err != nil {
		return err
	}
	return x.load(f)
}

// IndexEncoding is a serialization of an Index.
type IndexEncoding int

const (
	JSONEncoding IndexEncoding = iota
	CBOREncoding
)

// EncodingFor picks the encoding from a file extension: ".cbor" is CBOR,
// anything else JSON.
func EncodingFor(path string) IndexEncoding {
	if strings.EqualFold(filepath.Ext(path), ".cbor") {
		return CBOREncoding
	}
	return JSONEncoding
}

// Write serializes x to w.
func (x *Index) Write(w io.Writer, enc IndexEncoding) error {
	if enc == CBOREncoding {
		return cborEnc.NewEncoder(w).Encode(x.file())
	}
	je := json.NewEncoder(w)
	je.SetIndent("", "  ")
	return je.Encode(x.file())
}

// ReadIndex deserializes an index from r.
func ReadIndex(r io.Reader, enc IndexEncoding) (*Index, error) {
	var f indexFile
	var err error
	if enc == CBOREncoding {
		err = cborDec.NewDecoder(r).Decode(&f)
	} else {
		err = json.NewDecoder(r).Decode(&f)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptIndex, err)
	}
	x := new(Index)
	if err := x.load(f); err != nil {
		return nil, err
	}
	return x, nil
}

// Save writes x to path in the encoding its extension selects.
func (x *Index) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := x.Write(w, EncodingFor(path)); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func LoadIndex(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadIndex(bufio.NewReader(f), EncodingFor(path))
}
