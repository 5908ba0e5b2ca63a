package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/containerd/errdefs"
)

// A published artifact: where to download it and what it should hash to.
type Artifact struct {
	URL    string `json:"url"`
	SHA256 string `json:"sha256"`
}

// Reports whether the artifact was published with the given digest and can
// be referenced again instead of being uploaded.
func (a Artifact) Reusable(sha256 string) bool {
	return a.URL != "" && a.SHA256 == sha256
}

// The manifest record of one architecture.
type Entry struct {
	URL    string   `json:"url"`
	SHA256 string   `json:"sha256"`
	Cache  Artifact `json:"cache"`
}

// Returns the binary artifact of the entry.
func (e Entry) Binary() Artifact {
	return Artifact{URL: e.URL, SHA256: e.SHA256}
}

// An ordered mapping from Guix system identifier to [Entry].
//
// The zero value is an empty manifest ready to use.
type Manifest struct {
	order   []string
	entries map[string]*Entry
}

// Creates an empty manifest.
func New() *Manifest {
	return &Manifest{}
}

// Returns the entry for arch.
func (m *Manifest) Get(arch string) (Entry, bool) {
	if m == nil {
		return Entry{}, false
	}
	e, ok := m.entries[arch]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Records the binary artifact of arch.
//
// A new entry is appended with an empty cache record. An existing entry keeps
// its position and its cache record.
func (m *Manifest) SetBinary(arch string, a Artifact) {
	if m.entries == nil {
		m.entries = make(map[string]*Entry)
	}
	e, ok := m.entries[arch]
	if !ok {
		e = &Entry{}
		m.entries[arch] = e
		m.order = append(m.order, arch)
	}
	e.URL = a.URL
	e.SHA256 = a.SHA256
}

// Records the cache artifact of arch.
//
// The binary entry must already exist; otherwise an error matching
// [ErrMissingBinary] and [errdefs.ErrFailedPrecondition] is returned and the
// manifest is left unchanged.
func (m *Manifest) AttachCache(arch string, a Artifact) error {
	e, ok := m.entries[arch]
	if !ok {
		return fmt.Errorf("%w: %w: %s", ErrMissingBinary, errdefs.ErrFailedPrecondition, arch)
	}
	e.Cache = a
	return nil
}

// Returns the architectures in the manifest, in order.
func (m *Manifest) Arches() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.order)
}

// Returns the number of entries.
func (m *Manifest) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}

// Returns a new manifest holding only the given architectures, in the order
// given. Architectures absent from m are skipped.
func (m *Manifest) Restrict(arches []string) *Manifest {
	r := New()
	for _, arch := range arches {
		if e, ok := m.Get(arch); ok {
			r.SetBinary(arch, e.Binary())
			r.entries[arch].Cache = e.Cache
		}
	}
	return r
}

// Checks that every architecture in arches has an entry with a binary URL
// and a cache URL.
func (m *Manifest) Complete(arches []string) error {
	for _, arch := range arches {
		e, ok := m.Get(arch)
		if !ok {
			return fmt.Errorf("%w: no entry for %s", ErrIncomplete, arch)
		}
		if e.URL == "" || e.Cache.URL == "" {
			return fmt.Errorf("%w: %s has an empty URL", ErrIncomplete, arch)
		}
	}
	return nil
}

// Encodes the manifest as a JSON object with keys in insertion order.
func (m *Manifest) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, arch := range m.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(arch)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(m.entries[arch])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Decodes a JSON object, preserving the document's key order.
//
// A JSON null decodes to an empty manifest. Repeated keys keep the position
// of their first occurrence and the value of their last.
func (m *Manifest) UnmarshalJSON(data []byte) error {
	*m = Manifest{}

	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		arch, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected key, got %v", tok)
		}

		var e Entry
		if err := dec.Decode(&e); err != nil {
			return fmt.Errorf("entry %s: %w", arch, err)
		}
		m.SetBinary(arch, e.Binary())
		m.entries[arch].Cache = e.Cache
	}

	_, err = dec.Token()
	return err
}

// Decodes a manifest from r.
func Decode(r io.Reader) (*Manifest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	m := New()
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return m, nil
}

// Writes the manifest to w as JSON indented with two spaces, without a
// trailing newline.
func (m *Manifest) Encode(w io.Writer) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Writes the encoded manifest to path.
func (m *Manifest) WriteFile(path string, perm os.FileMode) error {
	var buf bytes.Buffer
	if err := m.Encode(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), perm)
}
