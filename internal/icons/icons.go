// Package icons resolves per-file glyphs for the change panel via the
// devicons database. Lookups key on the base name only and results are
// memoized by name: a refresh fans out one lookup per changed file, and
// repositories tend to touch the same files over and over.
package icons

import (
	"context"
	"os"
	"path"
	"sync"
	"time"

	devicons "github.com/epilande/go-devicons"
)

// maxEntries caps the memo table; past it the table is flushed wholesale.
const maxEntries = 512

// Provider implements the panel's icon lookup. The zero value is not
// usable; construct with NewProvider. Safe for concurrent use.
type Provider struct {
	mu    sync.Mutex
	cache map[string]string
}

// NewProvider returns a provider with an empty memo table.
func NewProvider() *Provider {
	return &Provider{cache: make(map[string]string, 64)}
}

// Icon returns the glyph for uri's base name. A canceled context aborts
// before the lookup so a superseded refresh stops spending work.
func (p *Provider) Icon(ctx context.Context, uri string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := path.Base(uri)
	if name == "." || name == "/" {
		return "", nil
	}

	p.mu.Lock()
	if icon, ok := p.cache[name]; ok {
		p.mu.Unlock()
		return icon, nil
	}
	p.mu.Unlock()

	style := devicons.IconForInfo(iconFileInfo{name: name})

	p.mu.Lock()
	if len(p.cache) >= maxEntries {
		p.cache = make(map[string]string, 64)
	}
	p.cache[name] = style.Icon
	p.mu.Unlock()
	return style.Icon, nil
}

// iconFileInfo adapts a bare file name to fs.FileInfo, which is all the
// devicons matcher looks at.
type iconFileInfo struct {
	name  string
	isDir bool
}

func (i iconFileInfo) Name() string { return i.name }

func (i iconFileInfo) Size() int64 { return 0 }

func (i iconFileInfo) Mode() os.FileMode {
	if i.isDir {
		return os.ModeDir | 0o755
	}
	return 0
}

func (i iconFileInfo) ModTime() time.Time { return time.Time{} }

func (i iconFileInfo) IsDir() bool { return i.isDir }

func (i iconFileInfo) Sys() any { return nil }
