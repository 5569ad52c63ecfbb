package metadata

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Provider supplies region metadata to the engine. Implementations must be
// safe for concurrent use.
//
// For a key the Index does not know, methods return (nil, nil). For a key the
// Index knows but that has no data, they return an error wrapping
// ErrMissingMetadata.
type Provider interface {
	Region(regionCode string) (*Region, error)
	NonGeographicalRegion(callingCode int) (*Region, error)
	// AlternateFormats returns extra formatting rules used when judging digit
	// grouping in free text. Absent data is not an error.
	AlternateFormats(callingCode int) ([]*NumberFormat, error)
}

//go:embed data
var embedded embed.FS

// EmbeddedFS returns the bundled data set rooted so that FSProvider can read it.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic(err)
	}
	return sub
}

// Option configures an FSProvider.
type Option func(*FSProvider)

// WithLogger sets the logger used to report metadata loads.
func WithLogger(l *slog.Logger) Option {
	return func(p *FSProvider) { p.logger = l }
}

// WithLoadHook registers a callback invoked once per successfully loaded key.
func WithLoadHook(fn func(key string)) Option {
	return func(p *FSProvider) { p.onLoad = fn }
}

// FSProvider reads YAML metadata from an fs.FS:
//
//	<REGION>.yaml                  one file per geographic region, e.g. US.yaml
//	<CODE>.yaml                    one file per non-geographic calling code, e.g. 800.yaml
//	alternate_formats/<CODE>.yaml  optional alternate formats per calling code
//
// Each key is decoded at most once. Callers racing on an uncached key wait for
// the single in-flight load; cached keys are served without locking.
type FSProvider struct {
	fsys   fs.FS
	index  *Index
	logger *slog.Logger
	onLoad func(key string)

	cache sync.Map // key -> cached
	group singleflight.Group
}

type cached struct {
	region  *Region
	formats []*NumberFormat
}

// NewFSProvider returns a provider reading from fsys for the keys of idx.
func NewFSProvider(fsys fs.FS, idx *Index, opts ...Option) *FSProvider {
	p := &FSProvider{fsys: fsys, index: idx, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var (
	embeddedOnce     sync.Once
	embeddedProvider *FSProvider
)

// Embedded returns the process-wide provider over the bundled data set.
func Embedded() *FSProvider {
	embeddedOnce.Do(func() {
		embeddedProvider = NewFSProvider(EmbeddedFS(), DefaultIndex())
	})
	return embeddedProvider
}

// Index returns the index this provider serves.
func (p *FSProvider) Index() *Index { return p.index }

// Region implements Provider.
func (p *FSProvider) Region(regionCode string) (*Region, error) {
	if !p.index.IsValidRegion(regionCode) {
		return nil, nil
	}
	c, err := p.load("region:"+regionCode, regionCode+".yaml", true, decodeRegionEntry)
	if err != nil {
		return nil, err
	}
	return c.region, nil
}

// NonGeographicalRegion implements Provider.
func (p *FSProvider) NonGeographicalRegion(callingCode int) (*Region, error) {
	if !p.index.IsNonGeographical(callingCode) {
		return nil, nil
	}
	code := strconv.Itoa(callingCode)
	c, err := p.load("nongeo:"+code, code+".yaml", true, decodeRegionEntry)
	if err != nil {
		return nil, err
	}
	return c.region, nil
}

// AlternateFormats implements Provider.
func (p *FSProvider) AlternateFormats(callingCode int) ([]*NumberFormat, error) {
	if !p.index.HasCode(callingCode) {
		return nil, nil
	}
	code := strconv.Itoa(callingCode)
	c, err := p.load("alternate:"+code, "alternate_formats/"+code+".yaml", false, decodeAlternateEntry)
	if err != nil {
		return nil, err
	}
	return c.formats, nil
}

func decodeRegionEntry(data []byte) (*cached, error) {
	r, err := DecodeRegion(data)
	if err != nil {
		return nil, err
	}
	return &cached{region: r}, nil
}

func decodeAlternateEntry(data []byte) (*cached, error) {
	formats, err := DecodeAlternateFormats(data)
	if err != nil {
		return nil, err
	}
	return &cached{formats: formats}, nil
}

func (p *FSProvider) load(key, name string, required bool, decode func([]byte) (*cached, error)) (*cached, error) {
	if v, ok := p.cache.Load(key); ok {
		return v.(*cached), nil
	}
	v, err, _ := p.group.Do(key, func() (any, error) {
		if v, ok := p.cache.Load(key); ok {
			return v, nil
		}
		data, err := fs.ReadFile(p.fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			if required {
				return nil, &MissingMetadataError{Key: key, Err: err}
			}
			c := &cached{}
			p.cache.Store(key, c)
			return c, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		c, err := decode(data)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", name, err)
		}
		p.cache.Store(key, c)
		p.logger.Debug("metadata loaded", slog.String("key", key), slog.String("file", name))
		if p.onLoad != nil {
			p.onLoad(key)
		}
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*cached), nil
}
