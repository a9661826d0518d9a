package gilbertmoore

import (
	"bytes"
	"io"
	"io/ioutil"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

// ReadCodeTable parses a probability table from r and builds its code table.
func ReadCodeTable(r io.Reader) (*CodeTable, error) {
	pt, err := ParseProbabilities(r)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	ct, err := Build(pt)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return ct, nil
}

// defaultCacheSize bounds the tables kept by LoadCodeTable.
const defaultCacheSize = 16

var defaultCache = mustNewCache(defaultCacheSize)

// LoadCodeTable reads the probability table in the named file and builds its code table.
// Tables are kept in a package-wide Cache keyed by the file contents,
// so loading an unchanged file again returns the same CodeTable.
func LoadCodeTable(name string) (*CodeTable, error) {
	return defaultCache.Load(name)
}

type cachedTable struct {
	src   []byte
	table *CodeTable
}

// A Cache holds the code tables of recently used probability sources,
// so that a distribution is built once and shared by every encode and decode against it.
// A Cache is safe for concurrent use.
type Cache struct {
	tables *lru.Cache[uint64, cachedTable]
}

// NewCache returns a Cache holding at most size code tables.
func NewCache(size int) (*Cache, error) {
	tables, err := lru.New[uint64, cachedTable](size)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return &Cache{tables: tables}, nil
}

func mustNewCache(size int) *Cache {
	c, err := NewCache(size)
	if err != nil {
		panic(err)
	}
	return c
}

// Table returns the code table of the probability source src, building it on a miss.
// Failed builds are not cached.
func (c *Cache) Table(src []byte) (*CodeTable, error) {
	key := xxhash.Sum64(src)
	if ent, ok := c.tables.Get(key); ok && bytes.Equal(ent.src, src) {
		return ent.table, nil
	}

	ct, err := ReadCodeTable(bytes.NewReader(src))
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	c.tables.Add(key, cachedTable{src: append([]byte(nil), src...), table: ct})
	log.Debugf("cached code table %016x (%d symbols)", key, ct.Len())
	return ct, nil
}

// Load returns the code table of the probability source in the named file.
func (c *Cache) Load(name string) (*CodeTable, error) {
	src, err := ioutil.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	ct, err := c.Table(src)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", name)
	}
	return ct, nil
}

// Len returns the number of cached code tables.
func (c *Cache) Len() int {
	return c.tables.Len()
}
