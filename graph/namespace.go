package graph

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/golang/groupcache/lru"
)

// DefaultCompressCacheSize is the number of Compress results a
// NamespaceMapper remembers by default.
const DefaultCompressCacheSize = 1024

type compressResult struct {
	qname string
	ok    bool
}

// NamespaceMapper maps prefixes to namespace URIs. Expansion feeds node
// identity; compression is for display only.
//
// A NamespaceMapper is safe for concurrent use.
type NamespaceMapper struct {
	mu       sync.Mutex
	byPrefix map[string]string
	cache    *lru.Cache
	logger   *slog.Logger
}

// NewNamespaceMapper returns an empty mapper. cacheSize bounds the compress
// cache; zero or less disables it.
func NewNamespaceMapper(cacheSize int) *NamespaceMapper {
	m := &NamespaceMapper{
		byPrefix: make(map[string]string),
		logger:   slog.New(slog.DiscardHandler),
	}
	if cacheSize > 0 {
		m.cache = lru.New(cacheSize)
	}
	return m
}

// AddNamespace maps prefix to uri. Redefining a prefix replaces the previous
// namespace.
func (m *NamespaceMapper) AddNamespace(prefix, uri string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.byPrefix[prefix]; ok && prev != uri {
		m.logger.Debug("namespace redefined", "prefix", prefix, "old", prev, "new", uri)
	}
	m.byPrefix[prefix] = uri
	m.invalidate()
}

// RemoveNamespace drops prefix and reports whether it was defined.
func (m *NamespaceMapper) RemoveNamespace(prefix string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byPrefix[prefix]; !ok {
		return false
	}
	delete(m.byPrefix, prefix)
	m.invalidate()
	return true
}

// HasNamespace reports whether prefix is defined.
func (m *NamespaceMapper) HasNamespace(prefix string) bool {
	_, ok := m.NamespaceURI(prefix)
	return ok
}

// NamespaceURI returns the namespace mapped to prefix.
func (m *NamespaceMapper) NamespaceURI(prefix string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	uri, ok := m.byPrefix[prefix]
	return uri, ok
}

// Prefixes returns the defined prefixes in sorted order.
func (m *NamespaceMapper) Prefixes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.byPrefix))
	for key := range m.byPrefix {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Map returns a copy of the prefix to namespace mapping.
func (m *NamespaceMapper) Map() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.byPrefix))
	for prefix, uri := range m.byPrefix {
		out[prefix] = uri
	}
	return out
}

// Len returns the number of defined prefixes.
func (m *NamespaceMapper) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byPrefix)
}

// Import copies every mapping of other whose prefix is not yet defined here
// and returns how many were added.
func (m *NamespaceMapper) Import(other *NamespaceMapper) int {
	if other == nil || other == m {
		return 0
	}
	incoming := other.Map()
	m.mu.Lock()
	defer m.mu.Unlock()
	added := 0
	for prefix, uri := range incoming {
		if _, ok := m.byPrefix[prefix]; ok {
			continue
		}
		m.byPrefix[prefix] = uri
		added++
	}
	if added > 0 {
		m.invalidate()
	}
	return added
}

// Expand turns a prefixed name into a URI. The name is split on its first
// ':'; the local part is not validated.
func (m *NamespaceMapper) Expand(qname string) (string, error) {
	prefix, local, ok := strings.Cut(qname, ":")
	if !ok {
		return "", fmt.Errorf("%w: %q has no ':'", ErrInvalidQName, qname)
	}
	ns, found := m.NamespaceURI(prefix)
	if !found {
		return "", &PrefixError{QName: qname, Prefix: prefix}
	}
	return ns + local, nil
}

// Compress returns the prefixed name for uri using the longest matching
// namespace, or false when no namespace yields a legal local name.
func (m *NamespaceMapper) Compress(uri string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cache != nil {
		if cached, ok := m.cache.Get(uri); ok {
			res := cached.(compressResult)
			return res.qname, res.ok
		}
	}
	qname, ok := abbreviate(uri, m.byPrefix)
	if m.cache != nil {
		m.cache.Add(uri, compressResult{qname: qname, ok: ok})
	}
	return qname, ok
}

func (m *NamespaceMapper) invalidate() {
	if m.cache != nil {
		m.cache.Clear()
	}
}

func abbreviate(uri string, prefixes map[string]string) (string, bool) {
	bestNS := ""
	bestPrefix := ""
	found := false
	for prefix, ns := range prefixes {
		if ns == "" || !strings.HasPrefix(uri, ns) {
			continue
		}
		local := uri[len(ns):]
		if local != "" && !isQNameLocal(local) {
			continue
		}
		if !found || len(ns) > len(bestNS) || (len(ns) == len(bestNS) && prefix < bestPrefix) {
			bestNS = ns
			bestPrefix = prefix
			found = true
		}
	}
	if !found {
		return "", false
	}
	return bestPrefix + ":" + uri[len(bestNS):], true
}
