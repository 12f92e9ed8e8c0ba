// Package region emulates logically partitioned key spaces ("regions") over
// a store that only understands one flat key space.
//
// Each region name is bound to an unguessable random token, and every key
// is rewritten to embed that token before it reaches the flat store. A
// caller who knows a plaintext key and a region name still cannot predict
// the flat-store key, so crafted key/region pairs cannot collide with
// another tenant's entries.
package region

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// nullRegionName labels the unscoped ("" region) case in namespaced keys.
const nullRegionName = "<null>"

// KeyProvider maps (key, region) pairs to namespaced flat-store keys.
//
// Tokens are minted lazily, one per region name plus a dedicated one for
// the unscoped case, and never change for the life of the provider. Losing
// a provider orphans every entry stored through it: the entries remain in
// the flat store but become permanently unreachable, not merely stale. Keep
// exactly one provider alive per decorator, or persist a Snapshot and
// Restore it.
type KeyProvider struct {
	mu        sync.RWMutex
	tokens    map[string]string
	nullToken string
}

// NewKeyProvider mints a provider with fresh random tokens. Two providers
// built this way produce, with overwhelming probability, different
// namespaced keys for the same (key, region) pair.
func NewKeyProvider() *KeyProvider {
	return &KeyProvider{
		tokens:    make(map[string]string),
		nullToken: uuid.NewString(),
	}
}

// Restore rebuilds a provider from a previous instance's Snapshot so that
// entries written before a restart stay reachable. This trades token
// unpredictability for continuity; that tradeoff belongs to the operator.
func Restore(tokens map[string]string, nullToken string) (*KeyProvider, error) {
	if nullToken == "" {
		return nil, fmt.Errorf("region: restore: empty null-region token")
	}
	m := make(map[string]string, len(tokens))
	for r, tok := range tokens {
		if tok == "" {
			return nil, fmt.Errorf("region: restore: empty token for region %q", r)
		}
		m[r] = tok
	}
	return &KeyProvider{tokens: m, nullToken: nullToken}, nil
}

// CacheKey returns the namespaced flat-store key for key within region.
// Region "" selects the dedicated unscoped token. The result embeds the
// region name only for diagnostics; collision resistance comes from the
// token. Deterministic for a fixed (key, region, token) triple.
func (p *KeyProvider) CacheKey(key, region string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	name := region
	if name == "" {
		name = nullRegionName
	}
	return fmt.Sprintf("[region(%s %s)] %s", name, p.token(region), key), nil
}

func (p *KeyProvider) token(region string) string {
	if region == "" {
		return p.nullToken
	}
	p.mu.RLock()
	tok, ok := p.tokens[region]
	p.mu.RUnlock()
	if ok {
		return tok
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if tok, ok := p.tokens[region]; ok {
		// lost the mint race; converge on the winner's token
		return tok
	}
	tok = uuid.NewString()
	p.tokens[region] = tok
	return tok
}

// Snapshot copies the current region→token map and the unscoped token for
// later use with Restore.
func (p *KeyProvider) Snapshot() (map[string]string, string) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]string, len(p.tokens))
	for r, tok := range p.tokens {
		out[r] = tok
	}
	return out, p.nullToken
}
