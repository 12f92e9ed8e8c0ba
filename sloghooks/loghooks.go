// Package sloghooks logs typedcache hook events through log/slog, with
// sampling for the noisy ones and key redaction by default.
package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/csf-dev/typedcache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	MismatchEvery uint64
	DropEvery     uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	mismatchCtr atomic.Uint64
	dropCtr     atomic.Uint64
}

var _ typedcache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) TypeMismatch(storeKey string) {
	if h.l == nil || !sample(h.opts.MismatchEvery, &h.mismatchCtr) {
		return
	}
	h.l.Warn("typedcache.type_mismatch",
		"key", h.redact(storeKey))
}

func (h *Hooks) ManyDropped(storeKey, reason string) {
	if h.l == nil || !sample(h.opts.DropEvery, &h.dropCtr) {
		return
	}
	h.l.Debug("typedcache.get_many_dropped",
		"key", h.redact(storeKey),
		"reason", reason)
}

func (h *Hooks) FactoryInvoked(storeKey string) {
	if h.l == nil {
		return
	}
	h.l.Debug("typedcache.factory_invoked",
		"key", h.redact(storeKey))
}

func (h *Hooks) AddRaceLost(storeKey string) {
	if h.l == nil {
		return
	}
	h.l.Info("typedcache.add_race_lost",
		"key", h.redact(storeKey))
}
