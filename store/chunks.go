// Copyright (C) 2025, MaidSafe.net Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Package store implements the on-disk chunk and register layout of
// §6's persisted state: a content-addressed chunk store with capacity
// accounting, and an append-only per-register CRDT op log. Grounded on
// original_source/sn_node/src/storage/{chunks,file_store,register_store}.rs.
package store

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/maidsafe/sn-core/address"
	"github.com/maidsafe/sn-core/errs"
	safemath "github.com/maidsafe/sn-core/utils/math"
)

// prefixDepth is the fixed depth of the hex-prefix directory tree a
// chunk's file lives under, keeping any single directory from holding an
// unbounded number of entries.
const prefixDepth = 2

// ChunkStore is a capacity-bounded, content-addressed store: each
// chunk's file is named by the hex of its name, nested prefixDepth
// directories deep.
type ChunkStore struct {
	mu          sync.Mutex
	rootDir     string
	maxCapacity uint64
	usedBytes   uint64
}

// NewChunkStore opens (creating if absent) a chunk store rooted at
// rootDir, bounded to maxCapacity bytes, and recomputes usedBytes by
// walking any chunks already on disk.
func NewChunkStore(rootDir string, maxCapacity uint64) (*ChunkStore, error) {
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create chunk root: %w", err)
	}
	s := &ChunkStore{rootDir: rootDir, maxCapacity: maxCapacity}
	if err := filepath.Walk(rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			s.usedBytes += uint64(info.Size())
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("store: scan chunk root: %w", err)
	}
	return s, nil
}

func (s *ChunkStore) pathFor(name address.Name) string {
	hexName := hex.EncodeToString(name[:])
	dir := s.rootDir
	for i := 0; i < prefixDepth; i++ {
		dir = filepath.Join(dir, hexName[i*2:i*2+2])
	}
	return filepath.Join(dir, hexName)
}

// Put writes data under name, rejecting the write with NotEnoughSpace if
// it would exceed maxCapacity. The file is written whole then fsynced
// before being considered durable (§6).
func (s *ChunkStore) Put(name address.Name, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wouldUse, err := safemath.Add64(s.usedBytes, uint64(len(data)))
	if err != nil || wouldUse > s.maxCapacity {
		return errs.New(errs.KindNotEnoughSpace, "store: chunk write would exceed capacity")
	}

	path := s.pathFor(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("store: create chunk dir: %w", err)
	}

	prevSize := int64(0)
	if info, err := os.Stat(path); err == nil {
		prevSize = info.Size()
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("store: open chunk file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("store: write chunk: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("store: fsync chunk: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("store: close chunk: %w", err)
	}

	withoutPrev, err := safemath.Sub64(s.usedBytes, uint64(prevSize))
	if err != nil {
		return fmt.Errorf("store: used byte accounting underflowed: %w", err)
	}
	s.usedBytes, err = safemath.Add64(withoutPrev, uint64(len(data)))
	if err != nil {
		return fmt.Errorf("store: used byte accounting overflowed: %w", err)
	}
	return nil
}

// Get reads the chunk stored under name, returning errs.KindDataNotFound
// if it is absent.
func (s *ChunkStore) Get(name address.Name) ([]byte, error) {
	data, err := os.ReadFile(s.pathFor(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.New(errs.KindDataNotFound, "store: chunk not found")
		}
		return nil, fmt.Errorf("store: read chunk: %w", err)
	}
	return data, nil
}

// Has reports whether name is currently stored.
func (s *ChunkStore) Has(name address.Name) bool {
	_, err := os.Stat(s.pathFor(name))
	return err == nil
}

// Full reports whether the store is at or beyond a usedFraction of its
// capacity — the signal DataPlacement's shadow-holder logic needs to
// decide when a holder should stop being offered as a primary.
func (s *ChunkStore) Full(usedFraction float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.maxCapacity == 0 {
		return true
	}
	return float64(s.usedBytes)/float64(s.maxCapacity) >= usedFraction
}
