// Package index implements the thread-safe inverted index: a sharded
// term->Postings map plus a mutex-guarded document registry. Terms are
// partitioned across independently-locked shards so that ingest and
// search contend only on the shards the terms in play hash to.
package index

import (
	"runtime"
	"sort"
	"sync"

	"github.com/gcbaptista/dirsearch/internal/errors"
	"github.com/gcbaptista/dirsearch/internal/tokenizer"
)

// Index is the concurrent inverted index plus document registry.
type Index struct {
	shards []*shard

	registryMu    sync.RWMutex
	registry      map[DocumentID]*DocumentRecord
	filenameIndex map[string]DocumentID
	nextID        DocumentID
}

// New creates an empty Index sized for the host's logical CPU count.
func New() *Index {
	return NewWithShardCount(shardCount(runtime.NumCPU()))
}

// NewWithShardCount creates an empty Index with an explicit shard count,
// mainly useful for tests that want to exercise shard contention directly.
func NewWithShardCount(n int) *Index {
	if n < 1 {
		n = 1
	}
	shards := make([]*shard, n)
	for i := range shards {
		shards[i] = newShard()
	}
	return &Index{
		shards:        shards,
		registry:      make(map[DocumentID]*DocumentRecord),
		filenameIndex: make(map[string]DocumentID),
	}
}

// Ingest admits filename with content into the index. If filename was
// already admitted, it returns the existing DocumentID and an
// AlreadyPresentError (treated as a success no-op by callers); no further
// work is performed in that case.
func (idx *Index) Ingest(filename string, content []byte) (DocumentID, error) {
	idx.registryMu.Lock()
	if existing, ok := idx.filenameIndex[filename]; ok {
		idx.registryMu.Unlock()
		return existing, errors.NewAlreadyPresentError(filename)
	}

	id := idx.nextID
	idx.nextID++
	idx.filenameIndex[filename] = id
	idx.registry[id] = &DocumentRecord{ID: id, Filename: filename}
	idx.registryMu.Unlock()

	tokens := tokenizer.Tokenize(content)

	local := make(map[string][]int, len(tokens))
	for _, tok := range tokens {
		local[tok.Term] = append(local[tok.Term], tok.Position)
	}

	// Finalize the record before the document becomes visible through any
	// shard's postings, so a search that observes this id under a term
	// always sees a fully-finalized record (content, total_terms).
	idx.registryMu.Lock()
	record := idx.registry[id]
	record.Content = content
	record.TotalTerms = uint64(len(tokens))
	idx.registryMu.Unlock()

	idx.merge(id, local)

	return id, nil
}

// merge groups a document's local per-term positions by destination shard
// and takes each shard's write lock exactly once, in ascending shard
// index, so concurrent ingests can never deadlock against each other.
func (idx *Index) merge(id DocumentID, local map[string][]int) {
	if len(local) == 0 {
		return
	}

	byShard := make(map[int]map[string][]int)
	for term, positions := range local {
		si := shardIndex(term, len(idx.shards))
		if byShard[si] == nil {
			byShard[si] = make(map[string][]int)
		}
		byShard[si][term] = positions
	}

	indices := make([]int, 0, len(byShard))
	for si := range byShard {
		indices = append(indices, si)
	}
	sort.Ints(indices)

	for _, si := range indices {
		s := idx.shards[si]
		s.mu.Lock()
		for term, positions := range byShard[si] {
			postings, ok := s.terms[term]
			if !ok {
				postings = make(Postings)
				s.terms[term] = postings
			}
			// (term, id) cannot already exist: id was just allocated.
			postings[id] = positions
		}
		s.mu.Unlock()
	}
}

// Fetch returns a copy of the registry record for id, or a NotFoundError.
// A document whose ingest is still in progress is returned with its
// Content and TotalTerms not yet set.
func (idx *Index) Fetch(id DocumentID) (DocumentRecord, error) {
	idx.registryMu.RLock()
	defer idx.registryMu.RUnlock()

	record, ok := idx.registry[id]
	if !ok {
		return DocumentRecord{}, errors.NewNotFoundError(uint64(id))
	}
	return *record, nil
}

// DocCount returns the number of admitted documents.
func (idx *Index) DocCount() int {
	idx.registryMu.RLock()
	defer idx.registryMu.RUnlock()
	return len(idx.registry)
}

// TermCount returns the number of distinct terms across all shards. It
// takes each shard's read lock in turn; it is a diagnostic snapshot, not
// a linearizable count.
func (idx *Index) TermCount() int {
	total := 0
	for _, s := range idx.shards {
		s.mu.RLock()
		total += len(s.terms)
		s.mu.RUnlock()
	}
	return total
}
