package index

import "sort"

// Result is one ranked match for a search.
type Result struct {
	DocID    DocumentID
	Filename string
	Matches  int
	// Positions maps each matched query term to its ordered positions in
	// this document.
	Positions map[string][]int
}

// SearchResult is the full ranked outcome of a search.
type SearchResult struct {
	TotalResults int
	Results      []Result
}

// Search takes a set of distinct, already-tokenized query terms,
// intersects the candidate document sets of every term (AND semantics),
// and ranks matches by total occurrence count descending, ties broken
// by ascending DocumentID. An empty term set yields an empty result.
func (idx *Index) Search(terms []string) SearchResult {
	if len(terms) == 0 {
		return SearchResult{}
	}

	// perTerm[q][docID] = positions, captured under that term's shard
	// read lock and copied out before release, per the search-vs-ingest
	// visibility discipline: each term's postings are read in one held
	// lock acquisition.
	perTerm := make(map[string]Postings, len(terms))
	for _, term := range terms {
		perTerm[term] = idx.readPostings(term)
	}

	var candidates map[DocumentID]struct{}
	for _, term := range terms {
		docs := perTerm[term]
		if len(docs) == 0 {
			return SearchResult{}
		}
		if candidates == nil {
			candidates = make(map[DocumentID]struct{}, len(docs))
			for id := range docs {
				candidates[id] = struct{}{}
			}
			continue
		}
		for id := range candidates {
			if _, ok := docs[id]; !ok {
				delete(candidates, id)
			}
		}
		if len(candidates) == 0 {
			return SearchResult{}
		}
	}

	results := make([]Result, 0, len(candidates))
	for id := range candidates {
		positionsByTerm := make(map[string][]int, len(terms))
		matches := 0
		for _, term := range terms {
			positions := perTerm[term][id]
			positionsByTerm[term] = positions
			matches += len(positions)
		}

		filename := idx.filenameFor(id)
		results = append(results, Result{
			DocID:     id,
			Filename:  filename,
			Matches:   matches,
			Positions: positionsByTerm,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Matches != results[j].Matches {
			return results[i].Matches > results[j].Matches
		}
		return results[i].DocID < results[j].DocID
	})

	return SearchResult{TotalResults: len(results), Results: results}
}

// readPostings copies out term's postings map under that term's shard
// read lock, held for the duration of the copy, then released.
func (idx *Index) readPostings(term string) Postings {
	si := shardIndex(term, len(idx.shards))
	s := idx.shards[si]

	s.mu.RLock()
	defer s.mu.RUnlock()

	source, ok := s.terms[term]
	if !ok {
		return nil
	}
	out := make(Postings, len(source))
	for id, positions := range source {
		copied := make([]int, len(positions))
		copy(copied, positions)
		out[id] = copied
	}
	return out
}

func (idx *Index) filenameFor(id DocumentID) string {
	idx.registryMu.RLock()
	defer idx.registryMu.RUnlock()
	if record, ok := idx.registry[id]; ok {
		return record.Filename
	}
	return ""
}
