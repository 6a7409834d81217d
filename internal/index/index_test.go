package index

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/gcbaptista/dirsearch/internal/errors"
)

func TestIngest_RoundTrip(t *testing.T) {
	idx := New()

	id, err := idx.Ingest("fox.txt", []byte("the quick brown fox"))
	require.NoError(t, err)

	record, err := idx.Fetch(id)
	require.NoError(t, err)
	assert.Equal(t, "fox.txt", record.Filename)
	assert.Equal(t, []byte("the quick brown fox"), record.Content)
	assert.EqualValues(t, 4, record.TotalTerms)
}

func TestIngest_DuplicateFilenameIsIdempotent(t *testing.T) {
	idx := New()

	first, err := idx.Ingest("dup.txt", []byte("alpha beta"))
	require.NoError(t, err)

	second, err := idx.Ingest("dup.txt", []byte("gamma delta"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyPresent)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, idx.DocCount())

	record, err := idx.Fetch(first)
	require.NoError(t, err)
	assert.Equal(t, []byte("alpha beta"), record.Content)
}

func TestIngest_EmptyFileIsFetchableButMatchesNoTerm(t *testing.T) {
	idx := New()

	id, err := idx.Ingest("empty.txt", []byte(""))
	require.NoError(t, err)

	record, err := idx.Fetch(id)
	require.NoError(t, err)
	assert.EqualValues(t, 0, record.TotalTerms)

	result := idx.Search([]string{"anything"})
	assert.Equal(t, 0, result.TotalResults)
}

func TestIngest_AssignsAscendingDenseIDs(t *testing.T) {
	idx := New()

	var ids []DocumentID
	for i := 0; i < 5; i++ {
		id, err := idx.Ingest(fmt.Sprintf("doc-%d.txt", i), []byte("content"))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	for i, id := range ids {
		assert.EqualValues(t, i, id)
	}
}

func TestSearch_ANDSemanticsAcrossMultipleTerms(t *testing.T) {
	idx := New()

	_, err := idx.Ingest("fox.txt", []byte("the quick brown fox"))
	require.NoError(t, err)
	_, err = idx.Ingest("lazy-fox.txt", []byte("the lazy fox sleeps"))
	require.NoError(t, err)
	_, err = idx.Ingest("quick-fox.txt", []byte("quick quick fox runs"))
	require.NoError(t, err)

	result := idx.Search([]string{"quick", "fox"})
	require.Equal(t, 2, result.TotalResults)

	byFilename := make(map[string]Result, len(result.Results))
	for _, r := range result.Results {
		byFilename[r.Filename] = r
	}

	_, hasLazy := byFilename["lazy-fox.txt"]
	assert.False(t, hasLazy, "document missing a query term must be excluded")

	quickFox, ok := byFilename["quick-fox.txt"]
	require.True(t, ok)
	assert.Equal(t, 3, quickFox.Matches)

	plainFox, ok := byFilename["fox.txt"]
	require.True(t, ok)
	assert.Equal(t, 2, plainFox.Matches)

	// quick-fox.txt has more total matches, so it ranks first.
	assert.Equal(t, "quick-fox.txt", result.Results[0].Filename)
	assert.Equal(t, "fox.txt", result.Results[1].Filename)
}

func TestSearch_RanksByMatchCountThenDocumentID(t *testing.T) {
	idx := New()

	first, err := idx.Ingest("a.txt", []byte("fox fox"))
	require.NoError(t, err)
	second, err := idx.Ingest("b.txt", []byte("fox fox fox"))
	require.NoError(t, err)
	third, err := idx.Ingest("c.txt", []byte("fox fox"))
	require.NoError(t, err)

	result := idx.Search([]string{"fox"})
	require.Equal(t, 3, result.TotalResults)

	assert.Equal(t, second, result.Results[0].DocID)
	assert.Equal(t, 3, result.Results[0].Matches)

	// first and third tie on match count; lower DocumentID sorts first.
	assert.Equal(t, first, result.Results[1].DocID)
	assert.Equal(t, third, result.Results[2].DocID)
}

func TestSearch_CaseFoldingMatchesAcrossCasing(t *testing.T) {
	idx := New()

	_, err := idx.Ingest("hello.txt", []byte("hello hello HELLO"))
	require.NoError(t, err)

	result := idx.Search([]string{"hello"})
	require.Equal(t, 1, result.TotalResults)
	assert.Equal(t, 3, result.Results[0].Matches)
	assert.Equal(t, []int{0, 1, 2}, result.Results[0].Positions["hello"])
}

func TestSearch_EmptyQueryYieldsNoResults(t *testing.T) {
	idx := New()
	_, err := idx.Ingest("a.txt", []byte("anything"))
	require.NoError(t, err)

	result := idx.Search(nil)
	assert.Equal(t, 0, result.TotalResults)
	assert.Empty(t, result.Results)
}

func TestSearch_UnmatchedTermYieldsNoResults(t *testing.T) {
	idx := New()
	_, err := idx.Ingest("a.txt", []byte("apples and oranges"))
	require.NoError(t, err)

	result := idx.Search([]string{"bananas"})
	assert.Equal(t, 0, result.TotalResults)
}

func TestFetch_UnknownDocumentIDReturnsNotFoundError(t *testing.T) {
	idx := New()

	_, err := idx.Fetch(DocumentID(999))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestConcurrentIngestAndSearchNeverObservesPartialDocument(t *testing.T) {
	idx := NewWithShardCount(4)

	const docs = 200
	var wg sync.WaitGroup
	wg.Add(docs)
	for i := 0; i < docs; i++ {
		go func(i int) {
			defer wg.Done()
			_, err := idx.Ingest(fmt.Sprintf("doc-%d.txt", i), []byte("shared needle term"))
			assert.NoError(t, err)
		}(i)
	}

	stop := make(chan struct{})
	var searchWG sync.WaitGroup
	searchWG.Add(1)
	go func() {
		defer searchWG.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			result := idx.Search([]string{"needle"})
			for _, r := range result.Results {
				record, err := idx.Fetch(r.DocID)
				assert.NoError(t, err)
				assert.NotZero(t, record.TotalTerms, "search must never surface an unfinalized document")
			}
		}
	}()

	wg.Wait()
	close(stop)
	searchWG.Wait()

	assert.Equal(t, docs, idx.DocCount())
	result := idx.Search([]string{"needle"})
	assert.Equal(t, docs, result.TotalResults)
}
