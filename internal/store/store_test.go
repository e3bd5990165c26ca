package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/openoda/geoaddress/pkg/errors"
)

const addresses = "geographicAddress"

func TestCreateGeneratesID(t *testing.T) {
	s := New()

	doc, err := s.Create(addresses, Document{"city": "Antwerp"})
	require.NoError(t, err)

	id, ok := doc["id"].(string)
	require.True(t, ok)
	assert.NotEmpty(t, id)

	got, err := s.Get(addresses, id)
	require.NoError(t, err)
	assert.Equal(t, "Antwerp", got["city"])
}

func TestCreateHonorsProvidedID(t *testing.T) {
	s := New()

	doc, err := s.Create(addresses, Document{"id": "addr-1", "city": "Ghent"})
	require.NoError(t, err)
	assert.Equal(t, "addr-1", doc["id"])

	_, err = s.Create(addresses, Document{"id": "addr-1"})
	assert.True(t, pkgerrors.IsAlreadyExists(err))
}

func TestCreateNilBody(t *testing.T) {
	s := New()
	_, err := s.Create(addresses, nil)
	assert.True(t, pkgerrors.IsInvalidInput(err))
}

func TestGetNotFound(t *testing.T) {
	s := New()
	_, err := s.Get(addresses, "missing")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestListOrderingAndPagination(t *testing.T) {
	s := New()
	for _, city := range []string{"a", "b", "c", "d"} {
		_, err := s.Create(addresses, Document{"id": city, "city": city})
		require.NoError(t, err)
	}

	docs, total := s.List(addresses, ListOptions{})
	assert.Equal(t, 4, total)
	require.Len(t, docs, 4)
	assert.Equal(t, "a", docs[0]["id"])
	assert.Equal(t, "d", docs[3]["id"])

	page, total := s.List(addresses, ListOptions{Offset: 1, Limit: 2})
	assert.Equal(t, 4, total)
	require.Len(t, page, 2)
	assert.Equal(t, "b", page[0]["id"])
	assert.Equal(t, "c", page[1]["id"])

	past, total := s.List(addresses, ListOptions{Offset: 10})
	assert.Equal(t, 4, total)
	assert.Empty(t, past)
}

func TestListFilters(t *testing.T) {
	s := New()
	_, err := s.Create(addresses, Document{"city": "Antwerp", "postcode": 2000})
	require.NoError(t, err)
	_, err = s.Create(addresses, Document{"city": "Ghent", "postcode": 9000})
	require.NoError(t, err)

	docs, total := s.List(addresses, ListOptions{Filters: map[string]string{"city": "Ghent"}})
	assert.Equal(t, 1, total)
	require.Len(t, docs, 1)
	assert.Equal(t, "Ghent", docs[0]["city"])

	// Numbers match by string rendering, the way query params arrive.
	docs, _ = s.List(addresses, ListOptions{Filters: map[string]string{"postcode": "2000"}})
	require.Len(t, docs, 1)
	assert.Equal(t, "Antwerp", docs[0]["city"])

	_, total = s.List(addresses, ListOptions{Filters: map[string]string{"missing": "x"}})
	assert.Zero(t, total)
}

func TestPatch(t *testing.T) {
	s := New()
	created, err := s.Create(addresses, Document{"city": "Antwerp", "street": "Meir"})
	require.NoError(t, err)
	id := created["id"].(string)

	updated, err := s.Patch(addresses, id, Document{"city": "Brussels", "id": "ignored", "street": nil})
	require.NoError(t, err)
	assert.Equal(t, "Brussels", updated["city"])
	assert.Equal(t, id, updated["id"])
	_, hasStreet := updated["street"]
	assert.False(t, hasStreet, "nil patch value removes the field")

	_, err = s.Patch(addresses, "missing", Document{"a": 1})
	assert.True(t, pkgerrors.IsNotFound(err))

	_, err = s.Patch(addresses, id, nil)
	assert.True(t, pkgerrors.IsInvalidInput(err))
}

func TestDelete(t *testing.T) {
	s := New()
	created, err := s.Create(addresses, Document{"city": "Antwerp"})
	require.NoError(t, err)
	id := created["id"].(string)

	require.NoError(t, s.Delete(addresses, id))
	assert.Zero(t, s.Count(addresses))
	assert.True(t, pkgerrors.IsNotFound(s.Delete(addresses, id)))
}

func TestReturnedDocumentsAreCopies(t *testing.T) {
	s := New()
	created, err := s.Create(addresses, Document{"geo": map[string]any{"lat": 51.2}})
	require.NoError(t, err)
	id := created["id"].(string)

	created["geo"].(map[string]any)["lat"] = 0.0

	got, err := s.Get(addresses, id)
	require.NoError(t, err)
	assert.Equal(t, 51.2, got["geo"].(map[string]any)["lat"])
}

func TestNotifications(t *testing.T) {
	s := New()
	var events []Event
	s.OnChange(func(e Event) { events = append(events, e) })

	created, err := s.Create(addresses, Document{"city": "Antwerp"})
	require.NoError(t, err)
	id := created["id"].(string)

	_, err = s.Patch(addresses, id, Document{"city": "Ghent"})
	require.NoError(t, err)
	require.NoError(t, s.Delete(addresses, id))

	require.Len(t, events, 3)
	assert.Equal(t, EventCreate, events[0].Type)
	assert.Equal(t, EventChange, events[1].Type)
	assert.Equal(t, EventDelete, events[2].Type)
	assert.Equal(t, addresses, events[0].ResourceType)
	assert.Equal(t, "Ghent", events[1].Resource["city"])
}

func TestConcurrentAccess(t *testing.T) {
	s := New()
	var wg sync.WaitGroup

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				doc, err := s.Create(addresses, Document{"n": j})
				if err != nil {
					t.Error(err)
					return
				}
				_, _ = s.Get(addresses, doc["id"].(string))
				s.List(addresses, ListOptions{Limit: 5})
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 16*25, s.Count(addresses))
}
