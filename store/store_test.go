package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/cameroncuttingedge/fruit_bingo/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndGet(t *testing.T) {
	s := New()
	session := game.NewSession("abc", game.Grid{}, nil)
	s.Save(session)

	got, err := s.Get("abc")
	require.NoError(t, err)
	assert.Same(t, session, got)

	_, err = s.Get("missing")
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestConcurrentAccess(t *testing.T) {
	s := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("session-%d", i)
			s.Save(game.NewSession(id, game.Grid{}, nil))
			_, _ = s.Get(id)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, s.Len())
}
