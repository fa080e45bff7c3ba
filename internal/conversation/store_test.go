package conversation

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendThenGetPreservesOrder(t *testing.T) {
	s := NewStore(0)

	const n = 25
	for i := 0; i < n; i++ {
		s.Append("rachid", Turn{Speaker: SpeakerUser, Text: fmt.Sprintf("msg-%d", i)})
	}

	turns := s.Get("rachid")
	require.Len(t, turns, n)
	for i, turn := range turns {
		assert.Equal(t, fmt.Sprintf("msg-%d", i), turn.Text)
	}
}

func TestGetUnseenIdentityIsEmpty(t *testing.T) {
	s := NewStore(0)
	assert.Empty(t, s.Get("nobody"))
}

func TestEmptyIdentityFallsBackToAnonymous(t *testing.T) {
	s := NewStore(0)
	s.Append("", Turn{Speaker: SpeakerUser, Text: "salut"})

	turns := s.Get(AnonymousIdentity)
	require.Len(t, turns, 1)
	assert.Equal(t, "salut", turns[0].Text)
}

func TestAppendBoundsHistory(t *testing.T) {
	s := NewStore(3)
	for i := 0; i < 10; i++ {
		s.Append("u", Turn{Speaker: SpeakerUser, Text: fmt.Sprintf("%d", i)})
	}

	turns := s.Get("u")
	require.Len(t, turns, 3)
	assert.Equal(t, "7", turns[0].Text)
	assert.Equal(t, "9", turns[2].Text)
}

func TestGetReturnsCopy(t *testing.T) {
	s := NewStore(0)
	s.Append("u", Turn{Speaker: SpeakerUser, Text: "original"})

	turns := s.Get("u")
	turns[0].Text = "mutated"

	assert.Equal(t, "original", s.Get("u")[0].Text)
}

func TestConcurrentAppendLosesNothing(t *testing.T) {
	s := NewStore(0)

	const (
		identities = 8
		perWriter  = 50
	)

	var wg sync.WaitGroup
	for id := 0; id < identities; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := fmt.Sprintf("user-%d", id)
			for i := 0; i < perWriter; i++ {
				s.Append(key, Turn{Speaker: SpeakerUser, Text: "x"})
			}
		}(id)
	}
	wg.Wait()

	for id := 0; id < identities; id++ {
		assert.Len(t, s.Get(fmt.Sprintf("user-%d", id)), perWriter)
	}
}

func TestTranscript(t *testing.T) {
	s := NewStore(0)
	s.Append("u", Turn{Speaker: SpeakerUser, Text: "bonjour"})
	s.Append("u", Turn{Speaker: SpeakerAssistant, Text: "bonjour, que puis-je faire ?"})

	assert.Equal(t, "User: bonjour\nAssistant: bonjour, que puis-je faire ?", s.Transcript("u"))
}
