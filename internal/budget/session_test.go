package budget

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessions_Isolated(t *testing.T) {
	s := NewSessions(d("25"))

	a := s.Create(nil)
	b := s.Create(dp("10"))
	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())

	require.NoError(t, s.With(a, func(bud *Budget) error {
		_, err := bud.AddManual(LineInput{Quantity: d("1"), UnitPrice: d("100")})
		return err
	}))

	require.NoError(t, s.With(b, func(bud *Budget) error {
		assert.Equal(t, 0, bud.Len())
		assert.True(t, bud.DefaultBDI().Equal(d("10")))
		return nil
	}))
	require.NoError(t, s.With(a, func(bud *Budget) error {
		assert.Equal(t, 1, bud.Len())
		assert.True(t, bud.Total().Equal(d("125")))
		return nil
	}))
}

func TestSessions_Unknown(t *testing.T) {
	s := NewSessions(d("25"))

	err := s.With("missing", func(*Budget) error { return nil })
	assert.True(t, errors.Is(err, ErrSessionNotFound))
	assert.True(t, errors.Is(s.Delete("missing"), ErrSessionNotFound))
}

func TestSessions_Delete(t *testing.T) {
	s := NewSessions(d("25"))
	id := s.Create(nil)

	require.NoError(t, s.Delete(id))
	assert.Equal(t, 0, s.Len())
	assert.True(t, errors.Is(s.With(id, func(*Budget) error { return nil }), ErrSessionNotFound))
}

func TestSessions_ConcurrentAdds(t *testing.T) {
	s := NewSessions(d("0"))
	id := s.Create(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.With(id, func(b *Budget) error {
				_, err := b.AddManual(LineInput{Quantity: d("1"), UnitPrice: d("2")})
				return err
			})
		}()
	}
	wg.Wait()

	require.NoError(t, s.With(id, func(b *Budget) error {
		assert.Equal(t, 50, b.Len())
		assert.True(t, b.Total().Equal(d("100")))
		assert.Equal(t, 50, b.Lines()[49].Seq)
		return nil
	}))
}
