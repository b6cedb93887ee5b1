package pool

import (
	"bytes"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParallelize(t *testing.T) {
	square := func(i int) int { return i * i }

	var nilPool *Pool
	assert.Equal(t, []int{0, 1, 4, 9}, Parallelize(nilPool, 4, square))
	assert.Equal(t, 1, nilPool.Workers())
	nilPool.TearDown()

	p := NewPool(3)
	defer p.TearDown()
	assert.Equal(t, 3, p.Workers())

	results := Parallelize(p, 100, square)
	require.Len(t, results, 100)
	for i, r := range results {
		assert.Equal(t, i*i, r)
	}
	assert.Empty(t, Parallelize(p, 0, square))
}

func TestNewPoolDefault(t *testing.T) {
	p := NewPool(0)
	defer p.TearDown()
	assert.Positive(t, p.Workers())
}

func TestLockedReader(t *testing.T) {
	data := make([]byte, 64*32)
	for i := range data {
		data[i] = byte(i)
	}
	r := NewLockedReader(bytes.NewReader(data))

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total int
	)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf := make([]byte, 32)
			n, err := io.ReadFull(r, buf)
			assert.NoError(t, err)
			mu.Lock()
			total += n
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, len(data), total)

	_, err := r.Read(make([]byte, 1))
	assert.ErrorIs(t, err, io.EOF)
}
