package match

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContext_Defaults(t *testing.T) {
	ctx := NewContext()

	assert.Equal(t, "No map loaded", ctx.MapName())
	assert.Equal(t, 0, ctx.Round())
	assert.Empty(t, ctx.Site())
	assert.False(t, ctx.Loaded())
}

func TestContext_SetMapResetsRound(t *testing.T) {
	ctx := NewContext()
	ctx.SetMap("de_inferno")
	ctx.SetRound(7)
	ctx.SetSite("B")

	ctx.SetMap("de_nuke")

	assert.Equal(t, "de_nuke", ctx.MapName())
	assert.Equal(t, 0, ctx.Round())
	assert.Empty(t, ctx.Site())
	assert.True(t, ctx.Loaded())
}

func TestContext_SetRoundClearsSite(t *testing.T) {
	ctx := NewContext()
	ctx.SetSite("A")
	ctx.SetRound(2)

	assert.Equal(t, 2, ctx.Round())
	assert.Empty(t, ctx.Site())
}

func TestContext_ThreadSafe(t *testing.T) {
	ctx := NewContext()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			ctx.SetRound(n)
		}(i)
		go func() {
			defer wg.Done()
			_ = ctx.Round()
			_ = ctx.MapName()
		}()
	}
	wg.Wait()
}
