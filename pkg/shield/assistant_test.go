package shield_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/qiscreen/pkg/domain"
	"github.com/aretw0/qiscreen/pkg/ports"
	"github.com/aretw0/qiscreen/pkg/shield"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

var (
	april   = time.Date(2026, time.April, 3, 9, 0, 0, 0, time.UTC)
	january = time.Date(2026, time.January, 3, 9, 0, 0, 0, time.UTC)
)

func TestAssistant_LocalTemplates(t *testing.T) {
	a := shield.NewAssistant(shield.WithClock(func() time.Time { return april }))

	g, err := a.Guide(context.Background(), domain.Shield1)
	require.NoError(t, err)
	assert.Equal(t, shield.SourceLocal, g.Source)
	assert.Equal(t, "你正处在「灵性逃避」状态。真正的灵性不在高处，而在你此刻脚下的土地里。", g.Message)
	assert.Equal(t, "赤脚站立 2 分钟，感受大地支撑", g.GroundingTask)
	assert.Equal(t, domain.PhaseSprout, g.Phase)

	for _, id := range domain.ShieldPriority {
		g, err := a.Guide(context.Background(), id)
		require.NoError(t, err)
		assert.Contains(t, g.Message, id.Label())
		assert.NotEmpty(t, g.GroundingTask)
	}
}

func TestAssistant_UnknownShield(t *testing.T) {
	_, err := shield.NewAssistant().Guide(context.Background(), "Shield_0")
	assert.ErrorIs(t, err, domain.ErrUnknownShield)
}

func TestAssistant_SilentPhase(t *testing.T) {
	calls := 0
	gen := ports.TextGeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		calls++
		return "generated", nil
	})
	a := shield.NewAssistant(shield.WithGenerator(gen), shield.WithClock(func() time.Time { return january }))

	g, err := a.Guide(context.Background(), domain.Shield3)
	require.NoError(t, err)
	assert.Equal(t, shield.SourceSilent, g.Source)
	assert.Equal(t, "此刻宜静守，不宜引导。", g.Message)
	assert.Equal(t, "保持呼吸，不做任何改变", g.GroundingTask)
	assert.Zero(t, calls, "generator must not be consulted in silent phases")
}

func TestAssistant_GeneratorAndCache(t *testing.T) {
	clock := &fakeClock{t: april}
	calls := 0
	var prompts []string
	gen := ports.TextGeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		calls++
		prompts = append(prompts, prompt)
		return "  今天，先照顾好自己。  ", nil
	})
	a := shield.NewAssistant(shield.WithGenerator(gen), shield.WithClock(clock.now))

	g, err := a.Guide(context.Background(), domain.Shield4)
	require.NoError(t, err)
	assert.Equal(t, shield.SourceGenerator, g.Source)
	assert.Equal(t, "今天，先照顾好自己。", g.Message)
	assert.Equal(t, "专注完成一件小事（如泡一杯茶、整理桌面）", g.GroundingTask, "task always comes from the local template")
	assert.Contains(t, prompts[0], string(domain.Shield4))

	clock.advance(4 * time.Minute)
	g, err = a.Guide(context.Background(), domain.Shield4)
	require.NoError(t, err)
	assert.Equal(t, shield.SourceCache, g.Source)
	assert.Equal(t, 1, calls)

	clock.advance(2 * time.Minute)
	_, err = a.Guide(context.Background(), domain.Shield4)
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "expired cache entry is regenerated")

	a.Reset()
	_, err = a.Guide(context.Background(), domain.Shield4)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestAssistant_GeneratorFailureFallsBack(t *testing.T) {
	gen := ports.TextGeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("upstream down")
	})
	a := shield.NewAssistant(shield.WithGenerator(gen), shield.WithClock(func() time.Time { return april }))

	g, err := a.Guide(context.Background(), domain.Shield2)
	require.NoError(t, err)
	assert.Equal(t, shield.SourceLocal, g.Source)
	assert.Contains(t, g.Message, "模式盲区")
}

func TestAssistant_GeneratorTimeout(t *testing.T) {
	gen := ports.TextGeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	a := shield.NewAssistant(
		shield.WithGenerator(gen),
		shield.WithGeneratorTimeout(10*time.Millisecond),
		shield.WithClock(func() time.Time { return april }),
	)
	g, err := a.Guide(context.Background(), domain.Shield1)
	require.NoError(t, err)
	assert.Equal(t, shield.SourceLocal, g.Source)
}

func TestFallback(t *testing.T) {
	g := shield.Fallback()
	assert.Equal(t, "回到呼吸，感受此刻的存在。", g.Message)
	assert.Equal(t, "深呼吸三次", g.GroundingTask)
}
