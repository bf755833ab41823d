package shield

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/qiscreen/internal/logging"
	"github.com/aretw0/qiscreen/pkg/domain"
	"github.com/aretw0/qiscreen/pkg/ports"
)

// Guidance sources.
const (
	SourceLocal     = "local"
	SourceGenerator = "generator"
	SourceCache     = "cache"
	SourceSilent    = "silent"
)

// DefaultCacheTTL is how long generated guidance is reused per shield.
const DefaultCacheTTL = 5 * time.Minute

// Guidance is the message and grounding task shown alongside a presented shield.
type Guidance struct {
	Shield        domain.ShieldID    `json:"shield"`
	Label         string             `json:"label"`
	Message       string             `json:"message"`
	GroundingTask string             `json:"grounding_task"`
	Phase         domain.BreathPhase `json:"phase"`
	Source        string             `json:"source"`
}

type template struct {
	message string
	task    string
}

var templates = map[domain.ShieldID]template{
	domain.Shield1: {"真正的灵性不在高处，而在你此刻脚下的土地里。", "赤脚站立 2 分钟，感受大地支撑"},
	domain.Shield2: {"邀请你以观察者身份，写下最近一次重复出现的关系动态。", "手写 100 字，不分析，只描述事实"},
	domain.Shield3: {"此刻，允许自己说‘不’，哪怕只是心里默念一次。", "设定一个微小但清晰的边界（如：今天不回工作消息）"},
	domain.Shield4: {"意义不在远方，就在此刻你手中的事里。", "专注完成一件小事（如泡一杯茶、整理桌面）"},
}

var (
	silentTemplate   = template{"此刻宜静守，不宜引导。", "保持呼吸，不做任何改变"}
	fallbackTemplate = template{"回到呼吸，感受此刻的存在。", "深呼吸三次"}
)

type cacheEntry struct {
	guidance Guidance
	at       time.Time
}

// Assistant produces guidance for presented shields. Local templates are always available;
// an optional TextGenerator may replace the message, and its output is used verbatim.
// The Assistant is safe for concurrent use.
type Assistant struct {
	generator ports.TextGenerator
	timeout   time.Duration
	ttl       time.Duration
	now       func() time.Time
	logger    *slog.Logger

	mu    sync.Mutex
	cache map[domain.ShieldID]cacheEntry
}

// AssistantOption configures an Assistant.
type AssistantOption func(*Assistant)

// WithGenerator enables generated guidance.
func WithGenerator(g ports.TextGenerator) AssistantOption {
	return func(a *Assistant) {
		a.generator = g
	}
}

// WithGeneratorTimeout bounds a single generator call. Default 8s.
func WithGeneratorTimeout(d time.Duration) AssistantOption {
	return func(a *Assistant) {
		a.timeout = d
	}
}

// WithCacheTTL overrides DefaultCacheTTL.
func WithCacheTTL(d time.Duration) AssistantOption {
	return func(a *Assistant) {
		a.ttl = d
	}
}

// WithClock sets the time source used for phases and cache expiry.
func WithClock(now func() time.Time) AssistantOption {
	return func(a *Assistant) {
		a.now = now
	}
}

// WithAssistantLogger sets the logger.
func WithAssistantLogger(logger *slog.Logger) AssistantOption {
	return func(a *Assistant) {
		a.logger = logger
	}
}

// NewAssistant creates an Assistant.
func NewAssistant(opts ...AssistantOption) *Assistant {
	a := &Assistant{
		timeout: 8 * time.Second,
		ttl:     DefaultCacheTTL,
		now:     time.Now,
		logger:  logging.NewNop(),
		cache:   make(map[domain.ShieldID]cacheEntry),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Guide returns guidance for a shield. During silent phases only the calm template is
// returned. Generator failures fall back to the local template and are not returned as
// errors; only an unknown shield is.
func (a *Assistant) Guide(ctx context.Context, id domain.ShieldID) (Guidance, error) {
	if !id.Known() {
		return Guidance{}, fmt.Errorf("%w: %q", domain.ErrUnknownShield, id)
	}
	now := a.now()
	phase := domain.PhaseAt(now)

	if phase.IsSilent() {
		return a.build(id, phase, silentTemplate, SourceSilent), nil
	}

	local := a.build(id, phase, templates[id], SourceLocal)
	local.Message = fmt.Sprintf("你正处在「%s」状态。%s", id.Label(), local.Message)
	if a.generator == nil {
		return local, nil
	}

	a.mu.Lock()
	cached, ok := a.cache[id]
	a.mu.Unlock()
	if ok && now.Sub(cached.at) < a.ttl {
		g := cached.guidance
		g.Source = SourceCache
		return g, nil
	}

	genCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	text, err := a.generator.Generate(genCtx, prompt(id, phase))
	if err != nil || strings.TrimSpace(text) == "" {
		a.logger.Warn("guidance generator unavailable, using local template", "shield", id, "error", err)
		return local, nil
	}

	g := local
	g.Message = strings.TrimSpace(text)
	g.Source = SourceGenerator

	a.mu.Lock()
	a.cache[id] = cacheEntry{guidance: g, at: now}
	a.mu.Unlock()
	return g, nil
}

// Reset drops cached generated guidance.
func (a *Assistant) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	clear(a.cache)
}

// Fallback returns the neutral breathing guidance used when nothing better is available.
func Fallback() Guidance {
	return Guidance{Message: fallbackTemplate.message, GroundingTask: fallbackTemplate.task, Source: SourceLocal}
}

func (a *Assistant) build(id domain.ShieldID, phase domain.BreathPhase, t template, source string) Guidance {
	return Guidance{
		Shield:        id,
		Label:         id.Label(),
		Message:       t.message,
		GroundingTask: t.task,
		Phase:         phase,
		Source:        source,
	}
}

func prompt(id domain.ShieldID, phase domain.BreathPhase) string {
	return fmt.Sprintf("shield=%s label=%s phase=%s", id, id.Label(), phase)
}
