package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/aretw0/qiscreen"
	"github.com/aretw0/qiscreen/internal/presentation/tui"
	"github.com/aretw0/qiscreen/pkg/domain"
	"github.com/aretw0/qiscreen/pkg/screening"
)

// Console runs questionnaire sessions over a line-oriented terminal.
type Console struct {
	engine *qiscreen.Engine
	lines  <-chan string
	out    io.Writer
	render func(string) (string, error)
	logger *slog.Logger
}

// NewConsole creates a Console reading answers from in. The input pump lives until ctx
// is done or in reaches EOF.
func NewConsole(ctx context.Context, engine *qiscreen.Engine, in io.Reader, out io.Writer, plain bool, logger *slog.Logger) *Console {
	return &Console{
		engine: engine,
		lines:  pumpLines(ctx, in),
		out:    out,
		render: tui.NewRenderer(plain),
		logger: logger,
	}
}

// RunSession walks one session to completion, handles a presented shield and prints the
// assessment. Typing u undoes the last answer and q quits.
func (c *Console) RunSession(ctx context.Context) error {
	snap, err := c.engine.StartSession(ctx)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	id := snap.ID
	defer func() {
		// The session is scoped to this run.
		if err := c.engine.EndSession(context.WithoutCancel(ctx), id); err != nil {
			c.logger.Warn("failed to end session", "session", id, "err", err)
		}
	}()
	c.logger.Info("Session Created", "session_id", id)

	for !snap.Complete {
		if snap.Question == nil {
			return fmt.Errorf("session %s has no current question", id)
		}
		c.show(tui.QuestionMarkdown(snap.Question, snap.Progress))

		line, err := c.prompt(ctx, "> ")
		if err != nil {
			return err
		}
		switch cmd := strings.ToLower(strings.TrimSpace(line)); cmd {
		case "q", "quit":
			printSystemMessage(c.out, "Session ended after %d answers.", snap.Progress.Answered)
			return nil
		case "u", "undo":
			var ok bool
			if ok, snap, err = c.engine.Undo(ctx, id); err != nil {
				return err
			}
			if !ok {
				tui.PrintNotice(c.out, "没有可撤回的回答。")
			}
		default:
			n, convErr := strconv.Atoi(cmd)
			if convErr != nil || n < 1 || n > len(snap.Question.Options) {
				tui.PrintNotice(c.out, fmt.Sprintf("请输入 1-%d，u 撤回，q 退出。", len(snap.Question.Options)))
				continue
			}
			var outcome screening.Outcome
			if outcome, snap, err = c.engine.Submit(ctx, id, n-1); err != nil {
				return err
			}
			c.logger.Debug("Answer submitted", "outcome", outcome)
			switch outcome {
			case screening.Recovered:
				tui.PrintNotice(c.out, "题库数据异常，已跳转到下一个有效问题。")
			case screening.FellBack:
				tui.PrintNotice(c.out, "继续下一题。")
			}
		}
	}

	printSystemMessage(c.out, "Finished after %d answers.", snap.Progress.Answered)
	return c.conclude(ctx, id)
}

// conclude presents shields until none is left or one cannot be released, then prints
// the assessment.
func (c *Console) conclude(ctx context.Context, id string) error {
	for {
		a, err := c.engine.Assess(ctx, id)
		if err != nil {
			return err
		}
		if a.Presented == nil {
			c.show(tui.AssessmentMarkdown(a))
			return nil
		}

		shieldID := *a.Presented
		tui.PrintShieldAlert(c.out, shieldID.Label())
		g, err := c.engine.Guide(ctx, shieldID)
		if err != nil {
			return err
		}
		c.show(tui.GuidanceMarkdown(g))

		actions, err := c.collectActions(ctx, shieldID)
		if err != nil {
			return err
		}
		res, err := c.engine.Release(ctx, id, actions)
		if err != nil {
			return err
		}
		if !res.Released {
			tui.PrintNotice(c.out, "谢谢你的回应。此刻先停在这里，照顾好自己，稍后再回来。")
			return nil
		}
		printSystemMessage(c.out, "Shield %s released.", shieldID)
	}
}

// collectActions asks for the remediation action a shield expects.
func (c *Console) collectActions(ctx context.Context, id domain.ShieldID) (domain.UserActions, error) {
	var a domain.UserActions
	var err error
	switch id {
	case domain.Shield1:
		a.GroundingAnswers, err = c.promptMany(ctx, "写下此刻你能感受到的两件具体事物（每行一件）：", 2)
	case domain.Shield2:
		a.PatternStatement, err = c.prompt(ctx, "用一句话描述你注意到的重复模式：\n> ")
	case domain.Shield3:
		var answer string
		answer, err = c.prompt(ctx, "今天你愿意为自己设定一个边界吗？(y/n) ")
		a.BoundarySet = strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y")
	case domain.Shield4:
		a.ConcreteActions, err = c.promptMany(ctx, "写下两件今天可以完成的小事（每行一件）：", 2)
	}
	return a, err
}

func (c *Console) promptMany(ctx context.Context, title string, n int) ([]string, error) {
	fmt.Fprintln(c.out, title)
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		line, err := c.prompt(ctx, fmt.Sprintf("%d> ", i+1))
		if err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	return out, nil
}

func (c *Console) prompt(ctx context.Context, label string) (string, error) {
	fmt.Fprint(c.out, label)
	return readLine(ctx, c.lines)
}

func (c *Console) show(markdown string) {
	rendered, err := c.render(markdown)
	if err != nil {
		c.logger.Warn("render failed", "err", err)
		rendered = markdown
	}
	fmt.Fprint(c.out, rendered)
}
