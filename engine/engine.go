// Package engine sequences the diary flows: ensure the worldbook exists,
// switch the generation preset, drive the model round-trip, extract the diary
// from the reply, persist it, and prune the synthetic exchange from the chat.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/EtafCisky/sillytavernDIARY/chat"
	"github.com/EtafCisky/sillytavernDIARY/diary"
	"github.com/EtafCisky/sillytavernDIARY/llm"
	"github.com/EtafCisky/sillytavernDIARY/preset"
	"github.com/EtafCisky/sillytavernDIARY/trigger"
	"github.com/EtafCisky/sillytavernDIARY/worldbook"
)

var ErrBusy = errors.New("engine: a diary flow is already running")

// DefaultSettleDelay is the pause between generation finishing and reading
// the latest message, giving the message list time to update.
const DefaultSettleDelay = 500 * time.Millisecond

// pruneCount is how many trailing messages a successful flow removes: the
// synthetic prompt and the model's diary reply.
const pruneCount = 2

type Engine struct {
	Log     *slog.Logger
	Session *chat.Session
	Books   *worldbook.Store
	Presets *preset.Switcher
	Client  llm.Client
	Model   string

	// SettleDelay and RestoreDelay default to DefaultSettleDelay and
	// preset.RestoreDelay; tests shrink them.
	SettleDelay  time.Duration
	RestoreDelay time.Duration

	busy atomic.Bool
}

// Result reports what a completed flow did. PruneOK false means the save
// still succeeded but the chat cleanup fell short.
type Result struct {
	Title       string
	Time        string
	UID         string
	PrunedCount int
	PruneOK     bool
}

func New(log *slog.Logger, session *chat.Session, books *worldbook.Store, presets *preset.Switcher, client llm.Client, model string) *Engine {
	return &Engine{
		Log:          log,
		Session:      session,
		Books:        books,
		Presets:      presets,
		Client:       client,
		Model:        model,
		SettleDelay:  DefaultSettleDelay,
		RestoreDelay: preset.RestoreDelay,
	}
}

// Busy reports whether a flow is currently in flight. The daemon's trigger
// tick uses this as its generation-in-progress check.
func (e *Engine) Busy() bool {
	return e.busy.Load()
}

func (e *Engine) acquire() error {
	if !e.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	return nil
}

func (e *Engine) release() {
	e.busy.Store(false)
}

// WriteDiary runs the manual write flow. authorOverride replaces the {{char}}
// macro in the prompt and becomes the keyword tag; empty means the session's
// character name.
func (e *Engine) WriteDiary(ctx context.Context, authorOverride string) (*Result, error) {
	if err := e.acquire(); err != nil {
		return nil, err
	}
	defer e.release()
	return e.writeFlow(ctx, authorOverride, nil)
}

// AutoDiary runs the automatic flow fired by the trigger gate. The author tag
// and the floor captured at fire time come from the gate; the floor advances
// only after the diary is persisted.
func (e *Engine) AutoDiary(ctx context.Context, characterName string, firedFloor int) (*Result, error) {
	if err := e.acquire(); err != nil {
		return nil, err
	}
	defer e.release()
	return e.writeFlow(ctx, "", &autoBookkeeping{characterName: characterName, firedFloor: firedFloor})
}

type autoBookkeeping struct {
	characterName string
	firedFloor    int
}

func (e *Engine) writeFlow(ctx context.Context, authorOverride string, auto *autoBookkeeping) (*Result, error) {
	if _, err := e.Books.EnsureExists(); err != nil {
		return nil, fmt.Errorf("engine: worldbook unavailable: %w", err)
	}

	switched, originalPreset := e.Presets.SwitchToDiaryPreset()

	author := authorOverride
	if auto != nil {
		author = auto.characterName
	}
	if author == "" {
		author = e.Session.CharacterName()
	}

	if err := e.Session.AppendUser(diary.Prompt(author)); err != nil {
		if switched {
			e.Presets.RestoreOriginal(originalPreset)
		}
		return nil, fmt.Errorf("engine: send diary prompt: %w", err)
	}
	e.Log.Info("diary_prompt_sent", "author", author)

	if err := e.generate(ctx); err != nil {
		// Fail-fast cleanup: no delayed restore when generation failed.
		if switched {
			e.Presets.RestoreOriginal(originalPreset)
		}
		return nil, fmt.Errorf("engine: generation failed: %w", err)
	}

	var restore *preset.RestoreHandle
	if switched {
		restore = e.Presets.ScheduleRestore(originalPreset, e.restoreDelay())
	}

	fail := func(err error) (*Result, error) {
		if restore != nil && restore.Cancel() {
			e.Presets.RestoreOriginal(originalPreset)
		}
		return nil, err
	}

	if err := e.settle(ctx); err != nil {
		return fail(err)
	}

	rec, err := e.latestRecord()
	if err != nil {
		return fail(err)
	}

	uid, err := e.Books.Save(ctx, rec, author)
	if err != nil {
		return fail(fmt.Errorf("engine: save diary: %w", err))
	}
	e.Log.Info("diary_saved", "title", rec.Title, "uid", uid, "author", author)

	if auto != nil {
		if err := e.advanceTriggerFloor(auto); err != nil {
			// The diary is saved; losing the floor update only makes the
			// next automatic cycle fire early.
			e.Log.Warn("trigger_floor_update_failed", "error", err.Error())
		}
	}

	res := &Result{Title: rec.Title, Time: rec.Time, UID: uid}
	e.prune(res)
	return res, nil
}

// RecordDiary runs the manual record flow: no prompt, no generation, the
// latest existing message is parsed as-is.
func (e *Engine) RecordDiary(ctx context.Context) (*Result, error) {
	if err := e.acquire(); err != nil {
		return nil, err
	}
	defer e.release()

	if _, err := e.Books.EnsureExists(); err != nil {
		return nil, fmt.Errorf("engine: worldbook unavailable: %w", err)
	}

	rec, err := e.latestRecord()
	if err != nil {
		return nil, err
	}

	uid, err := e.Books.Save(ctx, rec, e.Session.CharacterName())
	if err != nil {
		return nil, fmt.Errorf("engine: save diary: %w", err)
	}
	e.Log.Info("diary_saved", "title", rec.Title, "uid", uid)

	res := &Result{Title: rec.Title, Time: rec.Time, UID: uid}
	e.prune(res)
	return res, nil
}

func (e *Engine) generate(ctx context.Context) error {
	messages := make([]llm.Message, 0, e.Session.Len())
	for _, m := range e.Session.Messages() {
		role := "assistant"
		if m.IsUser {
			role = "user"
		}
		messages = append(messages, llm.Message{Role: role, Content: m.Mes})
	}

	result, err := e.Client.Chat(ctx, llm.Request{Model: e.Model, Messages: messages})
	if err != nil {
		return err
	}
	e.Log.Debug("generation_done",
		"duration", result.Duration.String(),
		"output_tokens", result.Usage.OutputTokens,
	)
	return e.Session.AppendCharacter(result.Text)
}

func (e *Engine) settle(ctx context.Context) error {
	delay := e.SettleDelay
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (e *Engine) latestRecord() (*diary.Record, error) {
	msg, ok := e.Session.Latest()
	if !ok {
		return nil, fmt.Errorf("engine: chat has no messages")
	}
	rec, err := diary.Extract(msg.Mes)
	if err != nil {
		return nil, fmt.Errorf("engine: extract diary: %w", err)
	}
	return rec, nil
}

func (e *Engine) advanceTriggerFloor(auto *autoBookkeeping) error {
	st, err := trigger.LoadState(e.Session)
	if err != nil {
		return err
	}
	trigger.AdvanceFloor(&st, auto.characterName, auto.firedFloor)
	return trigger.SaveState(e.Session, st)
}

// prune removes the synthetic prompt and the diary reply. Best effort: a
// short or failed prune downgrades to a warning, the save stands.
func (e *Engine) prune(res *Result) {
	before := e.Session.Len()
	if before < pruneCount {
		e.Log.Warn("prune_skipped", "reason", "too_few_messages", "count", before)
		return
	}
	deleted, err := e.Session.DeleteRecent(pruneCount)
	if err != nil {
		e.Log.Warn("prune_failed", "error", err.Error())
		return
	}
	res.PrunedCount = deleted
	if before-e.Session.Len() >= pruneCount {
		res.PruneOK = true
		e.Log.Info("prune_done", "deleted", deleted)
		return
	}
	e.Log.Warn("prune_partial", "deleted", deleted, "want", pruneCount)
}

func (e *Engine) restoreDelay() time.Duration {
	if e.RestoreDelay > 0 {
		return e.RestoreDelay
	}
	return preset.RestoreDelay
}
