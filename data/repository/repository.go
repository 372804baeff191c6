package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/KotFed0t/ginvest_bot/internal/model"
	"github.com/KotFed0t/ginvest_bot/utils"
)

// Record keys, kept compatible with the web version of the app.
const (
	KeyHoldings           = "g-invest-holdings"
	KeyPortfolio          = "g-invest-portfolio"
	KeyTrades             = "g-invest-trades"
	KeyProgress           = "g-invest-progress"
	KeyOnboardingAnswers  = "onboardingAnswers"
	KeyOnboardingComplete = "onboardingComplete"
)

// Store is a namespaced string key-value storage. Get returns ErrNotFound for a missing key,
// SetMany writes all records or none.
type Store interface {
	Get(ctx context.Context, namespace, key string) (string, error)
	SetMany(ctx context.Context, namespace string, records map[string]string) error
	Delete(ctx context.Context, namespace string, keys ...string) error
}

// Observer is called after every successful commit for the chat.
type Observer func(ctx context.Context, chatID int64)

type subscription struct {
	id int
	fn Observer
}

type Repository struct {
	store Store

	mu        sync.RWMutex
	observers []subscription
	nextID    int
}

func New(store Store) *Repository {
	return &Repository{store: store}
}

func Namespace(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

// Batch collects typed records for one atomic write.
type Batch struct {
	records map[string]any
}

func NewBatch() *Batch {
	return &Batch{records: make(map[string]any)}
}

func (b *Batch) PutHoldings(holdings []model.Holding) *Batch {
	if holdings == nil {
		holdings = []model.Holding{}
	}
	b.records[KeyHoldings] = holdings
	return b
}

func (b *Batch) PutPortfolio(p model.PortfolioRecord) *Batch {
	b.records[KeyPortfolio] = p
	return b
}

func (b *Batch) PutTrades(trades []model.JournalEntry) *Batch {
	b.records[KeyTrades] = trades
	return b
}

func (b *Batch) PutProgress(p model.Progress) *Batch {
	b.records[KeyProgress] = p
	return b
}

func (b *Batch) PutOnboarding(answers model.OnboardingAnswers, complete bool) *Batch {
	b.records[KeyOnboardingAnswers] = answers
	b.records[KeyOnboardingComplete] = complete
	return b
}

func (b *Batch) Empty() bool {
	return len(b.records) == 0
}

func (r *Repository) GetHoldings(ctx context.Context, chatID int64) (holdings []model.Holding, err error) {
	err = r.get(ctx, chatID, KeyHoldings, &holdings)
	return holdings, err
}

func (r *Repository) GetPortfolio(ctx context.Context, chatID int64) (p model.PortfolioRecord, err error) {
	err = r.get(ctx, chatID, KeyPortfolio, &p)
	return p, err
}

func (r *Repository) GetTrades(ctx context.Context, chatID int64) (trades []model.JournalEntry, err error) {
	err = r.get(ctx, chatID, KeyTrades, &trades)
	return trades, err
}

func (r *Repository) GetProgress(ctx context.Context, chatID int64) (p model.Progress, err error) {
	err = r.get(ctx, chatID, KeyProgress, &p)
	return p, err
}

func (r *Repository) GetOnboarding(ctx context.Context, chatID int64) (answers model.OnboardingAnswers, complete bool, err error) {
	if err = r.get(ctx, chatID, KeyOnboardingComplete, &complete); err != nil && !errors.Is(err, ErrNotFound) {
		return answers, false, err
	}
	if err = r.get(ctx, chatID, KeyOnboardingAnswers, &answers); err != nil {
		return answers, complete, err
	}
	return answers, complete, nil
}

// Commit writes the batch in one store call and notifies observers synchronously.
func (r *Repository) Commit(ctx context.Context, chatID int64, batch *Batch) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Repository.Commit"

	slog.Debug("Commit start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID))
	defer func() {
		if err != nil {
			slog.Error("Commit failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("Commit completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	if batch == nil || batch.Empty() {
		return nil
	}

	records := make(map[string]string, len(batch.records))
	for key, value := range batch.records {
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", key, err)
		}
		records[key] = string(raw)
	}

	if err = r.store.SetMany(ctx, Namespace(chatID), records); err != nil {
		return err
	}

	r.Notify(ctx, chatID)
	return nil
}

// Reset removes every record of the chat. Observers are not notified: there is nothing
// to show until the next read seeds the records again.
func (r *Repository) Reset(ctx context.Context, chatID int64) error {
	return r.store.Delete(ctx, Namespace(chatID),
		KeyHoldings, KeyPortfolio, KeyTrades, KeyProgress, KeyOnboardingAnswers, KeyOnboardingComplete)
}

func (r *Repository) Subscribe(fn Observer) (unsubscribe func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID
	r.observers = append(r.observers, subscription{id: id, fn: fn})

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		for i, s := range r.observers {
			if s.id == id {
				r.observers = append(r.observers[:i:i], r.observers[i+1:]...)
				return
			}
		}
	}
}

// Notify calls observers in subscription order.
func (r *Repository) Notify(ctx context.Context, chatID int64) {
	r.mu.RLock()
	observers := make([]subscription, len(r.observers))
	copy(observers, r.observers)
	r.mu.RUnlock()

	for _, s := range observers {
		s.fn(ctx, chatID)
	}
}

// NotifyNamespace is used for change notifications coming from other instances.
func (r *Repository) NotifyNamespace(ctx context.Context, namespace string) {
	chatID, err := strconv.ParseInt(namespace, 10, 64)
	if err != nil {
		slog.Warn("unexpected namespace in change notification",
			slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("namespace", namespace))
		return
	}
	r.Notify(ctx, chatID)
}

// get treats undecodable records as missing: old formats are silently orphaned.
func (r *Repository) get(ctx context.Context, chatID int64, key string, dst any) error {
	raw, err := r.store.Get(ctx, Namespace(chatID), key)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		slog.Warn(
			"orphaned record, can't unmarshal",
			slog.String("rqID", utils.GetRequestIDFromCtx(ctx)),
			slog.String("key", key),
			slog.String("err", err.Error()),
		)
		return ErrNotFound
	}
	return nil
}
