package gameService

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/KotFed0t/ginvest_bot/config"
	"github.com/KotFed0t/ginvest_bot/data/repository"
	"github.com/KotFed0t/ginvest_bot/internal/ledger"
	"github.com/KotFed0t/ginvest_bot/internal/model"
	"github.com/KotFed0t/ginvest_bot/internal/tradeDialog"
	"github.com/KotFed0t/ginvest_bot/utils"
	"github.com/shopspring/decimal"
)

type Repository interface {
	GetHoldings(ctx context.Context, chatID int64) ([]model.Holding, error)
	GetPortfolio(ctx context.Context, chatID int64) (model.PortfolioRecord, error)
	GetTrades(ctx context.Context, chatID int64) ([]model.JournalEntry, error)
	GetProgress(ctx context.Context, chatID int64) (model.Progress, error)
	GetOnboarding(ctx context.Context, chatID int64) (answers model.OnboardingAnswers, complete bool, err error)
	Commit(ctx context.Context, chatID int64, batch *repository.Batch) error
	Reset(ctx context.Context, chatID int64) error
}

type Market interface {
	Quote(ctx context.Context, ticker string) (model.Quote, error)
	Prices(ctx context.Context, tickers []string) map[string]decimal.Decimal
	Sector(ticker string) string
}

type ReportGenerator interface {
	Generate(ctx context.Context, report model.PortfolioReport) (fileBytes []byte, fileExtension string, err error)
}

type CloudStorage interface {
	UploadFile(ctx context.Context, reader io.Reader, filename string) (downloadLink string, err error)
}

type GameService struct {
	cfg     config.Game
	repo    Repository
	market  Market
	machine *tradeDialog.Machine
	report  ReportGenerator
	storage CloudStorage
	now     func() time.Time
}

// New wires the service. storage may be nil, exports are then returned as file bytes.
func New(cfg *config.Config, repo Repository, market Market, machine *tradeDialog.Machine, report ReportGenerator, storage CloudStorage) *GameService {
	return &GameService{
		cfg:     cfg.Game,
		repo:    repo,
		market:  market,
		machine: machine,
		report:  report,
		storage: storage,
		now:     time.Now,
	}
}

// state is everything a chat has persisted besides onboarding.
type state struct {
	holdings  []model.Holding
	portfolio model.PortfolioRecord
	trades    []model.JournalEntry
	progress  model.Progress
}

func (st state) book() ledger.Book {
	return ledger.Book{Cash: st.portfolio.RemainingBalance, Holdings: st.holdings}
}

// loadState reads every record and seeds the missing ones in a single commit.
func (s *GameService) loadState(ctx context.Context, chatID int64) (st state, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "GameService.loadState"

	seed := repository.NewBatch()

	// holdings and the cash balance only make sense together, a missing one re-seeds both
	holdings, errH := s.repo.GetHoldings(ctx, chatID)
	if errH != nil && !errors.Is(errH, repository.ErrNotFound) {
		return state{}, errH
	}
	portfolio, errP := s.repo.GetPortfolio(ctx, chatID)
	if errP != nil && !errors.Is(errP, repository.ErrNotFound) {
		return state{}, errP
	}

	if errH != nil || errP != nil {
		st.holdings = seedHoldings()
		st.portfolio = s.seedPortfolio(st.holdings)
		seed.PutHoldings(st.holdings).PutPortfolio(st.portfolio)
	} else {
		st.holdings, st.portfolio = holdings, portfolio
	}

	st.trades, err = s.repo.GetTrades(ctx, chatID)
	if errors.Is(err, repository.ErrNotFound) {
		st.trades = []model.JournalEntry{}
	} else if err != nil {
		return state{}, err
	}

	st.progress, err = s.repo.GetProgress(ctx, chatID)
	if errors.Is(err, repository.ErrNotFound) {
		st.progress = model.Progress{Points: s.cfg.StartingPoints, TutorialsCompleted: []string{}}
		seed.PutProgress(st.progress)
	} else if err != nil {
		return state{}, err
	}

	if !seed.Empty() {
		slog.Info("seeding chat records", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID))
		if err := s.repo.Commit(ctx, chatID, seed); err != nil {
			return state{}, err
		}
	}

	return st, nil
}

func (s *GameService) Portfolio(ctx context.Context, chatID int64) (view model.PortfolioView, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "GameService.Portfolio"

	slog.Debug("Portfolio start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID))
	defer func() {
		slog.Debug("Portfolio finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID))
	}()

	st, err := s.loadState(ctx, chatID)
	if err != nil {
		slog.Error("failed on loadState", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.PortfolioView{}, err
	}

	return s.view(ctx, st), nil
}

func (s *GameService) view(ctx context.Context, st state) model.PortfolioView {
	tickers := make([]string, 0, len(st.holdings))
	for _, h := range st.holdings {
		tickers = append(tickers, h.Ticker)
	}

	book := ledger.MarkToMarket(st.book(), s.market.Prices(ctx, tickers))

	return model.PortfolioView{
		Summary:  ledger.Summarize(book, st.portfolio.TodaysGain, st.portfolio.TodaysGainPercent),
		Holdings: book.Holdings,
	}
}

// ResetProfile wipes every record of the chat. The next read seeds a fresh game.
func (s *GameService) ResetProfile(ctx context.Context, chatID int64) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "GameService.ResetProfile"

	slog.Info("resetting profile", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID))

	if err := s.repo.Reset(ctx, chatID); err != nil {
		slog.Error("failed on repo.Reset", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}
	return nil
}
