package gameService

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/ginvest_bot/internal/model"
	"github.com/KotFed0t/ginvest_bot/utils"
)

const exportTimeLayout = "2006-01-02 15:04:05 UTC"

// Export builds the portfolio report. With cloud storage configured the file is uploaded
// and Link is set, otherwise (or when the upload fails) Bytes carries the file.
func (s *GameService) Export(ctx context.Context, chatID int64) (file model.ExportFile, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "GameService.Export"

	slog.Debug("Export start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID))
	defer func() {
		slog.Debug("Export finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID))
	}()

	st, err := s.loadState(ctx, chatID)
	if err != nil {
		return model.ExportFile{}, err
	}

	now := s.now().UTC()
	report := model.PortfolioReport{
		View:        s.view(ctx, st),
		Trades:      st.trades,
		Progress:    st.progress,
		Level:       LevelOf(st.progress.Points),
		GeneratedAt: now.Format(exportTimeLayout),
	}

	fileBytes, ext, err := s.report.Generate(ctx, report)
	if err != nil {
		slog.Error("failed on report.Generate", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.ExportFile{}, err
	}

	file = model.ExportFile{
		Name:  fmt.Sprintf("g-invest-%d-%s%s", chatID, now.Format("20060102-150405"), ext),
		Bytes: fileBytes,
	}

	if s.storage == nil {
		return file, nil
	}

	link, err := s.storage.UploadFile(ctx, bytes.NewReader(fileBytes), file.Name)
	if err != nil {
		slog.Warn("upload failed, sending file directly", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return file, nil
	}

	file.Link = link
	return file, nil
}
