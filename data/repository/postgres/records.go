package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/KotFed0t/ginvest_bot/data/repository"
	"github.com/KotFed0t/ginvest_bot/internal/converter/dbConverter"
	"github.com/KotFed0t/ginvest_bot/internal/model/dbModel"
	"github.com/KotFed0t/ginvest_bot/utils"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
)

func (p *Postgres) Get(ctx context.Context, namespace, key string) (value string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.Get"
	query := `SELECT namespace, key, value, updated_at FROM kv_records WHERE namespace = $1 AND key = $2`

	slog.Debug("Get start", slog.String("rqID", rqID), slog.String("op", op), slog.String("key", key))
	defer func() {
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			slog.Error("Get failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	var record dbModel.Record
	err = p.txOrDb(ctx).GetContext(ctx, &record, query, namespace, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", repository.ErrNotFound
		}
		return "", err
	}

	return record.Value, nil
}

func (p *Postgres) SetMany(ctx context.Context, namespace string, values map[string]string) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.SetMany"
	query := `
		INSERT INTO kv_records (namespace, key, value, updated_at)
		VALUES (:namespace, :key, :value, :updated_at)
		ON CONFLICT (namespace, key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at`

	slog.Debug("SetMany start", slog.String("rqID", rqID), slog.String("op", op), slog.Int("records", len(values)))
	defer func() {
		if err != nil {
			slog.Error("SetMany failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("SetMany completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	records := dbConverter.ToRecords(namespace, values, time.Now().UTC())

	return p.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, record := range records {
			if _, err := p.txOrDb(ctx).NamedExecContext(ctx, query, record); err != nil {
				return err
			}
		}
		return nil
	})
}

func (p *Postgres) Delete(ctx context.Context, namespace string, keys ...string) (err error) {
	if len(keys) == 0 {
		return nil
	}

	query := `DELETE FROM kv_records WHERE namespace = $1 AND key = ANY($2)`

	_, err = p.txOrDb(ctx).ExecContext(ctx, query, namespace, keys)
	if err != nil {
		slog.Error("Delete failed", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("err", err.Error()))
	}
	return err
}
