package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/codex-grpc-team-scope/internal/core/team"
)

// translateTeamPgError はドライバーのエラーを team パッケージのエラーへ変換します。
// コンテキストの取り消しと ErrNoRows はそのまま返します。
func translateTeamPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	if errors.Is(err, team.ErrUpstreamUnavailable) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%w: sqlstate %s: %w", team.ErrUpstreamUnavailable, pgErr.Code, err)
	}
	return fmt.Errorf("%w: %w", team.ErrUpstreamUnavailable, err)
}
