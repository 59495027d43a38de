//go:build unit

package infra

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWrapRepoErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want RepositoryErrorKind
	}{
		{name: "no rows maps to not found", err: pgx.ErrNoRows, want: KindNotFound},
		{name: "23505 maps to duplicate key", err: &pgconn.PgError{Code: "23505"}, want: KindDuplicateKey},
		{name: "23503 maps to foreign key", err: &pgconn.PgError{Code: "23503"}, want: KindForeignKeyViolated},
		{name: "23514 maps to check violation", err: &pgconn.PgError{Code: "23514"}, want: KindCheckViolated},
		{name: "anything else maps to db failure", err: errors.New("connection reset"), want: KindDBFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WrapRepoErr("query failed", tt.err)
			assert.True(t, IsKind(err, tt.want))
		})
	}

	t.Run("explicit kind overrides classification", func(t *testing.T) {
		err := WrapRepoErr("row vanished", pgx.ErrNoRows, KindDBFailure)
		assert.True(t, IsKind(err, KindDBFailure))
		assert.False(t, IsKind(err, KindNotFound))
	})

	t.Run("wrapped chains keep their kind", func(t *testing.T) {
		inner := WrapRepoErr("insert failed", &pgconn.PgError{Code: "23505"})
		outer := errors.Join(errors.New("outer"), inner)
		assert.True(t, IsKind(outer, KindDuplicateKey))
	})

	t.Run("plain errors have no kind", func(t *testing.T) {
		assert.False(t, IsKind(errors.New("plain"), KindNotFound))
	})
}
