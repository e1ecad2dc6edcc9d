package repository

import (
	"context"

	"library-circulation/internal/infra"
	"library-circulation/internal/pkg/errs"
	"library-circulation/internal/pkg/pgconv"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
)

// TitleRepository reads the catalog's copy counts; the catalog itself is owned elsewhere.
type TitleRepository struct {
	db      DBTX
	dialect goqu.DialectWrapper
}

func NewTitleRepository(db DBTX, dialect goqu.DialectWrapper) *TitleRepository {
	return &TitleRepository{
		db:      db,
		dialect: dialect,
	}
}

// LockTotalCopies takes the title row lock, so concurrent creations for one title
// count in-flight requests one after another.
func (r *TitleRepository) LockTotalCopies(ctx context.Context, titleID uuid.UUID) (int, error) {
	query, args, err := r.dialect.From(tableTitles).
		Prepared(true).
		Select("total_copies").
		Where(goqu.C("id").Eq(titleID.String())).
		ForUpdate(exp.Wait).
		ToSQL()
	if err != nil {
		return 0, infra.WrapRepoErr("failed to build title lock", err)
	}

	var total int32
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		if pgconv.IsNoRows(err) {
			return 0, errs.Mark(infra.WrapRepoErr("title not found", err, infra.KindNotFound), errs.ErrTitleNotFound)
		}
		return 0, infra.WrapRepoErr("failed to lock title", err)
	}
	return int(total), nil
}
