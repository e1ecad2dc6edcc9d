package repository

import (
	"context"

	"library-circulation/internal/infra"
	"library-circulation/internal/usecase/shared"

	"github.com/doug-martin/goqu/v9"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type CirculationEventRepository struct {
	db      DBTX
	dialect goqu.DialectWrapper
}

func NewCirculationEventRepository(db DBTX, dialect goqu.DialectWrapper) *CirculationEventRepository {
	return &CirculationEventRepository{
		db:      db,
		dialect: dialect,
	}
}

func (r *CirculationEventRepository) Append(ctx context.Context, ev shared.CirculationEvent) error {
	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		return infra.WrapRepoErr("failed to encode event payload", err)
	}

	var from any
	if ev.FromStatus != nil {
		from = ev.FromStatus.String()
	}

	query, args, err := r.dialect.Insert(tableCirculationEvents).
		Prepared(true).
		Rows(goqu.Record{
			"id":          ev.ID.String(),
			"request_id":  ev.RequestID.String(),
			"action":      ev.Action.String(),
			"from_status": from,
			"to_status":   ev.ToStatus.String(),
			"actor_id":    ev.ActorID.String(),
			"actor_role":  ev.ActorRole.String(),
			"occurred_at": ev.OccurredAt,
			"payload":     goqu.L("?::jsonb", string(payload)),
		}).
		ToSQL()
	if err != nil {
		return infra.WrapRepoErr("failed to build event insert", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return classifyWriteErr("failed to append circulation event", err)
	}
	return nil
}
