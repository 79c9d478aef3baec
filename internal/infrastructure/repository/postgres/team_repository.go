package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/prediction-league/internal/domain/team"
	qb "github.com/riskibarqy/prediction-league/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		OrderBy("code").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, team.Team{
			Code:      row.Code,
			Name:      row.Name,
			ShortName: row.ShortName,
		})
	}

	return out, nil
}

func (r *TeamRepository) GetByCode(ctx context.Context, code string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("code", team.NormalizeCode(code))).
		Limit(1).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build select team by code query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("select team by code: %w", err)
	}

	return team.Team{Code: row.Code, Name: row.Name, ShortName: row.ShortName}, true, nil
}

func (r *TeamRepository) Upsert(ctx context.Context, teams []team.Team) error {
	if len(teams) == 0 {
		return nil
	}

	index := make(map[string]int, len(teams))
	models := make([]teamInsertModel, 0, len(teams))
	for _, item := range teams {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("upsert team: %w", err)
		}
		row := teamInsertModel{
			Code:      team.NormalizeCode(item.Code),
			Name:      item.Name,
			ShortName: item.ShortName,
		}
		if i, dup := index[row.Code]; dup {
			models[i] = row
			continue
		}
		index[row.Code] = len(models)
		models = append(models, row)
	}

	query, args, err := qb.InsertModels("teams", models, `ON CONFLICT (code)
DO UPDATE SET
    name = EXCLUDED.name,
    short_name = EXCLUDED.short_name,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert teams query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert teams: %w", err)
	}

	return nil
}
