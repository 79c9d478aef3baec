package querybuilder

import (
	"testing"
	"time"
)

func TestSelectBuilder_ForUpdate(t *testing.T) {
	t.Parallel()

	query, args, err := Select("user_id", "total_points").
		From("user_profiles").
		Where(In("user_id", []any{"u1", "u2"})).
		OrderBy("user_id").
		ForUpdate().
		ToSQL()
	if err != nil {
		t.Fatalf("build select: %v", err)
	}

	want := "SELECT user_id, total_points FROM user_profiles WHERE user_id IN ($1, $2) ORDER BY user_id FOR UPDATE"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if len(args) != 2 || args[0] != "u1" || args[1] != "u2" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_ComparisonsAndPaging(t *testing.T) {
	t.Parallel()

	from := time.Date(2026, 8, 16, 0, 0, 0, 0, time.UTC)
	query, args, err := Select("id").
		From("fixtures").
		Where(Eq("status", "upcoming"), Gt("prediction_deadline", from), IsNotNull("kickoff_at")).
		OrderBy("kickoff_at ASC", "id ASC").
		Limit(10).
		Offset(20).
		ToSQL()
	if err != nil {
		t.Fatalf("build select: %v", err)
	}

	want := "SELECT id FROM fixtures WHERE status = $1 AND prediction_deadline > $2 AND kickoff_at IS NOT NULL ORDER BY kickoff_at ASC, id ASC LIMIT 10 OFFSET 20"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if len(args) != 2 {
		t.Fatalf("got=%d want=2", len(args))
	}
}

func TestSelectBuilder_EmptyInIsFalse(t *testing.T) {
	t.Parallel()

	query, args, err := Select("id").From("predictions").Where(In("id", nil)).ToSQL()
	if err != nil {
		t.Fatalf("build select: %v", err)
	}
	if query != "SELECT id FROM predictions WHERE 1=0" || len(args) != 0 {
		t.Fatalf("unexpected query=%s args=%+v", query, args)
	}
}

func TestInsertBuilder_MultiRowWithSuffix(t *testing.T) {
	t.Parallel()

	query, args, err := InsertInto("teams").
		Columns("code", "name").
		Values("ARS", "Arsenal").
		Values("CHE", "Chelsea").
		Suffix("ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert: %v", err)
	}

	want := "INSERT INTO teams (code, name) VALUES ($1, $2), ($3, $4) ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if len(args) != 4 || args[2] != "CHE" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_RejectsRaggedRow(t *testing.T) {
	t.Parallel()

	if _, _, err := InsertInto("teams").Columns("code", "name").Values("ARS").ToSQL(); err == nil {
		t.Fatalf("expected error for ragged row")
	}
}

func TestUpdateBuilder_ExprAndReturning(t *testing.T) {
	t.Parallel()

	query, args, err := Update("predictions").
		Set("points_earned", 3).
		SetExpr("updated_at", "NOW()").
		Where(Eq("id", "u1_GW1-ARS-CHE_GW1"), IsNull("calculated_at")).
		Returning("id").
		ToSQL()
	if err != nil {
		t.Fatalf("build update: %v", err)
	}

	want := "UPDATE predictions SET points_earned = $1, updated_at = NOW() WHERE id = $2 AND calculated_at IS NULL RETURNING id"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if len(args) != 2 || args[0] != 3 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder_ExprBindsInOrder(t *testing.T) {
	t.Parallel()

	query, args, err := Update("user_profiles").
		SetExpr("total_points", "total_points + ?", 3).
		Set("display_name", "Ana").
		Where(Expr("user_id = ?", "u1")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update: %v", err)
	}

	want := "UPDATE user_profiles SET total_points = total_points + $1, display_name = $2 WHERE user_id = $3"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if len(args) != 3 || args[2] != "u1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModels(t *testing.T) {
	t.Parallel()

	type row struct {
		Code   string `db:"code"`
		Name   string `db:"name"`
		Ignore string `db:"-"`
		hidden string
	}
	query, args, err := InsertModels("teams", []row{{Code: "ARS", Name: "Arsenal"}, {Code: "CHE", Name: "Chelsea"}}, "")
	if err != nil {
		t.Fatalf("insert models: %v", err)
	}
	if query != "INSERT INTO teams (code, name) VALUES ($1, $2), ($3, $4)" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 4 {
		t.Fatalf("got=%d want=4", len(args))
	}
	if cols := Columns(row{}); len(cols) != 2 || cols[1] != "name" {
		t.Fatalf("unexpected columns: %+v", cols)
	}
}
