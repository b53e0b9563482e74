package patient

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chd/chd/internal/platform/db"
)

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewPatientRepoPG(pool *pgxpool.Pool) PatientRepository {
	return &patientRepoPG{pool: pool}
}

const patientCols = `id::text, male, age, education, current_smoker, cigs_per_day,
	bp_meds, prevalent_stroke, prevalent_hyp, diabetes,
	tot_chol, sys_bp, dia_bp, bmi, heart_rate, glucose, ten_year_chd`

var patientInsertCols = []string{
	"id", "male", "age", "education", "current_smoker", "cigs_per_day",
	"bp_meds", "prevalent_stroke", "prevalent_hyp", "diabetes",
	"tot_chol", "sys_bp", "dia_bp", "bmi", "heart_rate", "glucose", "ten_year_chd",
}

func (r *patientRepoPG) scanRow(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.Male, &p.Age, &p.Education, &p.CurrentSmoker, &p.CigsPerDay,
		&p.BPMeds, &p.PrevalentStroke, &p.PrevalentHyp, &p.Diabetes,
		&p.TotChol, &p.SysBP, &p.DiaBP, &p.BMI, &p.HeartRate, &p.Glucose, &p.TenYearCHD)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid patient row %s: %w", p.ID, err)
	}
	return &p, nil
}

func (r *patientRepoPG) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *patientRepoPG) PoolStats() *db.PoolStats {
	return db.GetPoolStats(r.pool)
}

func (r *patientRepoPG) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patients`).Scan(&n)
	return n, err
}

func (r *patientRepoPG) CountByOutcome(ctx context.Context, outcome int) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patients WHERE ten_year_chd = $1`, outcome).Scan(&n)
	return n, err
}

// pgFilter translates f into a query over the patients table ordered by
// insertion sequence.
func pgFilter(f Filter) *db.Query {
	q := db.NewQuery("patients", patientCols)
	if f.AgeMin != nil {
		q.AddCompare("age", ">=", *f.AgeMin)
	}
	if f.AgeMax != nil {
		q.AddCompare("age", "<=", *f.AgeMax)
	}
	if f.BPRange != "" {
		min, max := f.BPRange.Bounds()
		if min != nil {
			q.AddCompare("sys_bp", ">=", *min)
		}
		if max != nil {
			q.AddCompare("sys_bp", "<", *max)
		}
	}
	if f.CHDStatus != nil {
		q.AddCompare("ten_year_chd", "=", *f.CHDStatus)
	}
	if f.Gender != nil {
		q.AddCompare("male", "=", *f.Gender)
	}
	if f.Search != "" {
		q.Add(fmt.Sprintf("id::text ILIKE $%d", q.Next()), escapeLike(f.Search)+"%")
	}
	q.OrderBy("seq")
	return q
}

func (r *patientRepoPG) Find(ctx context.Context, f Filter, skip, limit int) ([]*Patient, error) {
	q := pgFilter(f)
	rows, err := r.pool.Query(ctx, q.PageSQL(), q.PageArgs(limit, skip)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []*Patient{}
	for rows.Next() {
		p, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *patientRepoPG) Summarize(ctx context.Context, field Field) (Summary, error) {
	if !field.Valid() {
		return Summary{}, fmt.Errorf("unknown field %q", field)
	}
	col := field.Column()
	var s Summary
	err := r.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT COUNT(%[1]s),
			COALESCE(MIN(%[1]s), 0)::float8,
			COALESCE(MAX(%[1]s), 0)::float8,
			COALESCE(AVG(%[1]s), 0)::float8
		FROM patients`, col)).Scan(&s.Count, &s.Min, &s.Max, &s.Mean)
	return s, err
}

func (r *patientRepoPG) Values(ctx context.Context, field Field) ([]float64, error) {
	if !field.Valid() {
		return nil, fmt.Errorf("unknown field %q", field)
	}
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`SELECT %s::float8 FROM patients ORDER BY seq`, field.Column()))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	values := []float64{}
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func (r *patientRepoPG) ValuesByOutcome(ctx context.Context, fields ...Field) (GroupedValues, error) {
	aggs := make([]string, len(fields))
	for i, f := range fields {
		if !f.Valid() {
			return nil, fmt.Errorf("unknown field %q", f)
		}
		aggs[i] = fmt.Sprintf("array_agg(%s::float8 ORDER BY seq)", f.Column())
	}
	sql := `SELECT ten_year_chd`
	if len(aggs) > 0 {
		sql += ", " + strings.Join(aggs, ", ")
	}
	sql += ` FROM patients GROUP BY ten_year_chd ORDER BY ten_year_chd`

	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := GroupedValues{}
	for rows.Next() {
		var outcome int
		lists := make([][]float64, len(fields))
		dest := make([]interface{}, 0, len(fields)+1)
		dest = append(dest, &outcome)
		for i := range lists {
			dest = append(dest, &lists[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		group := make(map[Field][]float64, len(fields))
		for i, f := range fields {
			group[f] = lists[i]
		}
		result[outcome] = group
	}
	return result, rows.Err()
}

func (r *patientRepoPG) InsertMany(ctx context.Context, patients []*Patient) error {
	ids := make([]uuid.UUID, len(patients))
	for i, p := range patients {
		id, err := uuid.Parse(p.ID)
		if err != nil {
			return fmt.Errorf("patient %d: invalid id: %w", i, err)
		}
		ids[i] = id
	}
	_, err := r.pool.CopyFrom(ctx, pgx.Identifier{"patients"}, patientInsertCols,
		pgx.CopyFromSlice(len(patients), func(i int) ([]interface{}, error) {
			p := patients[i]
			return []interface{}{
				ids[i], p.Male, p.Age, p.Education, p.CurrentSmoker, p.CigsPerDay,
				p.BPMeds, p.PrevalentStroke, p.PrevalentHyp, p.Diabetes,
				p.TotChol, p.SysBP, p.DiaBP, p.BMI, p.HeartRate, p.Glucose, p.TenYearCHD,
			}, nil
		}))
	return err
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
