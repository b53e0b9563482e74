package patient

import (
	"reflect"
	"testing"
)

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"abc", "abc"},
		{"50%", `50\%`},
		{"a_b", `a\_b`},
		{`back\slash`, `back\\slash`},
		{`%_\`, `\%\_\\`},
	}
	for _, tt := range tests {
		if got := escapeLike(tt.in); got != tt.want {
			t.Errorf("escapeLike(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPGFilter_NoPredicates(t *testing.T) {
	q := pgFilter(Filter{})
	want := "SELECT " + patientCols + " FROM patients WHERE 1=1 ORDER BY seq LIMIT $1 OFFSET $2"
	if got := q.PageSQL(); got != want {
		t.Errorf("PageSQL:\n got %s\nwant %s", got, want)
	}
	if args := q.PageArgs(100, 0); !reflect.DeepEqual(args, []interface{}{100, 0}) {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestPGFilter_AllPredicates(t *testing.T) {
	f := Filter{
		AgeMin:    intPtr(40),
		AgeMax:    intPtr(60),
		BPRange:   BPNormal,
		CHDStatus: intPtr(1),
		Gender:    intPtr(0),
		Search:    "ab_c%",
	}
	q := pgFilter(f)

	want := "SELECT " + patientCols + " FROM patients WHERE 1=1" +
		" AND age >= $1 AND age <= $2" +
		" AND sys_bp >= $3 AND sys_bp < $4" +
		" AND ten_year_chd = $5 AND male = $6" +
		" AND id::text ILIKE $7" +
		" ORDER BY seq LIMIT $8 OFFSET $9"
	if got := q.PageSQL(); got != want {
		t.Errorf("PageSQL:\n got %s\nwant %s", got, want)
	}
	wantArgs := []interface{}{40, 60, 120.0, 140.0, 1, 0, `ab\_c\%%`, 10, 20}
	if args := q.PageArgs(10, 20); !reflect.DeepEqual(args, wantArgs) {
		t.Errorf("args:\n got %v\nwant %v", args, wantArgs)
	}
}

func TestPGFilter_OpenEndedBuckets(t *testing.T) {
	tests := []struct {
		r    BPRange
		sql  string
		args []interface{}
	}{
		{BPLow, " AND sys_bp < $1", []interface{}{120.0}},
		{BPHigh, " AND sys_bp >= $1", []interface{}{140.0}},
	}
	for _, tt := range tests {
		q := pgFilter(Filter{BPRange: tt.r})
		want := "SELECT " + patientCols + " FROM patients WHERE 1=1" + tt.sql + " ORDER BY seq LIMIT $2 OFFSET $3"
		if got := q.PageSQL(); got != want {
			t.Errorf("%s: got %s", tt.r, got)
		}
		if args := q.PageArgs(1, 0)[:1]; !reflect.DeepEqual(args, tt.args) {
			t.Errorf("%s: unexpected args %v", tt.r, args)
		}
	}
}
