package db

import "testing"

func TestQuery_NoClauses(t *testing.T) {
	q := NewQuery("patients", "id, age")
	if got := q.PageSQL(); got != "SELECT id, age FROM patients WHERE 1=1 LIMIT $1 OFFSET $2" {
		t.Errorf("unexpected page SQL: %s", got)
	}
	args := q.PageArgs(100, 0)
	if len(args) != 2 || args[0] != 100 || args[1] != 0 {
		t.Errorf("unexpected page args: %v", args)
	}
}

func TestQuery_PlaceholdersAdvance(t *testing.T) {
	q := NewQuery("patients", "id")
	q.AddCompare("age", ">=", 40)
	q.AddCompare("age", "<=", 60)
	q.Add("sys_bp >= $3 AND sys_bp < $4", 120.0, 140.0)
	q.OrderBy("seq")

	want := "SELECT id FROM patients WHERE 1=1 AND age >= $1 AND age <= $2 AND sys_bp >= $3 AND sys_bp < $4 ORDER BY seq LIMIT $5 OFFSET $6"
	if got := q.PageSQL(); got != want {
		t.Errorf("PageSQL:\n got %s\nwant %s", got, want)
	}
	if q.Next() != 5 {
		t.Errorf("expected next placeholder 5, got %d", q.Next())
	}
	args := q.PageArgs(10, 20)
	if len(args) != 6 || args[4] != 10 || args[5] != 20 {
		t.Errorf("unexpected args: %v", args)
	}
	if args[0] != 40 || args[1] != 60 || args[2] != 120.0 || args[3] != 140.0 {
		t.Errorf("unexpected where args: %v", args[:4])
	}
}
