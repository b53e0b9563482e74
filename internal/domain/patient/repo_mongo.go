package patient

import (
	"context"
	"fmt"
	"regexp"

	"gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

const patientCollection = "patients"

type patientRepoMongo struct {
	session *mgo.Session
	dbName  string
}

// NewPatientRepoMongo stores patients as documents in the "patients" collection.
// Every operation runs on a copy of the root session.
func NewPatientRepoMongo(session *mgo.Session, dbName string) PatientRepository {
	return &patientRepoMongo{session: session, dbName: dbName}
}

func (r *patientRepoMongo) with(fn func(c *mgo.Collection) error) error {
	s := r.session.Copy()
	defer s.Close()
	return fn(s.DB(r.dbName).C(patientCollection))
}

func (r *patientRepoMongo) Ping(_ context.Context) error {
	s := r.session.Copy()
	defer s.Close()
	return s.Ping()
}

func (r *patientRepoMongo) Count(_ context.Context) (int, error) {
	var n int
	err := r.with(func(c *mgo.Collection) (err error) {
		n, err = c.Count()
		return err
	})
	return n, err
}

func (r *patientRepoMongo) CountByOutcome(_ context.Context, outcome int) (int, error) {
	var n int
	err := r.with(func(c *mgo.Collection) (err error) {
		n, err = c.Find(bson.M{FieldTenYearCHD.Key(): outcome}).Count()
		return err
	})
	return n, err
}

func mongoFilter(f Filter) bson.M {
	q := bson.M{}
	if f.AgeMin != nil || f.AgeMax != nil {
		age := bson.M{}
		if f.AgeMin != nil {
			age["$gte"] = *f.AgeMin
		}
		if f.AgeMax != nil {
			age["$lte"] = *f.AgeMax
		}
		q[FieldAge.Key()] = age
	}
	if f.BPRange != "" {
		bp := bson.M{}
		min, max := f.BPRange.Bounds()
		if min != nil {
			bp["$gte"] = *min
		}
		if max != nil {
			bp["$lt"] = *max
		}
		q[FieldSysBP.Key()] = bp
	}
	if f.CHDStatus != nil {
		q[FieldTenYearCHD.Key()] = *f.CHDStatus
	}
	if f.Gender != nil {
		q[FieldMale.Key()] = *f.Gender
	}
	if f.Search != "" {
		q["_id"] = bson.RegEx{Pattern: "^" + regexp.QuoteMeta(f.Search), Options: "i"}
	}
	return q
}

func (r *patientRepoMongo) Find(_ context.Context, f Filter, skip, limit int) ([]*Patient, error) {
	items := []*Patient{}
	err := r.with(func(c *mgo.Collection) error {
		return c.Find(mongoFilter(f)).Skip(skip).Limit(limit).All(&items)
	})
	if err != nil {
		return nil, err
	}
	for _, p := range items {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("invalid patient document %s: %w", p.ID, err)
		}
	}
	return items, nil
}

type mongoSummary struct {
	Count int     `bson:"count"`
	Min   float64 `bson:"min"`
	Max   float64 `bson:"max"`
	Mean  float64 `bson:"avg"`
}

func (r *patientRepoMongo) Summarize(_ context.Context, field Field) (Summary, error) {
	if !field.Valid() {
		return Summary{}, fmt.Errorf("unknown field %q", field)
	}
	ref := "$" + field.Key()
	pipeline := []bson.M{
		{"$group": bson.M{
			"_id":   nil,
			"count": bson.M{"$sum": 1},
			"min":   bson.M{"$min": ref},
			"max":   bson.M{"$max": ref},
			"avg":   bson.M{"$avg": ref},
		}},
	}
	var res mongoSummary
	err := r.with(func(c *mgo.Collection) error {
		return c.Pipe(pipeline).One(&res)
	})
	if err == mgo.ErrNotFound {
		return Summary{}, nil
	}
	if err != nil {
		return Summary{}, err
	}
	return Summary(res), nil
}

func (r *patientRepoMongo) Values(_ context.Context, field Field) ([]float64, error) {
	if !field.Valid() {
		return nil, fmt.Errorf("unknown field %q", field)
	}
	pipeline := []bson.M{
		{"$group": bson.M{"_id": nil, "values": bson.M{"$push": "$" + field.Key()}}},
	}
	var res struct {
		Values []interface{} `bson:"values"`
	}
	err := r.with(func(c *mgo.Collection) error {
		return c.Pipe(pipeline).One(&res)
	})
	if err == mgo.ErrNotFound {
		return []float64{}, nil
	}
	if err != nil {
		return nil, err
	}
	return toFloats(res.Values)
}

func (r *patientRepoMongo) ValuesByOutcome(_ context.Context, fields ...Field) (GroupedValues, error) {
	group := bson.M{"_id": "$" + FieldTenYearCHD.Key()}
	for _, f := range fields {
		if !f.Valid() {
			return nil, fmt.Errorf("unknown field %q", f)
		}
		group[f.Key()] = bson.M{"$push": "$" + f.Key()}
	}
	pipeline := []bson.M{{"$group": group}, {"$sort": bson.M{"_id": 1}}}

	var docs []bson.M
	err := r.with(func(c *mgo.Collection) error {
		return c.Pipe(pipeline).All(&docs)
	})
	if err != nil {
		return nil, err
	}

	result := GroupedValues{}
	for _, doc := range docs {
		outcome, err := toFloat(doc["_id"])
		if err != nil {
			return nil, fmt.Errorf("group key: %w", err)
		}
		values := make(map[Field][]float64, len(fields))
		for _, f := range fields {
			raw, _ := doc[f.Key()].([]interface{})
			vs, err := toFloats(raw)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", f, err)
			}
			values[f] = vs
		}
		result[int(outcome)] = values
	}
	return result, nil
}

func (r *patientRepoMongo) InsertMany(_ context.Context, patients []*Patient) error {
	if len(patients) == 0 {
		return nil
	}
	docs := make([]interface{}, len(patients))
	for i, p := range patients {
		docs[i] = p
	}
	return r.with(func(c *mgo.Collection) error {
		return c.Insert(docs...)
	})
}

func toFloats(raw []interface{}) ([]float64, error) {
	out := make([]float64, 0, len(raw))
	for _, v := range raw {
		f, err := toFloat(v)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	}
	return 0, fmt.Errorf("non-numeric value %v (%T)", v, v)
}
