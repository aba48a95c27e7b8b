package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/garyjia/timesheet-reports/internal/application/port"
	"github.com/garyjia/timesheet-reports/internal/domain/entity"
)

// idFilter matches the given IDs, or every document when ids is nil
func idFilter(ids []string) bson.D {
	if ids == nil {
		return bson.D{}
	}
	return bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}}
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, ids []string) ([]T, error) {
	cursor, err := coll.Find(ctx, idFilter(ids), options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", coll.Name(), err)
	}
	var out []T
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return out, nil
}

func upsertAll[T any](ctx context.Context, coll *mongo.Collection, docs []T, id func(T) string) error {
	if len(docs) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, 0, len(docs))
	for _, d := range docs {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.D{{Key: "_id", Value: id(d)}}).
			SetReplacement(d).
			SetUpsert(true))
	}
	if _, err := coll.BulkWrite(ctx, models); err != nil {
		return fmt.Errorf("save %s: %w", coll.Name(), err)
	}
	return nil
}

// ListEmployees returns employees with the given IDs, or all when ids is nil
func (s *Store) ListEmployees(ctx context.Context, ids []string) ([]entity.Employee, error) {
	return findAll[entity.Employee](ctx, s.employees, ids)
}

// ListProjects returns projects with the given IDs, or all when ids is nil
func (s *Store) ListProjects(ctx context.Context, ids []string) ([]entity.Project, error) {
	return findAll[entity.Project](ctx, s.projects, ids)
}

// ListTeams returns teams with the given IDs, or all when ids is nil
func (s *Store) ListTeams(ctx context.Context, ids []string) ([]entity.Team, error) {
	return findAll[entity.Team](ctx, s.teams, ids)
}

func (s *Store) SaveEmployees(ctx context.Context, employees []entity.Employee) error {
	return upsertAll(ctx, s.employees, employees, func(e entity.Employee) string { return e.ID })
}

func (s *Store) SaveProjects(ctx context.Context, projects []entity.Project) error {
	return upsertAll(ctx, s.projects, projects, func(p entity.Project) string { return p.ID })
}

func (s *Store) SaveTeams(ctx context.Context, teams []entity.Team) error {
	return upsertAll(ctx, s.teams, teams, func(t entity.Team) string { return t.ID })
}

var _ port.Store = (*Store)(nil)
