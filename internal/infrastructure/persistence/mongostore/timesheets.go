package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"github.com/garyjia/timesheet-reports/internal/domain/entity"
)

func timesheetIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "employee_id", Value: 1}, {Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "team_id", Value: 1}, {Key: "date", Value: 1}}},
	}
}

// timesheetFilter translates a query into a document filter. End is
// inclusive, so the upper bound is midnight after it.
func timesheetFilter(q entity.TimesheetQuery) bson.D {
	filter := bson.D{}

	date := bson.D{}
	if !q.Start.IsZero() {
		date = append(date, bson.E{Key: "$gte", Value: startOfDay(q.Start)})
	}
	if !q.End.IsZero() {
		date = append(date, bson.E{Key: "$lt", Value: startOfDay(q.End).AddDate(0, 0, 1)})
	}
	if len(date) > 0 {
		filter = append(filter, bson.E{Key: "date", Value: date})
	}

	if len(q.EmployeeIDs) > 0 {
		filter = append(filter, bson.E{Key: "employee_id", Value: bson.D{{Key: "$in", Value: q.EmployeeIDs}}})
	}

	project := bson.D{{Key: "project_id", Value: bson.D{{Key: "$in", Value: q.ProjectIDs}}}}
	team := bson.D{{Key: "team_id", Value: bson.D{{Key: "$in", Value: q.TeamIDs}}}}
	switch {
	case len(q.ProjectIDs) > 0 && len(q.TeamIDs) > 0:
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{project, team}})
	case len(q.ProjectIDs) > 0:
		filter = append(filter, project...)
	case len(q.TeamIDs) > 0:
		filter = append(filter, team...)
	}

	if len(q.Statuses) > 0 {
		statuses := make(bson.A, len(q.Statuses))
		for i, s := range q.Statuses {
			statuses[i] = string(s)
		}
		filter = append(filter, bson.E{Key: "status", Value: bson.D{{Key: "$in", Value: statuses}}})
	}
	return filter
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Find returns matching entries ordered by employee and day
func (s *Store) Find(ctx context.Context, q entity.TimesheetQuery) ([]entity.TimesheetEntry, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "employee_id", Value: 1},
		{Key: "date", Value: 1},
		{Key: "_id", Value: 1},
	})
	cursor, err := s.timesheets.Find(ctx, timesheetFilter(q), opts)
	if err != nil {
		s.logger.Error("Failed to query timesheets", zap.Error(err))
		return nil, fmt.Errorf("find timesheets: %w", err)
	}
	var entries []entity.TimesheetEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("decode timesheets: %w", err)
	}
	s.logger.Debug("Timesheets loaded", zap.Int("count", len(entries)))
	return entries, nil
}

// SaveTimesheets upserts entries by ID; entries without one get a UUID
func (s *Store) SaveTimesheets(ctx context.Context, entries []entity.TimesheetEntry) error {
	if len(entries) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, 0, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		e.Date = startOfDay(e.Date)
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.D{{Key: "_id", Value: e.ID}}).
			SetReplacement(e).
			SetUpsert(true))
	}
	if _, err := s.timesheets.BulkWrite(ctx, models); err != nil {
		return fmt.Errorf("save timesheets: %w", err)
	}
	return nil
}
