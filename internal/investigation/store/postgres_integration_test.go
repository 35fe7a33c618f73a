//go:build integration

package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/edd1080/project-olympo-sub002/internal/geo"
	"github.com/edd1080/project-olympo-sub002/internal/investigation/models"
	"github.com/edd1080/project-olympo-sub002/internal/investigation/store"
	id "github.com/edd1080/project-olympo-sub002/pkg/domain"
	"github.com/edd1080/project-olympo-sub002/pkg/platform/sentinel"
	"github.com/edd1080/project-olympo-sub002/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *store.Postgres
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.pg.DB)
	s.Require().NoError(s.store.EnsureSchema(context.Background()))
}

func (s *PostgresStoreSuite) SetupTest() {
	_, err := s.pg.DB.ExecContext(context.Background(), "TRUNCATE investigations")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) newRecord(appID string) *models.Investigation {
	declared := models.DeclaredData{
		FullName:         "Maria Lopez",
		NationalID:       "2345678901234",
		MonthlyIncome:    8500,
		BusinessLocation: &geo.Coordinate{Latitude: 14.6349, Longitude: -90.5069},
	}
	record, err := models.NewInvestigation(id.ApplicationID(appID), declared, time.Now().UTC())
	s.Require().NoError(err)
	return record
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	record := s.newRecord("APP-P1")
	record.SetObserved(models.FieldIncome, models.NumberValue(20000), record.UpdatedAt.Add(time.Second))
	record.UpsertDifference(models.Difference{
		Field:    models.FieldIncome,
		Declared: models.NumberValue(8500),
		Observed: models.NumberValue(20000),
		Delta:    11500,
		Severity: models.SeverityMedium,
	}, record.UpdatedAt.Add(2*time.Second))

	s.Require().NoError(s.store.Save(ctx, record))

	loaded, err := s.store.Find(ctx, record.ApplicationID)
	s.Require().NoError(err)
	s.Equal(record.ApplicationID, loaded.ApplicationID)
	s.Equal(record.Differences, loaded.Differences)
	s.Equal(models.StateInProgress, loaded.State)
}

func (s *PostgresStoreSuite) TestUpsertReplacesRow() {
	ctx := context.Background()
	record := s.newRecord("APP-P2")
	s.Require().NoError(s.store.Save(ctx, record))

	record.SetObserved(models.FieldExpenses, models.NumberValue(3100), record.UpdatedAt.Add(time.Second))
	s.Require().NoError(s.store.Save(ctx, record))

	var count int
	s.Require().NoError(s.pg.DB.QueryRowContext(ctx, "SELECT count(*) FROM investigations").Scan(&count))
	s.Equal(1, count)

	loaded, err := s.store.Find(ctx, record.ApplicationID)
	s.Require().NoError(err)
	s.Len(loaded.Observed, 1)
}

func (s *PostgresStoreSuite) TestFindUnknownIsNotFound() {
	_, err := s.store.Find(context.Background(), "APP-P404")
	s.True(errors.Is(err, sentinel.ErrNotFound))
}

func (s *PostgresStoreSuite) TestCorruptPayloadSurfacesSentinel() {
	ctx := context.Background()
	record := s.newRecord("APP-P3")
	s.Require().NoError(s.store.Save(ctx, record))

	_, err := s.pg.DB.ExecContext(ctx,
		`UPDATE investigations SET payload = '{"bogus": true}'::jsonb WHERE application_id = $1`,
		string(record.ApplicationID))
	s.Require().NoError(err)

	_, err = s.store.Find(ctx, record.ApplicationID)
	s.True(errors.Is(err, sentinel.ErrCorrupt))
}
