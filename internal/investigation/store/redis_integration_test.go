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

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *store.Redis
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = store.NewRedis(s.redis.Client, store.WithKeyPrefix("invc_test_"))
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) newRecord(appID string) *models.Investigation {
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

func (s *RedisStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	record := s.newRecord("APP-R1")
	record.SetObserved(models.FieldIncome, models.NumberValue(20000), record.UpdatedAt.Add(time.Second))

	s.Require().NoError(s.store.Save(ctx, record))

	loaded, err := s.store.Find(ctx, record.ApplicationID)
	s.Require().NoError(err)
	s.Equal(record.ApplicationID, loaded.ApplicationID)
	s.Equal(record.Observed, loaded.Observed)
	s.Equal(models.StateInProgress, loaded.State)
}

func (s *RedisStoreSuite) TestFindUnknownIsNotFound() {
	_, err := s.store.Find(context.Background(), "APP-R404")
	s.True(errors.Is(err, sentinel.ErrNotFound))
}

func (s *RedisStoreSuite) TestCorruptPayloadSurfacesSentinel() {
	ctx := context.Background()
	record := s.newRecord("APP-R2")
	s.Require().NoError(s.store.Save(ctx, record))

	s.Require().NoError(s.redis.Client.Set(ctx, "invc_test_APP-R2", "{not json", 0).Err())

	_, err := s.store.Find(ctx, record.ApplicationID)
	s.True(errors.Is(err, sentinel.ErrCorrupt))
}

func (s *RedisStoreSuite) TestLastWriteWins() {
	ctx := context.Background()
	record := s.newRecord("APP-R3")
	s.Require().NoError(s.store.Save(ctx, record))

	record.SetObserved(models.FieldExpenses, models.NumberValue(3100), record.UpdatedAt.Add(time.Second))
	s.Require().NoError(s.store.Save(ctx, record))

	loaded, err := s.store.Find(ctx, record.ApplicationID)
	s.Require().NoError(err)
	s.Len(loaded.Observed, 1)
}
