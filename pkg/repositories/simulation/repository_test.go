package simulation

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/fadedpez/aceshigh/internal/logging"
	"github.com/fadedpez/aceshigh/internal/types"
	"github.com/fadedpez/aceshigh/pkg/entities"
)

// RepositoryTestSuite runs the same behaviour checks against every backend
type RepositoryTestSuite struct {
	suite.Suite
	newRepo func() Repository
	cleanup func()

	repo     Repository
	ctx      context.Context
	testTime time.Time
}

func (s *RepositoryTestSuite) SetupTest() {
	s.repo = s.newRepo()
	s.ctx = context.Background()
	s.testTime = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
}

func (s *RepositoryTestSuite) TearDownTest() {
	s.NoError(s.repo.Close())
	if s.cleanup != nil {
		s.cleanup()
	}
}

func TestMemoryRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func() Repository { return NewMemoryRepository() },
	})
}

func TestSQLiteRepository(t *testing.T) {
	s := &RepositoryTestSuite{}
	s.newRepo = func() Repository {
		repo, err := NewSQLiteRepository(filepath.Join(s.T().TempDir(), "data", "aceshigh.db"))
		s.Require().NoError(err)
		return repo
	}
	suite.Run(t, s)
}

func TestRedisRepository(t *testing.T) {
	s := &RepositoryTestSuite{}
	s.newRepo = func() Repository {
		mr, err := miniredis.Run()
		s.Require().NoError(err)
		s.cleanup = mr.Close

		repo, err := NewRedisRepository(&RedisConfig{
			RedisClient: redis.NewClient(&redis.Options{Addr: mr.Addr()}),
		})
		s.Require().NoError(err)
		return repo
	}
	suite.Run(t, s)
}

func TestElasticsearchRepository(t *testing.T) {
	s := &RepositoryTestSuite{}
	s.newRepo = func() Repository {
		cluster := newFakeCluster()
		s.cleanup = cluster.Close

		repo, err := NewElasticsearchRepository(NewMemoryRepository(), &ElasticsearchConfig{
			URL:       cluster.URL(),
			BatchSize: 2,
			Logger:    logging.NewLoggerWithWriter(logging.ERROR, io.Discard),
		})
		s.Require().NoError(err)
		return repo
	}
	suite.Run(t, s)
}

func (s *RepositoryTestSuite) run(id string, mode entities.Mode, completed time.Duration) *entities.SimulationRun {
	return &entities.SimulationRun{
		ID:          id,
		Mode:        mode,
		Iterations:  100,
		Workers:     2,
		Seed:        42,
		Histogram:   entities.Histogram{0: 60, 8: 30, 29: 10},
		StartedAt:   s.testTime,
		CompletedAt: s.testTime.Add(completed),
		Elapsed:     completed,
	}
}

func (s *RepositoryTestSuite) TestSaveAndGetRun() {
	run := s.run("run-1", entities.ModeCribbage, 3*time.Second)
	s.Require().NoError(s.repo.SaveRun(s.ctx, run))

	got, err := s.repo.GetRun(s.ctx, "run-1")
	s.Require().NoError(err)
	s.Equal(run.ID, got.ID)
	s.Equal(run.Mode, got.Mode)
	s.Equal(run.Iterations, got.Iterations)
	s.Equal(run.Workers, got.Workers)
	s.Equal(run.Seed, got.Seed)
	s.Equal(run.Histogram, got.Histogram)
	s.True(run.StartedAt.Equal(got.StartedAt))
	s.True(run.CompletedAt.Equal(got.CompletedAt))
	s.Equal(run.Elapsed, got.Elapsed)

	// Mutating the returned run does not change the stored one
	got.Histogram[0] = 1
	again, err := s.repo.GetRun(s.ctx, "run-1")
	s.Require().NoError(err)
	s.Equal(int64(60), again.Histogram[0])
}

func (s *RepositoryTestSuite) TestSaveRunReplaces() {
	run := s.run("run-1", entities.ModePoker, time.Second)
	s.Require().NoError(s.repo.SaveRun(s.ctx, run))

	run.Iterations = 200
	run.Histogram = entities.Histogram{1: 200}
	s.Require().NoError(s.repo.SaveRun(s.ctx, run))

	got, err := s.repo.GetRun(s.ctx, "run-1")
	s.Require().NoError(err)
	s.Equal(200, got.Iterations)
	s.Equal(entities.Histogram{1: 200}, got.Histogram)

	runs, err := s.repo.ListRuns(s.ctx, "", 0)
	s.Require().NoError(err)
	s.Len(runs, 1)
}

func (s *RepositoryTestSuite) TestGetRunNotFound() {
	_, err := s.repo.GetRun(s.ctx, "missing")
	s.ErrorIs(err, ErrRunNotFound)
	s.True(types.IsGameError(err, types.ErrNotFound))
}

func (s *RepositoryTestSuite) TestListRuns() {
	s.Require().NoError(s.repo.SaveRun(s.ctx, s.run("oldest", entities.ModeCribbage, time.Second)))
	s.Require().NoError(s.repo.SaveRun(s.ctx, s.run("poker", entities.ModePoker, 2*time.Second)))
	s.Require().NoError(s.repo.SaveRun(s.ctx, s.run("newest", entities.ModeCribbage, 3*time.Second)))

	testCases := []struct {
		name     string
		mode     entities.Mode
		limit    int
		expected []string
	}{
		{name: "all modes", mode: "", limit: 0, expected: []string{"newest", "poker", "oldest"}},
		{name: "all modes limited", mode: "", limit: 2, expected: []string{"newest", "poker"}},
		{name: "one mode", mode: entities.ModeCribbage, limit: 10, expected: []string{"newest", "oldest"}},
		{name: "one mode limited", mode: entities.ModeCribbage, limit: 1, expected: []string{"newest"}},
		{name: "mode without runs", mode: entities.ModePoker7, limit: 0, expected: []string{}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			runs, err := s.repo.ListRuns(s.ctx, tc.mode, tc.limit)
			s.Require().NoError(err)

			ids := make([]string, 0, len(runs))
			for _, run := range runs {
				ids = append(ids, run.ID)
			}
			s.Equal(tc.expected, ids)
		})
	}
}

func (s *RepositoryTestSuite) TestCribHands() {
	hands := []*entities.CribHandRecord{
		{
			FullHand:    entities.MustParseHand("5H 5D 5C JS 2C 9D"),
			KeptHand:    entities.MustParseHand("5H 5D 5C JS"),
			Cut:         entities.MustParseCard("5S"),
			Discarded:   entities.MustParseHand("2C 9D"),
			PreCutScore: 14,
			Score:       28,
		},
		{
			FullHand:    entities.MustParseHand("AH 2D 3C 4S KC QD"),
			KeptHand:    entities.MustParseHand("AH 2D 3C KC"),
			Cut:         entities.MustParseCard("10H"),
			Discarded:   entities.MustParseHand("4S QD"),
			PreCutScore: 5,
			Score:       7,
		},
	}
	more := []*entities.CribHandRecord{
		{
			FullHand:    entities.MustParseHand("2H 4H 6H 8H KS 9C"),
			KeptHand:    entities.MustParseHand("2H 4H 6H 8H"),
			Cut:         entities.MustParseCard("7H"),
			Discarded:   entities.MustParseHand("KS 9C"),
			PreCutScore: 4,
			Score:       12,
		},
	}

	s.Require().NoError(s.repo.SaveCribHands(s.ctx, "run-1", hands))
	s.Require().NoError(s.repo.SaveCribHands(s.ctx, "run-1", more))
	s.Require().NoError(s.repo.SaveCribHands(s.ctx, "run-2", more))

	got, err := s.repo.GetCribHands(s.ctx, "run-1", 0)
	s.Require().NoError(err)
	s.Require().Len(got, 3)
	for i, expected := range append(hands, more...) {
		s.Equal("run-1", got[i].RunID)
		s.Equal(expected.FullHand, got[i].FullHand)
		s.Equal(expected.KeptHand, got[i].KeptHand)
		s.Equal(expected.Cut, got[i].Cut)
		s.Equal(expected.Discarded, got[i].Discarded)
		s.Equal(expected.PreCutScore, got[i].PreCutScore)
		s.Equal(expected.Score, got[i].Score)
	}

	limited, err := s.repo.GetCribHands(s.ctx, "run-1", 2)
	s.Require().NoError(err)
	s.Len(limited, 2)
	s.Equal(28, limited[0].Score)

	none, err := s.repo.GetCribHands(s.ctx, "unknown", 0)
	s.Require().NoError(err)
	s.Empty(none)
}
