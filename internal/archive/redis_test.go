package archive

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"showtime/internal/domain"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr      *miniredis.Miniredis
	client  *redis.Client
	repo    Repository
	ctx     context.Context
	testNow time.Time
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	repo, err := NewRedis(&Config{
		RedisClient: s.client,
		MaxRecent:   3,
	})
	s.Require().NoError(err)
	s.repo = repo

	s.ctx = context.Background()
	s.testNow = time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) show(id, roomCode string, offset time.Duration) *ShowRecord {
	winner := domain.VoteResult{PlayerID: "p1", PlayerName: "Alice", Votes: 2}
	return &ShowRecord{
		ID:           id,
		RoomCode:     roomCode,
		Mode:         domain.ModeHeadToHead,
		Round:        1,
		Title:        "Title " + id,
		LineCount:    8,
		Characters:   []string{"Pirate", "Dentist"},
		Setting:      "a submarine",
		Circumstance: "the wifi is down",
		Results:      []domain.VoteResult{winner},
		Winner:       &winner,
		FinishedAt:   s.testNow.Add(offset),
	}
}

func (s *RedisRepositoryTestSuite) TestSaveAndGetShow() {
	show := s.show("show-1", "ABCD", 0)

	err := s.repo.SaveShow(s.ctx, &SaveShowInput{Show: show})
	s.Require().NoError(err)

	got, err := s.repo.GetShow(s.ctx, &GetShowInput{ShowID: "show-1"})
	s.Require().NoError(err)
	s.Equal(show.Title, got.Title)
	s.Equal(show.Characters, got.Characters)
	s.Require().NotNil(got.Winner)
	s.Equal("Alice", got.Winner.PlayerName)
	s.True(show.FinishedAt.Equal(got.FinishedAt))
}

func (s *RedisRepositoryTestSuite) TestGetShowNotFound() {
	_, err := s.repo.GetShow(s.ctx, &GetShowInput{ShowID: "missing"})
	s.ErrorIs(err, ErrShowNotFound)
}

func (s *RedisRepositoryTestSuite) TestRecentShowsAreTrimmedNewestFirst() {
	for i := 1; i <= 5; i++ {
		err := s.repo.SaveShow(s.ctx, &SaveShowInput{Show: s.show(fmt.Sprintf("show-%d", i), "ABCD", time.Duration(i)*time.Minute)})
		s.Require().NoError(err)
	}

	out, err := s.repo.GetRecentShows(s.ctx, &GetRecentShowsInput{Limit: 10})
	s.Require().NoError(err)
	s.Require().Len(out.Shows, 3)
	s.Equal("show-5", out.Shows[0].ID)
	s.Equal("show-3", out.Shows[2].ID)

	length, err := s.client.LLen(s.ctx, recentShowsKey).Result()
	s.Require().NoError(err)
	s.Equal(int64(3), length)
}

func (s *RedisRepositoryTestSuite) TestGetShowsByRoom() {
	s.Require().NoError(s.repo.SaveShow(s.ctx, &SaveShowInput{Show: s.show("a1", "ROOM", 0)}))
	s.Require().NoError(s.repo.SaveShow(s.ctx, &SaveShowInput{Show: s.show("b1", "OTHR", time.Minute)}))
	s.Require().NoError(s.repo.SaveShow(s.ctx, &SaveShowInput{Show: s.show("a2", "ROOM", 2*time.Minute)}))

	shows, err := s.repo.GetShowsByRoom(s.ctx, &GetShowsByRoomInput{RoomCode: "ROOM"})
	s.Require().NoError(err)
	s.Require().Len(shows, 2)
	s.Equal("a2", shows[0].ID)
	s.Equal("a1", shows[1].ID)
}

func (s *RedisRepositoryTestSuite) TestExpiredShowsAreSkipped() {
	repo, err := NewRedis(&Config{RedisClient: s.client, Retention: time.Hour})
	s.Require().NoError(err)

	s.Require().NoError(repo.SaveShow(s.ctx, &SaveShowInput{Show: s.show("old", "ABCD", 0)}))
	s.mr.FastForward(2 * time.Hour)
	s.Require().NoError(repo.SaveShow(s.ctx, &SaveShowInput{Show: s.show("new", "ABCD", time.Minute)}))

	out, err := repo.GetRecentShows(s.ctx, nil)
	s.Require().NoError(err)
	s.Require().Len(out.Shows, 1)
	s.Equal("new", out.Shows[0].ID)
}

func (s *RedisRepositoryTestSuite) TestSaveShowValidatesInput() {
	s.Error(s.repo.SaveShow(s.ctx, nil))
	s.Error(s.repo.SaveShow(s.ctx, &SaveShowInput{Show: &ShowRecord{}}))
}

func (s *RedisRepositoryTestSuite) TestNewRedisValidatesConfig() {
	_, err := NewRedis(nil)
	s.Error(err)
	_, err = NewRedis(&Config{})
	s.Error(err)
}
