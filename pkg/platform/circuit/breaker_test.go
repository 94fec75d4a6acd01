package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type BreakerSuite struct {
	suite.Suite
	now     time.Time
	breaker *Breaker
}

func TestBreakerSuite(t *testing.T) {
	suite.Run(t, new(BreakerSuite))
}

func (s *BreakerSuite) SetupTest() {
	s.now = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.breaker = New("verification",
		WithFailureThreshold(3),
		WithSuccessThreshold(2),
		WithCooldown(time.Minute),
		WithClock(func() time.Time { return s.now }),
	)
}

func (s *BreakerSuite) fail(n int) {
	for range n {
		s.breaker.RecordFailure()
	}
}

func (s *BreakerSuite) TestOpensAfterThreshold() {
	s.fail(2)
	s.True(s.breaker.Allow())

	change := s.breaker.RecordFailure()
	s.True(change.Opened)
	s.False(s.breaker.Allow())
	s.Equal(StateOpen, s.breaker.State())
}

func (s *BreakerSuite) TestSuccessResetsFailureCount() {
	s.fail(2)
	s.breaker.RecordSuccess()
	s.fail(2)
	s.Equal(StateClosed, s.breaker.State())
}

func (s *BreakerSuite) TestHalfOpenAfterCooldown() {
	s.fail(3)
	s.now = s.now.Add(59 * time.Second)
	s.False(s.breaker.Allow())

	s.now = s.now.Add(time.Second)
	s.True(s.breaker.Allow())
	s.Equal(StateHalfOpen, s.breaker.State())
}

func (s *BreakerSuite) TestClosesAfterProbeSuccesses() {
	s.fail(3)
	s.now = s.now.Add(time.Minute)

	s.False(s.breaker.RecordSuccess().Closed)
	change := s.breaker.RecordSuccess()
	s.True(change.Closed)
	s.Equal(StateClosed, s.breaker.State())
}

func (s *BreakerSuite) TestFailedProbeReopens() {
	s.fail(3)
	s.now = s.now.Add(time.Minute)
	s.True(s.breaker.Allow())

	s.breaker.RecordFailure()
	s.False(s.breaker.Allow())
	s.Equal("open", s.breaker.State().String())
}

func (s *BreakerSuite) TestReset() {
	s.fail(3)
	s.breaker.Reset()
	s.True(s.breaker.Allow())
	s.Equal("verification", s.breaker.Name())
}
