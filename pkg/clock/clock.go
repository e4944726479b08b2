package clock

import "time"

// Clock returns the host wall time. Services depend on the Now method only,
// so tests can substitute Mock.
type Clock struct{}

func New() *Clock {
	return &Clock{}
}

func (c *Clock) Now() time.Time {
	return time.Now()
}

type Mock struct {
	value time.Time
}

func NewMock(value time.Time) *Mock {
	return &Mock{value: value}
}

func (m *Mock) Now() time.Time {
	return m.value
}

func (m *Mock) Set(t time.Time) {
	m.value = t
}

func (m *Mock) Add(d time.Duration) {
	m.value = m.value.Add(d)
}
