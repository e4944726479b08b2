package dal

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type MemoryTestSuite struct {
	suite.Suite
	store *Memory
}

func (s *MemoryTestSuite) SetupTest() {
	s.store = NewMemory()
}

func (s *MemoryTestSuite) TestAppendTask_AssignsIDsInOrder() {
	first := s.store.AppendTask(Task{ChatID: 1, Description: "first"})
	second := s.store.AppendTask(Task{ChatID: 2, Description: "second", Delivered: true})

	s.Equal(int64(1), first.ID)
	s.Equal(int64(2), second.ID)
	s.False(second.Delivered, "delivered flag must be reset at creation")

	tasks := s.store.GetAllTasks()
	s.Require().Len(tasks, 2)
	s.Equal("first", tasks[0].Description)
	s.Equal("second", tasks[1].Description)
}

func (s *MemoryTestSuite) TestGetAllTasks_ReturnsSnapshot() {
	s.store.AppendTask(Task{ChatID: 1, Description: "original"})

	tasks := s.store.GetAllTasks()
	tasks[0].Description = "mutated"

	s.Equal("original", s.store.GetAllTasks()[0].Description)
}

func (s *MemoryTestSuite) TestTaskByPosition() {
	s.store.AppendTask(Task{ChatID: 1, Description: "first"})
	s.store.AppendTask(Task{ChatID: 1, Description: "second"})

	task, ok := s.store.TaskByPosition(2)
	s.Require().True(ok)
	s.Equal("second", task.Description)

	_, ok = s.store.TaskByPosition(0)
	s.False(ok)
	_, ok = s.store.TaskByPosition(3)
	s.False(ok)
}

func (s *MemoryTestSuite) TestDeleteTaskByPosition() {
	s.store.AppendTask(Task{ChatID: 1, Description: "first"})
	s.store.AppendTask(Task{ChatID: 1, Description: "second"})
	s.store.AppendTask(Task{ChatID: 1, Description: "third"})

	removed, ok := s.store.DeleteTaskByPosition(2)
	s.Require().True(ok)
	s.Equal("second", removed.Description)

	tasks := s.store.GetAllTasks()
	s.Require().Len(tasks, 2)
	s.Equal("first", tasks[0].Description)
	s.Equal("third", tasks[1].Description)

	_, ok = s.store.DeleteTaskByPosition(3)
	s.False(ok)
	s.Equal(2, s.store.CountTasks())
}

func (s *MemoryTestSuite) TestGetDueTasks() {
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

	past := s.store.AppendTask(Task{ChatID: 1, Description: "past", RemindAt: now.Add(-time.Minute)})
	exact := s.store.AppendTask(Task{ChatID: 2, Description: "exact", RemindAt: now})
	s.store.AppendTask(Task{ChatID: 3, Description: "future", RemindAt: now.Add(time.Minute)})

	due := s.store.GetDueTasks(now)
	s.Require().Len(due, 2)
	s.Equal(past.ID, due[0].ID)
	s.Equal(exact.ID, due[1].ID)

	s.Require().True(s.store.MarkDelivered(past.ID))
	due = s.store.GetDueTasks(now)
	s.Require().Len(due, 1)
	s.Equal(exact.ID, due[0].ID)
}

func (s *MemoryTestSuite) TestMarkDelivered_UnknownID() {
	s.False(s.store.MarkDelivered(42))
}

func (s *MemoryTestSuite) TestPurgeDelivered() {
	kept := s.store.AppendTask(Task{ChatID: 1, Description: "kept"})
	gone := s.store.AppendTask(Task{ChatID: 2, Description: "gone"})

	s.Require().True(s.store.MarkDelivered(gone.ID))
	s.Equal(1, s.store.PurgeDelivered())

	tasks := s.store.GetAllTasks()
	s.Require().Len(tasks, 1)
	s.Equal(kept.ID, tasks[0].ID)

	s.Equal(0, s.store.PurgeDelivered())
}

func (s *MemoryTestSuite) TestPurgeChatTasks() {
	s.store.AppendTask(Task{ChatID: 1, Description: "a"})
	s.store.AppendTask(Task{ChatID: 2, Description: "b"})
	s.store.AppendTask(Task{ChatID: 1, Description: "c"})

	s.Equal(2, s.store.PurgeChatTasks(1))

	tasks := s.store.GetAllTasks()
	s.Require().Len(tasks, 1)
	s.Equal(int64(2), tasks[0].ChatID)
}

func (s *MemoryTestSuite) TestStoppedChats() {
	s.False(s.store.IsStopped(1))

	s.store.StopChat(1)
	s.True(s.store.IsStopped(1))
	s.False(s.store.IsStopped(2))

	s.store.ResumeChat(1)
	s.False(s.store.IsStopped(1))

	// resuming a chat that never stopped is a no-op
	s.store.ResumeChat(2)
	s.False(s.store.IsStopped(2))
}

func (s *MemoryTestSuite) TestConcurrentHandlersAndScanner() {
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(chatID int64) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.store.AppendTask(Task{ChatID: chatID, Description: "task", RemindAt: now})
				s.store.GetAllTasks()
				s.store.DeleteTaskByPosition(1)
				s.store.StopChat(chatID)
				s.store.IsStopped(chatID)
				s.store.ResumeChat(chatID)
			}
		}(int64(i))
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 50; j++ {
			for _, t := range s.store.GetDueTasks(now) {
				s.store.MarkDelivered(t.ID)
			}
			s.store.PurgeDelivered()
		}
	}()
	wg.Wait()
}

func TestMemoryTestSuite(t *testing.T) {
	suite.Run(t, new(MemoryTestSuite))
}
