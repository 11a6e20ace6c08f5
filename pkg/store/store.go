// Package store keeps the record of analysis jobs.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/ToluGIT/archguard/pkg/types"
)

var (
	// ErrNotFound is returned when no job has the requested id
	ErrNotFound = errors.New("job not found")
	// ErrJobExists is returned when a job id is recorded twice
	ErrJobExists = errors.New("job already exists")
)

// JobStore defines the persistence interface for analysis jobs.
type JobStore interface {
	// Put records a job. Jobs are write-once.
	Put(ctx context.Context, job types.Job) error
	// Get returns a single job by id, or ErrNotFound.
	Get(ctx context.Context, id string) (*types.Job, error)
}

// Memory is a process-local JobStore. Jobs live until the process exits.
type Memory struct {
	mu   sync.RWMutex
	jobs map[string]types.Job
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{jobs: make(map[string]types.Job)}
}

// Put records a copy of job unless its id is already taken
func (m *Memory) Put(ctx context.Context, job types.Job) error {
	if job.ID == "" {
		return errors.New("job id must not be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.jobs[job.ID]; exists {
		return ErrJobExists
	}
	job.Report = job.Report.Clone()
	m.jobs[job.ID] = job
	return nil
}

// Get returns a copy of the job recorded under id, report included
func (m *Memory) Get(ctx context.Context, id string) (*types.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, ok := m.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	job.Report = job.Report.Clone()
	return &job, nil
}

// Len returns the number of recorded jobs
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.jobs)
}
