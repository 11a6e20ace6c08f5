package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ToluGIT/archguard/pkg/logger"
	"github.com/ToluGIT/archguard/pkg/parser/formats"
	"github.com/ToluGIT/archguard/pkg/policy"
	"github.com/ToluGIT/archguard/pkg/policy/opa"
	"github.com/ToluGIT/archguard/pkg/reporter"
	"github.com/ToluGIT/archguard/pkg/store"
	"github.com/ToluGIT/archguard/pkg/types"
)

// DefaultMaxFileSize bounds files read by AnalyzeFile
const DefaultMaxFileSize = 10 << 20

// ErrFileTooLarge is returned by AnalyzeFile for files over the size limit
var ErrFileTooLarge = errors.New("file exceeds maximum size")

// UploadParser turns an upload into the canonical model
type UploadParser interface {
	Parse(ctx context.Context, upload types.Upload) (*types.Architecture, error)
}

// Analyzer coordinates the analysis workflow: parse once, run every agent
// concurrently, aggregate and record the job.
type Analyzer struct {
	parser      UploadParser
	agents      []policy.Agent
	store       store.JobStore
	newID       func() string
	maxFileSize int64
	log         *logger.Logger
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithLogger sets a custom logger
func WithLogger(log *logger.Logger) Option {
	return func(a *Analyzer) {
		a.log = log
	}
}

// WithIDGenerator replaces the job id source
func WithIDGenerator(newID func() string) Option {
	return func(a *Analyzer) {
		a.newID = newID
	}
}

// WithMaxFileSize sets the size limit for AnalyzeFile
func WithMaxFileSize(n int64) Option {
	return func(a *Analyzer) {
		a.maxFileSize = n
	}
}

// New creates a new analyzer instance
func New(parser UploadParser, agents []policy.Agent, jobs store.JobStore, opts ...Option) *Analyzer {
	a := &Analyzer{
		parser:      parser,
		agents:      agents,
		store:       jobs,
		newID:       uuid.NewString,
		maxFileSize: DefaultMaxFileSize,
		log:         logger.Default().WithPrefix("analyzer"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewDefault wires every built-in format, the four built-in agents and an
// in-memory job store.
func NewDefault(ctx context.Context, opts ...Option) (*Analyzer, error) {
	a := New(nil, nil, store.NewMemory(), opts...)

	factory, err := formats.NewFactory(a.log)
	if err != nil {
		return nil, fmt.Errorf("failed to register parsers: %w", err)
	}
	agents, err := opa.Builtin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rule agents: %w", err)
	}
	for _, ag := range agents {
		if oa, ok := ag.(*opa.Agent); ok {
			oa.WithLogger(a.log.WithPrefix(oa.Name()))
		}
	}

	a.parser = factory
	a.agents = agents
	return a, nil
}

// Process analyzes one upload and records it as a completed job. A parse
// error or any agent failure aborts the request and nothing is recorded.
func (a *Analyzer) Process(ctx context.Context, upload types.Upload) (*types.AnalysisResult, error) {
	id := a.newID()
	a.log.Debug("Job %s: processing %s (%d bytes)", id, upload.Filename, len(upload.Content))

	arch, err := a.parser.Parse(ctx, upload)
	if err != nil {
		a.log.Warn("Job %s: %v", id, err)
		return nil, err
	}

	findings, err := a.runAgents(ctx, arch)
	if err != nil {
		a.log.Error("Job %s: %v", id, err)
		return nil, err
	}

	report := reporter.Generate(findings)
	job := types.Job{ID: id, Status: types.JobCompleted, Report: report}
	if err := a.store.Put(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to record job %s: %w", id, err)
	}

	a.log.Info("Job %s: %d finding(s), risk score %d", id, report.TotalFindings, report.RiskScore)
	return &types.AnalysisResult{
		JobID:     id,
		Status:    types.JobCompleted,
		Findings:  report.Findings(),
		RiskScore: report.RiskScore,
		Report:    report,
	}, nil
}

// runAgents evaluates every agent against arch. Each goroutine writes only
// its own slot of the result.
func (a *Analyzer) runAgents(ctx context.Context, arch *types.Architecture) ([][]types.Finding, error) {
	results := make([][]types.Finding, len(a.agents))

	g, gctx := errgroup.WithContext(ctx)
	for i, ag := range a.agents {
		i, ag := i, ag
		g.Go(func() error {
			findings, err := ag.Analyze(gctx, arch)
			if err != nil {
				var re *policy.RuleEvaluationError
				if !errors.As(err, &re) {
					err = &policy.RuleEvaluationError{Agent: ag.Name(), Err: err}
				}
				return err
			}
			results[i] = findings
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Status reports a job's state and report
func (a *Analyzer) Status(ctx context.Context, id string) types.JobStatus {
	job, err := a.store.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			a.log.Warn("Job %s: status lookup failed: %v", id, err)
		}
		return types.JobStatus{Status: types.JobNotFound}
	}
	return types.JobStatus{Status: job.Status, Report: job.Report}
}

// AnalyzeFile reads a file from disk and processes it
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (*types.AnalysisResult, error) {
	upload, err := a.readUpload(path)
	if err != nil {
		return nil, err
	}
	return a.Process(ctx, upload)
}

// readUpload reads a file from disk, enforcing the size limit
func (a *Analyzer) readUpload(path string) (types.Upload, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.Upload{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, a.maxFileSize+1))
	if err != nil {
		return types.Upload{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if int64(len(content)) > a.maxFileSize {
		return types.Upload{}, fmt.Errorf("%s: %w (%d bytes)", path, ErrFileTooLarge, a.maxFileSize)
	}

	return types.Upload{Filename: filepath.Base(path), Content: content}, nil
}
