package mcp

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"whodunit/internal/calibrate"
	"whodunit/internal/clue"
	"whodunit/internal/extract"
	"whodunit/internal/format"
	"whodunit/internal/logging"
	"whodunit/internal/report"
	"whodunit/internal/scenario"
	"whodunit/internal/solve"
	"whodunit/internal/store"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP SDK server. It remembers the last case it generated
// or loaded so follow-up calls can omit the case reference.
type Server struct {
	MCPServer *sdkmcp.Server

	store    store.Store
	solver   []solve.Option
	accuracy extract.Accuracy

	mu      sync.Mutex
	current *store.Case
}

// Option configures a Server.
type Option func(*Server)

// WithStore persists cases and solutions in st instead of process memory.
func WithStore(st store.Store) Option {
	return func(s *Server) { s.store = st }
}

// WithSolverOptions sets the engine options used by solve_case.
func WithSolverOptions(opts ...solve.Option) Option {
	return func(s *Server) { s.solver = opts }
}

// WithAccuracy sets the extractor accuracy used by generate_case.
func WithAccuracy(acc extract.Accuracy) Option {
	return func(s *Server) { s.accuracy = acc }
}

// NewServer creates an MCP server with the case tools registered.
func NewServer(opts ...Option) *Server {
	s := &Server{accuracy: extract.DefaultAccuracy()}
	for _, o := range opts {
		o(s)
	}
	if s.store == nil {
		s.store = store.NewMemStore()
	}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "whodunit", Version: "dev"},
		nil,
	)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "generate_case",
		Description: "Generate a seeded mystery and investigate it. Returns the clue feed; the ground truth stays on the server.",
	}, s.handleGenerateCase)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "load_case",
		Description: "Load a clue feed from JSON or from a named built-in fixture and make it the current case.",
	}, s.handleLoadCase)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "solve_case",
		Description: "Run deduction over a case (the current one by default) and return the result grid and tallies.",
	}, s.handleSolveCase)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "case_report",
		Description: "Render the case file of a case. With reveal set, the crimes solution is appended for generated cases.",
	}, s.handleCaseReport)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "list_fixtures",
		Description: "List the built-in fixture feeds.",
	}, s.handleListFixtures)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "calibrate",
		Description: "Generate, solve and score a batch of cases against ground truth. Returns soundness and coverage metrics.",
	}, s.handleCalibrate)
}

// --- Tool input/output types ---

type generateCaseInput struct {
	People int    `json:"people,omitempty" jsonschema:"number of people, default 6"`
	Rooms  int    `json:"rooms,omitempty" jsonschema:"number of rooms, default 3"`
	Times  int    `json:"times,omitempty" jsonschema:"number of hourly slots from 12:00, default 5"`
	Seed   uint64 `json:"seed,omitempty" jsonschema:"random seed, default 1"`
}

type generateCaseOutput struct {
	CaseID   int64  `json:"case_id"`
	Records  int    `json:"records"`
	FeedJSON string `json:"feed_json"`
}

type loadCaseInput struct {
	FeedJSON string `json:"feed_json,omitempty" jsonschema:"clue feed as a JSON array"`
	Fixture  string `json:"fixture,omitempty" jsonschema:"name of a built-in fixture, see list_fixtures"`
}

type loadCaseOutput struct {
	CaseID  int64  `json:"case_id"`
	Name    string `json:"name"`
	Records int    `json:"records"`
}

type solveCaseInput struct {
	CaseID int64  `json:"case_id,omitempty" jsonschema:"stored case id, default the current case"`
	Format string `json:"format,omitempty" jsonschema:"grid format: ascii or markdown"`
}

type solveCaseOutput struct {
	CaseID        int64  `json:"case_id"`
	SolutionID    int64  `json:"solution_id"`
	Rounds        int    `json:"rounds"`
	Stable        bool   `json:"stable"`
	Statements    int    `json:"statements"`
	Truthful      int    `json:"truthful"`
	Lying         int    `json:"lying"`
	Unknown       int    `json:"unknown"`
	Located       int    `json:"located"`
	Grid          string `json:"grid,omitempty"`
	Contradiction string `json:"contradiction,omitempty"`
}

type caseReportInput struct {
	CaseID int64  `json:"case_id,omitempty" jsonschema:"stored case id, default the current case"`
	Reveal bool   `json:"reveal,omitempty" jsonschema:"append the crimes solution"`
	Format string `json:"format,omitempty" jsonschema:"table format: ascii or markdown"`
}

type caseReportOutput struct {
	CaseID int64  `json:"case_id"`
	Report string `json:"report"`
}

type listFixturesInput struct{}

type listFixturesOutput struct {
	Fixtures []string `json:"fixtures"`
}

type calibrateInput struct {
	Runs     int    `json:"runs,omitempty" jsonschema:"number of cases, default 50"`
	Parallel int    `json:"parallel,omitempty" jsonschema:"worker count, default 4"`
	Seed     uint64 `json:"seed,omitempty" jsonschema:"seed of the first case, default 1"`
}

type calibrateOutput struct {
	RunID   int64              `json:"run_id"`
	Passed  int                `json:"passed"`
	Total   int                `json:"total"`
	Metrics []calibrate.Metric `json:"metrics"`
	Report  string             `json:"report"`
}

// --- Tool handlers ---

func (s *Server) handleGenerateCase(ctx context.Context, _ *sdkmcp.CallToolRequest, input generateCaseInput) (*sdkmcp.CallToolResult, generateCaseOutput, error) {
	p := scenario.DefaultParams()
	if input.People > 0 {
		p.People = input.People
	}
	if input.Rooms > 0 {
		p.Rooms = input.Rooms
	}
	if input.Times > 0 {
		p.Times = input.Times
	}
	if input.Seed > 0 {
		p.Seed = input.Seed
	}

	plot, err := scenario.Generate(p)
	if err != nil {
		return nil, generateCaseOutput{}, fmt.Errorf("generate_case: %w", err)
	}
	feed := extract.New(s.accuracy, p.Seed).Investigate(plot)
	c := &store.Case{Name: fmt.Sprintf("seed-%d", p.Seed), Seed: p.Seed, Feed: feed, Truth: plot}
	id, err := s.remember(c)
	if err != nil {
		return nil, generateCaseOutput{}, fmt.Errorf("generate_case: %w", err)
	}
	data, err := clue.Encode(feed, ".json")
	if err != nil {
		return nil, generateCaseOutput{}, fmt.Errorf("generate_case: %w", err)
	}

	logging.New("mcp").Info("case generated", "case_id", id, "seed", p.Seed, "records", len(feed))
	return nil, generateCaseOutput{CaseID: id, Records: len(feed), FeedJSON: string(data)}, nil
}

func (s *Server) handleLoadCase(ctx context.Context, _ *sdkmcp.CallToolRequest, input loadCaseInput) (*sdkmcp.CallToolResult, loadCaseOutput, error) {
	var c *store.Case
	switch {
	case input.FeedJSON != "" && input.Fixture != "":
		return nil, loadCaseOutput{}, errors.New("load_case: give feed_json or fixture, not both")
	case input.Fixture != "":
		fx, err := scenario.LoadFixture(input.Fixture)
		if err != nil {
			return nil, loadCaseOutput{}, fmt.Errorf("load_case: %w", err)
		}
		c = &store.Case{Name: fx.Name, Feed: fx.Feed}
	case input.FeedJSON != "":
		feed, err := clue.Decode([]byte(input.FeedJSON), ".json")
		if err != nil {
			return nil, loadCaseOutput{}, fmt.Errorf("load_case: %w", err)
		}
		c = &store.Case{Name: "inline", Feed: feed}
	default:
		return nil, loadCaseOutput{}, errors.New("load_case: feed_json or fixture is required")
	}

	id, err := s.remember(c)
	if err != nil {
		return nil, loadCaseOutput{}, fmt.Errorf("load_case: %w", err)
	}
	return nil, loadCaseOutput{CaseID: id, Name: c.Name, Records: len(c.Feed)}, nil
}

func (s *Server) handleSolveCase(ctx context.Context, _ *sdkmcp.CallToolRequest, input solveCaseInput) (*sdkmcp.CallToolResult, solveCaseOutput, error) {
	mode, err := format.ParseMode(input.Format)
	if err != nil {
		return nil, solveCaseOutput{}, fmt.Errorf("solve_case: %w", err)
	}
	c, err := s.lookup(input.CaseID)
	if err != nil {
		return nil, solveCaseOutput{}, fmt.Errorf("solve_case: %w", err)
	}

	opts := append([]solve.Option{solve.WithLogger(logging.New("solve").With("case_id", c.ID))}, s.solver...)
	res, err := solve.NewEngine(opts...).Solve(ctx, c.Feed)
	var sol *store.Solution
	switch {
	case errors.Is(err, solve.ErrContradiction):
		sol = &store.Solution{CaseID: c.ID, Contradiction: err.Error()}
	case err != nil:
		return nil, solveCaseOutput{}, fmt.Errorf("solve_case: %w", err)
	default:
		sol = store.SolutionOf(c.ID, res, format.Grid(res.Grid(), mode))
	}
	id, err := s.store.SaveSolution(sol)
	if err != nil {
		return nil, solveCaseOutput{}, fmt.Errorf("solve_case: %w", err)
	}

	return nil, solveCaseOutput{
		CaseID:        c.ID,
		SolutionID:    id,
		Rounds:        sol.Rounds,
		Stable:        sol.Stable,
		Statements:    sol.Statements,
		Truthful:      sol.Truthful,
		Lying:         sol.Lying,
		Unknown:       sol.Unknown,
		Located:       sol.Located,
		Grid:          sol.Grid,
		Contradiction: sol.Contradiction,
	}, nil
}

func (s *Server) handleCaseReport(ctx context.Context, _ *sdkmcp.CallToolRequest, input caseReportInput) (*sdkmcp.CallToolResult, caseReportOutput, error) {
	mode, err := format.ParseMode(input.Format)
	if err != nil {
		return nil, caseReportOutput{}, fmt.Errorf("case_report: %w", err)
	}
	c, err := s.lookup(input.CaseID)
	if err != nil {
		return nil, caseReportOutput{}, fmt.Errorf("case_report: %w", err)
	}
	sections := report.CaseFile(c.Feed)
	if input.Reveal {
		if c.Truth == nil {
			return nil, caseReportOutput{}, fmt.Errorf("case_report: case %d has no ground truth", c.ID)
		}
		sections = append(sections, report.Solution(c.Truth.Solution()))
	}
	return nil, caseReportOutput{CaseID: c.ID, Report: report.Render(sections, mode)}, nil
}

func (s *Server) handleListFixtures(ctx context.Context, _ *sdkmcp.CallToolRequest, _ listFixturesInput) (*sdkmcp.CallToolResult, listFixturesOutput, error) {
	return nil, listFixturesOutput{Fixtures: scenario.ListFixtures()}, nil
}

func (s *Server) handleCalibrate(ctx context.Context, _ *sdkmcp.CallToolRequest, input calibrateInput) (*sdkmcp.CallToolResult, calibrateOutput, error) {
	cfg := calibrate.DefaultConfig()
	cfg.Accuracy = s.accuracy
	if input.Runs > 0 {
		cfg.Runs = input.Runs
	}
	if input.Parallel > 0 {
		cfg.Parallel = input.Parallel
	}
	if input.Seed > 0 {
		cfg.Seed = input.Seed
	}

	rep, err := calibrate.Run(ctx, cfg)
	if err != nil {
		return nil, calibrateOutput{}, fmt.Errorf("calibrate: %w", err)
	}
	text := calibrate.FormatReport(rep, format.ASCII)
	passed, total := rep.Metrics.PassCount()
	id, err := s.store.SaveCalibration(&store.CalibrationRun{
		Runs: cfg.Runs, Seed: cfg.Seed, Passed: passed, Total: total, Report: text,
	})
	if err != nil {
		return nil, calibrateOutput{}, fmt.Errorf("calibrate: %w", err)
	}
	return nil, calibrateOutput{
		RunID:   id,
		Passed:  passed,
		Total:   total,
		Metrics: rep.Metrics.AllMetrics(),
		Report:  text,
	}, nil
}

// --- Session state ---

func (s *Server) remember(c *store.Case) (int64, error) {
	id, err := s.store.SaveCase(c)
	if err != nil {
		return 0, err
	}
	c.ID = id
	s.mu.Lock()
	s.current = c
	s.mu.Unlock()
	return id, nil
}

// lookup resolves id to a case. Zero means the current case.
func (s *Server) lookup(id int64) (*store.Case, error) {
	if id == 0 {
		s.mu.Lock()
		c := s.current
		s.mu.Unlock()
		if c == nil {
			return nil, errors.New("no current case; call generate_case or load_case first")
		}
		return c, nil
	}
	c, err := s.store.GetCase(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("case %d not found", id)
	}
	return c, nil
}

// Shutdown closes the backing store.
func (s *Server) Shutdown() {
	if err := s.store.Close(); err != nil {
		logging.New("mcp").Warn("closing store", "error", err)
	}
}
