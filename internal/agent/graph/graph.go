package graph

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"

	"github.com/fitpal-core/agent/internal/agent/graph/nodes"
	"github.com/fitpal-core/agent/internal/agent/model"
	errx "github.com/fitpal-core/agent/internal/core/error"
	logx "github.com/fitpal-core/agent/pkg/logger"
)

const defaultMaxSteps = 40

// Runner executes one conversation turn against the workflow.
type Runner interface {
	Invoke(ctx context.Context, in TurnInput) (*TurnResult, error)
}

// TurnInput carries one user message addressed to a conversation thread.
type TurnInput struct {
	ThreadID string `json:"thread_id"`
	Message  string `json:"message"`
}

// TurnResult is what a completed (or suspended) turn hands back to the caller.
type TurnResult struct {
	ThreadID             string
	Response             string
	Action               model.ActionType
	AwaitingConfirmation bool
	DailyTotals          model.Macros
}

// Config holds everything needed to compose the workflow end-to-end. All
// collaborators are injected; the engine itself owns no I/O.
type Config struct {
	Parser      model.IntakeParser
	Selector    model.FoodSelector
	FoodDB      model.FoodDatabase
	Logs        model.LogStore
	Checkpoints model.CheckpointStore

	MaxSteps        int
	HistoryMaxTurns int
}

// Workflow is the compiled node graph: a table of node functions, a table of
// routers and the checkpoint strategy. Nodes within a turn run sequentially;
// the checkpoint store is the only thing that crosses turns.
type Workflow struct {
	nodeFns     map[string]nodes.NodeFn
	routeFns    map[string]RouteFn
	checkpoints model.CheckpointStore
	maxSteps    int
}

// workflowBuilder handles the construction of the agent workflow.
type workflowBuilder struct {
	config *Config
	wf     *Workflow
}

// BuildWorkflow wires nodes and routers into the executable workflow.
func BuildWorkflow(config *Config) (*Workflow, error) {
	if config == nil {
		return nil, fmt.Errorf("workflow config is nil")
	}
	if config.Parser == nil || config.Selector == nil {
		return nil, fmt.Errorf("language collaborators are not properly initialized")
	}
	if config.FoodDB == nil || config.Logs == nil {
		return nil, fmt.Errorf("store collaborators are not properly initialized")
	}
	if config.Checkpoints == nil {
		return nil, fmt.Errorf("checkpoint store is nil")
	}

	maxSteps := config.MaxSteps
	if maxSteps <= 0 {
		maxSteps = defaultMaxSteps
	}

	b := &workflowBuilder{
		config: config,
		wf: &Workflow{
			nodeFns:     map[string]nodes.NodeFn{},
			routeFns:    map[string]RouteFn{},
			checkpoints: config.Checkpoints,
			maxSteps:    maxSteps,
		},
	}
	b.addNodes()
	b.addRoutes()

	if err := b.validate(); err != nil {
		return nil, err
	}

	logx.Debug().Msg("Workflow built successfully")
	return b.wf, nil
}

// addNodes registers all processing nodes.
func (b *workflowBuilder) addNodes() {
	b.wf.nodeFns[nodes.NodeInputParser] = nodes.NewInputParserNode(b.config.Parser, b.config.HistoryMaxTurns)
	b.wf.nodeFns[nodes.NodeFoodSearch] = nodes.NewFoodSearchNode(b.config.FoodDB)
	b.wf.nodeFns[nodes.NodeAgentSelection] = nodes.NewAgentSelectionNode(b.config.Selector)
	b.wf.nodeFns[nodes.NodeConfirmGate] = nodes.NewConfirmGateNode()
	b.wf.nodeFns[nodes.NodeCalculateLog] = nodes.NewCalculateLogNode(b.config.Logs)
	b.wf.nodeFns[nodes.NodeStatsLookup] = nodes.NewStatsLookupNode(b.config.Logs)
	b.wf.nodeFns[nodes.NodeResponse] = nodes.NewResponseNode()
}

// addRoutes registers the per-node routers.
func (b *workflowBuilder) addRoutes() {
	b.wf.routeFns[nodes.NodeInputParser] = RouteAfterParse
	b.wf.routeFns[nodes.NodeFoodSearch] = RouteAfterSearch
	b.wf.routeFns[nodes.NodeAgentSelection] = RouteAfterSelection
	b.wf.routeFns[nodes.NodeConfirmGate] = RouteAfterGate
	b.wf.routeFns[nodes.NodeCalculateLog] = RouteAfterCalculate
	b.wf.routeFns[nodes.NodeStatsLookup] = RouteAfterStats
	b.wf.routeFns[nodes.NodeResponse] = RouteAfterResponse
}

// validate checks every registered node has a router and vice versa.
func (b *workflowBuilder) validate() error {
	for name := range b.wf.nodeFns {
		if _, ok := b.wf.routeFns[name]; !ok {
			return fmt.Errorf("node %q has no router", name)
		}
	}
	for name := range b.wf.routeFns {
		if _, ok := b.wf.nodeFns[name]; !ok {
			return fmt.Errorf("router registered for unknown node %q", name)
		}
	}
	return nil
}

// Invoke runs one turn: rehydrate state, append the user message, execute
// nodes from input_parser until the response node terminates the turn, then
// persist. Parsing and validation failures end the turn with a user-facing
// apology and are not returned as errors; lookup, persistence and internal
// failures are.
func (w *Workflow) Invoke(ctx context.Context, in TurnInput) (*TurnResult, error) {
	if in.ThreadID == "" {
		return nil, fmt.Errorf("thread id is empty")
	}

	state, err := w.checkpoints.Load(ctx, in.ThreadID)
	if err != nil {
		return nil, errx.Lookup(err)
	}
	if state == nil {
		state = model.NewSessionState(in.ThreadID)
	}
	state.Messages = append(state.Messages, schema.UserMessage(in.Message))

	current := nodes.NodeInputParser
	for step := 0; ; step++ {
		if step >= w.maxSteps {
			return nil, errx.Internal("step limit reached after %d steps at node %q", step, current)
		}

		fn, ok := w.nodeFns[current]
		if !ok {
			return nil, errx.Internal("no node registered for %q", current)
		}

		logx.Debug().
			Str("thread_id", state.ThreadID).
			Str("node", current).
			Int("step", step).
			Msg("Executing node")

		if err := fn(ctx, state); err != nil {
			return w.failTurn(ctx, state, current, err)
		}

		next, err := w.routeFns[current](state)
		if err != nil {
			return nil, err
		}
		if next == nodes.End {
			if err := w.persist(ctx, state); err != nil {
				return nil, err
			}
			return w.result(state), nil
		}
		current = next
	}
}

// failTurn converts recoverable node failures into an apologetic terminal
// response. State is persisted so completed loop iterations survive; no pop
// is lost because the failing nodes restore their in-flight item themselves.
func (w *Workflow) failTurn(ctx context.Context, state *model.SessionState, node string, err error) (*TurnResult, error) {
	kind := errx.KindOf(err)
	logx.Warn().
		Str("thread_id", state.ThreadID).
		Str("node", node).
		Str("kind", string(kind)).
		Err(err).
		Msg("Node failed")

	switch kind {
	case errx.KindParsing, errx.KindValidation:
		state.ResponseText = errx.UserMessage(err)
		state.Messages = append(state.Messages, schema.AssistantMessage(state.ResponseText, nil))
		if perr := w.persist(ctx, state); perr != nil {
			return nil, perr
		}
		return w.result(state), nil
	default:
		// Collaborator outage or programming error: persist what completed
		// and surface the failure to the caller.
		if perr := w.persist(ctx, state); perr != nil {
			logx.Error().Err(perr).Str("thread_id", state.ThreadID).Msg("Failed to persist state after node failure")
		}
		return nil, err
	}
}

func (w *Workflow) persist(ctx context.Context, state *model.SessionState) error {
	state.Version++
	if err := w.checkpoints.Save(ctx, state.ThreadID, state); err != nil {
		if errx.KindOf(err) == errx.KindInternal {
			err = errx.Persistence(err)
		}
		return err
	}
	return nil
}

func (w *Workflow) result(state *model.SessionState) *TurnResult {
	return &TurnResult{
		ThreadID:             state.ThreadID,
		Response:             state.ResponseText,
		Action:               state.LastAction,
		AwaitingConfirmation: state.AwaitingConfirmation,
		DailyTotals:          state.DailyTotals,
	}
}

var _ Runner = (*Workflow)(nil)
