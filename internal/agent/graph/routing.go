package graph

import (
	"github.com/fitpal-core/agent/internal/agent/model"
	errx "github.com/fitpal-core/agent/internal/core/error"

	"github.com/fitpal-core/agent/internal/agent/graph/nodes"
)

// RouteFn decides the next node purely from state. Routers never mutate
// state; every enumerated value must be covered and an unmatched combination
// is a programming error, not a silent default route.
type RouteFn func(s *model.SessionState) (string, error)

// RouteAfterParse is the top-level intent router. Implicit cancellation of a
// hanging confirmation already happened inside input_parser, so a non-confirm
// action here always routes as if the gate were idle.
func RouteAfterParse(s *model.SessionState) (string, error) {
	switch s.LastAction {
	case model.ActionLogFood:
		return nodes.NodeFoodSearch, nil
	case model.ActionQueryDailyStats:
		return nodes.NodeStatsLookup, nil
	case model.ActionChitchat:
		return nodes.NodeResponse, nil
	case model.ActionConfirmEstimation:
		if s.AwaitingConfirmation {
			return nodes.NodeConfirmGate, nil
		}
		// Nothing is suspended; respond instead of logging anything.
		return nodes.NodeResponse, nil
	}
	return "", errx.Internal("route_after_parse: unhandled action %q", s.LastAction)
}

// RouteAfterSearch always proceeds to selection; an empty result set is the
// estimation path, decided there.
func RouteAfterSearch(s *model.SessionState) (string, error) {
	return nodes.NodeAgentSelection, nil
}

// RouteAfterSelection applies the gate policy: resolved and unmatched items
// go straight to calculate_log, estimated items must pass the gate.
func RouteAfterSelection(s *model.SessionState) (string, error) {
	if s.SelectionResult == nil {
		return "", errx.Internal("route_after_selection: no selection result")
	}
	switch s.SelectionResult.Status {
	case model.StatusSelected, model.StatusNoMatch:
		return nodes.NodeCalculateLog, nil
	case model.StatusEstimated:
		return nodes.NodeConfirmGate, nil
	}
	return "", errx.Internal("route_after_selection: unhandled status %q", s.SelectionResult.Status)
}

// RouteAfterGate suspends (via response) while the gate is armed and
// proceeds to the log write once it has been disarmed by a confirmation.
func RouteAfterGate(s *model.SessionState) (string, error) {
	if s.AwaitingConfirmation {
		return nodes.NodeResponse, nil
	}
	return nodes.NodeCalculateLog, nil
}

// RouteAfterCalculate is the drain check of the multi-item loop: re-enter
// food_search while items remain, finish the turn when the queue is empty.
func RouteAfterCalculate(s *model.SessionState) (string, error) {
	if len(s.PendingFoodItems) > 0 {
		return nodes.NodeFoodSearch, nil
	}
	return nodes.NodeResponse, nil
}

// RouteAfterStats hands the formatted summary to the terminal node.
func RouteAfterStats(s *model.SessionState) (string, error) {
	return nodes.NodeResponse, nil
}

// RouteAfterResponse ends the turn; response is terminal on every path.
func RouteAfterResponse(s *model.SessionState) (string, error) {
	return nodes.End, nil
}
