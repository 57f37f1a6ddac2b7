package nodes

// Node identifiers used by the workflow engine and its routers.
const (
	NodeInputParser    = "input_parser"
	NodeFoodSearch     = "food_search"
	NodeAgentSelection = "agent_selection"
	NodeConfirmGate    = "confirm_gate"
	NodeCalculateLog   = "calculate_log"
	NodeStatsLookup    = "stats_lookup"
	NodeResponse       = "response"
)

// End is the terminal routing target returned after the response node.
const End = "end"
