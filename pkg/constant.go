package pkg

const (
	// DIMACS convention: source is node 1 and sink is node 2 (1-indexed).
	DIMACS_DEFAULT_SOURCE = 1
	DIMACS_DEFAULT_SINK   = 2
	// arcs preallocated for a DIMACS problem line, the rest grow on append
	MAX_PREALLOCATED_ARCS = 1 << 16
)

const (
	DEFAULT_GLOBAL_RELABEL_FREQUENCY = 1.0
	MIN_NODES                        = 2
	MAX_NODES                        = 1 << 28
	NO_ARC                           = -1
)

const (
	ALGORITHM_PUSH_RELABEL     = "push-relabel"
	ALGORITHM_DINIC            = "dinic"
	ALGORITHM_EDMONDS_KARP     = "edmonds-karp"
	ALGORITHM_CAPACITY_SCALING = "capacity-scaling"
)

// vehicles per hour per lane, used when turning road networks into flow networks.
const (
	DEFAULT_LANE_CAPACITY = 600
	DEFAULT_LANES         = 1
)
