package model

// Kind identifies the role a node plays in an influence diagram.
type Kind string

const (
	KindChance   Kind = "chance"
	KindDecision Kind = "decision"
	KindUtility  Kind = "utility"
)

// Node is a single node record in the diagram.
// Utility nodes carry a single implicit value slot; their States list is
// always empty regardless of what the source document declared.
type Node struct {
	ID     string
	Kind   Kind
	States []string
}

// Arc is a directed edge from Parent to Child, both referenced by node ID.
type Arc struct {
	Parent string
	Child  string
}

// Diagram is the in-memory influence diagram built by the parser and read
// by code generators. Nodes are stored in an arena indexed by stable string
// ID; iteration order is insertion order. All mutation happens during the
// parser's two passes; afterwards the diagram is read-only.
type Diagram struct {
	nodes []Node
	index map[string]int

	Arcs          []Arc
	Probabilities map[string][]float64
	Utilities     map[string][]float64
	Weights       map[string]float64
}

// NewDiagram creates an empty diagram.
func NewDiagram() *Diagram {
	return &Diagram{
		index:         make(map[string]int),
		Probabilities: make(map[string][]float64),
		Utilities:     make(map[string][]float64),
		Weights:       make(map[string]float64),
	}
}

// CreateNode inserts a node of the given kind into the diagram and returns
// its handle (arena index). Each ID may be inserted exactly once. The states
// list is ignored for utility nodes.
func (d *Diagram) CreateNode(kind Kind, id string, states []string) (int, error) {
	switch kind {
	case KindChance, KindDecision:
	case KindUtility:
		states = nil
	default:
		return 0, &UnsupportedKindError{Kind: string(kind)}
	}

	if _, exists := d.index[id]; exists {
		return 0, &DuplicateNodeError{ID: id}
	}

	d.nodes = append(d.nodes, Node{ID: id, Kind: kind, States: states})
	handle := len(d.nodes) - 1
	d.index[id] = handle
	return handle, nil
}

// Has reports whether a node with the given ID exists.
func (d *Diagram) Has(id string) bool {
	_, ok := d.index[id]
	return ok
}

// Node returns the node with the given ID, or nil if absent.
func (d *Diagram) Node(id string) *Node {
	i, ok := d.index[id]
	if !ok {
		return nil
	}
	return &d.nodes[i]
}

// Nodes returns all nodes in insertion order.
func (d *Diagram) Nodes() []Node {
	return d.nodes
}

// AddArc appends a parent→child arc. Callers are responsible for resolving
// both endpoints first; repeated pairs are kept as-is.
func (d *Diagram) AddArc(parent, child string) {
	d.Arcs = append(d.Arcs, Arc{Parent: parent, Child: child})
}

// Weight returns the MAU weight for a node, defaulting to 1.0.
func (d *Diagram) Weight(id string) float64 {
	if w, ok := d.Weights[id]; ok {
		return w
	}
	return 1.0
}
