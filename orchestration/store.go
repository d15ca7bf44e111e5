package orchestration

import (
	"maps"
	"slices"
	"sync"

	"github.com/c360/swarmsync/pkg/buffer"
)

// activityLogCapacity bounds each activity log. When a log is full the oldest
// entry is evicted to make room for the newest.
const activityLogCapacity = 100

// Store holds the client's reconciled view of the orchestration backend.
//
// Each section is replaced or merged atomically under one lock, so readers
// never observe a half-applied update. Snapshots returned by accessors are
// owned by the caller except for TopologyGraph, DecisionNode, and
// SwarmCoordination pointers, which are replaced wholesale on update and must
// be treated as read-only.
type Store struct {
	mu sync.RWMutex

	topology     *TopologyGraph
	tree         *DecisionNode
	workflows    []WorkflowRecord
	metrics      map[string]PerformanceMetric
	coordination *SwarmCoordination

	agentActivity    *buffer.ActivityLog[AgentStatusChange]
	metricActivity   *buffer.ActivityLog[MetricUpdate]
	decisionActivity *buffer.ActivityLog[DecisionUpdate]
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		metrics:          make(map[string]PerformanceMetric),
		agentActivity:    buffer.NewActivityLog[AgentStatusChange](activityLogCapacity),
		metricActivity:   buffer.NewActivityLog[MetricUpdate](activityLogCapacity),
		decisionActivity: buffer.NewActivityLog[DecisionUpdate](activityLogCapacity),
	}
}

// ReplaceTopology swaps in a new topology snapshot. The previous snapshot is
// discarded whole; nodes and connections are never merged across updates.
func (s *Store) ReplaceTopology(g *TopologyGraph) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topology = g
}

// Topology returns the current topology snapshot, or nil before the first
// update arrives.
func (s *Store) Topology() *TopologyGraph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.topology
}

// ReplaceTree swaps in a new decision tree snapshot.
func (s *Store) ReplaceTree(root *DecisionNode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tree = root
}

// Tree returns the current decision tree root, or nil before the first
// accepted snapshot.
func (s *Store) Tree() *DecisionNode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree
}

// UpsertWorkflow merges one workflow record by ID. An existing record is
// updated in place, keeping its position in the listing; an unknown ID is
// appended.
func (s *Store) UpsertWorkflow(w WorkflowRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsertWorkflowLocked(w)
}

// UpsertWorkflows merges a batch of workflow records in order, with the same
// per-record semantics as UpsertWorkflow.
func (s *Store) UpsertWorkflows(ws []WorkflowRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range ws {
		s.upsertWorkflowLocked(w)
	}
}

func (s *Store) upsertWorkflowLocked(w WorkflowRecord) {
	for i := range s.workflows {
		if s.workflows[i].ID == w.ID {
			s.workflows[i] = w
			return
		}
	}
	s.workflows = append(s.workflows, w)
}

// Workflow looks up one workflow by ID.
func (s *Store) Workflow(id string) (WorkflowRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.workflows {
		if s.workflows[i].ID == id {
			return s.workflows[i], true
		}
	}
	return WorkflowRecord{}, false
}

// Workflows returns all tracked workflows in insertion order.
func (s *Store) Workflows() []WorkflowRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.workflows)
}

// ApplyMetric records the latest performance sample for one agent,
// overwriting any previous sample for the same agent.
func (s *Store) ApplyMetric(m PerformanceMetric) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics[m.AgentID] = m
}

// ApplyMetrics records a batch of performance samples, last writer wins per
// agent.
func (s *Store) ApplyMetrics(ms []PerformanceMetric) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range ms {
		s.metrics[m.AgentID] = m
	}
}

// Metric looks up the latest sample for one agent.
func (s *Store) Metric(agentID string) (PerformanceMetric, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.metrics[agentID]
	return m, ok
}

// Metrics returns the latest sample for every known agent, keyed by agent ID.
func (s *Store) Metrics() map[string]PerformanceMetric {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.metrics)
}

// ReplaceCoordination swaps in a new coordination snapshot.
func (s *Store) ReplaceCoordination(c *SwarmCoordination) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coordination = c
}

// Coordination returns the current coordination snapshot, or nil before the
// first update arrives.
func (s *Store) Coordination() *SwarmCoordination {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.coordination
}

// RecordAgentStatus appends an agent status change to the activity log.
func (s *Store) RecordAgentStatus(e AgentStatusChange) {
	s.agentActivity.Push(e)
}

// AgentActivity returns the agent status log, newest first.
func (s *Store) AgentActivity() []AgentStatusChange {
	return s.agentActivity.Items()
}

// RecordMetricUpdate appends a metric observation to the activity log.
func (s *Store) RecordMetricUpdate(e MetricUpdate) {
	s.metricActivity.Push(e)
}

// MetricActivity returns the metric log, newest first.
func (s *Store) MetricActivity() []MetricUpdate {
	return s.metricActivity.Items()
}

// RecordDecisionUpdate appends a tree snapshot summary to the activity log.
func (s *Store) RecordDecisionUpdate(e DecisionUpdate) {
	s.decisionActivity.Push(e)
}

// DecisionActivity returns the decision log, newest first.
func (s *Store) DecisionActivity() []DecisionUpdate {
	return s.decisionActivity.Items()
}

// Reset discards all reconciled state and activity history. Reconnection
// does not reset the store; the last known data stays visible while the
// client is reconnecting. Reset is for owners that want a clean slate, for
// example between test cases or on operator request.
func (s *Store) Reset() {
	s.mu.Lock()
	s.topology = nil
	s.tree = nil
	s.workflows = nil
	s.metrics = make(map[string]PerformanceMetric)
	s.coordination = nil
	s.mu.Unlock()

	s.agentActivity.Clear()
	s.metricActivity.Clear()
	s.decisionActivity.Clear()
}
