package health

import (
	"testing"
	"time"
)

func TestStatus_IsHealthy(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		want   bool
	}{
		{
			name:   "healthy status returns true",
			status: Status{Status: "healthy"},
			want:   true,
		},
		{
			name:   "unhealthy status returns false",
			status: Status{Status: "unhealthy"},
			want:   false,
		},
		{
			name:   "degraded status returns false",
			status: Status{Status: "degraded"},
			want:   false,
		},
		{
			name:   "empty status returns false",
			status: Status{Status: ""},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.IsHealthy(); got != tt.want {
				t.Errorf("Status.IsHealthy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatus_IsDegraded(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		want   bool
	}{
		{
			name:   "degraded status returns true",
			status: Status{Status: "degraded"},
			want:   true,
		},
		{
			name:   "healthy status returns false",
			status: Status{Status: "healthy"},
			want:   false,
		},
		{
			name:   "unhealthy status returns false",
			status: Status{Status: "unhealthy"},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.IsDegraded(); got != tt.want {
				t.Errorf("Status.IsDegraded() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatus_IsUnhealthy(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		want   bool
	}{
		{
			name:   "unhealthy status returns true",
			status: Status{Status: "unhealthy"},
			want:   true,
		},
		{
			name:   "healthy status returns false",
			status: Status{Status: "healthy"},
			want:   false,
		},
		{
			name:   "degraded status returns false",
			status: Status{Status: "degraded"},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.IsUnhealthy(); got != tt.want {
				t.Errorf("Status.IsUnhealthy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatus_WithMetrics(t *testing.T) {
	original := Status{
		Component: "test",
		Status:    StatusHealthy,
	}

	metrics := &Metrics{
		Uptime:            time.Hour,
		ErrorCount:        2,
		MessagesProcessed: 150,
	}

	updated := original.WithMetrics(metrics)

	if updated.Metrics != metrics {
		t.Error("WithMetrics should attach the provided metrics")
	}
	if original.Metrics != nil {
		t.Error("WithMetrics must not mutate the original status")
	}
}

func TestStatus_WithSubStatus(t *testing.T) {
	parent := NewHealthy("parent", "ok")
	child1 := NewHealthy("child1", "ok")
	child2 := NewDegraded("child2", "slow")

	updated := parent.WithSubStatus(child1).WithSubStatus(child2)

	if len(updated.SubStatuses) != 2 {
		t.Fatalf("expected 2 sub-statuses, got %d", len(updated.SubStatuses))
	}
	if updated.SubStatuses[0].Component != "child1" {
		t.Errorf("expected child1 first, got %s", updated.SubStatuses[0].Component)
	}
	if len(parent.SubStatuses) != 0 {
		t.Error("WithSubStatus must not mutate the original status")
	}
}

func TestNewStatusConstructors(t *testing.T) {
	tests := []struct {
		name        string
		status      Status
		wantStatus  string
		wantHealthy bool
	}{
		{"healthy", NewHealthy("c", "m"), StatusHealthy, true},
		{"unhealthy", NewUnhealthy("c", "m"), StatusUnhealthy, false},
		{"degraded", NewDegraded("c", "m"), StatusDegraded, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.status.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", tt.status.Status, tt.wantStatus)
			}
			if tt.status.Healthy != tt.wantHealthy {
				t.Errorf("Healthy = %v, want %v", tt.status.Healthy, tt.wantHealthy)
			}
			if tt.status.Component != "c" {
				t.Errorf("Component = %q, want %q", tt.status.Component, "c")
			}
			if tt.status.Timestamp.IsZero() {
				t.Error("constructor must stamp the status")
			}
		})
	}
}

func TestFromConnectionState(t *testing.T) {
	tests := []struct {
		state string
		want  string
	}{
		{"connected", StatusHealthy},
		{"connecting", StatusDegraded},
		{"reconnecting", StatusDegraded},
		{"disconnecting", StatusDegraded},
		{"disconnected", StatusDegraded},
		{"failed", StatusUnhealthy},
		{"bogus", StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			got := FromConnectionState("syncclient", tt.state)
			if got.Status != tt.want {
				t.Errorf("FromConnectionState(%q).Status = %q, want %q", tt.state, got.Status, tt.want)
			}
			if got.Component != "syncclient" {
				t.Errorf("Component = %q, want syncclient", got.Component)
			}
		})
	}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name string
		subs []Status
		want string
	}{
		{
			name: "empty aggregates healthy",
			subs: nil,
			want: StatusHealthy,
		},
		{
			name: "all healthy",
			subs: []Status{NewHealthy("a", ""), NewHealthy("b", "")},
			want: StatusHealthy,
		},
		{
			name: "one degraded",
			subs: []Status{NewHealthy("a", ""), NewDegraded("b", "")},
			want: StatusDegraded,
		},
		{
			name: "unhealthy wins over degraded",
			subs: []Status{NewDegraded("a", ""), NewUnhealthy("b", "")},
			want: StatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate("system", tt.subs)
			if got.Status != tt.want {
				t.Errorf("Aggregate().Status = %q, want %q", got.Status, tt.want)
			}
			if len(got.SubStatuses) != len(tt.subs) {
				t.Errorf("SubStatuses length = %d, want %d", len(got.SubStatuses), len(tt.subs))
			}
		})
	}
}

func TestAggregate_CopiesSubStatuses(t *testing.T) {
	subs := []Status{NewHealthy("a", "")}
	got := Aggregate("system", subs)

	subs[0].Component = "mutated"
	if got.SubStatuses[0].Component != "a" {
		t.Error("Aggregate must copy sub-statuses, not alias the input slice")
	}
}
