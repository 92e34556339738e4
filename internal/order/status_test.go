package order

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{"new", StatusNew, false},
		{" Confirmed ", StatusConfirmed, false},
		{"CANCELLED", StatusCancelled, false},
		{"shipped", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseStatus(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStatus(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrUnknownStatus) {
			t.Errorf("ParseStatus(%q) error = %v, want ErrUnknownStatus", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPendingAndTerminal(t *testing.T) {
	pending := map[Status]bool{StatusNew: true, StatusConfirmed: true, StatusPacked: true}
	terminal := map[Status]bool{StatusDelivered: true, StatusCancelled: true}

	for _, s := range Statuses() {
		if s.IsPending() != pending[s] {
			t.Errorf("%s.IsPending() = %v, want %v", s, s.IsPending(), pending[s])
		}
		if s.IsTerminal() != terminal[s] {
			t.Errorf("%s.IsTerminal() = %v, want %v", s, s.IsTerminal(), terminal[s])
		}
	}

	for _, s := range PendingStatuses() {
		if !s.IsPending() {
			t.Errorf("PendingStatuses() contains non-pending %s", s)
		}
	}
}

func TestStrictPolicy(t *testing.T) {
	p := StrictPolicy()

	tests := []struct {
		from, to Status
		ok       bool
	}{
		{StatusNew, StatusConfirmed, true},
		{StatusNew, StatusReady, true},
		{StatusConfirmed, StatusPacked, true},
		{StatusReady, StatusDelivered, true},
		{StatusNew, StatusCancelled, true},
		{StatusReady, StatusCancelled, true},
		{StatusPacked, StatusNew, false},
		{StatusReady, StatusConfirmed, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusNew, false},
		{StatusNew, StatusNew, false},
	}

	for _, tt := range tests {
		err := p.CanTransition(tt.from, tt.to)
		if tt.ok && err != nil {
			t.Errorf("CanTransition(%s, %s) error = %v, want nil", tt.from, tt.to, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("CanTransition(%s, %s) error = %v, want ErrInvalidTransition", tt.from, tt.to, err)
		}
	}
}

func TestPermissivePolicy(t *testing.T) {
	p := PermissivePolicy()
	for _, from := range Statuses() {
		for _, to := range Statuses() {
			if err := p.CanTransition(from, to); err != nil {
				t.Errorf("CanTransition(%s, %s) error = %v, want nil", from, to, err)
			}
		}
	}
	if err := p.CanTransition(StatusNew, "shipped"); !errors.Is(err, ErrUnknownStatus) {
		t.Errorf("CanTransition to unknown status error = %v, want ErrUnknownStatus", err)
	}
}

func TestNextStatuses(t *testing.T) {
	got := StrictPolicy().NextStatuses(StatusPacked)
	want := []Status{StatusReady, StatusDelivered, StatusCancelled}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NextStatuses(packed) = %v, want %v", got, want)
	}
	if got := StrictPolicy().NextStatuses(StatusDelivered); len(got) != 0 {
		t.Errorf("NextStatuses(delivered) = %v, want none", got)
	}
	if !NewPolicy(true).Strict() || NewPolicy(false).Strict() {
		t.Error("NewPolicy should honour the strict flag")
	}
}
