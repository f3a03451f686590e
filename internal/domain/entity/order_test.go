package entity

import "testing"

func TestOrder_IsInState(t *testing.T) {
	tests := []struct {
		name  string
		state string
		want  string
		match bool
	}{
		{name: "matching state", state: "COMPLETED", want: "COMPLETED", match: true},
		{name: "different state", state: "OPEN", want: "COMPLETED", match: false},
		{name: "empty filter matches anything", state: "OPEN", want: "", match: true},
		{name: "states are case sensitive", state: "completed", want: "COMPLETED", match: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Order{State: tt.state}
			if got := o.IsInState(tt.want); got != tt.match {
				t.Fatalf("IsInState(%q) = %v, want %v", tt.want, got, tt.match)
			}
		})
	}
}
