package status

import (
	"testing"

	"github.com/gasgalon/orderflow/internal/model"
)

func TestTimelineProgression(t *testing.T) {
	tests := []struct {
		current       model.OrderStatus
		wantCompleted []bool
		wantActive    []bool
	}{
		{model.StatusMenunggu, []bool{false, false, false, false}, []bool{true, false, false, false}},
		{model.StatusDiproses, []bool{true, false, false, false}, []bool{false, true, false, false}},
		{model.StatusDikirim, []bool{true, true, false, false}, []bool{false, false, true, false}},
		{model.StatusSelesai, []bool{true, true, true, false}, []bool{false, false, false, true}},
	}

	for _, tt := range tests {
		t.Run(string(tt.current), func(t *testing.T) {
			steps := Timeline(tt.current)
			if len(steps) != len(Progression) {
				t.Fatalf("steps = %d, want %d", len(steps), len(Progression))
			}
			for i, step := range steps {
				if step.Completed != tt.wantCompleted[i] {
					t.Fatalf("step %s completed = %v, want %v", step.Status, step.Completed, tt.wantCompleted[i])
				}
				if step.Active != tt.wantActive[i] {
					t.Fatalf("step %s active = %v, want %v", step.Status, step.Active, tt.wantActive[i])
				}
			}
		})
	}
}

func TestTimelineCancelled(t *testing.T) {
	steps := Timeline(model.StatusDibatalkan)

	if len(steps) != 2 {
		t.Fatalf("steps = %d, want 2 for cancelled branch", len(steps))
	}
	if steps[0].Status != model.StatusMenunggu || !steps[0].Completed || steps[0].Active {
		t.Fatalf("first step must be completed menunggu: %+v", steps[0])
	}
	if steps[1].Status != model.StatusDibatalkan || !steps[1].Active || steps[1].Completed {
		t.Fatalf("second step must be active dibatalkan: %+v", steps[1])
	}
}

func TestTimelineUnknownStatusDegrades(t *testing.T) {
	steps := Timeline(model.OrderStatus("nonsense"))

	if len(steps) != len(Progression) {
		t.Fatalf("steps = %d, want full progression", len(steps))
	}
	for _, step := range steps {
		if step.Completed || step.Active {
			t.Fatalf("unknown status must mark nothing, got %+v", step)
		}
	}
}

func TestCanTransition(t *testing.T) {
	allowed := [][2]model.OrderStatus{
		{model.StatusMenunggu, model.StatusDiproses},
		{model.StatusMenunggu, model.StatusDibatalkan},
		{model.StatusDiproses, model.StatusDikirim},
		{model.StatusDikirim, model.StatusSelesai},
	}
	for _, pair := range allowed {
		if !CanTransition(pair[0], pair[1]) {
			t.Fatalf("%s -> %s must be allowed", pair[0], pair[1])
		}
	}

	denied := [][2]model.OrderStatus{
		{model.StatusMenunggu, model.StatusDikirim},
		{model.StatusDiproses, model.StatusDibatalkan},
		{model.StatusSelesai, model.StatusMenunggu},
		{model.StatusDibatalkan, model.StatusDiproses},
		{model.StatusDikirim, model.StatusDiproses},
	}
	for _, pair := range denied {
		if CanTransition(pair[0], pair[1]) {
			t.Fatalf("%s -> %s must be denied", pair[0], pair[1])
		}
	}
}

func TestTerminal(t *testing.T) {
	if !Terminal(model.StatusSelesai) || !Terminal(model.StatusDibatalkan) {
		t.Fatalf("selesai and dibatalkan are terminal")
	}
	if Terminal(model.StatusMenunggu) || Terminal(model.StatusDikirim) {
		t.Fatalf("menunggu and dikirim are not terminal")
	}
}
