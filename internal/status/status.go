// Package status models the server-driven order lifecycle and its
// timeline rendering.
package status

import "github.com/gasgalon/orderflow/internal/model"

// Progression is the canonical forward ordering of a successful order.
// Cancellation branches off menunggu and is rendered separately.
var Progression = []model.OrderStatus{
	model.StatusMenunggu,
	model.StatusDiproses,
	model.StatusDikirim,
	model.StatusSelesai,
}

// Labels are the display names the backend's admin panel uses.
var Labels = map[model.OrderStatus]string{
	model.StatusMenunggu:   "Menunggu Konfirmasi",
	model.StatusDiproses:   "Sedang Diproses",
	model.StatusDikirim:    "Sedang Dikirim",
	model.StatusSelesai:    "Selesai",
	model.StatusDibatalkan: "Dibatalkan",
}

// Terminal reports whether no further transition can follow.
func Terminal(s model.OrderStatus) bool {
	return s == model.StatusSelesai || s == model.StatusDibatalkan
}

var validNext = map[model.OrderStatus]map[model.OrderStatus]bool{
	model.StatusMenunggu:   {model.StatusDiproses: true, model.StatusDibatalkan: true},
	model.StatusDiproses:   {model.StatusDikirim: true},
	model.StatusDikirim:    {model.StatusSelesai: true},
	model.StatusSelesai:    {},
	model.StatusDibatalkan: {},
}

// CanTransition reports whether the backend accepts moving an order from one
// status to another. The customer side never transitions; the courier flow
// checks this before calling the update-status endpoint.
func CanTransition(from, to model.OrderStatus) bool {
	return validNext[from][to]
}

// Step is one node of the rendered timeline.
type Step struct {
	Status    model.OrderStatus `json:"status"`
	Label     string            `json:"label"`
	Completed bool              `json:"completed"`
	Active    bool              `json:"active"`
}

func index(s model.OrderStatus) int {
	for i, p := range Progression {
		if p == s {
			return i
		}
	}
	return -1
}

// Timeline computes the rendered steps for the given current status.
// Steps strictly before current are completed and exactly the current one is
// active. A cancelled order shows menunggu completed and dibatalkan active.
// A status outside the known set renders the plain progression with nothing
// marked, never an error.
func Timeline(current model.OrderStatus) []Step {
	if current == model.StatusDibatalkan {
		return []Step{
			{Status: model.StatusMenunggu, Label: Labels[model.StatusMenunggu], Completed: true},
			{Status: model.StatusDibatalkan, Label: Labels[model.StatusDibatalkan], Active: true},
		}
	}

	cur := index(current)
	steps := make([]Step, 0, len(Progression))
	for i, s := range Progression {
		steps = append(steps, Step{
			Status:    s,
			Label:     Labels[s],
			Completed: cur >= 0 && i < cur,
			Active:    cur >= 0 && i == cur,
		})
	}
	return steps
}
