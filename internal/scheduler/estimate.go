package scheduler

import (
	"sort"

	"github.com/itzmeahammed/automate-schdeule-sub000/internal/models"
)

// ScaleFactor is the batch-size discount on run time: 0.85 above 50 parts,
// 0.9 above 20, otherwise 1.
func ScaleFactor(quantity int) float64 {
	switch {
	case quantity > 50:
		return 0.85
	case quantity > 20:
		return 0.9
	default:
		return 1.0
	}
}

// machineEfficiency returns the machine's efficiency percentage. A missing
// machine or a non-positive rating counts as 100.
func machineEfficiency(m *models.Machine) float64 {
	if m == nil || m.Efficiency <= 0 {
		return 100
	}
	return m.Efficiency
}

// StepMinutes is setup + (cycle × quantity / (efficiency/100)) × scale.
func StepMinutes(step models.ProcessStep, m *models.Machine, quantity int) float64 {
	eff := machineEfficiency(m)
	run := step.CycleTimePerPart * float64(quantity) / (eff / 100)
	return step.SetupTime + run*ScaleFactor(quantity)
}

// SequenceGroup is the set of steps sharing one sequence number.
type SequenceGroup struct {
	Sequence int
	Steps    []models.ProcessStep
}

// GroupBySequence groups steps by sequence in ascending order. The input is
// not modified; steps within a group keep their original order.
func GroupBySequence(steps []models.ProcessStep) []SequenceGroup {
	sorted := make([]models.ProcessStep, len(steps))
	copy(sorted, steps)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Sequence < sorted[j].Sequence })

	var groups []SequenceGroup
	for _, s := range sorted {
		if n := len(groups); n > 0 && groups[n-1].Sequence == s.Sequence {
			groups[n-1].Steps = append(groups[n-1].Steps, s)
			continue
		}
		groups = append(groups, SequenceGroup{Sequence: s.Sequence, Steps: []models.ProcessStep{s}})
	}
	return groups
}

func machineIndex(machines []models.Machine) map[string]*models.Machine {
	idx := make(map[string]*models.Machine, len(machines))
	for i := range machines {
		idx[machines[i].ID] = &machines[i]
	}
	return idx
}

// ProductionMinutes estimates total processing time for quantity units:
// the slowest step of each sequence group, summed across groups.
func ProductionMinutes(p *models.Product, machines []models.Machine, quantity int) float64 {
	if p == nil {
		return 0
	}
	idx := machineIndex(machines)
	total := 0.0
	for _, g := range GroupBySequence(p.ProcessFlow) {
		slowest := 0.0
		for _, s := range g.Steps {
			if t := StepMinutes(s, idx[s.MachineID], quantity); t > slowest {
				slowest = t
			}
		}
		total += slowest
	}
	return total
}

// FlatProductionMinutes sums every step's time regardless of grouping. The
// feasibility check uses this coarse aggregate.
func FlatProductionMinutes(p *models.Product, machines []models.Machine, quantity int) float64 {
	if p == nil {
		return 0
	}
	idx := machineIndex(machines)
	total := 0.0
	for _, s := range p.ProcessFlow {
		total += StepMinutes(s, idx[s.MachineID], quantity)
	}
	return total
}
