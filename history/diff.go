package history

import "github.com/jsign/contract-sizes/analysis"

// Delta is a current minus previous size.
type Delta struct {
	Code int
	Init int
}

func (d Delta) IsZero() bool {
	return d == Delta{}
}

// ContractDelta is the change of a contract and of its sources since the
// snapshot. Sources without a change, or unknown to the snapshot, are absent.
type ContractDelta struct {
	Delta
	Sources map[string]Delta
}

// Diff compares a record against the snapshot. It reports false when the
// snapshot has no entry for the contract or nothing changed.
func (s Snapshot) Diff(rec analysis.SizeRecord) (ContractDelta, bool) {
	prev, ok := s[rec.Name]
	if !ok {
		return ContractDelta{}, false
	}
	d := ContractDelta{
		Delta: Delta{Code: rec.CodeSize - prev.CodeSize, Init: rec.InitSize - prev.InitSize},
	}
	for _, src := range rec.Sources {
		prevSrc, ok := prev.Sources[src.Name]
		if !ok {
			continue
		}
		sd := Delta{Code: src.CodeSize - prevSrc.CodeSize, Init: src.InitSize - prevSrc.InitSize}
		if sd.IsZero() {
			continue
		}
		if d.Sources == nil {
			d.Sources = make(map[string]Delta)
		}
		d.Sources[src.Name] = sd
	}
	if d.IsZero() && len(d.Sources) == 0 {
		return ContractDelta{}, false
	}
	return d, true
}
