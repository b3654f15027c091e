package valueflow

// Settings gate which facts a query may report.
type Settings struct {
	// Inconclusive allows inconclusive facts to be returned.
	Inconclusive bool
	// Warning allows facts that depend on a condition to be returned.
	Warning bool
}

// FindValue returns the best fact satisfying pred: an unconditional,
// conclusive fact wins immediately; otherwise a conditional fact is
// preferred over an inconclusive one. The result is dropped when settings
// do not allow its certainty.
func FindValue(values Set, settings Settings, pred func(*Value) bool) *Value {
	var ret *Value
	for i := range values {
		v := &values[i]
		if !pred(v) {
			continue
		}
		if ret == nil || ret.IsInconclusive() || (ret.Condition != 0 && !v.IsInconclusive()) {
			ret = v
		}
		if !ret.IsInconclusive() && ret.Condition == 0 {
			break
		}
	}
	if ret == nil {
		return nil
	}
	if ret.IsInconclusive() && !settings.Inconclusive {
		return nil
	}
	if ret.Condition != 0 && !settings.Warning {
		return nil
	}
	return ret
}
