package calibrate

import "fmt"

// computeMetrics scores a batch. Soundness metrics must be perfect; the
// solver never guesses. Coverage metrics describe how much it could prove.
func computeMetrics(results []CaseResult) MetricSet {
	return MetricSet{
		Soundness: []Metric{
			scoreContradictionFree(results),
			scoreLabelSoundness(results),
			scoreLocationSoundness(results),
			scoreStability(results),
		},
		Coverage: []Metric{
			scoreStatementCoverage(results),
			scoreLiarRecall(results),
			scoreMurdererPlaced(results),
		},
	}
}

// --- S1: no contradictions on generated evidence ---
func scoreContradictionFree(results []CaseResult) Metric {
	clean := 0
	for _, r := range results {
		if !r.Contradiction {
			clean++
		}
	}
	return threshold(Metric{ID: "S1", Name: "contradiction_free"}, clean, len(results), 1.0)
}

// --- S2: every decided label matches the truth ---
func scoreLabelSoundness(results []CaseResult) Metric {
	right, total := 0, 0
	for _, r := range results {
		total += r.Decided
		right += r.Decided - r.WrongLabels
	}
	return threshold(Metric{ID: "S2", Name: "label_soundness"}, right, total, 1.0)
}

// --- S3: every proven location matches the truth ---
func scoreLocationSoundness(results []CaseResult) Metric {
	right, total := 0, 0
	for _, r := range results {
		total += r.Located
		right += r.Located - r.WrongLocations
	}
	return threshold(Metric{ID: "S3", Name: "location_soundness"}, right, total, 1.0)
}

// --- S4: deduction settles before the round cap ---
func scoreStability(results []CaseResult) Metric {
	stable, total := 0, 0
	for _, r := range results {
		if r.Contradiction {
			continue
		}
		total++
		if r.Stable {
			stable++
		}
	}
	return threshold(Metric{ID: "S4", Name: "stable_runs"}, stable, total, 1.0)
}

// --- C1: share of statements labeled truthful or lying ---
func scoreStatementCoverage(results []CaseResult) Metric {
	decided, total := 0, 0
	for _, r := range results {
		decided += r.Decided
		total += r.Statements
	}
	return threshold(Metric{ID: "C1", Name: "statement_coverage"}, decided, total, 0.50)
}

// --- C2: share of lies exposed ---
func scoreLiarRecall(results []CaseResult) Metric {
	caught, total := 0, 0
	for _, r := range results {
		caught += r.LiarsCaught
		total += r.Liars
	}
	return threshold(Metric{ID: "C2", Name: "liar_recall"}, caught, total, 0.50)
}

// --- C3: murderer proven at the scene ---
func scoreMurdererPlaced(results []CaseResult) Metric {
	placed := 0
	for _, r := range results {
		if r.MurdererPlaced {
			placed++
		}
	}
	return threshold(Metric{ID: "C3", Name: "murderer_placed"}, placed, len(results), 0.25)
}

func threshold(m Metric, num, denom int, floor float64) Metric {
	m.Value = safeDiv(num, denom)
	m.Threshold = floor
	m.Pass = m.Value >= floor
	m.Detail = fmt.Sprintf("%d/%d", num, denom)
	return m
}

func safeDiv(num, denom int) float64 {
	if denom == 0 {
		return 1.0 // 0/0 = perfect (nothing to measure)
	}
	return float64(num) / float64(denom)
}
