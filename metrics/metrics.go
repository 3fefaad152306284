// Package metrics scores decoded predictions against ground truth and
// produces a per-split performance report: per-class precision/recall/F1,
// micro/macro/weighted aggregates, accuracy, and a confusion matrix.
package metrics

import "fmt"

// ReportClasses is the fixed class ordering for per-class metrics and both
// confusion matrix axes. Downstream reports index into it positionally, so
// it is explicit and stable rather than alphabetical or insertion-derived.
var ReportClasses = []string{"description", "job_title", "education", "others", "skills"}

// LengthMismatchError reports predicted and actual sequences of different
// lengths. It signals a pipeline wiring bug and is fatal.
type LengthMismatchError struct {
	Predicted int
	Actual    int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("predicted has %d entries but actual has %d", e.Predicted, e.Actual)
}

// ClassMetrics holds precision, recall and F1 for a single class, computed
// one-vs-rest. A class with no predicted or no actual instances scores a
// defined zero instead of propagating a division by zero.
type ClassMetrics struct {
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Aggregate holds one of the micro/macro/weighted rollups of the per-class
// metrics.
type Aggregate struct {
	Precision float64
	Recall    float64
	F1        float64
}

// ConfusionMatrix counts predictions by true and predicted class under the
// ReportClasses ordering: Matrix[i][j] is the number of examples with true
// class i predicted as class j.
type ConfusionMatrix struct {
	Classes      []string
	Matrix       [][]int
	TotalSamples int
}

// NewConfusionMatrix creates an empty confusion matrix over the given
// class ordering.
func NewConfusionMatrix(classes []string) *ConfusionMatrix {
	matrix := make([][]int, len(classes))
	for i := range matrix {
		matrix[i] = make([]int, len(classes))
	}
	return &ConfusionMatrix{Classes: classes, Matrix: matrix}
}

// Report is the terminal output of evaluating one dataset split. It is
// computed once and consumed by logging; nothing mutates it afterwards.
type Report struct {
	Classes   []string
	PerClass  map[string]ClassMetrics
	Micro     Aggregate
	Macro     Aggregate
	Weighted  Aggregate
	Accuracy  float64
	Incorrect int
	Confusion *ConfusionMatrix
}

// Compute scores predicted labels against actual labels over the fixed
// ReportClasses ordering. Both sequences must have the same length and
// contain only labels from the class set.
func Compute(predicted, actual []string) (*Report, error) {
	return ComputeOver(predicted, actual, ReportClasses)
}

// ComputeOver scores predicted against actual over an explicit class
// ordering. The reduction over rows is commutative and associative, so the
// result does not depend on input order beyond the pairing itself.
func ComputeOver(predicted, actual []string, classes []string) (*Report, error) {
	if len(predicted) != len(actual) {
		return nil, &LengthMismatchError{Predicted: len(predicted), Actual: len(actual)}
	}

	indexOf := make(map[string]int, len(classes))
	for i, name := range classes {
		indexOf[name] = i
	}

	cm := NewConfusionMatrix(classes)
	correct := 0
	for i := range actual {
		trueIdx, ok := indexOf[actual[i]]
		if !ok {
			return nil, fmt.Errorf("actual label at row %d not in class set: %q", i, actual[i])
		}
		predIdx, ok := indexOf[predicted[i]]
		if !ok {
			return nil, fmt.Errorf("predicted label at row %d not in class set: %q", i, predicted[i])
		}
		cm.Matrix[trueIdx][predIdx]++
		cm.TotalSamples++
		if trueIdx == predIdx {
			correct++
		}
	}

	report := &Report{
		Classes:   classes,
		PerClass:  make(map[string]ClassMetrics, len(classes)),
		Confusion: cm,
	}
	if cm.TotalSamples > 0 {
		report.Accuracy = float64(correct) / float64(cm.TotalSamples)
	}
	report.Incorrect = cm.TotalSamples - correct

	// Per-class one-vs-rest counts from the confusion matrix.
	var totalTP, totalFP, totalFN float64
	var macroP, macroR, macroF float64
	var weightedP, weightedR, weightedF float64

	for idx, name := range classes {
		tp := float64(cm.Matrix[idx][idx])
		fp := 0.0
		fn := 0.0
		support := 0
		for other := range classes {
			if other == idx {
				continue
			}
			fp += float64(cm.Matrix[other][idx])
			fn += float64(cm.Matrix[idx][other])
		}
		for _, n := range cm.Matrix[idx] {
			support += n
		}

		m := ClassMetrics{
			Precision: safeDiv(tp, tp+fp),
			Recall:    safeDiv(tp, tp+fn),
			Support:   support,
		}
		m.F1 = harmonicMean(m.Precision, m.Recall)
		report.PerClass[name] = m

		totalTP += tp
		totalFP += fp
		totalFN += fn

		macroP += m.Precision
		macroR += m.Recall
		macroF += m.F1

		if cm.TotalSamples > 0 {
			w := float64(support) / float64(cm.TotalSamples)
			weightedP += w * m.Precision
			weightedR += w * m.Recall
			weightedF += w * m.F1
		}
	}

	// Micro pools all counts before dividing; for single-label multi-class
	// scoring this collapses to overall accuracy.
	report.Micro = Aggregate{
		Precision: safeDiv(totalTP, totalTP+totalFP),
		Recall:    safeDiv(totalTP, totalTP+totalFN),
	}
	report.Micro.F1 = harmonicMean(report.Micro.Precision, report.Micro.Recall)

	// Macro averages over every class, zeros included.
	n := float64(len(classes))
	report.Macro = Aggregate{Precision: macroP / n, Recall: macroR / n, F1: macroF / n}

	report.Weighted = Aggregate{Precision: weightedP, Recall: weightedR, F1: weightedF}

	return report, nil
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func harmonicMean(p, r float64) float64 {
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}
