package metrics

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// String renders the confusion matrix as an aligned table with the class
// ordering on both axes (rows are true classes).
func (cm *ConfusionMatrix) String() string {
	width := 0
	for _, name := range cm.Classes {
		if len(name) > width {
			width = len(name)
		}
	}
	for _, row := range cm.Matrix {
		for _, n := range row {
			if l := len(fmt.Sprintf("%d", n)); l > width {
				width = l
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%*s", width+1, "")
	for _, name := range cm.Classes {
		fmt.Fprintf(&b, " %*s", width, name)
	}
	b.WriteByte('\n')
	for i, name := range cm.Classes {
		fmt.Fprintf(&b, "%*s", width+1, name)
		for j := range cm.Classes {
			fmt.Fprintf(&b, " %*d", width, cm.Matrix[i][j])
		}
		if i < len(cm.Classes)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Log emits the full report for one dataset split to the structured log
// stream, one line per statistic, mirroring the layout consumers of the
// training log expect.
func (r *Report) Log(log *zap.SugaredLogger, split string) {
	log.Infof("Results for %s set...", split)
	log.Infof("Number of cases that were incorrect: %d", r.Incorrect)
	log.Infof("Accuracy: %v", r.Accuracy)

	for _, name := range r.Classes {
		m := r.PerClass[name]
		log.Infof("Precision %s: %v", name, m.Precision)
		log.Infof("Recall %s: %v", name, m.Recall)
		log.Infof("F1 %s: %v", name, m.F1)
	}

	log.Infof("Micro precision: %v", r.Micro.Precision)
	log.Infof("Micro recall: %v", r.Micro.Recall)
	log.Infof("Micro f1: %v", r.Micro.F1)

	log.Infof("Macro precision: %v", r.Macro.Precision)
	log.Infof("Macro recall: %v", r.Macro.Recall)
	log.Infof("Macro f1: %v", r.Macro.F1)

	log.Infof("Weighted precision: %v", r.Weighted.Precision)
	log.Infof("Weighted recall: %v", r.Weighted.Recall)
	log.Infof("Weighted f1: %v", r.Weighted.F1)

	log.Infof("Confusion matrix %v:\n%s", r.Classes, r.Confusion.String())
}
