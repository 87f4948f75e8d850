package ml

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/sjwhitworth/golearn/base"
	"github.com/sjwhitworth/golearn/evaluation"
)

var (
	ErrLengthMismatch = errors.New("label length mismatch")
	ErrDivisionByZero = errors.New("division by zero")
	ErrNoPositives    = fmt.Errorf("%w: no actual positive labels", ErrDivisionByZero)
	ErrNoNegatives    = fmt.Errorf("%w: no actual negative labels", ErrDivisionByZero)
)

// Evaluate returns the true positive rate (sensitivity) and true negative rate (specificity)
// of predicted against actual. A split without positives or without negatives has no defined
// rate and is reported as an error.
func Evaluate(actual, predicted []int) (sensitivity, specificity float64, err error) {
	if len(actual) != len(predicted) {
		return 0, 0, fmt.Errorf("%w: %d actual, %d predicted", ErrLengthMismatch, len(actual), len(predicted))
	}

	var positives, truePositives, negatives, trueNegatives int
	for i, label := range actual {
		if label != 0 {
			positives++
			if predicted[i] != 0 {
				truePositives++
			}
		} else {
			negatives++
			if predicted[i] == 0 {
				trueNegatives++
			}
		}
	}

	if positives == 0 {
		return 0, 0, ErrNoPositives
	}
	if negatives == 0 {
		return 0, 0, ErrNoNegatives
	}
	sensitivity = float64(truePositives) / float64(positives)
	specificity = float64(trueNegatives) / float64(negatives)
	return sensitivity, specificity, nil
}

// CountCorrect returns how many predictions match and how many do not.
func CountCorrect(actual, predicted []int) (correct, incorrect int, err error) {
	if len(actual) != len(predicted) {
		return 0, 0, ErrLengthMismatch
	}
	for i := range actual {
		if actual[i] == predicted[i] {
			correct++
		} else {
			incorrect++
		}
	}
	return correct, incorrect, nil
}

// ConfusionSummary renders golearn's per-class precision/recall table for the labels.
func ConfusionSummary(actual, predicted []int) (string, error) {
	if len(actual) != len(predicted) {
		return "", ErrLengthMismatch
	}
	class := newClassAttribute()
	ref, err := classGrid(class, actual)
	if err != nil {
		return "", err
	}
	gen, err := classGrid(class, predicted)
	if err != nil {
		return "", err
	}
	matrix, err := evaluation.GetConfusionMatrix(ref, gen)
	if err != nil {
		return "", err
	}
	return evaluation.GetSummary(matrix), nil
}

func classGrid(class *base.CategoricalAttribute, labels []int) (*base.DenseInstances, error) {
	inst := base.NewDenseInstances()
	spec := inst.AddAttribute(class)
	if err := inst.AddClassAttribute(class); err != nil {
		return nil, err
	}
	if err := inst.Extend(len(labels)); err != nil {
		return nil, err
	}
	for row, label := range labels {
		inst.Set(spec, row, class.GetSysValFromString(strconv.Itoa(label)))
	}
	return inst, nil
}

// WriteReport prints the four summary lines of a run.
func WriteReport(w io.Writer, r *Result) error {
	_, err := fmt.Fprintf(w,
		"Correct: %d\nIncorrect: %d\nTrue Positive Rate: %.2f%%\nTrue Negative Rate: %.2f%%\n",
		r.Correct, r.Incorrect, 100*r.Sensitivity, 100*r.Specificity)
	return err
}
