package ml

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/sjwhitworth/golearn/base"
	"github.com/sjwhitworth/golearn/knn"

	"shopintent/pipeline"
)

const (
	neighbours      = 1
	distanceFunc    = "euclidean"
	searchAlgorithm = "linear"
)

var _ Classifier = (*KNNModel)(nil)

// KNNModel is a fitted 1-nearest-neighbour classifier. It keeps the training grid as is.
type KNNModel struct {
	cls   *knn.KNNClassifier
	attrs []*base.FloatAttribute
	class *base.CategoricalAttribute
	size  int
}

// TrainModel fits a k=1 nearest-neighbour classifier on evidence and labels.
func TrainModel(evidence []pipeline.Vector, labels []int) (*KNNModel, error) {
	if len(evidence) == 0 || len(labels) == 0 {
		return nil, errors.New("evidence or labels empty")
	}
	if len(evidence) != len(labels) {
		return nil, fmt.Errorf("%w: %d evidence rows, %d labels", ErrLengthMismatch, len(evidence), len(labels))
	}

	model := newKNNModel()
	grid, err := model.grid(evidence, labels)
	if err != nil {
		return nil, err
	}

	cls := knn.NewKnnClassifier(distanceFunc, searchAlgorithm, neighbours)
	if err := cls.Fit(grid); err != nil {
		return nil, fmt.Errorf("fit knn: %w", err)
	}
	model.cls = cls
	model.size = len(labels)
	return model, nil
}

// Size is the number of stored training examples.
func (m *KNNModel) Size() int {
	return m.size
}

func (m *KNNModel) Predict(evidence []pipeline.Vector) ([]int, error) {
	if m.cls == nil {
		return nil, errors.New("model not trained")
	}
	if len(evidence) == 0 {
		return []int{}, nil
	}

	grid, err := m.grid(evidence, nil)
	if err != nil {
		return nil, err
	}
	out, err := m.cls.Predict(grid)
	if err != nil {
		return nil, fmt.Errorf("knn predict: %w", err)
	}

	_, rows := out.Size()
	predictions := make([]int, rows)
	for i := 0; i < rows; i++ {
		label, err := strconv.Atoi(base.GetClass(out, i))
		if err != nil {
			return nil, fmt.Errorf("row %d: unexpected class: %w", i, err)
		}
		predictions[i] = label
	}
	return predictions, nil
}

func newKNNModel() *KNNModel {
	names := pipeline.FeatureNames()
	attrs := make([]*base.FloatAttribute, len(names))
	for i, name := range names {
		attrs[i] = base.NewFloatAttribute(name)
	}
	return &KNNModel{attrs: attrs, class: newClassAttribute()}
}

// newClassAttribute registers "0" then "1" so every grid built from it agrees on the ordering.
func newClassAttribute() *base.CategoricalAttribute {
	class := base.NewCategoricalAttribute()
	class.SetName(pipeline.LabelName())
	class.GetSysValFromString("0")
	class.GetSysValFromString("1")
	return class
}

// grid builds a golearn instance set over the model's attributes. A nil labels slice fills the
// class column with 0, which the classifier ignores when predicting.
func (m *KNNModel) grid(evidence []pipeline.Vector, labels []int) (*base.DenseInstances, error) {
	inst := base.NewDenseInstances()
	specs := make([]base.AttributeSpec, len(m.attrs))
	for i, attr := range m.attrs {
		specs[i] = inst.AddAttribute(attr)
	}
	classSpec := inst.AddAttribute(m.class)
	if err := inst.AddClassAttribute(m.class); err != nil {
		return nil, err
	}
	if err := inst.Extend(len(evidence)); err != nil {
		return nil, err
	}

	for row, vec := range evidence {
		if len(vec) != len(m.attrs) {
			return nil, fmt.Errorf("row %d: expected %d features, got %d", row, len(m.attrs), len(vec))
		}
		for col, v := range vec {
			inst.Set(specs[col], row, base.PackFloatToBytes(v.Float64()))
		}
		label := 0
		if labels != nil {
			label = labels[row]
		}
		if label != 0 && label != 1 {
			return nil, fmt.Errorf("row %d: label %d is not binary", row, label)
		}
		inst.Set(classSpec, row, m.class.GetSysValFromString(strconv.Itoa(label)))
	}
	return inst, nil
}
