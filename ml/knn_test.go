package ml

import (
	"testing"

	"shopintent/pipeline"
)

func vector(base float64) pipeline.Vector {
	vec := make(pipeline.Vector, pipeline.FeatureCount)
	for i := range vec {
		if i%2 == 0 {
			vec[i] = pipeline.IntValue(int64(base))
		} else {
			vec[i] = pipeline.FloatValue(base + 0.1*float64(i))
		}
	}
	return vec
}

func TestKNNTrainPredict(t *testing.T) {
	evidence := []pipeline.Vector{vector(0), vector(1), vector(10), vector(11)}
	labels := []int{0, 0, 1, 1}

	model, err := TrainModel(evidence, labels)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model.Size() != 4 {
		t.Fatalf("expected 4 stored examples, got %d", model.Size())
	}

	predictions, err := model.Predict([]pipeline.Vector{vector(0.4), vector(10.6), vector(2)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{0, 1, 0}
	for i := range want {
		if predictions[i] != want[i] {
			t.Errorf("prediction %d: expected %d, got %d", i, want[i], predictions[i])
		}
	}
}

func TestKNNMemorisesTrainingData(t *testing.T) {
	evidence := []pipeline.Vector{vector(0), vector(3), vector(6), vector(9)}
	labels := []int{1, 0, 1, 0}

	model, err := TrainModel(evidence, labels)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	predictions, err := model.Predict(evidence)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sensitivity, specificity, err := Evaluate(labels, predictions)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sensitivity != 1 || specificity != 1 {
		t.Fatalf("expected perfect recall on training rows, got %f %f", sensitivity, specificity)
	}
}

func TestTrainModelValidation(t *testing.T) {
	if _, err := TrainModel(nil, nil); err == nil {
		t.Error("expected error for empty input")
	}
	if _, err := TrainModel([]pipeline.Vector{vector(1)}, []int{0, 1}); err == nil {
		t.Error("expected error for length mismatch")
	}
	if _, err := TrainModel([]pipeline.Vector{vector(1)[:3]}, []int{0}); err == nil {
		t.Error("expected error for short vector")
	}
	if _, err := TrainModel([]pipeline.Vector{vector(1)}, []int{2}); err == nil {
		t.Error("expected error for non-binary label")
	}
}

func TestPredictUntrained(t *testing.T) {
	model := &KNNModel{}
	if _, err := model.Predict([]pipeline.Vector{vector(1)}); err == nil {
		t.Fatal("expected error for untrained model")
	}
}
