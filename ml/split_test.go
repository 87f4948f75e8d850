package ml

import (
	"testing"

	"shopintent/pipeline"
)

func dataset(n int) *pipeline.Dataset {
	ds := &pipeline.Dataset{}
	for i := 0; i < n; i++ {
		ds.Evidence = append(ds.Evidence, vector(float64(i)))
		ds.Labels = append(ds.Labels, i%2)
	}
	return ds
}

func TestTrainTestSplitSizes(t *testing.T) {
	tests := []struct {
		rows  int
		train int
		test  int
	}{
		{rows: 10, train: 6, test: 4},
		{rows: 12330, train: 7398, test: 4932},
		{rows: 3, train: 1, test: 2},
	}
	for _, tt := range tests {
		split, err := TrainTestSplit(dataset(tt.rows), DefaultTestSize, NewRand(7))
		if err != nil {
			t.Fatalf("%d rows: unexpected error: %v", tt.rows, err)
		}
		if len(split.TrainEvidence) != tt.train || len(split.TrainLabels) != tt.train {
			t.Errorf("%d rows: expected %d training rows, got %d", tt.rows, tt.train, len(split.TrainEvidence))
		}
		if len(split.TestEvidence) != tt.test || len(split.TestLabels) != tt.test {
			t.Errorf("%d rows: expected %d test rows, got %d", tt.rows, tt.test, len(split.TestEvidence))
		}
	}
}

func TestTrainTestSplitKeepsPairs(t *testing.T) {
	split, err := TrainTestSplit(dataset(50), DefaultTestSize, NewRand(11))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seen := make(map[int64]bool)
	check := func(evidence []pipeline.Vector, labels []int) {
		for i, vec := range evidence {
			id := vec[0].Int64()
			if labels[i] != int(id%2) {
				t.Errorf("row %d: label %d does not belong to evidence %d", i, labels[i], id)
			}
			if seen[id] {
				t.Errorf("row %d appears twice", id)
			}
			seen[id] = true
		}
	}
	check(split.TrainEvidence, split.TrainLabels)
	check(split.TestEvidence, split.TestLabels)
	if len(seen) != 50 {
		t.Fatalf("expected every row once, got %d", len(seen))
	}
}

func TestTrainTestSplitSeeded(t *testing.T) {
	first, err := TrainTestSplit(dataset(30), DefaultTestSize, NewRand(42))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := TrainTestSplit(dataset(30), DefaultTestSize, NewRand(42))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range first.TestEvidence {
		if first.TestEvidence[i][0] != second.TestEvidence[i][0] {
			t.Fatal("expected identical splits for identical seeds")
		}
	}
}

func TestTrainTestSplitValidation(t *testing.T) {
	if _, err := TrainTestSplit(&pipeline.Dataset{}, DefaultTestSize, nil); err == nil {
		t.Error("expected error for empty dataset")
	}
	if _, err := TrainTestSplit(dataset(10), 1.5, nil); err == nil {
		t.Error("expected error for invalid test size")
	}
	if _, err := TrainTestSplit(dataset(1), DefaultTestSize, nil); err == nil {
		t.Error("expected error when nothing is left for training")
	}
}
