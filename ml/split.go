package ml

import (
	"errors"
	"math"
	"math/rand"
	"time"

	"shopintent/pipeline"
)

// DefaultTestSize is the share of rows held out for evaluation.
const DefaultTestSize = 0.4

type Split struct {
	TrainEvidence []pipeline.Vector
	TrainLabels   []int
	TestEvidence  []pipeline.Vector
	TestLabels    []int
}

// NewRand returns a random source for splitting. A zero seed means time seeded, so every run
// partitions the data differently.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// TrainTestSplit shuffles the dataset and holds out ceil(testSize*n) rows for testing.
func TrainTestSplit(ds *pipeline.Dataset, testSize float64, rnd *rand.Rand) (*Split, error) {
	if ds == nil || ds.Len() == 0 {
		return nil, errors.New("dataset is empty")
	}
	if len(ds.Evidence) != len(ds.Labels) {
		return nil, ErrLengthMismatch
	}
	if testSize <= 0 || testSize >= 1 {
		return nil, errors.New("test size must be between 0 and 1")
	}
	if rnd == nil {
		rnd = NewRand(0)
	}

	n := ds.Len()
	testCount := int(math.Ceil(float64(n) * testSize))
	trainCount := n - testCount
	if trainCount <= 0 {
		return nil, errors.New("not enough rows for a training split")
	}

	split := &Split{
		TrainEvidence: make([]pipeline.Vector, 0, trainCount),
		TrainLabels:   make([]int, 0, trainCount),
		TestEvidence:  make([]pipeline.Vector, 0, testCount),
		TestLabels:    make([]int, 0, testCount),
	}
	for i, idx := range rnd.Perm(n) {
		if i < trainCount {
			split.TrainEvidence = append(split.TrainEvidence, ds.Evidence[idx])
			split.TrainLabels = append(split.TrainLabels, ds.Labels[idx])
		} else {
			split.TestEvidence = append(split.TestEvidence, ds.Evidence[idx])
			split.TestLabels = append(split.TestLabels, ds.Labels[idx])
		}
	}
	return split, nil
}
