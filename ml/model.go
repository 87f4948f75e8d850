package ml

import "shopintent/pipeline"

// Classifier predicts a revenue label (0 or 1) for each evidence vector.
type Classifier interface {
	Predict(evidence []pipeline.Vector) ([]int, error)
}

// Result is the outcome of one train/evaluate pass.
type Result struct {
	TrainSize   int
	TestSize    int
	Correct     int
	Incorrect   int
	Sensitivity float64
	Specificity float64
}
