package ml

// Classifier is the contract between the trained model and its callers.
type Classifier interface {
	Fit(features [][]float64, labels []int) error
	Predict(features [][]float64) ([]int, error)
}
