// Command evaluate fits the delay classifier on a historical dataset and
// reports held-out accuracy, precision and recall, plus a dataset summary.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"

	"delaycast/flights"
	"delaycast/ml"
)

func main() {
	dataPath := flag.String("data", "data/data.csv", "historical dataset CSV")
	encoding := flag.String("encoding", "", "dataset encoding (utf-8 or latin1)")
	testRatio := flag.Float64("test_ratio", 0.2, "held-out fraction")
	flag.Parse()

	if *testRatio <= 0 || *testRatio >= 1 {
		log.Fatal("test_ratio must be in (0, 1)")
	}

	records, err := flights.LoadDataset(*dataPath, *encoding)
	if err != nil {
		log.Fatalf("failed to load dataset: %v", err)
	}

	printSummary(records)

	features, labels, err := ml.BuildFeatures(records, true)
	if err != nil {
		log.Fatalf("failed to build features: %v", err)
	}

	trainX, trainY, testX, testY := splitDataset(features, labels, *testRatio)

	model := ml.NewLogisticClassifier()
	if err := model.Fit(trainX, trainY); err != nil {
		log.Fatalf("failed to fit model: %v", err)
	}

	predictions, err := model.Predict(testX)
	if err != nil {
		log.Fatalf("failed to predict: %v", err)
	}

	accuracy, precision, recall := evaluate(predictions, testY)
	fmt.Printf("test samples: %d\n", len(testY))
	fmt.Printf("accuracy=%.3f precision=%.3f recall=%.3f\n", accuracy, precision, recall)
}

func printSummary(records []flights.Record) {
	var delayed, highSeason int
	periods := map[ml.Period]int{}
	for _, rec := range records {
		if label, err := ml.DelayLabel(rec); err == nil {
			delayed += label
		}
		if hs, err := ml.HighSeason(rec.ScheduledDeparture); err == nil && hs {
			highSeason++
		}
		if p, err := ml.PeriodOfDay(rec.ScheduledDeparture); err == nil {
			periods[p]++
		}
	}

	n := float64(len(records))
	fmt.Printf("rows: %d\n", len(records))
	fmt.Printf("delay rate: %.3f\n", float64(delayed)/n)
	fmt.Printf("high season share: %.3f\n", float64(highSeason)/n)
	for _, p := range []ml.Period{ml.PeriodMorning, ml.PeriodAfternoon, ml.PeriodNight, ml.PeriodNone} {
		fmt.Printf("period %s: %d\n", p, periods[p])
	}
}

// splitDataset shuffles deterministically and carves off the tail as the
// test set, so repeated runs compare like with like.
func splitDataset(features [][]float64, labels []int, testRatio float64) ([][]float64, []int, [][]float64, []int) {
	rng := rand.New(rand.NewSource(42))
	order := rng.Perm(len(features))

	shuffledX := make([][]float64, len(features))
	shuffledY := make([]int, len(labels))
	for i, idx := range order {
		shuffledX[i] = features[idx]
		shuffledY[i] = labels[idx]
	}

	cut := len(features) - int(float64(len(features))*testRatio)
	if cut <= 0 || cut >= len(features) {
		cut = len(features) - 1
	}
	return shuffledX[:cut], shuffledY[:cut], shuffledX[cut:], shuffledY[cut:]
}

func evaluate(predictions, truth []int) (accuracy, precision, recall float64) {
	var correct, truePos, predPos, actualPos int
	for i, p := range predictions {
		if p == truth[i] {
			correct++
		}
		if p == 1 {
			predPos++
			if truth[i] == 1 {
				truePos++
			}
		}
		if truth[i] == 1 {
			actualPos++
		}
	}
	accuracy = float64(correct) / float64(len(predictions))
	if predPos > 0 {
		precision = float64(truePos) / float64(predPos)
	}
	if actualPos > 0 {
		recall = float64(truePos) / float64(actualPos)
	}
	return accuracy, precision, recall
}
