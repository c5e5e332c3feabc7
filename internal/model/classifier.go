package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/dustykeyboard1/DKScraper/pkg/models"
)

var (
	// ErrNotTrained is returned when predicting with an untrained classifier
	ErrNotTrained = errors.New("classifier has not been trained")
	// ErrNoLabeledRows is returned when no training row carries a 0/1 label
	ErrNoLabeledRows = errors.New("no labeled rows to train on")
)

// Params controls a training run
type Params struct {
	Epochs       int
	LearningRate float64
	L2           float64
	Seed         int64
}

// DefaultParams returns the parameters used when none are configured
func DefaultParams() Params {
	return Params{Epochs: 200, LearningRate: 0.05, L2: 1e-4, Seed: 42}
}

// TrainReport summarizes a training run
type TrainReport struct {
	Samples     int     `json:"samples"`
	Positives   int     `json:"positives"`
	Incremental bool    `json:"incremental"`
	LogLoss     float64 `json:"log_loss"`
}

// Classifier is a logistic regression over the enriched feature columns.
// Missing inputs are replaced by the training mean and every input is standardized before scoring.
type Classifier struct {
	Features  []string  `json:"features"`
	Means     []float64 `json:"means"`  // imputation values
	Scales    []float64 `json:"scales"` // standard deviations
	Weights   []float64 `json:"weights"`
	Bias      float64   `json:"bias"`
	Samples   int       `json:"samples"`
	TrainedAt time.Time `json:"trained_at"`
}

// New creates an untrained classifier over models.FeatureColumns
func New() *Classifier {
	features := make([]string, len(models.FeatureColumns))
	copy(features, models.FeatureColumns)
	return &Classifier{Features: features}
}

// Load reads a classifier saved by Save
func Load(path string) (*Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model: %w", err)
	}

	var c Classifier
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode model: %w", err)
	}

	if len(c.Features) != len(models.FeatureColumns) {
		return nil, fmt.Errorf("model has %d features, expected %d", len(c.Features), len(models.FeatureColumns))
	}
	for i, name := range c.Features {
		if name != models.FeatureColumns[i] {
			return nil, fmt.Errorf("model feature %d is %q, expected %q", i, name, models.FeatureColumns[i])
		}
	}
	if c.Trained() && (len(c.Weights) != len(c.Features) || len(c.Means) != len(c.Features) || len(c.Scales) != len(c.Features)) {
		return nil, fmt.Errorf("model parameters do not match its feature list")
	}

	return &c, nil
}

// LoadOrNew loads the classifier at path, or returns an untrained one when the file does not exist
func LoadOrNew(path string) (*Classifier, error) {
	c, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return New(), nil
	}
	return c, err
}

// Save writes the classifier as JSON, creating the directory if needed
func (c *Classifier) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write model: %w", err)
	}
	return nil
}

// Trained reports whether the classifier can predict
func (c *Classifier) Trained() bool {
	return len(c.Weights) > 0
}

// Train fits the classifier on the labeled rows. Unlabeled and unevaluated rows are ignored.
// With incremental set and an already trained classifier, the imputer and scaler are kept
// and the weights continue from their current values.
func (c *Classifier) Train(rows []models.EnrichedRow, p Params, incremental bool) (TrainReport, error) {
	var xs [][]float64
	var ys []float64
	positives := 0
	for _, row := range rows {
		if !row.Labeled() || !row.Evaluated() {
			continue
		}
		xs = append(xs, row.Features())
		ys = append(ys, row.Covered)
		if row.Covered == 1 {
			positives++
		}
	}

	if len(xs) == 0 {
		return TrainReport{}, ErrNoLabeledRows
	}

	warm := incremental && c.Trained()
	if !warm {
		c.fitPreprocessing(xs)
		c.Weights = make([]float64, len(c.Features))
		c.Bias = 0
	}

	samples := make([][]float64, len(xs))
	for i, x := range xs {
		samples[i] = c.transform(x)
	}

	c.sgd(samples, ys, p)

	if warm {
		c.Samples += len(xs)
	} else {
		c.Samples = len(xs)
	}
	c.TrainedAt = time.Now().UTC()

	return TrainReport{
		Samples:     len(xs),
		Positives:   positives,
		Incremental: warm,
		LogLoss:     c.logLoss(samples, ys),
	}, nil
}

// Predict returns the predicted class (1 = over) and the probability of the over
func (c *Classifier) Predict(row models.EnrichedRow) (int, float64, error) {
	if !c.Trained() {
		return 0, 0, ErrNotTrained
	}

	p := sigmoid(dot(c.Weights, c.transform(row.Features())) + c.Bias)
	class := 0
	if p >= 0.5 {
		class = 1
	}
	return class, p, nil
}

// PredictAll fills Prediction and Confidence on every evaluated row.
// Rows with no player history are left unpredicted with a NaN confidence.
func (c *Classifier) PredictAll(rows []models.EnrichedRow) ([]models.EnrichedRow, error) {
	for i := range rows {
		if !rows[i].Evaluated() {
			rows[i].Predicted = false
			rows[i].Prediction = 0
			rows[i].Confidence = models.Unevaluable()
			continue
		}
		class, p, err := c.Predict(rows[i])
		if err != nil {
			return nil, err
		}
		rows[i].Predicted = true
		rows[i].Prediction = class
		rows[i].Confidence = p
	}
	return rows, nil
}

func (c *Classifier) fitPreprocessing(xs [][]float64) {
	n := len(c.Features)
	c.Means = make([]float64, n)
	c.Scales = make([]float64, n)

	for j := 0; j < n; j++ {
		var sum float64
		var count int
		for _, x := range xs {
			if !models.IsMissing(x[j]) {
				sum += x[j]
				count++
			}
		}
		if count > 0 {
			c.Means[j] = sum / float64(count)
		}

		// Variance is taken after imputation, so imputed values sit at zero.
		var sq float64
		for _, x := range xs {
			d := c.impute(x[j], j) - c.Means[j]
			sq += d * d
		}
		std := math.Sqrt(sq / float64(len(xs)))
		if std == 0 {
			std = 1
		}
		c.Scales[j] = std
	}
}

func (c *Classifier) impute(v float64, j int) float64 {
	if models.IsMissing(v) || math.IsInf(v, 0) {
		return c.Means[j]
	}
	return v
}

func (c *Classifier) transform(x []float64) []float64 {
	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = (c.impute(v, j) - c.Means[j]) / c.Scales[j]
	}
	return out
}

// sgd runs stochastic gradient descent on log-loss with L2 regularization
func (c *Classifier) sgd(xs [][]float64, ys []float64, p Params) {
	rng := rand.New(rand.NewSource(p.Seed))
	order := make([]int, len(xs))
	for i := range order {
		order[i] = i
	}

	for epoch := 0; epoch < p.Epochs; epoch++ {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		for _, i := range order {
			x := xs[i]
			// gradient of -[y*log(p)+(1-y)*log(1-p)] = (p-y)*x
			err := sigmoid(dot(c.Weights, x)+c.Bias) - ys[i]
			for k := range c.Weights {
				c.Weights[k] -= p.LearningRate * (err*x[k] + p.L2*c.Weights[k])
			}
			c.Bias -= p.LearningRate * err
		}
	}
}

func (c *Classifier) logLoss(xs [][]float64, ys []float64) float64 {
	const eps = 1e-15
	var total float64
	for i, x := range xs {
		p := sigmoid(dot(c.Weights, x) + c.Bias)
		p = math.Min(math.Max(p, eps), 1-eps)
		total -= ys[i]*math.Log(p) + (1-ys[i])*math.Log(1-p)
	}
	return total / float64(len(xs))
}

func sigmoid(z float64) float64 {
	if z > 35 {
		return 1.0
	}
	if z < -35 {
		return 0.0
	}
	return 1.0 / (1.0 + math.Exp(-z))
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
