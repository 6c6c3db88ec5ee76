// Copyright 2022 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package stats computes simple statistics over data series retrieved from
// the service, such as the distribution of daily log-profits of a stock.
package stats

import (
	"math"

	"github.com/stockparfait/errors"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Sample stores unordered set of numerical data (float64) and computes various
// statistics over it.
type Sample struct {
	data     []float64 // keep it private, so we correctly update caches.
	sorted   []float64 // cached sorted copy of data (for quantiles)
	sum      *float64  // cached sum of samples (for mean computation)
	sumDev   *float64  // cached sum of absolute deviations (for MAD)
	sumSqDev *float64  // cached sum of squared deviations (for variance)
}

// NewSample creates a new Sample over the data. Note, that it reuses the same
// slice without copying. Use Copy() if you need to decouple your input from
// the Sample.
func NewSample(data []float64) *Sample {
	return &Sample{data: data}
}

// Data returns the sample data.
func (s *Sample) Data() []float64 { return s.data }

// Len is the number of samples.
func (s *Sample) Len() int { return len(s.data) }

// Copy the Sample with its data. The original data can then be safely modified
// without affecting the copy.
func (s *Sample) Copy() *Sample {
	cp := make([]float64, len(s.data))
	copy(cp, s.data)
	return NewSample(cp)
}

// Sum of samples, cached.
func (s *Sample) Sum() float64 {
	if s.sum == nil {
		sum := floats.Sum(s.data)
		s.sum = &sum
	}
	return *s.sum
}

// Mean computes the mean of the Sample, cached.
func (s *Sample) Mean() float64 {
	if len(s.data) == 0 {
		return 0.0
	}
	return s.Sum() / float64(len(s.data))
}

// SumDev computes the sum of absolute deviations from the mean, cached.
func (s *Sample) SumDev() float64 {
	if s.sumDev == nil {
		mean := s.Mean()
		sumDev := 0.0
		for _, d := range s.data {
			sumDev += math.Abs(d - mean)
		}
		s.sumDev = &sumDev
	}
	return *s.sumDev
}

// MAD computes mean absolute deviation of the Sample, cached.
func (s *Sample) MAD() float64 {
	if len(s.data) == 0 {
		return 0.0
	}
	return s.SumDev() / float64(len(s.data))
}

// SumSquaredDev computes the sum of squared deviations from the mean, cached.
func (s *Sample) SumSquaredDev() float64 {
	if s.sumSqDev == nil {
		mean := s.Mean()
		v := 0.0
		for _, d := range s.data {
			v += (d - mean) * (d - mean)
		}
		s.sumSqDev = &v
	}
	return *s.sumSqDev
}

// Variance of the Sample (sigma squared), cached. This is the population
// variance, i.e. divided by N rather than N-1.
func (s *Sample) Variance() float64 {
	if len(s.data) == 0 {
		return 0.0
	}
	return s.SumSquaredDev() / float64(len(s.data))
}

// Sigma computes the standard deviation of the Sample, cached.
func (s *Sample) Sigma() float64 {
	return math.Sqrt(s.Variance())
}

// Min value of the Sample; 0 for an empty Sample.
func (s *Sample) Min() float64 {
	if len(s.data) == 0 {
		return 0.0
	}
	return floats.Min(s.data)
}

// Max value of the Sample; 0 for an empty Sample.
func (s *Sample) Max() float64 {
	if len(s.data) == 0 {
		return 0.0
	}
	return floats.Max(s.data)
}

// Quantile is the empirical q-quantile of the Sample, q in [0..1]. Values of q
// outside the interval are clamped. It is 0 for an empty Sample.
func (s *Sample) Quantile(q float64) float64 {
	if len(s.data) == 0 {
		return 0.0
	}
	q = math.Max(0.0, math.Min(1.0, q))
	if s.sorted == nil {
		s.sorted = make([]float64, len(s.data))
		copy(s.sorted, s.data)
		slices.Sort(s.sorted)
	}
	return stat.Quantile(q, stat.Empirical, s.sorted, nil)
}

// Median is the 0.5-quantile of the Sample.
func (s *Sample) Median() float64 { return s.Quantile(0.5) }

// Normalize the sample to zero mean and unit MAD. It is an error to normalize
// a Sample with zero MAD.
func (s *Sample) Normalize() (*Sample, error) {
	mean := s.Mean()
	mad := s.MAD()
	if mad == 0.0 {
		return nil, errors.Reason("cannot normalize a sample with zero MAD")
	}
	data := make([]float64, len(s.data))
	for i, x := range s.data {
		data[i] = (x - mean) / mad
	}
	return NewSample(data), nil
}
