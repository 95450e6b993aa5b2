package logging

// ProgressSampler thins out per-chapter progress logs for runs without a
// status line. It emits when the percentage crosses a bucket boundary or a
// new chapter starts.
type ProgressSampler struct {
	bucketSize  float64
	lastChapter int
	lastBucket  int
}

// NewProgressSampler constructs a sampler with bucketSize percent buckets
// (default 25).
func NewProgressSampler(bucketSize float64) *ProgressSampler {
	if bucketSize <= 0 {
		bucketSize = 25
	}
	return &ProgressSampler{bucketSize: bucketSize, lastBucket: -1}
}

// ShouldLog reports whether progress for chapter should be logged. A
// negative percent means unknown and only a chapter change logs it.
func (s *ProgressSampler) ShouldLog(chapter int, percent float64) bool {
	if s == nil {
		return true
	}
	emit := false
	if chapter != s.lastChapter {
		s.lastChapter = chapter
		s.lastBucket = -1
		emit = true
	}
	if percent >= 0 {
		bucket := int(min(percent, 100) / s.bucketSize)
		if bucket > s.lastBucket {
			s.lastBucket = bucket
			emit = true
		}
	}
	return emit
}

// Reset clears the sampler state.
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.lastChapter = 0
	s.lastBucket = -1
}
