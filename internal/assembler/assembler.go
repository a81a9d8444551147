// Package assembler draws exam versions from a pool of extracted questions.
package assembler

import (
	"math"
	"math/rand/v2"

	"exam-mixer/internal/domain"
)

// Request describes how many versions to build and how to fill them.
type Request struct {
	Versions            int
	QuestionsPerVersion int
	// TheoryRatio is the share of each version allocated to Theory questions;
	// Practice takes the remainder.
	TheoryRatio float64
	// TierRatios are the Easy, Medium and Hard shares within each topic group.
	// They are not required to sum to 1.
	TierRatios [3]float64
}

// DefaultRequest returns the settings used when a caller supplies none.
func DefaultRequest() Request {
	return Request{
		Versions:            3,
		QuestionsPerVersion: 10,
		TheoryRatio:         0.5,
		TierRatios:          [3]float64{0.4, 0.4, 0.2},
	}
}

// RequestFromPercents builds a Request from whole-number difficulty
// percentages, as entered in forms and on the command line.
func RequestFromPercents(versions, questions int, theoryRatio float64, easy, medium, hard int) Request {
	return Request{
		Versions:            versions,
		QuestionsPerVersion: questions,
		TheoryRatio:         theoryRatio,
		TierRatios:          [3]float64{float64(easy) / 100, float64(medium) / 100, float64(hard) / 100},
	}
}

// Assembler builds exam versions using an injected random source.
// An Assembler is not safe for concurrent use; create one per goroutine.
type Assembler struct {
	rng *rand.Rand
}

// New creates an Assembler drawing from rng.
func New(rng *rand.Rand) *Assembler {
	return &Assembler{rng: rng}
}

// NewSeeded creates an Assembler with a PCG source seeded from seed.
func NewSeeded(seed uint64) *Assembler {
	return New(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// Assemble returns req.Versions exam versions drawn from pool.
//
// When at least one pool question is categorized, each version is filled by
// topic/difficulty quotas and topped up from the rest of the pool; otherwise
// questions are drawn uniformly. The pool is never modified. A question may
// appear in several versions but at most once per version.
func (a *Assembler) Assemble(pool []domain.Question, req Request) ([]domain.ExamVersion, error) {
	if req.Versions < 1 {
		return nil, domain.NewInvalidArgumentError("version count must be at least 1").
			WithContext("versions", req.Versions)
	}
	if req.QuestionsPerVersion < 1 {
		return nil, domain.NewInvalidArgumentError("questions per version must be at least 1").
			WithContext("questions_per_version", req.QuestionsPerVersion)
	}

	stratified := hasCategorization(pool)
	var buckets map[bucketKey][]domain.Question
	if stratified {
		buckets = partition(pool)
	}

	versions := make([]domain.ExamVersion, 0, req.Versions)
	for n := 1; n <= req.Versions; n++ {
		var questions []domain.Question
		if stratified {
			questions = a.stratified(pool, buckets, req)
		} else {
			questions = a.sample(pool, req.QuestionsPerVersion)
		}
		versions = append(versions, domain.ExamVersion{Number: n, Questions: questions})
	}
	return versions, nil
}

type bucketKey struct {
	topic      domain.Topic
	difficulty domain.Difficulty
}

func hasCategorization(pool []domain.Question) bool {
	for _, q := range pool {
		if q.IsCategorized() {
			return true
		}
	}
	return false
}

func partition(pool []domain.Question) map[bucketKey][]domain.Question {
	buckets := make(map[bucketKey][]domain.Question, 6)
	for _, q := range pool {
		if !q.IsCategorized() {
			continue
		}
		k := bucketKey{q.Topic, q.Difficulty}
		buckets[k] = append(buckets[k], q)
	}
	return buckets
}

func (a *Assembler) stratified(pool []domain.Question, buckets map[bucketKey][]domain.Question, req Request) []domain.Question {
	total := req.QuestionsPerVersion
	theory := quota(total, req.TheoryRatio)
	groups := []struct {
		topic domain.Topic
		count int
	}{
		{domain.Theory, theory},
		{domain.Practice, total - theory},
	}

	working := make([]domain.Question, 0, total)
	for _, g := range groups {
		for i, tier := range domain.Tiers {
			need := quota(g.count, req.TierRatios[i])
			working = append(working, a.sample(buckets[bucketKey{g.topic, tier}], need)...)
		}
	}

	if len(working) < total {
		taken := make(map[string]struct{}, len(working))
		for _, q := range working {
			taken[q.Key()] = struct{}{}
		}
		remaining := make([]domain.Question, 0, len(pool))
		for _, q := range pool {
			if _, ok := taken[q.Key()]; !ok {
				remaining = append(remaining, q)
			}
		}
		working = append(working, a.sample(remaining, total-len(working))...)
	}

	a.rng.Shuffle(len(working), func(i, j int) {
		working[i], working[j] = working[j], working[i]
	})
	if len(working) > total {
		working = working[:total]
	}
	return working
}

// sample draws min(n, len(from)) questions without replacement, in random order.
func (a *Assembler) sample(from []domain.Question, n int) []domain.Question {
	n = min(max(n, 0), len(from))
	picked := make([]domain.Question, 0, n)
	for _, idx := range a.rng.Perm(len(from))[:n] {
		picked = append(picked, from[idx])
	}
	return picked
}

// quota returns floor(count*ratio), treating NaN and negative products as zero
// and capping at MaxInt32.
func quota(count int, ratio float64) int {
	v := math.Floor(float64(count) * ratio)
	if !(v > 0) {
		return 0
	}
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v)
}
