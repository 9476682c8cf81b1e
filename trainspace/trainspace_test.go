package trainspace

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/nlplearn/feature"
	"github.com/YuminosukeSato/nlplearn/pkg/errors"
	"github.com/YuminosukeSato/nlplearn/pkg/log"
)

func quietLogger() Option {
	l, _ := log.NewTestLogger(log.LevelError)
	return WithLogger(l)
}

func TestSparseSpaceExampleScenario(t *testing.T) {
	s := NewSparseSpace(quietLogger())
	require.NoError(t, s.AddInstance("A", feature.SparseFeatureVector{Indices: []int{1, 2}}))
	require.NoError(t, s.AddInstance("B", feature.SparseFeatureVector{Indices: []int{2, 3}}))

	p, err := s.Build(false)
	require.NoError(t, err)
	assert.Equal(t, 2, p.NumLabels)
	assert.Equal(t, 4, p.NumFeatures)
	assert.Equal(t, []string{"A", "B"}, p.LabelNames)
	assert.Equal(t, []int{0, 1}, p.Labels)
	assert.Equal(t, [][]int{{1, 2}, {2, 3}}, p.Features)
	assert.False(t, p.IsWeighted())
	assert.Nil(t, p.Vocabulary)
}

func TestSparseSpaceCutoffs(t *testing.T) {
	s := NewSparseSpace(WithLabelCutoff(1), WithFeatureCutoff(1), quietLogger())
	for _, line := range []string{
		"X 1 2 9",
		"Y 1 3",
		"X 2 3",
		"Z 1 2", // Z occurs once: dropped with label cutoff 1
		"Y 1",
	} {
		require.NoError(t, s.AddLine(line))
	}

	p, err := s.Build(false)
	require.NoError(t, err)
	assert.Equal(t, []string{"X", "Y"}, p.LabelNames)
	assert.Equal(t, 4, p.NumFeatures, "feature 9 seen once is pruned, max kept index is 3")
	assert.Equal(t, []int{0, 1, 0, 1}, p.Labels)
	assert.Equal(t, [][]int{{1, 2}, {1, 3}, {2, 3}, {1}}, p.Features)
}

func TestSparseSpaceWeightedLines(t *testing.T) {
	s := NewSparseSpace(quietLogger())
	require.NoError(t, s.AddLine("pos 1:0.5 4:2"))
	require.NoError(t, s.AddLine("neg 2 4:1.5"))

	p, err := s.Build(true)
	require.NoError(t, err)
	require.True(t, p.IsWeighted())
	assert.Equal(t, [][]float64{{0.5, 2}, {1, 1.5}}, p.Values)
	assert.Equal(t, 1.5, p.Value(1, 1))
	assert.Equal(t, 0, s.Len(), "instances cleared")

	v := p.Vector(0)
	assert.Equal(t, []int{1, 4}, v.Indices)
	assert.Equal(t, 0.5, v.Weight(0))
}

func TestSparseSpaceRejectsBadInput(t *testing.T) {
	s := NewSparseSpace(quietLogger())
	assert.Error(t, s.AddLine(""))
	assert.Error(t, s.AddLine("A x"))
	assert.Error(t, s.AddLine("A 1:abc"))
	assert.Error(t, s.AddInstance("A", feature.SparseFeatureVector{Indices: []int{0}}))

	err := s.AddInstance("A", feature.SparseFeatureVector{Indices: []int{1, 2}, Weights: []float64{1}})
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))
}

func TestBuildErrors(t *testing.T) {
	_, err := NewSparseSpace(quietLogger()).Build(false)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))

	s := NewStringSpace(WithFeatureCutoff(5), quietLogger())
	require.NoError(t, s.AddLine("A w=x"))
	_, err = s.Build(false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrEmptyVocabulary))
	assert.Contains(t, errors.FlattenHints(err), "lower the cutoffs")

	s = NewStringSpace(WithLabelCutoff(1), quietLogger())
	require.NoError(t, s.AddLine("A w=x"))
	_, err = s.Build(false)
	assert.True(t, errors.Is(err, errors.ErrEmptyVocabulary))
}

func TestStringSpaceInterning(t *testing.T) {
	s := NewStringSpace(quietLogger())
	require.NoError(t, s.AddLine("NN w=dog p=the"))
	require.NoError(t, s.AddLine("VB w=runs p=dog"))
	require.NoError(t, s.AddLine("NN w=dog url=http://a=b"))

	p, err := s.Build(false)
	require.NoError(t, err)
	assert.Equal(t, []string{"NN", "VB"}, p.LabelNames)
	require.NotNil(t, p.Vocabulary)
	assert.Equal(t, []feature.Entry{
		{"w", "dog"}, {"p", "the"}, {"w", "runs"}, {"p", "dog"}, {"url", "http://a=b"},
	}, p.Vocabulary.Entries())
	assert.Equal(t, 6, p.NumFeatures)
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {1, 5}}, p.Features)
}

func TestStringSpaceWeightedDelimiter(t *testing.T) {
	s := NewStringSpace(WithWeighted(true), quietLogger())
	require.NoError(t, s.AddLine("A url=http://x:0.25 w=a:2"))
	require.Error(t, s.AddLine("A w=a"), "weighted spaces require a weight")

	p, err := s.Build(false)
	require.NoError(t, err)
	idx, ok := p.Vocabulary.Index("url", "http://x")
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, [][]float64{{0.25, 2}}, p.Values)

	s = NewStringSpace(WithWeighted(true), WithWeightDelimiter("|"), quietLogger())
	require.NoError(t, s.AddLine("A t=a:b|3"))
	p, err = s.Build(false)
	require.NoError(t, err)
	_, ok = p.Vocabulary.Index("t", "a:b")
	assert.True(t, ok)
	assert.Equal(t, [][]float64{{3}}, p.Values)
}

func TestStringSpacePrunedFeaturesDropIndividually(t *testing.T) {
	s := NewStringSpace(WithFeatureCutoff(1), quietLogger())
	require.NoError(t, s.AddLine("A f=1 f=rare"))
	require.NoError(t, s.AddLine("B f=1 f=2"))
	require.NoError(t, s.AddLine("A f=2"))

	p, err := s.Build(false)
	require.NoError(t, err)
	assert.Equal(t, 3, p.NumFeatures)
	assert.Equal(t, [][]int{{1}, {1, 2}, {2}}, p.Features, "instances survive with their rare features removed")
}

func TestBuildIsIdempotent(t *testing.T) {
	data := "C a=1 b=2\nA a=1 c=3\nB b=2 c=3 d=4\nC d=4\nA a=1\n"
	s := NewStringSpace(WithFeatureCutoff(1), quietLogger())
	n, err := s.ReadFrom(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	first, err := s.Build(false)
	require.NoError(t, err)
	second, err := s.Build(false)
	require.NoError(t, err)
	assert.Equal(t, first.Labels, second.Labels)
	assert.Equal(t, first.Features, second.Features)
	assert.Equal(t, first.Vocabulary.Entries(), second.Vocabulary.Entries())

	other := NewStringSpace(WithFeatureCutoff(1), quietLogger())
	_, err = other.ReadFrom(strings.NewReader(data))
	require.NoError(t, err)
	third, err := other.Build(false)
	require.NoError(t, err)
	assert.Equal(t, first.Vocabulary.Entries(), third.Vocabulary.Entries())
}

func TestReadFromReportsLine(t *testing.T) {
	s := NewStringSpace(quietLogger())
	_, err := s.ReadFrom(strings.NewReader("A a=1\n\nB broken\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestBinaryLabels(t *testing.T) {
	p := &Problem{Labels: []int{0, 2, 1, 2}}
	assert.Equal(t, []int8{-1, 1, -1, 1}, p.BinaryLabels(2))
	assert.Equal(t, []int8{1, -1, -1, -1}, p.BinaryLabels(0))
}

func TestBuildLogs(t *testing.T) {
	l, _ := log.NewTestLogger(log.LevelInfo)
	s := NewSparseSpace(WithLogger(l))
	require.NoError(t, s.AddLine("A 1"))
	_, err := s.Build(false)
	require.NoError(t, err)
	assert.True(t, l.ContainsField(log.OperationKey, log.OperationBuild))
	assert.True(t, l.ContainsField(log.FeaturesKey, 2.0))
}

func TestLineParser(t *testing.T) {
	p := NewLineParser(WithWeighted(true), WithWeightDelimiter("|"), WithFeatureCutoff(5))
	assert.Equal(t, LineParser{Weighted: true, Delimiter: "|"}, p)

	label, sv, err := p.StringLine("NN w=a|2 url=x|y|0.5")
	require.NoError(t, err)
	assert.Equal(t, "NN", label)
	assert.Equal(t, []string{"w", "url"}, sv.Types)
	assert.Equal(t, []string{"a", "x|y"}, sv.Values)
	assert.Equal(t, []float64{2, 0.5}, sv.Weights)

	v, err := NewLineParser().SparseFeatures([]string{"3", "7:0.25"})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 7}, v.Indices)
	assert.Equal(t, 0.25, v.Weight(1))

	_, err = NewLineParser().StringFeatures([]string{"novalue"})
	assert.Error(t, err)
}
