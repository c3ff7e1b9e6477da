package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shelfsense/enrich-cli/internal/model"
	"github.com/shelfsense/enrich-cli/pkg/perplexity"
)

func TestSearchMissing_AlwaysQueriesPrice(t *testing.T) {
	s := supplementTestSchema(t)
	px := new(mockPerplexity)
	px.On("ChatCompletion", mock.Anything, mock.MatchedBy(func(req perplexity.ChatCompletionRequest) bool {
		prompt := req.Messages[len(req.Messages)-1].Content
		return strings.Contains(prompt, "- price:") && strings.Contains(prompt, "- intake_form:")
	})).Return(searchResponse(`{"intake_form": "capsule", "price": 24.99, "confidence": 0.85, "source_url": "https://shop.example.com/d3"}`), nil)

	ans, err := SearchMissing(context.Background(), px, "sonar-pro", s,
		model.Request{ProductName: "Vitamin D3"}, []string{"intake_form"}, 0.9)
	require.NoError(t, err)

	assert.Equal(t, "capsule", ans.Values["intake_form"])
	assert.Equal(t, 24.99, ans.Values["price"])
	assert.Equal(t, 0.85, ans.Confidence)
	assert.Equal(t, "https://shop.example.com/d3", ans.SourceURL)
	px.AssertExpectations(t)
}

func TestSearchMissing_DefaultConfidenceWhenOmitted(t *testing.T) {
	s := supplementTestSchema(t)
	px := new(mockPerplexity)
	px.On("ChatCompletion", mock.Anything, mock.Anything).
		Return(searchResponse(`{"price": 10.0}`), nil)

	ans, err := SearchMissing(context.Background(), px, "", s,
		model.Request{ProductName: "Zinc"}, nil, 0.9)
	require.NoError(t, err)
	assert.Equal(t, 0.9, ans.Confidence)
}

func TestSearchMissing_UnparsableAnswerIsError(t *testing.T) {
	s := supplementTestSchema(t)
	px := new(mockPerplexity)
	px.On("ChatCompletion", mock.Anything, mock.Anything).
		Return(searchResponse("I was unable to find this product online."), nil)

	_, err := SearchMissing(context.Background(), px, "", s,
		model.Request{ProductName: "Obscure Pill"}, []string{"price"}, 0.9)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no JSON object")
}

func TestSearchMissing_MalformedJSONIsError(t *testing.T) {
	s := supplementTestSchema(t)
	px := new(mockPerplexity)
	px.On("ChatCompletion", mock.Anything, mock.Anything).
		Return(searchResponse(`{"price": }`), nil)

	_, err := SearchMissing(context.Background(), px, "", s,
		model.Request{ProductName: "Obscure Pill"}, []string{"price"}, 0.9)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse answer JSON")
}

func TestSearchMissing_IgnoresUnrequestedKeys(t *testing.T) {
	s := supplementTestSchema(t)
	px := new(mockPerplexity)
	px.On("ChatCompletion", mock.Anything, mock.Anything).
		Return(searchResponse(`{"price": 10.0, "serving_size": 3, "purchase_url": "https://x.example.com"}`), nil)

	// serving_size was not missing, so it must not come back.
	ans, err := SearchMissing(context.Background(), px, "", s,
		model.Request{ProductName: "Zinc"}, []string{"price"}, 0.9)
	require.NoError(t, err)
	assert.NotContains(t, ans.Values, "serving_size")
	assert.Equal(t, "https://x.example.com", ans.Values["purchase_url"])
}

func TestSearchMissing_TransportError(t *testing.T) {
	s := supplementTestSchema(t)
	px := new(mockPerplexity)
	px.On("ChatCompletion", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	_, err := SearchMissing(context.Background(), px, "", s,
		model.Request{ProductName: "Zinc"}, []string{"price"}, 0.9)
	require.Error(t, err)
}
