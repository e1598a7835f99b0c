package tracing

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestSafeAttributesDropsUnknownKeys(t *testing.T) {
	attrs := SafeAttributes(
		attribute.String("http.route", "/api/compare"),
		attribute.String("spec.default_value", "85"),
		attribute.Int("compare.product_count", 3),
	)
	assert.Len(t, attrs, 2)
	for _, attr := range attrs {
		assert.NotEqual(t, attribute.Key("spec.default_value"), attr.Key)
	}
}

func TestSafeErrorTruncates(t *testing.T) {
	assert.Nil(t, SafeError(nil))

	err := SafeError(errors.New("query failed\nSELECT * FROM product_specs"))
	assert.Equal(t, "query failed", err.Error())

	long := SafeError(errors.New(strings.Repeat("x", 500)))
	assert.Len(t, long.Error(), 200)
}
