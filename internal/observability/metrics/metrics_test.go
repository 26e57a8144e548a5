package metrics

import (
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("cart_kind", "subscription"),
		attribute.String("seller_id", "456"),
		attribute.String("operator_family", "installment_youth"),
	)
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "cart_kind" && attrs[1].Key != "cart_kind" {
		t.Fatalf("expected cart_kind to be retained")
	}
	if attrs[0].Key != "operator_family" && attrs[1].Key != "operator_family" {
		t.Fatalf("expected operator_family to be retained")
	}
}
