package observability

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// spanAttributePolicy decides which span attribute keys reach the exporter.
// Denied keys win over allowed prefixes.
type spanAttributePolicy struct {
	allowPrefixes []string
	allowKeys     []string
	denyKeys      []string
}

// defaultPolicy keeps sizediff's own keys and drops report paths and content,
// which can carry local directory names.
var defaultPolicy = spanAttributePolicy{
	allowPrefixes: []string{"sizediff.", "compare.", "budget.", "output.", "report.", "error."},
	allowKeys:     []string{"error"},
	denyKeys:      []string{"report.path", "report.content"},
}

func (p spanAttributePolicy) allows(key string) bool {
	if slices.Contains(p.denyKeys, key) {
		return false
	}

	if slices.Contains(p.allowKeys, key) {
		return true
	}

	return slices.ContainsFunc(p.allowPrefixes, func(prefix string) bool {
		return strings.HasPrefix(key, prefix)
	})
}

// attributeFilter is a SpanProcessor that hands its delegate a view of each
// ended span holding only the attributes the policy allows.
type attributeFilter struct {
	delegate sdktrace.SpanProcessor
	policy   spanAttributePolicy
	logger   *slog.Logger
}

// NewAttributeFilter wraps delegate so exported spans carry only allowed
// attributes. When logger is non-nil, every dropped key is logged as a warning.
func NewAttributeFilter(delegate sdktrace.SpanProcessor, logger *slog.Logger) sdktrace.SpanProcessor {
	return &attributeFilter{delegate: delegate, policy: defaultPolicy, logger: logger}
}

// OnStart delegates to the wrapped processor.
func (f *attributeFilter) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	f.delegate.OnStart(parent, s)
}

// OnEnd passes a filtered view of s to the wrapped processor.
func (f *attributeFilter) OnEnd(s sdktrace.ReadOnlySpan) {
	f.delegate.OnEnd(&filteredSpan{ReadOnlySpan: s, filter: f})
}

// Shutdown delegates to the wrapped processor.
func (f *attributeFilter) Shutdown(ctx context.Context) error {
	err := f.delegate.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("attribute filter shutdown: %w", err)
	}

	return nil
}

// ForceFlush delegates to the wrapped processor.
func (f *attributeFilter) ForceFlush(ctx context.Context) error {
	err := f.delegate.ForceFlush(ctx)
	if err != nil {
		return fmt.Errorf("attribute filter flush: %w", err)
	}

	return nil
}

func (f *attributeFilter) keep(kv attribute.KeyValue) bool {
	key := string(kv.Key)
	if f.policy.allows(key) {
		return true
	}

	if f.logger != nil {
		f.logger.Warn("span attribute dropped", "key", key)
	}

	return false
}

// filteredSpan is a ReadOnlySpan whose Attributes pass the filter policy.
type filteredSpan struct {
	sdktrace.ReadOnlySpan

	filter *attributeFilter
}

// Attributes returns the allowed attributes of the wrapped span.
func (s *filteredSpan) Attributes() []attribute.KeyValue {
	return slices.DeleteFunc(slices.Clone(s.ReadOnlySpan.Attributes()), func(kv attribute.KeyValue) bool {
		return !s.filter.keep(kv)
	})
}
