// Package analysis is the top-level entry point into the engine: it wires
// confusion-freeness, interface compatibility, composition, subscription
// inference, well-formedness checking, projection and equivalence checking
// into a handful of operations an external caller can drive directly,
// instrumenting every one of them with a tracing span, a structured log
// line and a Prometheus observation, following a span -> timed body ->
// deferred status/metrics/log pattern throughout.
package analysis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/lucas874/machine-go/config"
	"github.com/lucas874/machine-go/engine/composability"
	"github.com/lucas874/machine-go/engine/composition"
	"github.com/lucas874/machine-go/engine/errs"
	"github.com/lucas874/machine-go/engine/graph"
	"github.com/lucas874/machine-go/engine/label"
	"github.com/lucas874/machine-go/engine/projection"
	"github.com/lucas874/machine-go/engine/protoinfo"
	"github.com/lucas874/machine-go/engine/subscription"
	"github.com/lucas874/machine-go/engine/wellformed"
	"github.com/lucas874/machine-go/observability"
)

var tracer = otel.Tracer("machine-go/engine")

// Engine is the facade over the analysis pipeline. It holds no protocol
// state itself; every operation takes its protocols as arguments and
// returns a fresh result, so an Engine can be shared across concurrent
// callers.
type Engine struct {
	config *config.AnalysisConfig
	logger observability.Logger
}

// New constructs an Engine. A nil config uses config.DefaultAnalysisConfig;
// a nil logger uses observability.NewStdLoggerAtLevel(cfg.LogLevel).
func New(cfg *config.AnalysisConfig, logger observability.Logger) *Engine {
	if cfg == nil {
		cfg = config.DefaultAnalysisConfig()
	}
	if logger == nil {
		logger = observability.NewStdLoggerAtLevel(cfg.LogLevel)
	}
	return &Engine{config: cfg, logger: logger.Bind("component", "analysis.Engine")}
}

// EnableTracing initializes OpenTelemetry tracing for this engine's
// configured service name against collectorEndpoint, returning a shutdown
// function to call on process termination. If the engine's config has
// TracingEnabled false, EnableTracing does nothing and returns a no-op
// shutdown function, so callers can invoke it unconditionally.
func (e *Engine) EnableTracing(collectorEndpoint string) (func(context.Context) error, error) {
	if !e.config.TracingEnabled {
		return func(context.Context) error { return nil }, nil
	}
	return observability.InitTracer(e.config.ServiceName, collectorEndpoint)
}

// CompositionResult is the outcome of composing a protocol family: the
// composed graph, its role/event-subscription map and aggregate info, and
// any interface-compatibility or confusion-freeness errors found along the
// way. A non-empty Errors does not prevent Graph from being populated,
// since later stages (e.g. well-formedness) can still usefully report
// against a confused composition.
type CompositionResult struct {
	Graph   *graph.ProtocolGraph
	Initial graph.NodeID
	Info    *protoinfo.ProtoInfo
	Errors  *errs.Report
}

// Compose checks each protocol for confusion-freeness and the whole family
// for interface compatibility, then builds the explicit composition and its
// aggregate ProtoInfo.
func (e *Engine) Compose(ctx context.Context, protocols []*graph.ProtocolGraph) (result *CompositionResult, err error) {
	_, span := tracer.Start(ctx, "analysis.compose",
		attribute.String("run.id", "run_"+uuid.New().String()[:16]),
		attribute.Int("protocol.count", len(protocols)),
	)
	defer span.End()

	start := time.Now()
	report := errs.NewReport()

	infos := make([]*protoinfo.ProtoInfo, len(protocols))
	for i, p := range protocols {
		pi := protoinfo.Prepare(p)
		infos[i] = pi
		report.Append(pi.ToErrorReport())
	}
	report.Append(composability.InterfaceCompatible(protocols))

	if !e.config.RejectUnreachableTerminal {
		report = report.Filter("StateCanNotReachTerminal")
	}

	combinedInfo := protoinfo.Combine(infos)

	var composed *graph.ProtocolGraph
	var initial graph.NodeID
	if len(protocols) > 0 {
		composed, initial = composition.ComposeAll(protocols, combinedInfo.RoleEventMap)
	} else {
		composed = graph.NewProtocolGraph()
	}

	result = &CompositionResult{
		Graph:   composed,
		Initial: initial,
		Info:    combinedInfo,
		Errors:  report,
	}

	durationMS := float64(time.Since(start).Milliseconds())
	if e.config.MetricsEnabled {
		observability.RecordCheck("compose", len(report.Errors), durationMS)
	}
	if report.Empty() {
		span.SetStatus(codes.Ok, "success")
	} else {
		span.SetStatus(codes.Error, "composition errors")
	}
	e.logger.Info("compose_completed", "protocols", len(protocols), "errors", len(report.Errors), "duration_ms", durationMS)
	return result, nil
}

// InferSubscription infers a well-formedness subscription over a composed
// family using the engine's configured default strategy, extending base
// (which may be nil).
func (e *Engine) InferSubscription(ctx context.Context, info *protoinfo.ProtoInfo, base subscription.Subscriptions) (subscription.Subscriptions, error) {
	_, span := tracer.Start(ctx, "analysis.infer_subscription",
		attribute.String("strategy", e.config.DefaultGranularity.String()),
	)
	defer span.End()

	if base == nil {
		base = make(subscription.Subscriptions)
	}
	start := time.Now()
	subs := subscription.Infer(info, base, e.config.DefaultGranularity)
	durationMS := float64(time.Since(start).Milliseconds())
	if e.config.MetricsEnabled {
		observability.RecordCheck("infer_subscription", 0, durationMS)
	}
	span.SetStatus(codes.Ok, "success")
	e.logger.Debug("subscription_inferred", "strategy", e.config.DefaultGranularity.String(), "roles", len(subs))
	return subs, nil
}

// InferSubscriptionExact infers a subscription via the Exact strategy,
// which (unlike the other strategies) operates directly over the explicit
// composition rather than the aggregate ProtoInfo alone.
func (e *Engine) InferSubscriptionExact(ctx context.Context, info *protoinfo.ProtoInfo, composed *graph.ProtocolGraph, base subscription.Subscriptions) subscription.Subscriptions {
	_, span := tracer.Start(ctx, "analysis.infer_subscription_exact")
	defer span.End()

	if base == nil {
		base = make(subscription.Subscriptions)
	}
	start := time.Now()
	subs := subscription.Exact(info, composed, base)
	durationMS := float64(time.Since(start).Milliseconds())
	if e.config.MetricsEnabled {
		observability.RecordCheck("infer_subscription_exact", 0, durationMS)
	}
	span.SetStatus(codes.Ok, "success")
	e.logger.Debug("subscription_inferred", "strategy", "exact", "roles", len(subs))
	return subs
}

// CheckWellFormed checks a composed family against a subscription.
func (e *Engine) CheckWellFormed(ctx context.Context, info *protoinfo.ProtoInfo, composed *graph.ProtocolGraph, subs subscription.Subscriptions) (report *errs.Report, err error) {
	_, span := tracer.Start(ctx, "analysis.check_well_formed")
	defer span.End()

	start := time.Now()
	report = wellformed.Check(info, composed, subs)
	durationMS := float64(time.Since(start).Milliseconds())
	if e.config.MetricsEnabled {
		observability.RecordCheck("check_well_formed", len(report.Errors), durationMS)
	}
	if report.Empty() {
		span.SetStatus(codes.Ok, "well-formed")
	} else {
		span.SetStatus(codes.Error, "well-formedness violations")
	}
	e.logger.Info("well_formed_checked", "errors", len(report.Errors), "duration_ms", durationMS)
	return report, nil
}

// Project projects a single protocol onto a role under a subscription,
// determinizing and (if configured) minimizing the result.
func (e *Engine) Project(ctx context.Context, g *graph.ProtocolGraph, r label.Role, sub label.EventTypeSet) (*graph.MachineGraph, error) {
	_, span := tracer.Start(ctx, "analysis.project", attribute.String("role", string(r)))
	defer span.End()

	start := time.Now()
	nfa := projection.Project(g, r, sub)
	dfa := projection.Determinize(nfa)
	if e.config.MinimizeProjections {
		dfa = projection.Minimize(dfa)
	}
	durationMS := float64(time.Since(start).Milliseconds())
	if e.config.MetricsEnabled {
		observability.RecordCheck("project", 0, durationMS)
	}
	span.SetStatus(codes.Ok, "success")
	e.logger.Debug("projected", "role", string(r), "nodes", len(dfa.Nodes()), "duration_ms", durationMS)
	return dfa, nil
}

// ProjectCombine projects each protocol onto a role and composes the
// results, avoiding construction of the full explicit composition.
func (e *Engine) ProjectCombine(ctx context.Context, protocols []*graph.ProtocolGraph, r label.Role, sub label.EventTypeSet, interfacingPerPair []label.EventTypeSet) (*graph.MachineGraph, error) {
	_, span := tracer.Start(ctx, "analysis.project_combine", attribute.String("role", string(r)))
	defer span.End()

	start := time.Now()
	result := projection.ProjectCombine(protocols, r, sub, interfacingPerPair)
	durationMS := float64(time.Since(start).Milliseconds())
	if e.config.MetricsEnabled {
		observability.RecordCheck("project_combine", 0, durationMS)
	}
	span.SetStatus(codes.Ok, "success")
	e.logger.Debug("project_combined", "role", string(r), "duration_ms", durationMS)
	return result, nil
}

// CheckEquivalent checks two machines for bisimulation-style equivalence,
// typically a hand-written implementation against its derived projection.
func (e *Engine) CheckEquivalent(ctx context.Context, left *graph.MachineGraph, leftInit graph.NodeID, right *graph.MachineGraph, rightInit graph.NodeID) (report *errs.Report, err error) {
	_, span := tracer.Start(ctx, "analysis.check_equivalent")
	defer span.End()

	start := time.Now()
	report = projection.Equivalent(left, leftInit, right, rightInit)
	durationMS := float64(time.Since(start).Milliseconds())
	if e.config.MetricsEnabled {
		observability.RecordCheck("check_equivalent", len(report.Errors), durationMS)
	}
	if report.Empty() {
		span.SetStatus(codes.Ok, "equivalent")
	} else {
		span.SetStatus(codes.Error, "not equivalent")
	}
	e.logger.Info("equivalence_checked", "equivalent", report.Empty(), "duration_ms", durationMS)
	return report, nil
}

// Adapt validates a hand-written machine for role r against the derived
// projection of its own protocol composed with the rest of the family.
func (e *Engine) Adapt(ctx context.Context, userMachine *graph.MachineGraph, ownProtocol *graph.ProtocolGraph, otherProtocols []*graph.ProtocolGraph, r label.Role, sub label.EventTypeSet, branches []label.EventTypeSet, special label.EventTypeSet) (*projection.Info, error) {
	_, span := tracer.Start(ctx, "analysis.adapt", attribute.String("role", string(r)))
	defer span.End()

	start := time.Now()
	info := projection.Adapt(userMachine, ownProtocol, otherProtocols, r, sub, branches, special)
	durationMS := float64(time.Since(start).Milliseconds())
	if e.config.MetricsEnabled {
		observability.RecordCheck("adapt", 0, durationMS)
	}
	span.SetStatus(codes.Ok, "success")
	e.logger.Debug("adapted", "role", string(r), "duration_ms", durationMS)
	return info, nil
}
