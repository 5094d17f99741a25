package runner

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tensorgate/engine-runtime/calldesc"
	"github.com/tensorgate/engine-runtime/dtype"
	"github.com/tensorgate/engine-runtime/engine"
	"github.com/tensorgate/engine-runtime/errors"
	"github.com/tensorgate/engine-runtime/memref"
	"github.com/tensorgate/engine-runtime/registry"
)

// ArgSpec fixes one argument's compile-time properties.
type ArgSpec struct {
	Rank int
	Type dtype.DType
}

// Signature fixes a call site: argument counts and ranks are static, only
// extents vary per invocation.
type Signature struct {
	Inputs  []ArgSpec
	Outputs []ArgSpec
}

// OutputRanks returns the static output ranks in order.
func (s Signature) OutputRanks() []int {
	ranks := make([]int, len(s.Outputs))
	for i, o := range s.Outputs {
		ranks[i] = o.Rank
	}
	return ranks
}

// Runner invokes the loaded engine for one call signature.
type Runner struct {
	reg    *registry.Registry
	sig    Signature
	layout calldesc.Layout
	log    *zap.Logger

	// mu serializes enqueues: one logical invoker per runner, per the
	// shared-stream concurrency policy.
	mu sync.Mutex
}

// New binds a runner to a registry and call signature. The output descriptor
// layout is computed once here; every Invoke reuses it.
func New(reg *registry.Registry, sig Signature) *Runner {
	return &Runner{
		reg:    reg,
		sig:    sig,
		layout: calldesc.NewLayout(sig.OutputRanks()),
		log:    engine.Logger(),
	}
}

// NewGlobal binds a runner to the process-wide registry, failing if the
// global initializer has not completed.
func NewGlobal(sig Signature) (*Runner, error) {
	reg, err := registry.Global()
	if err != nil {
		return nil, err
	}
	return New(reg, sig), nil
}

// Signature returns the call signature the runner was built for.
func (r *Runner) Signature() Signature {
	return r.sig
}

// Invoke executes one call. inputs must match the signature's input count
// and ranks; the returned Tables carry the engine-reported shapes and device
// pointers with row-major strides.
func (r *Runner) Invoke(ctx context.Context, inputs []memref.Table) ([]memref.Table, error) {
	if err := r.checkInputs(inputs); err != nil {
		return nil, err
	}

	rec := calldesc.NewInputRecord()
	defer rec.Release()
	for _, in := range inputs {
		rec.AppendTable(in)
	}

	buf := r.layout.NewBuffer()
	defer buf.Release()

	id := uuid.NewString()
	stream := r.reg.AcquireStream()

	invocationsInFlight.Inc()
	start := time.Now()

	r.mu.Lock()
	err := r.reg.ExecutionContext().Enqueue(ctx, stream, buf.Bytes(), rec.Words())
	r.mu.Unlock()

	elapsed := time.Since(start)
	invocationsInFlight.Dec()
	enqueueDuration.Observe(elapsed.Seconds())

	if err != nil {
		invocationsTotal.WithLabelValues(statusError).Inc()
		r.log.Debug("enqueue failed",
			zap.String("invocation", id),
			zap.Error(err))
		// No retry: the engine's state after a fault is not defined for
		// partial recovery.
		return nil, err
	}

	outputs := make([]memref.Table, r.layout.NumOutputs())
	for i := range outputs {
		desc, err := buf.Record(i)
		if err != nil {
			invocationsTotal.WithLabelValues(statusError).Inc()
			return nil, err
		}
		outputs[i] = desc.Table()
	}

	invocationsTotal.WithLabelValues(statusOK).Inc()
	r.log.Debug("invocation complete",
		zap.String("invocation", id),
		zap.Duration("enqueue", elapsed),
		zap.Int("outputs", len(outputs)))
	return outputs, nil
}

func (r *Runner) checkInputs(inputs []memref.Table) error {
	if len(inputs) != len(r.sig.Inputs) {
		return errors.InvalidInput(errors.PhaseMarshal,
			"got %d inputs, signature has %d", len(inputs), len(r.sig.Inputs))
	}
	for i, in := range inputs {
		if in.Rank() != r.sig.Inputs[i].Rank {
			return errors.RankMismatch(errors.PhaseMarshal, i, r.sig.Inputs[i].Rank, in.Rank())
		}
		if err := in.Validate(); err != nil {
			return errors.InvalidArg(errors.PhaseMarshal, i, "%v", err)
		}
	}
	return nil
}
