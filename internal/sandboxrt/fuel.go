package sandboxrt

import (
	"context"
	"sync/atomic"

	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/experimental"
)

// FuelMeter reports how much fuel a metered run consumed and whether it
// exceeded its budget, once the run completes.
type FuelMeter struct {
	consumed *atomic.Uint64
	exceeded *atomic.Bool
}

// Consumed returns the number of wasm function calls observed so far.
func (m *FuelMeter) Consumed() uint64 {
	return m.consumed.Load()
}

// Exceeded reports whether the budget was exceeded (and the run's context
// was therefore cancelled).
func (m *FuelMeter) Exceeded() bool {
	return m.exceeded.Load()
}

// fuelListenerFactory meters wasm-level function calls as a stand-in for
// wasmtime's native fuel counter, which wazero does not expose. Every
// function entry increments a shared counter; once the budget is exceeded
// the attached cancel func fires, and the engine (configured with
// WithCloseOnContextDone) tears the running guest down the same way it
// would on an external timeout.
//
// Grounded on the FunctionListener hook exercised by riza-io/wazero's
// interpreter tests and wippyai/wasm-runtime's runtime package.
type fuelListenerFactory struct {
	meter  *FuelMeter
	budget uint64
	cancel context.CancelFunc
}

// WithFuel wraps ctx so that wasm function calls made within it are
// metered against budget instructions, cancelling ctx once the budget is
// exceeded. The returned FuelMeter is valid to inspect after the run ends.
func WithFuel(ctx context.Context, budget uint64) (context.Context, *FuelMeter) {
	metered, cancel := context.WithCancel(ctx)
	meter := &FuelMeter{consumed: &atomic.Uint64{}, exceeded: &atomic.Bool{}}
	factory := &fuelListenerFactory{meter: meter, budget: budget, cancel: cancel}
	metered = experimental.WithFunctionListenerFactory(metered, factory)
	return metered, meter
}

func (f *fuelListenerFactory) NewListener(def api.FunctionDefinition) experimental.FunctionListener {
	return &fuelListener{factory: f}
}

type fuelListener struct {
	factory *fuelListenerFactory
}

func (l *fuelListener) Before(ctx context.Context, mod api.Module, def api.FunctionDefinition, params []uint64, stack experimental.StackIterator) context.Context {
	n := l.factory.meter.consumed.Add(1)
	if n > l.factory.budget {
		l.factory.meter.exceeded.Store(true)
		l.factory.cancel()
	}
	return ctx
}

func (l *fuelListener) After(ctx context.Context, mod api.Module, def api.FunctionDefinition, results []uint64) {
}
